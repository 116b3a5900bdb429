package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hexaboard_backend/internal/model"
	"hexaboard_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Completer is the generative text fallback; satisfied by AIService.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ChatStore persists and replays assistant conversations; satisfied by
// repository.ChatRepository.
type ChatStore interface {
	Save(msg *model.ChatMessage) error
	History(fresherID string, limit int) ([]model.ChatMessage, error)
}

// ChatbotContext is the slice of the data model the scripted responses
// draw on.
type ChatbotContext interface {
	FindByID(id string) (*model.User, error)
}

type DepartmentLookup interface {
	FindByID(id string) (*model.Department, error)
}

const apologyReply = "I'm having trouble connecting to the AI right now. Please try again in a moment."

type ChatbotService struct {
	Chat    ChatStore
	Courses CourseStore
	Tasks   TaskStore
	Users   ChatbotContext
	Depts   DepartmentLookup
	AI      Completer
}

func NewChatbotService(chat ChatStore, courses CourseStore, tasks TaskStore, users ChatbotContext, depts DepartmentLookup, ai Completer) *ChatbotService {
	return &ChatbotService{Chat: chat, Courses: courses, Tasks: tasks, Users: users, Depts: depts, AI: ai}
}

// Respond records the fresher's message, produces a reply (scripted rules
// first, generative fallback second) and records that too. The generative
// backend failing degrades to a canned apology, never an error.
func (s *ChatbotService) Respond(ctx context.Context, fresherID, userName, text string) (*model.ChatMessage, error) {
	if err := s.Chat.Save(&model.ChatMessage{
		FresherID: fresherID,
		Text:      text,
		Sender:    model.SenderUser,
		UserName:  userName,
	}); err != nil {
		return nil, err
	}

	reply := s.scriptedReply(fresherID, text)
	if reply == "" {
		var err error
		reply, err = s.AI.Complete(ctx, text)
		if err != nil {
			logger.Log.Warn("generative backend unavailable, using canned reply",
				zap.String("fresherId", fresherID), zap.Error(err))
			reply = apologyReply
		}
	}

	botMsg := &model.ChatMessage{
		FresherID: fresherID,
		Text:      reply,
		Sender:    model.SenderBot,
		UserName:  "HexaBot",
	}
	if err := s.Chat.Save(botMsg); err != nil {
		return nil, err
	}
	return botMsg, nil
}

// scriptedReply classifies the message against the fresher's own data and
// returns a canned contextual answer, or "" when no rule matches.
func (s *ChatbotService) scriptedReply(fresherID, text string) string {
	lower := strings.ToLower(text)

	courses, err := s.Courses.ListByFresher(fresherID)
	if err != nil {
		logger.Log.Error("chatbot failed to load courses",
			zap.String("fresherId", fresherID), zap.Error(err))
		courses = nil
	}

	var active, completed []model.CourseAssignment
	for _, course := range courses {
		if course.Status == model.CourseCompleted {
			completed = append(completed, course)
		} else {
			active = append(active, course)
		}
	}

	switch {
	case containsAny(lower, "course", "lesson", "module"):
		if len(courses) == 0 {
			return "You don't have any courses assigned yet. Please contact your administrator to get started with your learning journey!"
		}
		if containsAny(lower, "progress", "how much") {
			total := 0
			for _, course := range courses {
				total += course.Progress
			}
			avg := total / len(courses)
			return fmt.Sprintf("You have %d courses total. %d are active and %d are completed. Your average progress across all courses is %d%%. Keep up the great work!",
				len(courses), len(active), len(completed), avg)
		}
		if containsAny(lower, "active", "current") {
			if len(active) == 0 {
				return "You don't have any active courses at the moment. All your courses are completed."
			}
			var sb strings.Builder
			for _, course := range active {
				fmt.Fprintf(&sb, "- %s (%d%% complete)\n", course.Title, course.Progress)
			}
			return fmt.Sprintf("Here are your active courses:\n%s\nYou can continue learning in the \"My Courses\" section!", sb.String())
		}
		return fmt.Sprintf("You have %d courses assigned. %d are currently active. You can view all your courses in the \"My Courses\" tab and track your progress there.",
			len(courses), len(active))

	case containsAny(lower, "assignment", "homework", "task"):
		pending := 0
		if tasks, err := s.Tasks.ListByFresher(fresherID); err == nil {
			for _, task := range tasks {
				if task.Status == model.TaskPending {
					pending++
				}
			}
		}
		if pending == 0 {
			return "Great news! You don't have any pending assignments. All your active courses are up to date."
		}
		return fmt.Sprintf("You have %d pending assignments. Check your dashboard to see which assessments are due. Remember to complete them before their due dates!", pending)

	case containsAny(lower, "progress", "performance", "how am i doing"):
		if len(courses) == 0 {
			return "I don't have enough data to show your progress yet. Start completing lessons and I'll be able to track your learning journey!"
		}
		total := 0
		for _, course := range courses {
			total += course.Progress
		}
		avg := total / len(courses)
		return fmt.Sprintf("Your average progress across %d courses is %d%%. You're making great progress! Keep up the consistent learning.", len(courses), avg)

	case containsAny(lower, "department", "team"):
		user, err := s.Users.FindByID(fresherID)
		if err != nil || user.DepartmentID == nil {
			return ""
		}
		dept, err := s.Depts.FindByID(*user.DepartmentID)
		if err != nil {
			return ""
		}
		desc := dept.Description
		if desc == "" {
			desc = "This department focuses on specialized training and development."
		}
		return fmt.Sprintf("You're part of the %s department. %s", dept.Name, desc)

	case containsAny(lower, "help", "what can you do"):
		return "I'm your learning assistant! I can help you with:\n\n" +
			"- Course information: ask about your courses, progress, and assignments\n" +
			"- Progress tracking: get updates on your learning performance\n" +
			"- Learning tips: receive guidance on effective learning strategies\n\n" +
			"Just ask me anything about your learning journey!"
	}

	return ""
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func (s *ChatbotService) History(fresherID string, limit int) ([]model.ChatMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.Chat.History(fresherID, limit)
}

type ChatTopics struct {
	Course     int `json:"course"`
	Assignment int `json:"assignment"`
	Progress   int `json:"progress"`
	Technical  int `json:"technical"`
	General    int `json:"general"`
}

type ChatAnalytics struct {
	TotalMessages   int        `json:"totalMessages"`
	UserMessages    int        `json:"userMessages"`
	BotMessages     int        `json:"botMessages"`
	Topics          ChatTopics `json:"topics"`
	LastInteraction *time.Time `json:"lastInteraction"`
}

// Analytics classifies the fresher's recent messages by topic for the
// admin console.
func (s *ChatbotService) Analytics(fresherID string) (*ChatAnalytics, error) {
	messages, err := s.Chat.History(fresherID, 100)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}

	analytics := &ChatAnalytics{TotalMessages: len(messages)}
	for _, msg := range messages {
		if msg.Sender == model.SenderBot {
			analytics.BotMessages++
			continue
		}
		analytics.UserMessages++

		lower := strings.ToLower(msg.Text)
		switch {
		case containsAny(lower, "course", "lesson", "module"):
			analytics.Topics.Course++
		case containsAny(lower, "assignment", "homework"):
			analytics.Topics.Assignment++
		case containsAny(lower, "progress", "performance"):
			analytics.Topics.Progress++
		case containsAny(lower, "error", "problem", "issue"):
			analytics.Topics.Technical++
		default:
			analytics.Topics.General++
		}
	}

	if len(messages) > 0 {
		last := messages[len(messages)-1].CreatedAt
		analytics.LastInteraction = &last
	}

	return analytics, nil
}
