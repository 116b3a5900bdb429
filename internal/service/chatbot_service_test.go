package service

import (
	"context"
	"errors"
	"testing"

	"hexaboard_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeChatStore struct {
	messages []model.ChatMessage
}

func (f *fakeChatStore) Save(msg *model.ChatMessage) error {
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeChatStore) History(fresherID string, limit int) ([]model.ChatMessage, error) {
	var out []model.ChatMessage
	for _, msg := range f.messages {
		if msg.FresherID == fresherID {
			out = append(out, msg)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type fakeCompleter struct {
	reply string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.reply, f.err
}

type fakeChatUsers struct {
	users map[string]*model.User
}

func (f *fakeChatUsers) FindByID(id string) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

type fakeChatDepts struct {
	depts map[string]*model.Department
}

func (f *fakeChatDepts) FindByID(id string) (*model.Department, error) {
	dept, ok := f.depts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return dept, nil
}

func newChatbotFixture() (*ChatbotService, *fakeChatStore, *fakeCourseStore, *fakeTaskStore, *fakeCompleter) {
	chat := &fakeChatStore{}
	courses := newFakeCourseStore()
	tasks := newFakeTaskStore()
	ai := &fakeCompleter{reply: "Generated answer."}
	deptID := "dept-qa"
	users := &fakeChatUsers{users: map[string]*model.User{
		"f1": {UUIDBase: model.UUIDBase{ID: "f1"}, DepartmentID: &deptID},
	}}
	depts := &fakeChatDepts{depts: map[string]*model.Department{
		"dept-qa": {UUIDBase: model.UUIDBase{ID: "dept-qa"}, Name: "QA", Description: "Quality assurance."},
	}}
	svc := NewChatbotService(chat, courses, tasks, users, depts, ai)
	return svc, chat, courses, tasks, ai
}

func TestRespondCourseTopic(t *testing.T) {
	svc, chat, courses, _, ai := newChatbotFixture()
	courses.Create(&model.CourseAssignment{
		FresherID: "f1",
		Title:     "Go Basics",
		Status:    model.CourseActive,
		Progress:  50,
		Lectures:  lectures(2),
	})

	reply, err := svc.Respond(context.Background(), "f1", "Ana", "how many courses do I have?")
	require.NoError(t, err)
	assert.Equal(t, model.SenderBot, reply.Sender)
	assert.Contains(t, reply.Text, "1 courses")
	assert.Zero(t, ai.calls, "scripted topics never reach the generative backend")

	require.Len(t, chat.messages, 2)
	assert.Equal(t, model.SenderUser, chat.messages[0].Sender)
	assert.Equal(t, "Ana", chat.messages[0].UserName)
}

func TestRespondNoCoursesYet(t *testing.T) {
	svc, _, _, _, _ := newChatbotFixture()

	reply, err := svc.Respond(context.Background(), "f1", "Ana", "show me my courses")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "don't have any courses assigned yet")
}

func TestRespondAssignmentTopic(t *testing.T) {
	svc, _, _, tasks, _ := newChatbotFixture()
	tasks.CreateIfAbsent(&model.AssignmentTask{
		FresherID: "f1",
		CourseID:  "c1",
		Status:    model.TaskPending,
	})

	reply, err := svc.Respond(context.Background(), "f1", "Ana", "any pending assignments?")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "1 pending assignments")
}

func TestRespondDepartmentTopic(t *testing.T) {
	svc, _, _, _, _ := newChatbotFixture()

	reply, err := svc.Respond(context.Background(), "f1", "Ana", "tell me about my team")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "QA")
	assert.Contains(t, reply.Text, "Quality assurance.")
}

func TestRespondFallsBackToAI(t *testing.T) {
	svc, _, _, _, ai := newChatbotFixture()

	reply, err := svc.Respond(context.Background(), "f1", "Ana", "what's the office wifi password?")
	require.NoError(t, err)
	assert.Equal(t, "Generated answer.", reply.Text)
	assert.Equal(t, 1, ai.calls)
}

func TestRespondDegradesWhenAIUnavailable(t *testing.T) {
	svc, chat, _, _, ai := newChatbotFixture()
	ai.err = errors.New("connection refused")
	ai.reply = ""

	reply, err := svc.Respond(context.Background(), "f1", "Ana", "random unrelated question")
	require.NoError(t, err, "generative failure must degrade, not error")
	assert.Equal(t, apologyReply, reply.Text)

	// Both sides of the exchange are still persisted.
	require.Len(t, chat.messages, 2)
	assert.Equal(t, apologyReply, chat.messages[1].Text)
}

func TestAnalytics(t *testing.T) {
	svc, chat, _, _, _ := newChatbotFixture()

	for _, text := range []string{
		"tell me about my course",
		"any homework due?",
		"how is my progress",
		"I have an error with login",
		"hello there",
	} {
		chat.Save(&model.ChatMessage{FresherID: "f1", Text: text, Sender: model.SenderUser})
		chat.Save(&model.ChatMessage{FresherID: "f1", Text: "reply", Sender: model.SenderBot})
	}

	analytics, err := svc.Analytics("f1")
	require.NoError(t, err)
	assert.Equal(t, 10, analytics.TotalMessages)
	assert.Equal(t, 5, analytics.UserMessages)
	assert.Equal(t, 5, analytics.BotMessages)
	assert.Equal(t, 1, analytics.Topics.Course)
	assert.Equal(t, 1, analytics.Topics.Assignment)
	assert.Equal(t, 1, analytics.Topics.Progress)
	assert.Equal(t, 1, analytics.Topics.Technical)
	assert.Equal(t, 1, analytics.Topics.General)
	assert.NotNil(t, analytics.LastInteraction)
}
