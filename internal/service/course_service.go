package service

import (
	"fmt"
	"math"
	"time"

	"hexaboard_backend/internal/model"
	"hexaboard_backend/internal/util"
	"hexaboard_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CourseStore is the persistence surface for course assignments; satisfied
// by repository.CourseRepository.
type CourseStore interface {
	Create(course *model.CourseAssignment) error
	CreateBatch(courses []*model.CourseAssignment) error
	FindByFresher(fresherID, courseID string) (*model.CourseAssignment, error)
	ListByFresher(fresherID string) ([]model.CourseAssignment, error)
	UpdateProgress(fresherID, courseID string, index, progress int, completed bool) error
	ResetAllForFresher(fresherID string) error
	Delete(fresherID, courseID string) error
}

// TaskStore creates and lists the assessment tasks unlocked by course
// completion; satisfied by repository.AssignmentRepository.
type TaskStore interface {
	CreateIfAbsent(task *model.AssignmentTask) (bool, error)
	ListByFresher(fresherID string) ([]model.AssignmentTask, error)
}

// MemberDirectory resolves assignment targets; satisfied by
// repository.UserRepository.
type MemberDirectory interface {
	FindByID(id string) (*model.User, error)
	ListFreshersByDepartment(departmentID string) ([]model.User, error)
}

type CourseService struct {
	Courses CourseStore
	Tasks   TaskStore
	Users   MemberDirectory
}

func NewCourseService(courses CourseStore, tasks TaskStore, users MemberDirectory) *CourseService {
	return &CourseService{Courses: courses, Tasks: tasks, Users: users}
}

// assessmentDueIn is how long a fresher gets for the task unlocked by
// finishing a course.
const assessmentDueIn = 7 * 24 * time.Hour

// CourseDraft is a fully-resolved course definition: every lecture already
// carries a stable video URL. Media upload happens before the draft reaches
// this service.
type CourseDraft struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Instructor   string          `json:"instructor"`
	ThumbnailURL string          `json:"thumbnailUrl"`
	Lectures     []model.Lecture `json:"lectures"`
}

type AssignMode string

const (
	AssignIndividual AssignMode = "individual"
	AssignDepartment AssignMode = "department"
)

type AssignTarget struct {
	Mode AssignMode `json:"mode"`
	ID   string     `json:"id"`
}

type AssignResult struct {
	AssignedCount int      `json:"assignedCount"`
	CourseIDs     []string `json:"courseIds"`
}

func (s *CourseService) validateDraft(draft *CourseDraft) error {
	if draft.Title == "" {
		return fmt.Errorf("course title is required")
	}
	// A course with no lectures has undefined progress; creation is
	// rejected rather than papered over.
	if len(draft.Lectures) == 0 {
		return util.ErrNoLectures
	}
	for i, lecture := range draft.Lectures {
		if lecture.VideoURL == "" {
			return fmt.Errorf("lecture %d (%s) has no video URL", i, lecture.Title)
		}
	}
	return nil
}

func (s *CourseService) newAssignment(draft *CourseDraft, fresherID string, byDepartment *string) *model.CourseAssignment {
	return &model.CourseAssignment{
		FresherID:            fresherID,
		Title:                draft.Title,
		Description:          draft.Description,
		Instructor:           draft.Instructor,
		ThumbnailURL:         draft.ThumbnailURL,
		Lectures:             draft.Lectures,
		Status:               model.CourseActive,
		Progress:             0,
		CurrentLectureIndex:  0,
		Completed:            false,
		AssignedByDepartment: byDepartment,
	}
}

// Assign attaches the course to one fresher or to every member of a
// department. Department mode writes all assignments in one transaction and
// fails fast when the department has no members.
func (s *CourseService) Assign(draft *CourseDraft, target AssignTarget) (*AssignResult, error) {
	if err := s.validateDraft(draft); err != nil {
		return nil, err
	}

	switch target.Mode {
	case AssignIndividual:
		if _, err := s.Users.FindByID(target.ID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, util.ErrUserNotFound
			}
			return nil, err
		}
		course := s.newAssignment(draft, target.ID, nil)
		if err := s.Courses.Create(course); err != nil {
			return nil, err
		}
		return &AssignResult{AssignedCount: 1, CourseIDs: []string{course.ID}}, nil

	case AssignDepartment:
		members, err := s.Users.ListFreshersByDepartment(target.ID)
		if err != nil {
			return nil, err
		}
		if len(members) == 0 {
			return nil, util.ErrNoFreshersInDept
		}

		deptID := target.ID
		courses := make([]*model.CourseAssignment, 0, len(members))
		for _, member := range members {
			courses = append(courses, s.newAssignment(draft, member.ID, &deptID))
		}
		if err := s.Courses.CreateBatch(courses); err != nil {
			return nil, err
		}

		ids := make([]string, len(courses))
		for i, course := range courses {
			ids[i] = course.ID
		}
		logger.Log.Info("course assigned to department",
			zap.String("departmentId", deptID),
			zap.Int("assigned", len(courses)))
		return &AssignResult{AssignedCount: len(courses), CourseIDs: ids}, nil

	default:
		return nil, fmt.Errorf("unknown assignment mode %q", target.Mode)
	}
}

// ComputeProgress derives the completion percentage from the 0-based
// lecture position: min(100, round(100*(index+1)/total)).
func ComputeProgress(index, total int) int {
	if total <= 0 {
		return 0
	}
	progress := int(math.Round(100 * float64(index+1) / float64(total)))
	if progress > 100 {
		progress = 100
	}
	return progress
}

type ProgressState struct {
	Progress  int  `json:"progress"`
	Completed bool `json:"completed"`
}

// AdvanceLecture moves the fresher's position within a course and rewrites
// position, derived progress and completion in one per-row update. Reaching
// the last lecture completes the course and unlocks its assessment task.
// Completed courses are terminal; they are never advanced or re-opened.
func (s *CourseService) AdvanceLecture(fresherID, courseID string, newIndex int) (*ProgressState, error) {
	course, err := s.Courses.FindByFresher(fresherID, courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if newIndex < 0 || newIndex >= len(course.Lectures) {
		return nil, util.ErrLectureOutOfRange
	}
	if course.Completed {
		return &ProgressState{Progress: 100, Completed: true}, nil
	}

	progress := ComputeProgress(newIndex, len(course.Lectures))
	completed := progress == 100

	if err := s.Courses.UpdateProgress(fresherID, courseID, newIndex, progress, completed); err != nil {
		return nil, err
	}

	if completed {
		if err := s.unlockAssessment(course); err != nil {
			return nil, err
		}
	}

	return &ProgressState{Progress: progress, Completed: completed}, nil
}

// FinishCourse is the terminal transition: position jumps to the last
// lecture, progress to 100, and exactly one pending assessment task is
// unlocked. Finishing an already-finished course is a no-op that reports
// the terminal state, so retries after a partial failure converge.
func (s *CourseService) FinishCourse(fresherID, courseID string) (*ProgressState, error) {
	course, err := s.Courses.FindByFresher(fresherID, courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if len(course.Lectures) == 0 {
		return nil, util.ErrNoLectures
	}

	lastIndex := len(course.Lectures) - 1
	if err := s.Courses.UpdateProgress(fresherID, courseID, lastIndex, 100, true); err != nil {
		return nil, err
	}

	if err := s.unlockAssessment(course); err != nil {
		return nil, err
	}

	return &ProgressState{Progress: 100, Completed: true}, nil
}

func (s *CourseService) unlockAssessment(course *model.CourseAssignment) error {
	due := time.Now().Add(assessmentDueIn)
	created, err := s.Tasks.CreateIfAbsent(&model.AssignmentTask{
		FresherID:   course.FresherID,
		CourseID:    course.ID,
		CourseTitle: course.Title,
		Status:      model.TaskPending,
		DueDate:     &due,
	})
	if err != nil {
		return err
	}
	if created {
		logger.Log.Info("assessment task unlocked",
			zap.String("fresherId", course.FresherID),
			zap.String("courseId", course.ID))
	}
	return nil
}

func (s *CourseService) CoursesForFresher(fresherID string) ([]model.CourseAssignment, error) {
	return s.Courses.ListByFresher(fresherID)
}

func (s *CourseService) Get(fresherID, courseID string) (*model.CourseAssignment, error) {
	course, err := s.Courses.FindByFresher(fresherID, courseID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrCourseNotFound
	}
	return course, err
}

func (s *CourseService) TasksForFresher(fresherID string) ([]model.AssignmentTask, error) {
	return s.Tasks.ListByFresher(fresherID)
}

// Delete removes exactly the one course assignment. Department membership
// is per-fresher, not per-course, so member counts are untouched.
func (s *CourseService) Delete(fresherID, courseID string) error {
	err := s.Courses.Delete(fresherID, courseID)
	if err == gorm.ErrRecordNotFound {
		return util.ErrCourseNotFound
	}
	return err
}

// ResetProgress zeroes every course the fresher owns, unconditionally.
func (s *CourseService) ResetProgress(fresherID string) error {
	return s.Courses.ResetAllForFresher(fresherID)
}
