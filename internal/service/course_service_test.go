package service

import (
	"fmt"
	"testing"

	"hexaboard_backend/internal/model"
	"hexaboard_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeCourseStore struct {
	courses map[string]*model.CourseAssignment
	nextID  int
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{courses: make(map[string]*model.CourseAssignment)}
}

func (f *fakeCourseStore) key(fresherID, courseID string) string {
	return fresherID + "/" + courseID
}

func (f *fakeCourseStore) Create(course *model.CourseAssignment) error {
	f.nextID++
	if course.ID == "" {
		course.ID = fmt.Sprintf("course-%d", f.nextID)
	}
	f.courses[f.key(course.FresherID, course.ID)] = course
	return nil
}

func (f *fakeCourseStore) CreateBatch(courses []*model.CourseAssignment) error {
	for _, course := range courses {
		if err := f.Create(course); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeCourseStore) FindByFresher(fresherID, courseID string) (*model.CourseAssignment, error) {
	course, ok := f.courses[f.key(fresherID, courseID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *course
	return &copied, nil
}

func (f *fakeCourseStore) ListByFresher(fresherID string) ([]model.CourseAssignment, error) {
	var out []model.CourseAssignment
	for _, course := range f.courses {
		if course.FresherID == fresherID {
			out = append(out, *course)
		}
	}
	return out, nil
}

func (f *fakeCourseStore) UpdateProgress(fresherID, courseID string, index, progress int, completed bool) error {
	course, ok := f.courses[f.key(fresherID, courseID)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	course.CurrentLectureIndex = index
	course.Progress = progress
	course.Completed = completed
	if completed {
		course.Status = model.CourseCompleted
	}
	return nil
}

func (f *fakeCourseStore) ResetAllForFresher(fresherID string) error {
	for _, course := range f.courses {
		if course.FresherID == fresherID {
			course.CurrentLectureIndex = 0
			course.Progress = 0
			course.Completed = false
			course.Status = model.CourseActive
		}
	}
	return nil
}

func (f *fakeCourseStore) Delete(fresherID, courseID string) error {
	k := f.key(fresherID, courseID)
	if _, ok := f.courses[k]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.courses, k)
	return nil
}

type fakeTaskStore struct {
	tasks map[string]*model.AssignmentTask
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[string]*model.AssignmentTask)}
}

func (f *fakeTaskStore) CreateIfAbsent(task *model.AssignmentTask) (bool, error) {
	k := task.FresherID + "/" + task.CourseID
	if _, ok := f.tasks[k]; ok {
		return false, nil
	}
	f.tasks[k] = task
	return true, nil
}

func (f *fakeTaskStore) ListByFresher(fresherID string) ([]model.AssignmentTask, error) {
	var out []model.AssignmentTask
	for _, task := range f.tasks {
		if task.FresherID == fresherID {
			out = append(out, *task)
		}
	}
	return out, nil
}

type fakeDirectory struct {
	users   map[string]*model.User
	members map[string][]model.User
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		users:   make(map[string]*model.User),
		members: make(map[string][]model.User),
	}
}

func (f *fakeDirectory) FindByID(id string) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeDirectory) ListFreshersByDepartment(departmentID string) ([]model.User, error) {
	return f.members[departmentID], nil
}

func newCourseFixture() (*CourseService, *fakeCourseStore, *fakeTaskStore, *fakeDirectory) {
	courses := newFakeCourseStore()
	tasks := newFakeTaskStore()
	users := newFakeDirectory()
	return NewCourseService(courses, tasks, users), courses, tasks, users
}

func lectures(n int) []model.Lecture {
	out := make([]model.Lecture, n)
	for i := range out {
		out[i] = model.Lecture{
			Title:    fmt.Sprintf("Lecture %d", i+1),
			VideoURL: fmt.Sprintf("/uploads/lectures/%d.mp4", i+1),
		}
	}
	return out
}

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		index, total, want int
	}{
		{0, 1, 100},
		{0, 3, 33},
		{1, 3, 67},
		{2, 3, 100},
		{0, 4, 25},
		{3, 8, 50},
		{5, 7, 86},
		{9, 10, 100},
		{0, 0, 0},
	}
	for _, tt := range tests {
		got := ComputeProgress(tt.index, tt.total)
		assert.Equalf(t, tt.want, got, "index=%d total=%d", tt.index, tt.total)
	}
}

func TestAssignIndividual(t *testing.T) {
	svc, store, _, users := newCourseFixture()
	users.users["f1"] = &model.User{UUIDBase: model.UUIDBase{ID: "f1"}, Role: model.Fresher}

	draft := &CourseDraft{Title: "Go Basics", Lectures: lectures(3)}
	result, err := svc.Assign(draft, AssignTarget{Mode: AssignIndividual, ID: "f1"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.AssignedCount)

	course, err := store.FindByFresher("f1", result.CourseIDs[0])
	require.NoError(t, err)
	assert.Equal(t, model.CourseActive, course.Status)
	assert.Equal(t, 0, course.Progress)
	assert.False(t, course.Completed)
	assert.Nil(t, course.AssignedByDepartment)
}

func TestAssignIndividualUnknownFresher(t *testing.T) {
	svc, _, _, _ := newCourseFixture()

	draft := &CourseDraft{Title: "Go Basics", Lectures: lectures(1)}
	_, err := svc.Assign(draft, AssignTarget{Mode: AssignIndividual, ID: "missing"})
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestAssignDepartment(t *testing.T) {
	svc, store, _, users := newCourseFixture()
	users.members["d1"] = []model.User{
		{UUIDBase: model.UUIDBase{ID: "f1"}},
		{UUIDBase: model.UUIDBase{ID: "f2"}},
		{UUIDBase: model.UUIDBase{ID: "f3"}},
	}

	draft := &CourseDraft{Title: "Security Onboarding", Lectures: lectures(2)}
	result, err := svc.Assign(draft, AssignTarget{Mode: AssignDepartment, ID: "d1"})
	require.NoError(t, err)
	assert.Equal(t, 3, result.AssignedCount)

	for _, course := range store.courses {
		require.NotNil(t, course.AssignedByDepartment)
		assert.Equal(t, "d1", *course.AssignedByDepartment)
	}
}

func TestAssignDepartmentNoMembers(t *testing.T) {
	svc, store, _, _ := newCourseFixture()

	draft := &CourseDraft{Title: "Security Onboarding", Lectures: lectures(2)}
	_, err := svc.Assign(draft, AssignTarget{Mode: AssignDepartment, ID: "empty"})
	assert.ErrorIs(t, err, util.ErrNoFreshersInDept)
	assert.Empty(t, store.courses)
}

func TestAssignRejectsEmptyLectures(t *testing.T) {
	svc, _, _, users := newCourseFixture()
	users.users["f1"] = &model.User{UUIDBase: model.UUIDBase{ID: "f1"}}

	draft := &CourseDraft{Title: "Empty Course"}
	_, err := svc.Assign(draft, AssignTarget{Mode: AssignIndividual, ID: "f1"})
	assert.ErrorIs(t, err, util.ErrNoLectures)
}

func TestAdvanceLecture(t *testing.T) {
	svc, store, tasks, users := newCourseFixture()
	users.users["f1"] = &model.User{UUIDBase: model.UUIDBase{ID: "f1"}}

	draft := &CourseDraft{Title: "Go Basics", Lectures: lectures(3)}
	result, err := svc.Assign(draft, AssignTarget{Mode: AssignIndividual, ID: "f1"})
	require.NoError(t, err)
	courseID := result.CourseIDs[0]

	state, err := svc.AdvanceLecture("f1", courseID, 1)
	require.NoError(t, err)
	assert.Equal(t, 67, state.Progress)
	assert.False(t, state.Completed)
	assert.Empty(t, tasks.tasks)

	state, err = svc.AdvanceLecture("f1", courseID, 2)
	require.NoError(t, err)
	assert.Equal(t, 100, state.Progress)
	assert.True(t, state.Completed)
	assert.Len(t, tasks.tasks, 1)

	course, err := store.FindByFresher("f1", courseID)
	require.NoError(t, err)
	assert.Equal(t, model.CourseCompleted, course.Status)
}

func TestAdvanceLectureOutOfRange(t *testing.T) {
	svc, _, _, users := newCourseFixture()
	users.users["f1"] = &model.User{UUIDBase: model.UUIDBase{ID: "f1"}}

	draft := &CourseDraft{Title: "Go Basics", Lectures: lectures(3)}
	result, err := svc.Assign(draft, AssignTarget{Mode: AssignIndividual, ID: "f1"})
	require.NoError(t, err)

	_, err = svc.AdvanceLecture("f1", result.CourseIDs[0], 3)
	assert.ErrorIs(t, err, util.ErrLectureOutOfRange)

	_, err = svc.AdvanceLecture("f1", result.CourseIDs[0], -1)
	assert.ErrorIs(t, err, util.ErrLectureOutOfRange)
}

func TestAdvanceCompletedCourseIsTerminal(t *testing.T) {
	svc, store, _, users := newCourseFixture()
	users.users["f1"] = &model.User{UUIDBase: model.UUIDBase{ID: "f1"}}

	draft := &CourseDraft{Title: "Go Basics", Lectures: lectures(2)}
	result, err := svc.Assign(draft, AssignTarget{Mode: AssignIndividual, ID: "f1"})
	require.NoError(t, err)
	courseID := result.CourseIDs[0]

	_, err = svc.FinishCourse("f1", courseID)
	require.NoError(t, err)

	state, err := svc.AdvanceLecture("f1", courseID, 0)
	require.NoError(t, err)
	assert.Equal(t, 100, state.Progress)
	assert.True(t, state.Completed)

	course, err := store.FindByFresher("f1", courseID)
	require.NoError(t, err)
	assert.Equal(t, len(course.Lectures)-1, course.CurrentLectureIndex)
}

func TestFinishCourseIdempotent(t *testing.T) {
	svc, _, tasks, users := newCourseFixture()
	users.users["f1"] = &model.User{UUIDBase: model.UUIDBase{ID: "f1"}}

	draft := &CourseDraft{Title: "Go Basics", Lectures: lectures(3)}
	result, err := svc.Assign(draft, AssignTarget{Mode: AssignIndividual, ID: "f1"})
	require.NoError(t, err)
	courseID := result.CourseIDs[0]

	first, err := svc.FinishCourse("f1", courseID)
	require.NoError(t, err)
	second, err := svc.FinishCourse("f1", courseID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, tasks.tasks, 1, "finishing twice must unlock exactly one task")
}

func TestFinishCourseNotFound(t *testing.T) {
	svc, _, _, _ := newCourseFixture()
	_, err := svc.FinishCourse("f1", "missing")
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestResetProgress(t *testing.T) {
	svc, store, _, users := newCourseFixture()
	users.users["f1"] = &model.User{UUIDBase: model.UUIDBase{ID: "f1"}}

	draft := &CourseDraft{Title: "Go Basics", Lectures: lectures(2)}
	result, err := svc.Assign(draft, AssignTarget{Mode: AssignIndividual, ID: "f1"})
	require.NoError(t, err)
	courseID := result.CourseIDs[0]

	_, err = svc.FinishCourse("f1", courseID)
	require.NoError(t, err)

	require.NoError(t, svc.ResetProgress("f1"))

	course, err := store.FindByFresher("f1", courseID)
	require.NoError(t, err)
	assert.Equal(t, 0, course.Progress)
	assert.False(t, course.Completed)
	assert.Equal(t, model.CourseActive, course.Status)
}
