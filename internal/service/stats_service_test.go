package service

import (
	"context"
	"testing"
	"time"

	"hexaboard_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounters struct {
	freshers, courses, tasks, pending, active int64
}

func (f *fakeCounters) CountByRole(role model.UserRole) (int64, error) { return f.freshers, nil }
func (f *fakeCounters) CountActiveSince(since time.Time) (int64, error) {
	return f.active, nil
}
func (f *fakeCounters) Count() (int64, error) { return f.courses, nil }

type fakeTaskCounter struct {
	total, pending int64
}

func (f *fakeTaskCounter) Count() (int64, error) { return f.total, nil }
func (f *fakeTaskCounter) CountByStatus(status model.TaskStatus) (int64, error) {
	return f.pending, nil
}

type fakeLoginLogs struct {
	logs []model.LoginLog
}

func (f *fakeLoginLogs) ListRecent(limit int) ([]model.LoginLog, error) {
	if len(f.logs) > limit {
		return f.logs[:limit], nil
	}
	return f.logs, nil
}

func TestDashboardWithoutCache(t *testing.T) {
	counters := &fakeCounters{freshers: 12, courses: 30, active: 7}
	tasks := &fakeTaskCounter{total: 9, pending: 4}
	svc := NewStatsService(counters, counters, tasks, &fakeLoginLogs{}, nil)

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.TotalFreshers)
	assert.Equal(t, int64(30), stats.TotalCourses)
	assert.Equal(t, int64(9), stats.TotalTasks)
	assert.Equal(t, int64(4), stats.PendingTasks)
	assert.Equal(t, int64(7), stats.ActiveUsers24h)
}

func TestForFresher(t *testing.T) {
	svc := NewStatsService(nil, nil, nil, nil, nil)

	courses := []model.CourseAssignment{
		{Progress: 100, Completed: true},
		{Progress: 50},
		{Progress: 0},
	}
	tasks := []model.AssignmentTask{
		{Status: model.TaskPending},
		{Status: model.TaskCompleted},
	}

	dash := svc.ForFresher(courses, tasks)
	assert.Equal(t, 3, dash.TotalCourses)
	assert.Equal(t, 1, dash.CompletedCourses)
	assert.Equal(t, 50, dash.AverageProgress)
	assert.Equal(t, 1, dash.PendingTasks)
}

func TestForFresherEmpty(t *testing.T) {
	svc := NewStatsService(nil, nil, nil, nil, nil)
	dash := svc.ForFresher(nil, nil)
	assert.Equal(t, 0, dash.TotalCourses)
	assert.Equal(t, 0, dash.AverageProgress)
}

func TestRecentLoginsClampsLimit(t *testing.T) {
	logs := &fakeLoginLogs{logs: make([]model.LoginLog, 100)}
	svc := NewStatsService(nil, nil, nil, logs, nil)

	out, err := svc.RecentLogins(0)
	require.NoError(t, err)
	assert.Len(t, out, 50)
}
