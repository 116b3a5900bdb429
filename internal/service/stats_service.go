package service

import (
	"context"
	"encoding/json"
	"time"

	"hexaboard_backend/internal/model"
	"hexaboard_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// UserCounter exposes the aggregate user queries the admin dashboard needs;
// satisfied by repository.UserRepository.
type UserCounter interface {
	CountByRole(role model.UserRole) (int64, error)
	CountActiveSince(since time.Time) (int64, error)
}

type CourseCounter interface {
	Count() (int64, error)
}

type TaskCounter interface {
	Count() (int64, error)
	CountByStatus(status model.TaskStatus) (int64, error)
}

type LoginLogLister interface {
	ListRecent(limit int) ([]model.LoginLog, error)
}

type StatsService struct {
	Users   UserCounter
	Courses CourseCounter
	Tasks   TaskCounter
	Logs    LoginLogLister
	Redis   *redis.Client
}

func NewStatsService(users UserCounter, courses CourseCounter, tasks TaskCounter, logs LoginLogLister, rdb *redis.Client) *StatsService {
	return &StatsService{Users: users, Courses: courses, Tasks: tasks, Logs: logs, Redis: rdb}
}

const (
	dashboardCacheKey = "stats:dashboard"
	dashboardCacheTTL = 30 * time.Second
	activeWindow      = 24 * time.Hour
)

type DashboardStats struct {
	TotalFreshers   int64 `json:"totalFreshers"`
	TotalCourses    int64 `json:"totalCourses"`
	TotalTasks      int64 `json:"totalTasks"`
	PendingTasks    int64 `json:"pendingTasks"`
	ActiveUsers24h  int64 `json:"activeUsers24h"`
	GeneratedAtUnix int64 `json:"generatedAt"`
}

// Dashboard returns the admin overview counts. Counts are recomputed at most
// every 30 seconds; in between, the cached snapshot is served.
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, dashboardCacheKey).Result(); err == nil {
			var stats DashboardStats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	stats := &DashboardStats{GeneratedAtUnix: time.Now().Unix()}

	var err error
	if stats.TotalFreshers, err = s.Users.CountByRole(model.Fresher); err != nil {
		return nil, err
	}
	if stats.TotalCourses, err = s.Courses.Count(); err != nil {
		return nil, err
	}
	if stats.TotalTasks, err = s.Tasks.Count(); err != nil {
		return nil, err
	}
	if stats.PendingTasks, err = s.Tasks.CountByStatus(model.TaskPending); err != nil {
		return nil, err
	}
	if stats.ActiveUsers24h, err = s.Users.CountActiveSince(time.Now().Add(-activeWindow)); err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(stats); err == nil {
			if err := s.Redis.Set(ctx, dashboardCacheKey, data, dashboardCacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache dashboard stats", zap.Error(err))
			}
		}
	}

	return stats, nil
}

// FresherDashboard summarizes one fresher's own standing.
type FresherDashboard struct {
	TotalCourses     int `json:"totalCourses"`
	CompletedCourses int `json:"completedCourses"`
	AverageProgress  int `json:"averageProgress"`
	PendingTasks     int `json:"pendingTasks"`
}

func (s *StatsService) ForFresher(courses []model.CourseAssignment, tasks []model.AssignmentTask) *FresherDashboard {
	dash := &FresherDashboard{TotalCourses: len(courses)}

	total := 0
	for _, course := range courses {
		total += course.Progress
		if course.Completed {
			dash.CompletedCourses++
		}
	}
	if len(courses) > 0 {
		dash.AverageProgress = total / len(courses)
	}

	for _, task := range tasks {
		if task.Status == model.TaskPending {
			dash.PendingTasks++
		}
	}

	return dash
}

func (s *StatsService) RecentLogins(limit int) ([]model.LoginLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.Logs.ListRecent(limit)
}
