package model

import "time"

type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
)

// AssignmentTask is the to-do item unlocked for a fresher when a course is
// finished. The (fresher, course) pair is unique so the unlock side effect
// stays exactly-once even if the finish call is retried.
// swagger:model AssignmentTask
type AssignmentTask struct {
	UUIDBase
	FresherID   string     `gorm:"type:varchar(36);uniqueIndex:idx_fresher_course;not null" json:"fresherId"`
	CourseID    string     `gorm:"type:varchar(36);uniqueIndex:idx_fresher_course;not null" json:"courseId"`
	CourseTitle string     `gorm:"size:200" json:"courseTitle"`
	Status      TaskStatus `gorm:"type:enum('pending','completed');default:'pending'" json:"status"`
	DueDate     *time.Time `json:"dueDate"`
}

func (AssignmentTask) TableName() string {
	return "assignment_tasks"
}
