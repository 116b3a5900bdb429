package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

type CourseStatus string

const (
	CourseActive    CourseStatus = "active"
	CourseCompleted CourseStatus = "completed"
)

// Lecture is one unit of video content inside a course. Position in the
// Lectures slice defines playback order; lectures are immutable once the
// course is created.
// swagger:model Lecture
type Lecture struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"videoUrl"`
	Duration    int    `json:"duration,omitempty"` // seconds
}

// LectureList stores the ordered lecture sequence as a JSON column.
type LectureList []Lecture

func (l LectureList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *LectureList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = nil
		return nil
	default:
		return errors.New("unsupported type for LectureList")
	}
}

// CourseAssignment is a course instance attached to exactly one fresher,
// tracking that fresher's personal progress through the lecture sequence.
// swagger:model CourseAssignment
type CourseAssignment struct {
	UUIDBase
	FresherID    string      `gorm:"type:varchar(36);index;not null" json:"fresherId"`
	Title        string      `gorm:"size:200;not null" json:"title"`
	Description  string      `gorm:"size:1000" json:"description"`
	Instructor   string      `gorm:"size:100" json:"instructor"`
	ThumbnailURL string      `gorm:"size:500" json:"thumbnailUrl,omitempty"`
	Lectures     LectureList `gorm:"type:json" json:"lectures"`

	Status              CourseStatus `gorm:"type:enum('active','completed');default:'active'" json:"status"`
	Progress            int          `gorm:"default:0" json:"progress"`
	CurrentLectureIndex int          `gorm:"default:0" json:"currentLectureIndex"`
	Completed           bool         `gorm:"default:false" json:"completed"`

	// AssignedByDepartment back-references the department when the course
	// was created through a department-wide assignment.
	AssignedByDepartment *string `gorm:"type:varchar(36)" json:"assignedByDepartment,omitempty"`
}

func (CourseAssignment) TableName() string {
	return "course_assignments"
}
