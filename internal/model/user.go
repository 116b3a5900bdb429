package model

import "time"

type UserRole string

const (
	Fresher UserRole = "fresher"
	Admin   UserRole = "admin"
)

type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusDisabled UserStatus = "disabled"
)

// User is both the identity record and the fresher profile: the row ID is
// the identity ID, and every profile lookup goes through it.
// swagger:model User
type User struct {
	UUIDBase
	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"type:enum('fresher','admin');default:'fresher'" json:"role"`

	// DepartmentID is set once the fresher is resolved into a department.
	// DepartmentName is the free-text value carried in from CSV import and
	// may disagree with the resolved department until auto-assignment runs.
	DepartmentID   *string `gorm:"type:varchar(36);index" json:"departmentId"`
	DepartmentName string  `gorm:"size:100" json:"departmentName"`

	Status    UserStatus `gorm:"type:enum('active','disabled');default:'active'" json:"status"`
	StartDate *time.Time `json:"startDate"`
	LastLogin time.Time  `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen  time.Time  `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
