package model

import "time"

// LoginLog is an append-only audit record, one per successful login.
// swagger:model LoginLog
type LoginLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:varchar(36);index;not null" json:"userId"`
	Role      UserRole  `gorm:"size:20" json:"role"`
	IP        string    `gorm:"size:45" json:"ip"`
	CreatedAt time.Time `gorm:"index" json:"timestamp"`
}

func (LoginLog) TableName() string {
	return "login_logs"
}
