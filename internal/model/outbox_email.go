package model

type OutboxStatus string

const (
	OutboxPending OutboxStatus = "pending"
	OutboxSent    OutboxStatus = "sent"
	OutboxFailed  OutboxStatus = "failed"
)

// OutboxEmail is a durable queue entry for outbound notifications. The
// dispatcher retries pending rows until they send or exhaust their attempts;
// delivery failures never propagate into the workflow that enqueued them.
// swagger:model OutboxEmail
type OutboxEmail struct {
	BaseModel
	To        string       `gorm:"size:100;not null" json:"to"`
	Subject   string       `gorm:"size:200;not null" json:"subject"`
	HTML      string       `gorm:"type:text" json:"html"`
	Status    OutboxStatus `gorm:"type:enum('pending','sent','failed');default:'pending';index" json:"status"`
	Attempts  int          `gorm:"default:0" json:"attempts"`
	LastError string       `gorm:"size:500" json:"lastError,omitempty"`
}

func (OutboxEmail) TableName() string {
	return "outbox_emails"
}
