package model

type ChatSender string

const (
	SenderUser ChatSender = "user"
	SenderBot  ChatSender = "bot"
)

// ChatMessage is one turn of the fresher's conversation with the assistant,
// append-only and read back in time order.
// swagger:model ChatMessage
type ChatMessage struct {
	BaseModel
	FresherID string     `gorm:"type:varchar(36);index;not null" json:"fresherId"`
	Text      string     `gorm:"type:text;not null" json:"text"`
	Sender    ChatSender `gorm:"type:enum('user','bot');not null" json:"sender"`
	UserName  string     `gorm:"size:100" json:"userName"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
