package models

// ChatTurn is one user message and model response within a session.
// Turns are append-only.
type ChatTurn struct {
	BaseModel
	SessionID string    `gorm:"size:64;not null;index:idx_chat_session_user,priority:1" json:"session_id"`
	UserID    string    `gorm:"size:36;not null;index:idx_chat_session_user,priority:2" json:"user_id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Response  string    `gorm:"type:text;not null" json:"response"`
	Timestamp Timestamp `gorm:"type:varchar(32);not null" json:"timestamp"`
	// Seq orders turns that share a timestamp.
	Seq       int64     `gorm:"not null;default:0" json:"-"`
}

// TableName keeps the collection name stable across drivers.
func (ChatTurn) TableName() string {
	return "chat_history"
}

// ChatRequest is the body of a chat message call.
type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id"`
}

// ChatReply is returned for a successful chat message.
type ChatReply struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}
