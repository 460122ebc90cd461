package model

import "time"

// SessionModel is a server-side login session. The access token carries its ID
// as "sid"; deleting the row revokes the token.
type SessionModel struct {
	ID        string  `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	UserID    string  `gorm:"column:user_id;type:varchar(64);not null;index:idx_auth_sessions_user" json:"user_id"`
	Role      string  `gorm:"column:role;type:varchar(16);not null" json:"role"`
	StudentID *string `gorm:"column:student_id;type:varchar(64)" json:"student_id,omitempty"`

	ExpiresAt time.Time `gorm:"column:expires_at;not null;index:idx_auth_sessions_expires_at" json:"expires_at"`

	UserAgent *string `gorm:"column:user_agent" json:"user_agent,omitempty"`
	IP        *string `gorm:"column:ip;type:varchar(64)" json:"ip,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (SessionModel) TableName() string {
	return "auth_sessions"
}

func (s SessionModel) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
