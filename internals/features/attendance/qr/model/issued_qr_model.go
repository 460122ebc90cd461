// file: internals/features/attendance/qr/model/issued_qr_model.go
package model

import "time"

// IssuedQRModel is the server-owned issuance record, looked up by nonce.
type IssuedQRModel struct {
	IssuedQRNonce string `gorm:"type:varchar(96);primaryKey;column:issued_qr_nonce" json:"issued_qr_nonce"`

	IssuedQRSessionID string  `gorm:"type:varchar(120);not null;column:issued_qr_session_id;index:idx_issued_qr_session" json:"issued_qr_session_id"`
	IssuedQRClassID   string  `gorm:"type:varchar(120);not null;column:issued_qr_class_id" json:"issued_qr_class_id"`
	IssuedQRTeacherID *string `gorm:"type:varchar(120);column:issued_qr_teacher_id" json:"issued_qr_teacher_id,omitempty"`

	IssuedQRIssuedAt  time.Time `gorm:"not null;column:issued_qr_issued_at" json:"issued_qr_issued_at"`
	IssuedQRExpiresAt time.Time `gorm:"not null;column:issued_qr_expires_at;index:idx_issued_qr_expires_at" json:"issued_qr_expires_at"`

	IssuedQRCreatedAt time.Time `gorm:"column:issued_qr_created_at;autoCreateTime" json:"issued_qr_created_at"`
}

func (IssuedQRModel) TableName() string { return "issued_qr_tokens" }
