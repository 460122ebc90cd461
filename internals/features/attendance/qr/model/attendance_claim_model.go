// file: internals/features/attendance/qr/model/attendance_claim_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ClaimStatus string

const ClaimPresent ClaimStatus = "present"

// AttendanceClaimModel is an accepted claim. (session, student) is unique.
type AttendanceClaimModel struct {
	// PK
	AttendanceClaimID uuid.UUID `gorm:"type:uuid;primaryKey;column:attendance_claim_id" json:"attendance_claim_id"`

	// Keys
	AttendanceClaimSessionID string `gorm:"type:varchar(120);not null;column:attendance_claim_session_id;uniqueIndex:uq_attendance_claim_session_student,priority:1" json:"attendance_claim_session_id"`
	AttendanceClaimStudentID string `gorm:"type:varchar(120);not null;column:attendance_claim_student_id;uniqueIndex:uq_attendance_claim_session_student,priority:2" json:"attendance_claim_student_id"`
	AttendanceClaimClassID   string `gorm:"type:varchar(120);not null;column:attendance_claim_class_id;index:idx_attendance_claim_class" json:"attendance_claim_class_id"`

	// Token trace
	AttendanceClaimNonce string `gorm:"type:varchar(96);column:attendance_claim_nonce" json:"attendance_claim_nonce"`

	AttendanceClaimStatus   ClaimStatus    `gorm:"type:varchar(16);not null;default:present;column:attendance_claim_status" json:"attendance_claim_status"`
	AttendanceClaimLocation datatypes.JSON `gorm:"column:attendance_claim_location" json:"attendance_claim_location,omitempty"`

	// Timestamps
	AttendanceClaimAcceptedAt time.Time `gorm:"not null;column:attendance_claim_accepted_at" json:"attendance_claim_accepted_at"`
	AttendanceClaimCreatedAt  time.Time `gorm:"column:attendance_claim_created_at;autoCreateTime" json:"attendance_claim_created_at"`
}

func (AttendanceClaimModel) TableName() string { return "attendance_claims" }
