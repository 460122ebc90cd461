// file: internals/features/attendance/qr/dto/qr_dto.go
package dto

import (
	"strings"
	"time"

	"edumark_backend/internals/features/attendance/qr/service"
)

/* =========================================================
   GENERATE
========================================================= */

type GenerateQRRequest struct {
	SessionID string `json:"sessionId" validate:"required,max=120"`
	ClassID   string `json:"classId"   validate:"required,max=120"`
	TeacherID string `json:"teacherId" validate:"omitempty,max=120"`
}

func (r *GenerateQRRequest) Normalize() {
	r.SessionID = strings.TrimSpace(r.SessionID)
	r.ClassID = strings.TrimSpace(r.ClassID)
	r.TeacherID = strings.TrimSpace(r.TeacherID)
}

func (r GenerateQRRequest) ToInput() service.IssueInput {
	return service.IssueInput{
		SessionID: r.SessionID,
		ClassID:   r.ClassID,
		TeacherID: r.TeacherID,
	}
}

type GenerateQRResponse struct {
	Success   bool   `json:"success"`
	QRData    string `json:"qrData"`
	ExpiresAt string `json:"expiresAt"`
	SessionID string `json:"sessionId"`
	ClassID   string `json:"classId"`
}

func FromIssuedToken(t *service.IssuedToken) GenerateQRResponse {
	return GenerateQRResponse{
		Success:   true,
		QRData:    t.QRData,
		ExpiresAt: FormatISO(t.ExpiresAt),
		SessionID: t.Token.SessionID,
		ClassID:   t.Token.ClassID,
	}
}

/* =========================================================
   VALIDATE
========================================================= */

type LocationDTO struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type ValidateQRRequest struct {
	QRData    string       `json:"qrData"    validate:"required,max=512"`
	StudentID string       `json:"studentId" validate:"required,max=120"`
	Location  *LocationDTO `json:"location"`
}

func (r *ValidateQRRequest) Normalize() {
	r.QRData = strings.TrimSpace(r.QRData)
	r.StudentID = strings.TrimSpace(r.StudentID)
}

func (r ValidateQRRequest) ToInput() service.ValidateInput {
	in := service.ValidateInput{
		QRData:    r.QRData,
		StudentID: r.StudentID,
	}
	if r.Location != nil {
		in.Location = &service.LocationReading{Lat: r.Location.Lat, Lng: r.Location.Lng}
	}
	return in
}

type ValidateQRResponse struct {
	Success   bool    `json:"success"`
	Message   string  `json:"message"`
	SessionID string  `json:"sessionId"`
	ClassID   string  `json:"classId"`
	Timestamp string  `json:"timestamp"`
	ClaimID   *string `json:"claimId,omitempty"`
}

const AttendanceMarkedMessage = "Attendance marked successfully"

func FromAcceptance(a *service.Acceptance) ValidateQRResponse {
	out := ValidateQRResponse{
		Success:   true,
		Message:   AttendanceMarkedMessage,
		SessionID: a.SessionID,
		ClassID:   a.ClassID,
		Timestamp: FormatISO(a.AcceptedAt),
	}
	if a.ClaimID != nil {
		s := a.ClaimID.String()
		out.ClaimID = &s
	}
	return out
}

// FormatISO renders UTC with millisecond precision, e.g. 2024-01-15T09:00:30.000Z.
func FormatISO(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
