package dto

import (
	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"edumark_backend/internals/features/attendance/qr/model"
	"edumark_backend/internals/features/attendance/qr/service"
)

type StatsQuery struct {
	SessionID string `query:"sessionId" validate:"omitempty,max=120"`
	ClassID   string `query:"classId"   validate:"omitempty,max=120"`
}

type StatsDTO struct {
	TotalStudents        int    `json:"totalStudents"`
	PresentStudents      int    `json:"presentStudents"`
	AbsentStudents       int    `json:"absentStudents"`
	AttendancePercentage int    `json:"attendancePercentage"`
	LastUpdated          string `json:"lastUpdated"`
}

type StatsResponse struct {
	Success bool     `json:"success"`
	Stats   StatsDTO `json:"stats"`
}

func FromStats(s *service.AttendanceStats) StatsResponse {
	return StatsResponse{
		Success: true,
		Stats: StatsDTO{
			TotalStudents:        s.TotalStudents,
			PresentStudents:      s.PresentStudents,
			AbsentStudents:       s.AbsentStudents,
			AttendancePercentage: s.AttendancePercentage,
			LastUpdated:          FormatISO(s.LastUpdated),
		},
	}
}

/* ===================== claims listing ===================== */

type ClaimDTO struct {
	ID         uuid.UUID                `json:"id"`
	SessionID  string                   `json:"sessionId"`
	ClassID    string                   `json:"classId"`
	StudentID  string                   `json:"studentId"`
	Status     model.ClaimStatus        `json:"status"`
	Location   *service.LocationReading `json:"location,omitempty"`
	AcceptedAt string                   `json:"acceptedAt"`
}

func FromClaimModel(m model.AttendanceClaimModel) ClaimDTO {
	out := ClaimDTO{
		ID:         m.AttendanceClaimID,
		SessionID:  m.AttendanceClaimSessionID,
		ClassID:    m.AttendanceClaimClassID,
		StudentID:  m.AttendanceClaimStudentID,
		Status:     m.AttendanceClaimStatus,
		AcceptedAt: FormatISO(m.AttendanceClaimAcceptedAt),
	}
	if len(m.AttendanceClaimLocation) > 0 {
		var loc service.LocationReading
		if err := sonic.Unmarshal(m.AttendanceClaimLocation, &loc); err == nil {
			out.Location = &loc
		}
	}
	return out
}

func FromClaimModels(rows []model.AttendanceClaimModel) []ClaimDTO {
	out := make([]ClaimDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromClaimModel(r))
	}
	return out
}
