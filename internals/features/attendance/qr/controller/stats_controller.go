package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"edumark_backend/internals/features/attendance/qr/dto"
	"edumark_backend/internals/features/attendance/qr/repository"
	"edumark_backend/internals/features/attendance/qr/service"
	helper "edumark_backend/internals/helpers"
)

type StatsController struct {
	Stats  *service.StatsService
	Ledger repository.ClaimLedger
}

func NewStatsController(stats *service.StatsService, ledger repository.ClaimLedger) *StatsController {
	return &StatsController{Stats: stats, Ledger: ledger}
}

// GET /api/attendance/stats?sessionId=&classId=
func (ctl *StatsController) GetStats(c *fiber.Ctx) error {
	var q dto.StatsQuery
	if err := c.QueryParser(&q); err != nil {
		return requestFormat(c)
	}
	st, err := ctl.Stats.Stats(c.UserContext(), strings.TrimSpace(q.SessionID), strings.TrimSpace(q.ClassID))
	if err != nil {
		return writeAttendanceError(c, err, "Failed to fetch attendance stats")
	}
	return c.Status(fiber.StatusOK).JSON(dto.FromStats(st))
}

// GET /api/attendance/claims?sessionId=&page=&per_page=
func (ctl *StatsController) ListClaims(c *fiber.Ctx) error {
	sessionID := strings.TrimSpace(c.Query("sessionId"))
	if sessionID == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "sessionId is required")
	}
	p := helper.ResolvePaging(c, helper.RosterOpts)

	if ctl.Ledger == nil {
		return helper.JsonList(c, "ok", []dto.ClaimDTO{}, helper.BuildPagination(0, p, 0))
	}

	rows, total, err := ctl.Ledger.ListBySession(c.UserContext(), sessionID, p.Offset, p.Limit)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch claims")
	}
	items := dto.FromClaimModels(rows)
	return helper.JsonList(c, "ok", items, helper.BuildPagination(total, p, len(items)))
}
