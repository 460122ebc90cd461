// internals/helpers/pagination.go
package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type Options struct {
	DefaultPerPage int
	MaxPerPage     int
}

var (
	DefaultOpts = Options{DefaultPerPage: 25, MaxPerPage: 200}
	// teacher views list a whole class at once
	RosterOpts = Options{DefaultPerPage: 50, MaxPerPage: 500}
)

type Paging struct {
	Page    int
	PerPage int
	Offset  int
	Limit   int
}

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
	Count      int   `json:"count"`
}

// ResolvePaging reads ?page= and ?per_page= (alias ?limit=).
func ResolvePaging(c *fiber.Ctx, opt Options) Paging {
	page := atoiDefault(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}

	perRaw := strings.TrimSpace(c.Query("per_page"))
	if perRaw == "" {
		perRaw = strings.TrimSpace(c.Query("limit"))
	}
	perPage := atoiDefault(perRaw, opt.DefaultPerPage)
	if perPage < 1 {
		perPage = opt.DefaultPerPage
	}
	if opt.MaxPerPage > 0 && perPage > opt.MaxPerPage {
		perPage = opt.MaxPerPage
	}

	return Paging{
		Page:    page,
		PerPage: perPage,
		Offset:  (page - 1) * perPage,
		Limit:   perPage,
	}
}

func BuildPagination(total int64, p Paging, count int) Pagination {
	perPage := p.PerPage
	if perPage <= 0 {
		perPage = DefaultOpts.DefaultPerPage
	}
	page := p.Page
	if page <= 0 {
		page = 1
	}
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	if totalPages == 0 {
		totalPages = 1
	}
	return Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
		Count:      count,
	}
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
