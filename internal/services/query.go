package services

import (
	"errors"
	"math"
	"strconv"
	"strings"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/models"
	"taskboard/internal/repositories"
	"taskboard/internal/tags"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// maxPage keeps (page-1)*limit inside an int on every platform.
	maxPage = math.MaxInt32 / MaxLimit
)

var sortColumns = map[string]string{
	"dueDate":   "due_date",
	"createdAt": "created_at",
}

// ListParams are the raw query string values of GET /tasks.
type ListParams struct {
	Page     string `form:"page"`
	Limit    string `form:"limit"`
	Status   string `form:"status"`
	Priority string `form:"priority"`
	Tags     string `form:"tags"`
	SortBy   string `form:"sortBy"`
	SortDir  string `form:"sortDir"`
}

// TaskQuery is a validated, clamped list request.
type TaskQuery struct {
	Filter repositories.TaskFilter
	Order  repositories.TaskOrder
	Page   int
	Limit  int
}

func (q TaskQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

type TaskPage struct {
	Items []models.Task `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// ParseListParams validates enum values and clamps pagination. Unknown
// status, priority, sortBy or sortDir values are rejected; page and limit are
// never rejected, only clamped, and unparseable numbers fall back to the
// defaults.
func ParseListParams(p ListParams) (TaskQuery, error) {
	q := TaskQuery{
		Page:  clamp(parseIntOr(p.Page, DefaultPage), 1, maxPage),
		Limit: clamp(parseIntOr(p.Limit, DefaultLimit), 1, MaxLimit),
		Order: repositories.TaskOrder{Column: sortColumns["createdAt"], Desc: true},
	}

	if p.Status != "" {
		status := models.Status(p.Status)
		if !status.Valid() {
			return TaskQuery{}, apperrors.Validation("Invalid query")
		}
		q.Filter.Status = &status
	}

	if p.Priority != "" {
		priority := models.Priority(p.Priority)
		if !priority.Valid() {
			return TaskQuery{}, apperrors.Validation("Invalid query")
		}
		q.Filter.Priority = &priority
	}

	if p.SortBy != "" {
		column, ok := sortColumns[p.SortBy]
		if !ok {
			return TaskQuery{}, apperrors.Validation("Invalid query")
		}
		q.Order.Column = column
	}

	switch p.SortDir {
	case "", "desc":
	case "asc":
		q.Order.Desc = false
	default:
		return TaskQuery{}, apperrors.Validation("Invalid query")
	}

	q.Filter.Tags = tags.ParseFilter(p.Tags)
	return q, nil
}

func parseIntOr(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			if strings.HasPrefix(raw, "-") {
				return math.MinInt32
			}
			return math.MaxInt32
		}
		return fallback
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	if n < math.MinInt32 {
		return math.MinInt32
	}
	return int(n)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
