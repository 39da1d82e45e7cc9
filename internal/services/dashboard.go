package services

import (
	"context"
	"time"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/models"
	"taskboard/internal/repositories"

	"github.com/gofrs/uuid"
	"golang.org/x/sync/errgroup"
)

const upcomingLimit = 5

// Period is the look-ahead window of the upcoming list, in days.
type Period int

const (
	PeriodWeek  Period = 7
	PeriodMonth Period = 30
)

// ParsePeriod accepts "", "7" or "30".
func ParsePeriod(raw string) (Period, error) {
	switch raw {
	case "", "7":
		return PeriodWeek, nil
	case "30":
		return PeriodMonth, nil
	}
	return 0, apperrors.Validation("Invalid query")
}

type StatusCounts struct {
	Todo       int64 `json:"todo"`
	InProgress int64 `json:"in_progress"`
	Done       int64 `json:"done"`
}

type DashboardSummary struct {
	Counts   StatusCounts  `json:"counts"`
	Overdue  int64         `json:"overdue"`
	Upcoming []models.Task `json:"upcoming"`
}

// Summarizer produces an owner's dashboard.
type Summarizer interface {
	Summary(ctx context.Context, owner uuid.UUID, period Period) (*DashboardSummary, error)
}

type DashboardService struct {
	tasks TaskStore
	now   func() time.Time
}

func NewDashboardService(tasks TaskStore) *DashboardService {
	return &DashboardService{tasks: tasks, now: func() time.Time { return time.Now().UTC() }}
}

// Summary issues its five queries concurrently; each sees its own snapshot.
func (s *DashboardService) Summary(ctx context.Context, owner uuid.UUID, period Period) (*DashboardSummary, error) {
	now := s.now()
	horizon := now.Add(time.Duration(period) * 24 * time.Hour)

	var summary DashboardSummary
	g, gctx := errgroup.WithContext(ctx)

	countStatus := func(status models.Status, dest *int64) {
		g.Go(func() error {
			n, err := s.tasks.Count(gctx, owner, repositories.TaskFilter{Status: &status})
			*dest = n
			return err
		})
	}
	countStatus(models.StatusTodo, &summary.Counts.Todo)
	countStatus(models.StatusInProgress, &summary.Counts.InProgress)
	countStatus(models.StatusDone, &summary.Counts.Done)

	g.Go(func() error {
		n, err := s.tasks.Count(gctx, owner, repositories.TaskFilter{NotDone: true, DueBefore: &now})
		summary.Overdue = n
		return err
	})
	g.Go(func() error {
		items, err := s.tasks.List(gctx, owner,
			repositories.TaskFilter{NotDone: true, DueFrom: &now, DueThrough: &horizon},
			repositories.TaskOrder{Column: "due_date"},
			0, upcomingLimit)
		summary.Upcoming = items
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, apperrors.Dependency("dashboard summary", err)
	}
	if summary.Upcoming == nil {
		summary.Upcoming = []models.Task{}
	}
	return &summary, nil
}
