package services_test

import (
	"encoding/json"
	"fmt"
	"time"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/models"
	"taskboard/internal/services"

	"github.com/gofrs/uuid"
)

func (s *ServiceSuite) list(owner uuid.UUID, p services.ListParams) *services.TaskPage {
	q, err := services.ParseListParams(p)
	s.Require().NoError(err)
	page, err := s.tasks.List(s.ctx, owner, q)
	s.Require().NoError(err)
	return page
}

func (s *ServiceSuite) TestCreate_Defaults() {
	user := s.register("u@example.com")

	task := s.createTask(user.ID, models.CreateTaskInput{Title: "Finish report", Priority: ptr(models.PriorityHigh)})
	s.Equal(models.StatusTodo, task.Status)
	s.Equal(models.PriorityHigh, task.Priority)
	s.Nil(task.CompletedAt)
	s.Equal([]string{}, task.Tags)

	plain := s.createTask(user.ID, models.CreateTaskInput{Title: "Plain"})
	s.Equal(models.PriorityMedium, plain.Priority)
}

func (s *ServiceSuite) TestCreate_Validation() {
	user := s.register("u@example.com")

	_, err := s.tasks.Create(s.ctx, user.ID, models.CreateTaskInput{Title: "   "})
	s.requireKind(err, apperrors.KindValidation)

	_, err = s.tasks.Create(s.ctx, user.ID, models.CreateTaskInput{Title: "t", Priority: ptr(models.Priority("urgent"))})
	s.requireKind(err, apperrors.KindValidation)

	_, err = s.tasks.Create(s.ctx, user.ID, models.CreateTaskInput{Title: "t", Tags: []string{"ok", " "}})
	s.requireKind(err, apperrors.KindValidation)
}

func (s *ServiceSuite) TestPatchStatus_DoneStampsCompletedAt() {
	user := s.register("u@example.com")
	task := s.createTask(user.ID, models.CreateTaskInput{Title: "Finish report"})

	done, err := s.tasks.UpdateStatus(s.ctx, user.ID, task.ID, models.StatusDone)
	s.Require().NoError(err)
	s.NotNil(done.CompletedAt)

	fetched, err := s.tasks.Get(s.ctx, user.ID, task.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusDone, fetched.Status)
	s.NotNil(fetched.CompletedAt)

	reopened, err := s.tasks.UpdateStatus(s.ctx, user.ID, task.ID, models.StatusInProgress)
	s.Require().NoError(err)
	s.Nil(reopened.CompletedAt)

	fetched, err = s.tasks.Get(s.ctx, user.ID, task.ID)
	s.Require().NoError(err)
	s.Nil(fetched.CompletedAt)

	_, err = s.tasks.UpdateStatus(s.ctx, user.ID, task.ID, models.Status("archived"))
	s.requireKind(err, apperrors.KindValidation)
}

func (s *ServiceSuite) TestUpdate_MergesSuppliedFields() {
	user := s.register("u@example.com")
	due := time.Now().Add(72 * time.Hour)
	task := s.createTask(user.ID, models.CreateTaskInput{
		Title:       "Draft",
		Description: ptr("first pass"),
		DueDate:     &due,
		Tags:        []string{"work"},
	})

	var in models.UpdateTaskInput
	s.Require().NoError(json.Unmarshal([]byte(`{"title":"Final","description":null,"status":"done"}`), &in))

	updated, err := s.tasks.Update(s.ctx, user.ID, task.ID, in)
	s.Require().NoError(err)
	s.Equal("Final", updated.Title)
	s.Nil(updated.Description)
	s.Require().NotNil(updated.DueDate)
	s.Equal([]string{"work"}, updated.Tags)
	s.Equal(models.StatusDone, updated.Status)
	s.NotNil(updated.CompletedAt)

	fetched, err := s.tasks.Get(s.ctx, user.ID, task.ID)
	s.Require().NoError(err)
	s.Equal("Final", fetched.Title)
	s.Nil(fetched.Description)
	s.NotNil(fetched.DueDate)
	s.Equal(models.PriorityMedium, fetched.Priority)
}

func (s *ServiceSuite) TestUpdate_Validation() {
	user := s.register("u@example.com")
	task := s.createTask(user.ID, models.CreateTaskInput{Title: "Draft"})

	_, err := s.tasks.Update(s.ctx, user.ID, task.ID, models.UpdateTaskInput{Title: ptr("")})
	s.requireKind(err, apperrors.KindValidation)

	_, err = s.tasks.Update(s.ctx, user.ID, task.ID, models.UpdateTaskInput{Status: ptr(models.Status("pending"))})
	s.requireKind(err, apperrors.KindValidation)
}

func (s *ServiceSuite) TestOwnershipIsolation() {
	alice := s.register("alice@example.com")
	bob := s.register("bob@example.com")
	due := time.Now().Add(24 * time.Hour)
	task := s.createTask(alice.ID, models.CreateTaskInput{Title: "secret", DueDate: &due, Tags: []string{"work"}})

	_, err := s.tasks.Get(s.ctx, bob.ID, task.ID)
	s.requireKind(err, apperrors.KindNotFound)

	_, err = s.tasks.Update(s.ctx, bob.ID, task.ID, models.UpdateTaskInput{Title: ptr("mine now")})
	s.requireKind(err, apperrors.KindNotFound)

	_, err = s.tasks.UpdateStatus(s.ctx, bob.ID, task.ID, models.StatusDone)
	s.requireKind(err, apperrors.KindNotFound)

	s.requireKind(s.tasks.Delete(s.ctx, bob.ID, task.ID), apperrors.KindNotFound)

	page := s.list(bob.ID, services.ListParams{Tags: "work"})
	s.Empty(page.Items)
	s.Zero(page.Total)

	summary, err := s.dashboard.Summary(s.ctx, bob.ID, services.PeriodWeek)
	s.Require().NoError(err)
	s.Zero(summary.Counts.Todo)
	s.Empty(summary.Upcoming)

	fetched, err := s.tasks.Get(s.ctx, alice.ID, task.ID)
	s.Require().NoError(err)
	s.Equal("secret", fetched.Title)
}

func (s *ServiceSuite) TestDelete() {
	user := s.register("u@example.com")
	task := s.createTask(user.ID, models.CreateTaskInput{Title: "gone"})

	s.Require().NoError(s.tasks.Delete(s.ctx, user.ID, task.ID))
	s.requireKind(s.tasks.Delete(s.ctx, user.ID, task.ID), apperrors.KindNotFound)
}

func (s *ServiceSuite) TestList_Pagination() {
	user := s.register("u@example.com")
	for i := 0; i < 25; i++ {
		s.createTask(user.ID, models.CreateTaskInput{Title: fmt.Sprintf("task %02d", i)})
	}

	page := s.list(user.ID, services.ListParams{})
	s.Equal(1, page.Page)
	s.Equal(10, page.Limit)
	s.Len(page.Items, 10)
	s.EqualValues(25, page.Total)

	page = s.list(user.ID, services.ListParams{Page: "3", Limit: "10"})
	s.Len(page.Items, 5)
	s.EqualValues(25, page.Total)

	page = s.list(user.ID, services.ListParams{Page: "0", Limit: "1000"})
	s.Equal(1, page.Page)
	s.Equal(100, page.Limit)
	s.Len(page.Items, 25)

	page = s.list(user.ID, services.ListParams{Page: "-4", Limit: "0"})
	s.Equal(1, page.Page)
	s.Equal(1, page.Limit)
	s.Len(page.Items, 1)

	page = s.list(user.ID, services.ListParams{Page: "9"})
	s.Empty(page.Items)
	s.EqualValues(25, page.Total)
}

func (s *ServiceSuite) TestList_Filters() {
	user := s.register("u@example.com")
	s.createTask(user.ID, models.CreateTaskInput{Title: "a", Priority: ptr(models.PriorityHigh), Tags: []string{"work", "urgent"}})
	s.createTask(user.ID, models.CreateTaskInput{Title: "b", Priority: ptr(models.PriorityLow), Tags: []string{"work"}})
	c := s.createTask(user.ID, models.CreateTaskInput{Title: "c", Tags: []string{"personal"}})
	_, err := s.tasks.UpdateStatus(s.ctx, user.ID, c.ID, models.StatusDone)
	s.Require().NoError(err)

	s.EqualValues(2, s.list(user.ID, services.ListParams{Tags: "work"}).Total)
	s.EqualValues(1, s.list(user.ID, services.ListParams{Tags: "work,urgent"}).Total)
	s.EqualValues(1, s.list(user.ID, services.ListParams{Tags: "personal"}).Total)
	s.EqualValues(0, s.list(user.ID, services.ListParams{Tags: "work,personal"}).Total)
	s.EqualValues(1, s.list(user.ID, services.ListParams{Priority: "high"}).Total)
	s.EqualValues(1, s.list(user.ID, services.ListParams{Status: "done"}).Total)
	s.EqualValues(2, s.list(user.ID, services.ListParams{Status: "todo", Tags: " work , "}).Total)

	page := s.list(user.ID, services.ListParams{Tags: "urgent"})
	s.Require().Len(page.Items, 1)
	s.Equal([]string{"work", "urgent"}, page.Items[0].Tags)
}

func (s *ServiceSuite) TestList_SortByDueDate() {
	user := s.register("u@example.com")
	base := time.Now()
	for i, offset := range []int{3, 1, 2} {
		due := base.Add(time.Duration(offset) * time.Hour)
		s.createTask(user.ID, models.CreateTaskInput{Title: fmt.Sprintf("t%d", i), DueDate: &due})
	}

	asc := s.list(user.ID, services.ListParams{SortBy: "dueDate", SortDir: "asc"})
	s.Require().Len(asc.Items, 3)
	s.Equal("t1", asc.Items[0].Title)
	s.Equal("t2", asc.Items[1].Title)
	s.Equal("t0", asc.Items[2].Title)

	desc := s.list(user.ID, services.ListParams{SortBy: "dueDate"})
	s.Equal("t0", desc.Items[0].Title)
}
