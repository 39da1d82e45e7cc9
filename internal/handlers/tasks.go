package handlers

import (
	"context"
	"net/http"

	"taskboard/internal/models"
	"taskboard/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

type TaskManager interface {
	Create(ctx context.Context, owner uuid.UUID, in models.CreateTaskInput) (*models.Task, error)
	Get(ctx context.Context, owner, id uuid.UUID) (*models.Task, error)
	Update(ctx context.Context, owner, id uuid.UUID, in models.UpdateTaskInput) (*models.Task, error)
	UpdateStatus(ctx context.Context, owner, id uuid.UUID, status models.Status) (*models.Task, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
	List(ctx context.Context, owner uuid.UUID, q services.TaskQuery) (*services.TaskPage, error)
}

type TaskHandler struct {
	tasks TaskManager
}

func NewTaskHandler(tasks TaskManager) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

func (h *TaskHandler) List(c *gin.Context) {
	owner, ok := caller(c)
	if !ok {
		return
	}

	var params services.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		fail(c, http.StatusBadRequest, "Invalid query")
		return
	}
	query, err := services.ParseListParams(params)
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := h.tasks.List(c.Request.Context(), owner, query)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, page)
}

func (h *TaskHandler) Create(c *gin.Context) {
	owner, ok := caller(c)
	if !ok {
		return
	}

	var input models.CreateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, msgInvalidInput)
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), owner, input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, task)
}

func (h *TaskHandler) Get(c *gin.Context) {
	owner, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), owner, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, task)
}

func (h *TaskHandler) Update(c *gin.Context) {
	owner, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var input models.UpdateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, msgInvalidInput)
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), owner, id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, task)
}

func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	owner, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var input models.UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, msgInvalidInput)
		return
	}

	task, err := h.tasks.UpdateStatus(c.Request.Context(), owner, id, input.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, task)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	owner, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), owner, id); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, deleted{Success: true})
}
