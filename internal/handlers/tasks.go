package handlers

import (
	"context"
	"net/http"

	"taskclinic/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type TaskService interface {
	Create(ctx context.Context, caller models.Caller, input models.TaskInput) (*models.Task, error)
	List(ctx context.Context, caller models.Caller, params models.TaskParams) ([]models.Task, error)
	Get(ctx context.Context, caller models.Caller, id string) (*models.Task, error)
	Update(ctx context.Context, caller models.Caller, id string, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, caller models.Caller, id string) error
}

type TaskHandler struct {
	taskService TaskService
}

func NewTaskHandler(taskService TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var input models.TaskInput
	if !bindJSON(c, &input) {
		return
	}
	task, err := h.taskService.Create(c.Request.Context(), caller, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) GetTasks(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var params models.TaskParams
	if !bindQuery(c, &params) {
		return
	}
	tasks, err := h.taskService.List(c.Request.Context(), caller, params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	task, err := h.taskService.Get(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var patch models.TaskPatch
	if !bindJSON(c, &patch) {
		return
	}
	task, err := h.taskService.Update(c.Request.Context(), caller, c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	if err := h.taskService.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "task deleted successfully"})
}
