package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todo-tracker/backend/internal/i18n"
	"todo-tracker/backend/internal/middleware"
	"todo-tracker/backend/internal/services"
)

type TaskHandler struct {
	base
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService, gate *middleware.SessionGate, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{base: newBase(gate, logger), taskService: taskService}
}

// GetTasks lists the caller's tasks, newest first. search matches titles
// case-insensitively; priority=ALL or no priority disables that filter.
func (h *TaskHandler) GetTasks(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.List(c.Request.Context(), userID, services.TaskFilter{
		Search:   c.Query("search"),
		Priority: c.Query("priority"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": i18n.T(c, i18n.MsgTodoListFetched),
		"data":    tasks,
	})
}

func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": i18n.T(c, i18n.MsgTodoFetched),
		"data":    task,
	})
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var input services.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, i18n.MsgInvalidRequest)
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), userID, input)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": i18n.T(c, i18n.MsgTodoCreated),
		"data":    task,
	})
}

// UpdateTask applies a partial update. A task the caller does not own is
// left alone and the request still succeeds.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var upd services.TaskUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		h.badRequest(c, i18n.MsgInvalidRequest)
		return
	}

	if err := h.taskService.Update(c.Request.Context(), userID, c.Param("id"), upd); err != nil {
		h.fail(c, err)
		return
	}
	message(c, http.StatusOK, i18n.MsgTodoUpdated)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	message(c, http.StatusOK, i18n.MsgTodoDeleted)
}
