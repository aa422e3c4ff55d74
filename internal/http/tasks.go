package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hemdhoni222/todo-app/internal/domain"
	"github.com/hemdhoni222/todo-app/internal/repo"
)

const msgTaskNotFound = "Todo not found or unauthorized"

// ListTodos godoc
// @Summary List tasks visible to the caller
// @Tags todos
// @Security BearerAuth
// @Produce json
// @Param search query string false "substring over title/description"
// @Param status query string false "completed|incomplete"
// @Param priority query string false "low|medium|high"
// @Param dueDate query string false "overdue"
// @Success 200 {array} domain.ExpandedTask
// @Router /api/todos [get]
func (h *Handler) ListTodos(c *gin.Context) {
	uid := actingUser(c)
	f := domain.TaskFilter{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		DueDate:  c.Query("dueDate"),
	}
	out, err := h.Store.ListTasks(c.Request.Context(), uid, f)
	if err != nil {
		serverError(c, "list tasks", err)
		return
	}
	if out == nil {
		out = []domain.ExpandedTask{}
	}
	c.JSON(http.StatusOK, out)
}

type createTaskReq struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Priority    string               `json:"priority"`
	DueDate     *time.Time           `json:"dueDate"`
	AssignedTo  []primitive.ObjectID `json:"assignedTo"`
}

// CreateTodo godoc
// @Summary Create a task
// @Tags todos
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body createTaskReq true "task"
// @Success 201 {object} domain.ExpandedTask
// @Failure 400 {object} map[string]string
// @Router /api/todos [post]
func (h *Handler) CreateTodo(c *gin.Context) {
	uid := actingUser(c)

	var in createTaskReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload"})
		return
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Title is required"})
		return
	}
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(priority) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid priority"})
		return
	}

	// creator is always the acting user, whatever the payload says
	t := &domain.Task{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Priority:    priority,
		AssignedTo:  in.AssignedTo,
	}
	t.Creator = uid
	if in.DueDate != nil {
		d := in.DueDate.UTC()
		t.DueDate = &d
	}

	if err := h.Store.CreateTask(c.Request.Context(), t); err != nil {
		serverError(c, "create task", err)
		return
	}

	if len(t.AssignedTo) > 0 {
		h.notifyAssignees(c, *t)
	}

	ex, err := h.Store.TaskByID(c.Request.Context(), t.ID)
	if err != nil {
		serverError(c, "expand task", err)
		return
	}
	c.JSON(http.StatusCreated, ex)
}

// notifyAssignees resolves recipients synchronously (cheap store reads) and
// hands delivery to the notifier, which returns immediately.
func (h *Handler) notifyAssignees(c *gin.Context, t domain.Task) {
	ctx := c.Request.Context()
	creator, err := h.Store.FindUserByID(ctx, t.Creator)
	if err != nil || creator == nil {
		return
	}
	assignees, err := h.Store.FindUsersByIDs(ctx, t.AssignedTo)
	if err != nil || len(assignees) == 0 {
		return
	}
	h.Notifier.TaskAssigned(*creator, assignees, t)
}

// UpdateTodo godoc
// @Summary Partially update a task (creator only)
// @Tags todos
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "task id"
// @Param payload body domain.TaskPatch true "fields to change"
// @Success 200 {object} domain.ExpandedTask
// @Failure 404 {object} map[string]string
// @Router /api/todos/{id} [put]
func (h *Handler) UpdateTodo(c *gin.Context) {
	uid := actingUser(c)
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		// malformed ids get the same answer as missing tasks
		c.JSON(http.StatusNotFound, gin.H{"message": msgTaskNotFound})
		return
	}

	var p domain.TaskPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload"})
		return
	}
	if p.Priority != nil && !domain.ValidPriority(*p.Priority) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid priority"})
		return
	}
	if p.Title != nil {
		trimmed := strings.TrimSpace(*p.Title)
		if trimmed == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Title is required"})
			return
		}
		p.Title = &trimmed
	}

	ex, err := h.Store.UpdateTask(c.Request.Context(), id, uid, p)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": msgTaskNotFound})
			return
		}
		serverError(c, "update task", err)
		return
	}
	c.JSON(http.StatusOK, ex)
}

// DeleteTodo godoc
// @Summary Delete a task (creator only)
// @Tags todos
// @Security BearerAuth
// @Produce json
// @Param id path string true "task id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/todos/{id} [delete]
func (h *Handler) DeleteTodo(c *gin.Context) {
	uid := actingUser(c)
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": msgTaskNotFound})
		return
	}
	if err := h.Store.DeleteTask(c.Request.Context(), id, uid); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": msgTaskNotFound})
			return
		}
		serverError(c, "delete task", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Todo deleted"})
}

// ListUsers godoc
// @Summary List users for the assignee picker
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.UserSummary
// @Router /api/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Store.ListUsers(c.Request.Context())
	if err != nil {
		serverError(c, "list users", err)
		return
	}
	if users == nil {
		users = []domain.UserSummary{}
	}
	c.JSON(http.StatusOK, users)
}
