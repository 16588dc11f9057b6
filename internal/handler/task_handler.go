package handler

import (
	"net/http"

	"taskflow/internal/model"
	"taskflow/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	taskRepo   *repository.TaskRepository
	columnRepo *repository.ColumnRepository
	boardRepo  *repository.BoardRepository
}

func NewTaskHandler(
	taskRepo *repository.TaskRepository,
	columnRepo *repository.ColumnRepository,
	boardRepo *repository.BoardRepository,
) *TaskHandler {
	return &TaskHandler{
		taskRepo:   taskRepo,
		columnRepo: columnRepo,
		boardRepo:  boardRepo,
	}
}

type TaskRequest struct {
	Title       string         `json:"title" binding:"required"`
	Description string         `json:"description"`
	BoardID     uuid.UUID      `json:"boardId"`
	ColumnID    uuid.UUID      `json:"columnId" binding:"required"`
	Priority    model.Priority `json:"priority"`
	Tags        []string       `json:"tags"`
	DueDate     *model.Date    `json:"dueDate"`
}

// checkOwnership verifies the board exists and belongs to the requester.
func (h *TaskHandler) checkOwnership(c *gin.Context, boardID, userID uuid.UUID) bool {
	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve board"})
		return false
	}
	if board == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Board not found"})
		return false
	}
	if board.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return false
	}
	return true
}

// checkColumn verifies the column exists and belongs to the given board.
func (h *TaskHandler) checkColumn(c *gin.Context, columnID, boardID uuid.UUID) bool {
	column, err := h.columnRepo.GetByID(c.Request.Context(), columnID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve column"})
		return false
	}
	if column == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Column not found"})
		return false
	}
	if column.BoardID != boardID {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Column does not belong to the board"})
		return false
	}
	return true
}

// Create creates a task on the given board and column.
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}
	if req.BoardID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Board ID is required"})
		return
	}

	if !h.checkOwnership(c, req.BoardID, userID) {
		return
	}
	if !h.checkColumn(c, req.ColumnID, req.BoardID) {
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid priority"})
		return
	}

	task := &model.Task{
		ID:          uuid.New(),
		BoardID:     req.BoardID,
		ColumnID:    req.ColumnID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		Tags:        req.Tags,
		DueDate:     req.DueDate,
	}

	if err := h.taskRepo.Create(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, task)
}

// Update replaces the task's full record. The board the task belongs to
// never changes; the column may.
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c)
	if !ok {
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve task"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
		return
	}

	if !h.checkOwnership(c, task.BoardID, userID) {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	if req.ColumnID != task.ColumnID {
		if !h.checkColumn(c, req.ColumnID, task.BoardID) {
			return
		}
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid priority"})
		return
	}

	task.Title = req.Title
	task.Description = req.Description
	task.ColumnID = req.ColumnID
	task.Priority = priority
	task.Tags = req.Tags
	task.DueDate = req.DueDate

	if err := h.taskRepo.Update(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update task"})
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c)
	if !ok {
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve task"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
		return
	}

	if !h.checkOwnership(c, task.BoardID, userID) {
		return
	}

	if err := h.taskRepo.Delete(c.Request.Context(), taskID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
