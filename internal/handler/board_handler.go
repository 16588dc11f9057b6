package handler

import (
	"net/http"

	"taskflow/internal/model"
	"taskflow/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DefaultColumns are seeded into every newly created board.
var DefaultColumns = []string{"To Do", "In Progress", "Done"}

type BoardHandler struct {
	boardRepo  *repository.BoardRepository
	columnRepo *repository.ColumnRepository
	taskRepo   *repository.TaskRepository
}

func NewBoardHandler(
	boardRepo *repository.BoardRepository,
	columnRepo *repository.ColumnRepository,
	taskRepo *repository.TaskRepository,
) *BoardHandler {
	return &BoardHandler{
		boardRepo:  boardRepo,
		columnRepo: columnRepo,
		taskRepo:   taskRepo,
	}
}

type CreateBoardRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// ownedBoard loads a board and verifies the requester owns it. It writes
// the error response itself on failure.
func (h *BoardHandler) ownedBoard(c *gin.Context, boardID, userID uuid.UUID) (*model.Board, bool) {
	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve board"})
		return nil, false
	}
	if board == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Board not found"})
		return nil, false
	}
	if board.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return nil, false
	}
	return board, true
}

// GetAll lists the requester's boards.
func (h *BoardHandler) GetAll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boards, err := h.boardRepo.GetOwned(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve boards"})
		return
	}

	c.JSON(http.StatusOK, boards)
}

func (h *BoardHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c)
	if !ok {
		return
	}

	board, ok := h.ownedBoard(c, boardID, userID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, board)
}

// Create creates a board and seeds its default columns.
func (h *BoardHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	board := &model.Board{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     userID,
	}

	if err := h.boardRepo.Create(c.Request.Context(), board); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create board"})
		return
	}

	for i, name := range DefaultColumns {
		column := &model.Column{
			ID:       uuid.New(),
			BoardID:  board.ID,
			Name:     name,
			Position: i,
		}
		if err := h.columnRepo.Create(c.Request.Context(), column); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create default columns"})
			return
		}
	}

	c.JSON(http.StatusCreated, board)
}

func (h *BoardHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c)
	if !ok {
		return
	}

	if _, ok := h.ownedBoard(c, boardID, userID); !ok {
		return
	}

	if err := h.boardRepo.Delete(c.Request.Context(), boardID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete board"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Board deleted successfully"})
}

// GetColumns lists the board's columns ordered by position.
func (h *BoardHandler) GetColumns(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c)
	if !ok {
		return
	}

	if _, ok := h.ownedBoard(c, boardID, userID); !ok {
		return
	}

	columns, err := h.columnRepo.GetByBoardID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve columns"})
		return
	}

	c.JSON(http.StatusOK, columns)
}

// GetTasks lists the board's tasks.
func (h *BoardHandler) GetTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c)
	if !ok {
		return
	}

	if _, ok := h.ownedBoard(c, boardID, userID); !ok {
		return
	}

	tasks, err := h.taskRepo.GetByBoardID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve tasks"})
		return
	}

	c.JSON(http.StatusOK, tasks)
}
