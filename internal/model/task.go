package model

import (
	"time"

	"github.com/google/uuid"
)

// Priority of a task. Stored and transmitted as its string name.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BoardID     uuid.UUID `gorm:"type:uuid;not null;index" json:"boardId"`
	ColumnID    uuid.UUID `gorm:"type:uuid;not null;index" json:"columnId"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Priority    Priority  `gorm:"not null;default:MEDIUM" json:"priority"`
	Tags        []string  `gorm:"serializer:json" json:"tags"`
	DueDate     *Date     `json:"dueDate,omitempty"`
	Position    int       `gorm:"not null" json:"position"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`

	Board  *Board  `gorm:"foreignKey:BoardID" json:"-"`
	Column *Column `gorm:"foreignKey:ColumnID" json:"-"`
}
