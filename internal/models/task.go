package models

import (
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

const DefaultCategory = "General"

// ParsePriority accepts LOW, MEDIUM or HIGH in any case.
func ParsePriority(s string) (Priority, bool) {
	switch p := Priority(strings.ToUpper(strings.TrimSpace(s))); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, true
	}
	return "", false
}

type Task struct {
	ID          uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	UserID      uuid.UUID  `json:"authorId" gorm:"type:uuid;not null;index"`
	Title       string     `json:"title" gorm:"not null"`
	Description *string    `json:"description"`
	Category    string     `json:"category" gorm:"not null;default:'General'"`
	Priority    Priority   `json:"priority" gorm:"type:varchar(10);not null;default:'MEDIUM'"`
	DueDate     *time.Time `json:"dueDate"`
	IsCompleted bool       `json:"isCompleted" gorm:"not null;default:false"`
	CreatedAt   time.Time  `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return err
		}
		t.ID = id
	}
	return nil
}
