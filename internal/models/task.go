package models

import (
	"time"

	"github.com/gofrs/uuid"
)

type Task struct {
	ID          uuid.UUID    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID      uuid.UUID    `json:"userId" gorm:"type:uuid;not null;index:idx_tasks_user_due,priority:1"`
	Title       string       `json:"title" gorm:"not null"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status" gorm:"type:varchar(20);not null;index"`
	Priority    TaskPriority `json:"priority" gorm:"type:varchar(10);not null"`
	DueDate     *Date        `json:"dueDate" gorm:"index:idx_tasks_user_due,priority:2"`
	Category    string       `json:"category" gorm:"index"`
	CreatedAt   time.Time    `json:"createdAt" gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time    `json:"updatedAt" gorm:"autoUpdateTime:false"`
}

// TaskInput is the create payload. Ownership is never read from it.
type TaskInput struct {
	Title       string       `json:"title" binding:"required"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *Date        `json:"dueDate"`
	Category    string       `json:"category"`
}

// TaskPatch carries a partial update; nil fields are left untouched and an
// explicit null dueDate clears it.
type TaskPatch struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Status      *TaskStatus    `json:"status"`
	Priority    *TaskPriority  `json:"priority"`
	DueDate     Optional[Date] `json:"dueDate"`
	Category    *string        `json:"category"`
}

// TaskParams are the optional list filters accepted by GET /api/tasks.
type TaskParams struct {
	Status   string `form:"status"`
	Priority string `form:"priority"`
	Category string `form:"category"`
	Search   string `form:"search"`
}
