package task

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists every accepted priority in display order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority returns the Priority named by s.
func ParsePriority(s string) (Priority, bool) {
	for _, p := range Priorities {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// Status is the progress state of a task.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// Statuses lists every accepted status in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// ParseStatus returns the Status named by s.
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Lifecycle is the one-way visibility state of a task: Active, then Deleted.
// It is persisted as the boolean is_deleted column.
type Lifecycle uint8

const (
	LifecycleActive Lifecycle = iota
	LifecycleDeleted
)

// Delete returns the Deleted state. A deleted task cannot be deleted again.
func (l Lifecycle) Delete() (Lifecycle, error) {
	if l == LifecycleDeleted {
		return l, fmt.Errorf("task already deleted")
	}
	return LifecycleDeleted, nil
}

// IsDeleted reports whether the task has been soft-deleted.
func (l Lifecycle) IsDeleted() bool {
	return l == LifecycleDeleted
}

func (l Lifecycle) String() string {
	if l == LifecycleDeleted {
		return "deleted"
	}
	return "active"
}

// Value implements driver.Valuer.
func (l Lifecycle) Value() (driver.Value, error) {
	return l == LifecycleDeleted, nil
}

// Scan implements sql.Scanner.
func (l *Lifecycle) Scan(src any) error {
	var deleted bool
	switch v := src.(type) {
	case nil:
		deleted = false
	case bool:
		deleted = v
	case int64:
		deleted = v != 0
	case []byte:
		deleted = string(v) == "1" || string(v) == "true"
	case string:
		deleted = v == "1" || v == "true"
	default:
		return fmt.Errorf("cannot scan %T into Lifecycle", src)
	}
	if deleted {
		*l = LifecycleDeleted
	} else {
		*l = LifecycleActive
	}
	return nil
}

// GormDataType keeps the column a boolean regardless of the Go kind.
func (Lifecycle) GormDataType() string {
	return "boolean"
}

// Task is a single owner-scoped todo item.
type Task struct {
	ID          string    `gorm:"primaryKey;size:36"`
	OwnerID     string    `gorm:"column:owner_id;size:64;not null;index:idx_tasks_owner_state,priority:1"`
	Title       string    `gorm:"size:255;not null"`
	Description string    `gorm:"type:text;not null"`
	DueDate     time.Time `gorm:"not null"`
	Priority    Priority  `gorm:"size:10;not null;default:Low"`
	Status      Status    `gorm:"size:15;not null;default:Pending"`
	CreatedAt   time.Time `gorm:"not null;index"`
	Lifecycle   Lifecycle `gorm:"column:is_deleted;not null;index:idx_tasks_owner_state,priority:2"`
}

// TableName returns the table name for Task.
func (Task) TableName() string {
	return "tasks"
}

// MarkDeleted moves the task to the Deleted state.
func (t *Task) MarkDeleted() error {
	next, err := t.Lifecycle.Delete()
	if err != nil {
		return err
	}
	t.Lifecycle = next
	return nil
}
