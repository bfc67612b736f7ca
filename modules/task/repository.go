package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is the GORM-backed task store. Every read and write is scoped
// to one owner and to tasks that are not soft-deleted.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// visible scopes a query to the owner's non-deleted tasks.
func (r *Repository) visible(ctx context.Context, ownerID string) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("owner_id = ? AND is_deleted = ?", ownerID, false)
}

// Create validates fields and persists a new task owned by ownerID.
func (r *Repository) Create(ctx context.Context, ownerID string, fields domain.Fields) (*domain.Task, error) {
	if err := fields.ValidateNew(); err != nil {
		return nil, err
	}

	t := &domain.Task{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(*fields.Title),
		Description: *fields.Description,
		DueDate:     fields.DueDate.UTC(),
		Priority:    domain.PriorityLow,
		Status:      domain.StatusPending,
		CreatedAt:   r.now().UTC(),
		Lifecycle:   domain.LifecycleActive,
	}
	if fields.Priority != nil {
		t.Priority = domain.Priority(*fields.Priority)
	}
	if fields.Status != nil {
		t.Status = domain.Status(*fields.Status)
	}

	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return t, nil
}

// Get returns the task if it exists, belongs to ownerID and is not deleted.
func (r *Repository) Get(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	var t domain.Task
	if err := r.visible(ctx, ownerID).Where("id = ?", id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound(domain.ErrTaskNotFound)
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// List returns the owner's visible tasks matching filter in insertion order.
func (r *Repository) List(ctx context.Context, ownerID string, filter domain.Filter) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := applyFilter(r.visible(ctx, ownerID), filter).
		Order("created_at ASC").
		Order("id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Exists reports whether the owner has any visible task matching filter.
func (r *Repository) Exists(ctx context.Context, ownerID string, filter domain.Filter) (bool, error) {
	var count int64
	if err := applyFilter(r.visible(ctx, ownerID), filter).Limit(1).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count > 0, nil
}

// Update applies fields to a visible task and returns the stored result.
// full requires title, description and due_date to be present.
func (r *Repository) Update(ctx context.Context, id, ownerID string, fields domain.Fields, full bool) (*domain.Task, error) {
	if err := fields.ValidateChanges(full); err != nil {
		return nil, err
	}

	var updated domain.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope := tx.Model(&domain.Task{}).
			Where("id = ? AND owner_id = ? AND is_deleted = ?", id, ownerID, false)

		if cols := fields.Columns(); len(cols) > 0 {
			result := scope.Updates(cols)
			if result.Error != nil {
				return fmt.Errorf("failed to update task: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return domain.NotFound(domain.ErrTaskNotFound)
			}
		}

		if err := tx.Where("id = ? AND owner_id = ? AND is_deleted = ?", id, ownerID, false).
			First(&updated).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFound(domain.ErrTaskNotFound)
			}
			return fmt.Errorf("failed to reload task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// SoftDelete moves a visible task to the Deleted state. The row is kept.
func (r *Repository) SoftDelete(ctx context.Context, id, ownerID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t domain.Task
		if err := tx.Where("id = ? AND owner_id = ? AND is_deleted = ?", id, ownerID, false).
			First(&t).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFound(domain.ErrTaskNotFound)
			}
			return fmt.Errorf("failed to find task: %w", err)
		}

		if err := t.MarkDeleted(); err != nil {
			return domain.NotFound(domain.ErrTaskNotFound)
		}

		result := tx.Model(&domain.Task{}).
			Where("id = ? AND is_deleted = ?", t.ID, false).
			Update("is_deleted", t.Lifecycle)
		if result.Error != nil {
			return fmt.Errorf("failed to delete task: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NotFound(domain.ErrTaskNotFound)
		}
		return nil
	})
}

func applyFilter(q *gorm.DB, filter domain.Filter) *gorm.DB {
	if filter.Status != nil {
		q = q.Where("status = ?", string(*filter.Status))
	}
	if filter.Priority != nil {
		q = q.Where("priority = ?", string(*filter.Priority))
	}
	return q
}
