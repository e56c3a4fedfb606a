package gormstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Tomlord1122/todo-graph/internal/domain"
	"github.com/Tomlord1122/todo-graph/internal/store"
)

// Collection implements store.Collection on a Postgres table through GORM.
type Collection struct {
	db    *gorm.DB
	table string
}

var _ store.Collection = (*Collection)(nil)

// New creates a collection backed by the named table.
func New(db *gorm.DB, table string) *Collection {
	return &Collection{db: db, table: table}
}

// Migrate creates or alters the table to match domain.Todo.
// Run this only during development or via a separate migration command.
func (c *Collection) Migrate(ctx context.Context) error {
	return c.scoped(ctx).AutoMigrate(&domain.Todo{})
}

func (c *Collection) scoped(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx).Table(c.table)
}

func (c *Collection) ListAll(ctx context.Context) ([]domain.Todo, error) {
	var todos []domain.Todo
	if err := c.scoped(ctx).Find(&todos).Error; err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []domain.Todo{}
	}
	return todos, nil
}

func (c *Collection) FindByID(ctx context.Context, id string) (*domain.Todo, error) {
	var todo domain.Todo
	err := c.scoped(ctx).Where("id = ?", id).Take(&todo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &todo, nil
}

// Insert generates the id here rather than trusting the caller.
func (c *Collection) Insert(ctx context.Context, todo *domain.Todo) error {
	todo.ID = uuid.NewString()
	return c.scoped(ctx).Create(todo).Error
}

func (c *Collection) MergeUpdate(ctx context.Context, id string, changes store.Changes) (*domain.Todo, error) {
	if changes.IsEmpty() {
		return c.FindByID(ctx, id)
	}

	var rows []domain.Todo
	result := c.scoped(ctx).
		Model(&rows).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(changes.Columns())
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 || len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// DeleteByID removes the row permanently; there is no soft-delete column.
func (c *Collection) DeleteByID(ctx context.Context, id string) (*domain.Todo, error) {
	var rows []domain.Todo
	result := c.scoped(ctx).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Delete(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 || len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
