package domain

import "errors"

// ErrTitleRequired is returned when a todo is created without a title.
var ErrTitleRequired = errors.New("title cannot be empty")

// Todo is a single task item as persisted in the store.
// ID is assigned by the store on insert and never by a caller.
type Todo struct {
	ID          string  `gorm:"primaryKey;type:text" json:"id"`
	Title       string  `gorm:"not null" json:"title"`
	Description *string `json:"description"`
	Completed   bool    `gorm:"not null;default:false" json:"completed"`
}

// NewTodo builds an unsaved todo with the creation defaults applied.
func NewTodo(title string, description *string) *Todo {
	return &Todo{
		Title:       title,
		Description: description,
		Completed:   false, // Default value
	}
}
