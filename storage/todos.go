package storage

import (
	"fmt"
	"time"

	"tinigom/models"
)

// ListTodos returns all todos newest first.
func (db *DB) ListTodos() ([]models.Todo, error) {
	todos := []models.Todo{}
	if err := db.conn.Order("created_at desc").Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}
	return todos, nil
}

// CreateTodo inserts t and fills its generated fields.
func (db *DB) CreateTodo(t *models.Todo) error {
	if err := db.conn.Create(t).Error; err != nil {
		return fmt.Errorf("creating todo: %w", err)
	}
	return nil
}

// UpdateTodo applies a partial update (completed flag only) and always
// stamps updated_at. Returns the updated row.
func (db *DB) UpdateTodo(id uint, completed *bool) (*models.Todo, error) {
	var t models.Todo
	if err := db.conn.First(&t, id).Error; err != nil {
		return nil, fmt.Errorf("fetching todo %d: %w", id, err)
	}
	updates := map[string]interface{}{"updated_at": time.Now()}
	if completed != nil {
		updates["completed"] = *completed
	}
	if err := db.conn.Model(&t).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("updating todo %d: %w", id, err)
	}
	if err := db.conn.First(&t, id).Error; err != nil {
		return nil, fmt.Errorf("refetching todo %d: %w", id, err)
	}
	return &t, nil
}

// DeleteTodo removes the row with the given id.
func (db *DB) DeleteTodo(id uint) error {
	if err := db.conn.Delete(&models.Todo{}, id).Error; err != nil {
		return fmt.Errorf("deleting todo %d: %w", id, err)
	}
	return nil
}
