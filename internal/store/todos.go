package store

import (
	"errors"

	"github.com/go-ticklist/ticklist/internal/models"
	"gorm.io/gorm"
)

// Every todo query is scoped by the owning user ID; there is no
// cross-tenant read or write path through this store.

// CreateTodo inserts a new todo
func (s *Store) CreateTodo(todo *models.Todo) error {
	return s.db.Create(todo).Error
}

// GetTodoByID retrieves one todo owned by userID
func (s *Store) GetTodoByID(userID, todoID string) (*models.Todo, error) {
	var todo models.Todo
	err := s.db.Where("user_id = ? AND id = ?", userID, todoID).First(&todo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &todo, nil
}

// ListTodosByUser returns all todos owned by userID in creation order
func (s *Store) ListTodosByUser(userID string) ([]models.Todo, error) {
	var todos []models.Todo
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&todos).Error; err != nil {
		return nil, err
	}
	return todos, nil
}

// UpdateTodo persists changes to an existing todo
func (s *Store) UpdateTodo(todo *models.Todo) error {
	return s.db.Save(todo).Error
}

// DeleteTodo removes one todo owned by userID. Returns ErrRecordNotFound
// when nothing matched, so a delete of someone else's todo is
// indistinguishable from a delete of a missing one.
func (s *Store) DeleteTodo(userID, todoID string) error {
	result := s.db.Where("user_id = ? AND id = ?", userID, todoID).Delete(&models.Todo{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// CountTodos returns the number of stored todos across all users
func (s *Store) CountTodos() (int64, error) {
	var count int64
	if err := s.db.Model(&models.Todo{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
