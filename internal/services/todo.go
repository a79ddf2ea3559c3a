package services

import (
	"context"
	"errors"

	"github.com/go-ticklist/ticklist/internal/metrics"
	"github.com/go-ticklist/ticklist/internal/models"
	"github.com/go-ticklist/ticklist/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TodoService manages todos for authenticated users. Every operation is
// scoped by the owning user id; a foreign todo and a missing one are
// indistinguishable to the caller.
type TodoService struct {
	store    *store.Store
	recorder metrics.Recorder
	logger   *zap.Logger
}

// NewTodoService creates a todo service.
func NewTodoService(s *store.Store, recorder metrics.Recorder, logger *zap.Logger) *TodoService {
	return &TodoService{
		store:    s,
		recorder: recorder,
		logger:   logger,
	}
}

// TodoUpdate carries a partial update; nil fields stay untouched.
type TodoUpdate struct {
	Heading   *string
	Task      *string
	Completed *bool
}

func (u TodoUpdate) empty() bool {
	return u.Heading == nil && u.Task == nil && u.Completed == nil
}

// Create stores a new todo owned by userID.
func (s *TodoService) Create(ctx context.Context, userID, heading, task string) (*models.Todo, error) {
	todo := &models.Todo{
		ID:      uuid.New().String(),
		UserID:  userID,
		Heading: heading,
		Task:    task,
	}

	if err := s.store.CreateTodo(todo); err != nil {
		s.recorder.RecordTodoOperation("create", "error")
		return nil, err
	}

	s.recorder.RecordTodoOperation("create", "success")
	s.logger.Debug("todo created",
		zap.String("user_id", userID),
		zap.String("todo_id", todo.ID),
	)

	return todo, nil
}

// List returns all todos owned by userID in creation order.
func (s *TodoService) List(ctx context.Context, userID string) ([]models.Todo, error) {
	todos, err := s.store.ListTodosByUser(userID)
	if err != nil {
		s.recorder.RecordTodoOperation("list", "error")
		return nil, err
	}

	s.recorder.RecordTodoOperation("list", "success")
	return todos, nil
}

// Get returns one todo owned by userID.
func (s *TodoService) Get(ctx context.Context, userID, todoID string) (*models.Todo, error) {
	todo, err := s.store.GetTodoByID(userID, todoID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			s.recorder.RecordTodoOperation("get", "not_found")
			return nil, ErrTodoNotFound
		}
		s.recorder.RecordTodoOperation("get", "error")
		return nil, err
	}

	s.recorder.RecordTodoOperation("get", "success")
	return todo, nil
}

// Update applies a partial update to one todo owned by userID. An update
// carrying no fields fails with ErrNoFieldsToUpdate before touching the
// store.
func (s *TodoService) Update(ctx context.Context, userID, todoID string, update TodoUpdate) (*models.Todo, error) {
	if update.empty() {
		return nil, ErrNoFieldsToUpdate
	}

	todo, err := s.store.GetTodoByID(userID, todoID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			s.recorder.RecordTodoOperation("update", "not_found")
			return nil, ErrTodoNotFound
		}
		s.recorder.RecordTodoOperation("update", "error")
		return nil, err
	}

	if update.Heading != nil {
		todo.Heading = *update.Heading
	}
	if update.Task != nil {
		todo.Task = *update.Task
	}
	if update.Completed != nil {
		todo.Completed = *update.Completed
	}

	if err := s.store.UpdateTodo(todo); err != nil {
		s.recorder.RecordTodoOperation("update", "error")
		return nil, err
	}

	s.recorder.RecordTodoOperation("update", "success")
	return todo, nil
}

// Delete removes one todo owned by userID.
func (s *TodoService) Delete(ctx context.Context, userID, todoID string) error {
	if err := s.store.DeleteTodo(userID, todoID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			s.recorder.RecordTodoOperation("delete", "not_found")
			return ErrTodoNotFound
		}
		s.recorder.RecordTodoOperation("delete", "error")
		return err
	}

	s.recorder.RecordTodoOperation("delete", "success")
	s.logger.Debug("todo deleted",
		zap.String("user_id", userID),
		zap.String("todo_id", todoID),
	)

	return nil
}
