package bootstrap

import (
	"github.com/go-ticklist/ticklist/internal/handlers"
	"github.com/go-ticklist/ticklist/internal/services"
)

// handlerSet holds all HTTP handlers
type handlerSet struct {
	auth *handlers.AuthHandler
	todo *handlers.TodoHandler
}

// initializeHandlers creates all HTTP handlers
func initializeHandlers(
	authService *services.AuthService,
	todoService *services.TodoService,
) handlerSet {
	return handlerSet{
		auth: handlers.NewAuthHandler(authService),
		todo: handlers.NewTodoHandler(todoService),
	}
}
