package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-ticklist/ticklist/internal/middleware"
	"github.com/go-ticklist/ticklist/internal/models"
	"github.com/go-ticklist/ticklist/internal/services"

	"github.com/gin-gonic/gin"
)

// TodoHandler exposes CRUD over the authenticated user's todos. Every
// operation is scoped to the subject of the presented token; other users'
// todos are indistinguishable from absent ones.
type TodoHandler struct {
	todoService *services.TodoService
}

func NewTodoHandler(ts *services.TodoService) *TodoHandler {
	return &TodoHandler{todoService: ts}
}

type createTodoRequest struct {
	Heading string `json:"heading" binding:"required"`
	Task    string `json:"task" binding:"required"`
}

type updateTodoRequest struct {
	Heading   *string `json:"heading"`
	Task      *string `json:"task"`
	Completed *bool   `json:"completed"`
}

// todoResponse is the wire shape of a todo. The owner is implied by the
// bearer token and never serialized.
type todoResponse struct {
	ID        string    `json:"id"`
	Heading   string    `json:"heading"`
	Task      string    `json:"task"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newTodoResponse(t *models.Todo) todoResponse {
	return todoResponse{
		ID:        t.ID,
		Heading:   t.Heading,
		Task:      t.Task,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// subject pulls the authenticated user id set by the bearer middleware.
func subject(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":             "invalid_token",
			"error_description": "Authentication required",
		})
		return "", false
	}
	return userID, true
}

// Create godoc
//
//	@Summary		Create a todo
//	@Description	Create a todo owned by the authenticated user. New todos start uncompleted.
//	@Tags			Todo
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		createTodoRequest								true	"Todo payload"
//	@Success		201		{object}	todoResponse									"Created todo"
//	@Failure		400		{object}	object{error=string,error_description=string}	"Invalid payload (invalid_request)"
//	@Failure		401		{object}	object{error=string,error_description=string}	"Missing or invalid bearer token"
//	@Router			/todo [post]
func (h *TodoHandler) Create(c *gin.Context) {
	userID, ok := subject(c)
	if !ok {
		return
	}

	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "invalid_request",
			"error_description": "heading and task are required",
		})
		return
	}

	todo, err := h.todoService.Create(c.Request.Context(), userID, req.Heading, req.Task)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":             "server_error",
			"error_description": "Todo creation failed",
		})
		return
	}

	c.JSON(http.StatusCreated, newTodoResponse(todo))
}

// List godoc
//
//	@Summary		List todos
//	@Description	Return every todo owned by the authenticated user, oldest first.
//	@Tags			Todo
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		todoResponse									"Todos"
//	@Failure		401	{object}	object{error=string,error_description=string}	"Missing or invalid bearer token"
//	@Router			/todo [get]
func (h *TodoHandler) List(c *gin.Context) {
	userID, ok := subject(c)
	if !ok {
		return
	}

	todos, err := h.todoService.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":             "server_error",
			"error_description": "Todo listing failed",
		})
		return
	}

	resp := make([]todoResponse, 0, len(todos))
	for i := range todos {
		resp = append(resp, newTodoResponse(&todos[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
//
//	@Summary		Fetch a todo
//	@Description	Return one todo by id. Todos owned by other users report not found.
//	@Tags			Todo
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string											true	"Todo id"
//	@Success		200	{object}	todoResponse									"Todo"
//	@Failure		401	{object}	object{error=string,error_description=string}	"Missing or invalid bearer token"
//	@Failure		404	{object}	object{error=string,error_description=string}	"Unknown or foreign todo (todo_not_found)"
//	@Router			/todo/{id} [get]
func (h *TodoHandler) Get(c *gin.Context) {
	userID, ok := subject(c)
	if !ok {
		return
	}

	todo, err := h.todoService.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTodoResponse(todo))
}

// Update godoc
//
//	@Summary		Update a todo
//	@Description	Partially update a todo. Only the provided fields change; a payload with no recognized fields is rejected.
//	@Tags			Todo
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string											true	"Todo id"
//	@Param			request	body		updateTodoRequest								true	"Fields to change"
//	@Success		200		{object}	object{msg=string}								"Todo updated successfully"
//	@Failure		400		{object}	object{error=string,error_description=string}	"Malformed payload or no fields to update (invalid_request, no_fields_to_update)"
//	@Failure		401		{object}	object{error=string,error_description=string}	"Missing or invalid bearer token"
//	@Failure		404		{object}	object{error=string,error_description=string}	"Unknown or foreign todo (todo_not_found)"
//	@Router			/todo/{id} [put]
func (h *TodoHandler) Update(c *gin.Context) {
	userID, ok := subject(c)
	if !ok {
		return
	}

	var req updateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "invalid_request",
			"error_description": "request body must be a JSON object",
		})
		return
	}

	update := services.TodoUpdate{
		Heading:   req.Heading,
		Task:      req.Task,
		Completed: req.Completed,
	}
	if _, err := h.todoService.Update(c.Request.Context(), userID, c.Param("id"), update); err != nil {
		if errors.Is(err, services.ErrNoFieldsToUpdate) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":             "no_fields_to_update",
				"error_description": "No fields to update",
			})
			return
		}
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Todo updated successfully"})
}

// Delete godoc
//
//	@Summary		Delete a todo
//	@Description	Delete one todo by id. Todos owned by other users report not found.
//	@Tags			Todo
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string											true	"Todo id"
//	@Success		200	{object}	object{msg=string}								"Todo deleted successfully"
//	@Failure		401	{object}	object{error=string,error_description=string}	"Missing or invalid bearer token"
//	@Failure		404	{object}	object{error=string,error_description=string}	"Unknown or foreign todo (todo_not_found)"
//	@Router			/todo/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	userID, ok := subject(c)
	if !ok {
		return
	}

	if err := h.todoService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Todo deleted successfully"})
}

func respondTodoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTodoNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":             "todo_not_found",
			"error_description": "Todo not found",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":             "server_error",
			"error_description": "Todo operation failed",
		})
	}
}
