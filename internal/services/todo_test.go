package services

import (
	"context"
	"testing"

	"github.com/go-ticklist/ticklist/internal/metrics"
	"github.com/go-ticklist/ticklist/internal/models"
	"github.com/go-ticklist/ticklist/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type todoFixture struct {
	svc   *TodoService
	alice string
	bob   string
}

func newTodoFixture(t *testing.T) *todoFixture {
	t.Helper()

	st, err := store.New(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	fx := &todoFixture{
		svc:   NewTodoService(st, metrics.NewNoopMetrics(), zap.NewNop()),
		alice: uuid.New().String(),
		bob:   uuid.New().String(),
	}

	for id, email := range map[string]string{
		fx.alice: "alice@example.com",
		fx.bob:   "bob@example.com",
	} {
		require.NoError(t, st.CreateUser(&models.User{
			ID:           id,
			Name:         "Test User",
			Email:        email,
			PasswordHash: "not-a-real-hash",
		}))
	}

	return fx
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestTodoCreateAndGet(t *testing.T) {
	fx := newTodoFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, fx.alice, "groceries", "milk and eggs")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, fx.alice, created.UserID)
	assert.False(t, created.Completed)

	got, err := fx.svc.Get(ctx, fx.alice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "groceries", got.Heading)
	assert.Equal(t, "milk and eggs", got.Task)
}

func TestTodoList(t *testing.T) {
	fx := newTodoFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Create(ctx, fx.alice, "first", "")
	require.NoError(t, err)
	_, err = fx.svc.Create(ctx, fx.alice, "second", "")
	require.NoError(t, err)
	_, err = fx.svc.Create(ctx, fx.bob, "bob's", "")
	require.NoError(t, err)

	todos, err := fx.svc.List(ctx, fx.alice)
	require.NoError(t, err)
	require.Len(t, todos, 2, "only the owner's todos are listed")
	assert.Equal(t, "first", todos[0].Heading)
	assert.Equal(t, "second", todos[1].Heading)
}

func TestTodoList_Empty(t *testing.T) {
	fx := newTodoFixture(t)

	todos, err := fx.svc.List(context.Background(), fx.alice)
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestTodoGet_NotFound(t *testing.T) {
	fx := newTodoFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Get(ctx, fx.alice, uuid.New().String())
	assert.ErrorIs(t, err, ErrTodoNotFound)
}

func TestTodoGet_ForeignOwner(t *testing.T) {
	fx := newTodoFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, fx.alice, "private", "")
	require.NoError(t, err)

	// Someone else's todo is indistinguishable from a missing one.
	_, err = fx.svc.Get(ctx, fx.bob, created.ID)
	assert.ErrorIs(t, err, ErrTodoNotFound)
}

func TestTodoUpdate_Partial(t *testing.T) {
	fx := newTodoFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, fx.alice, "groceries", "milk")
	require.NoError(t, err)

	updated, err := fx.svc.Update(ctx, fx.alice, created.ID, TodoUpdate{
		Completed: boolPtr(true),
	})
	require.NoError(t, err)

	// Untouched fields survive.
	assert.True(t, updated.Completed)
	assert.Equal(t, "groceries", updated.Heading)
	assert.Equal(t, "milk", updated.Task)

	updated, err = fx.svc.Update(ctx, fx.alice, created.ID, TodoUpdate{
		Heading: strPtr("weekly groceries"),
		Task:    strPtr("milk and eggs"),
	})
	require.NoError(t, err)
	assert.Equal(t, "weekly groceries", updated.Heading)
	assert.Equal(t, "milk and eggs", updated.Task)
	assert.True(t, updated.Completed, "earlier update survives")
}

func TestTodoUpdate_NoFields(t *testing.T) {
	fx := newTodoFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, fx.alice, "groceries", "")
	require.NoError(t, err)

	_, err = fx.svc.Update(ctx, fx.alice, created.ID, TodoUpdate{})
	assert.ErrorIs(t, err, ErrNoFieldsToUpdate)
}

func TestTodoUpdate_NotFound(t *testing.T) {
	fx := newTodoFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Update(ctx, fx.alice, uuid.New().String(), TodoUpdate{
		Completed: boolPtr(true),
	})
	assert.ErrorIs(t, err, ErrTodoNotFound)
}

func TestTodoUpdate_ForeignOwner(t *testing.T) {
	fx := newTodoFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, fx.alice, "private", "")
	require.NoError(t, err)

	_, err = fx.svc.Update(ctx, fx.bob, created.ID, TodoUpdate{
		Heading: strPtr("hijacked"),
	})
	assert.ErrorIs(t, err, ErrTodoNotFound)

	// Unchanged for the owner.
	got, err := fx.svc.Get(ctx, fx.alice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "private", got.Heading)
}

func TestTodoDelete(t *testing.T) {
	fx := newTodoFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, fx.alice, "groceries", "")
	require.NoError(t, err)

	require.NoError(t, fx.svc.Delete(ctx, fx.alice, created.ID))

	_, err = fx.svc.Get(ctx, fx.alice, created.ID)
	assert.ErrorIs(t, err, ErrTodoNotFound)

	assert.ErrorIs(t, fx.svc.Delete(ctx, fx.alice, created.ID), ErrTodoNotFound)
}

func TestTodoDelete_ForeignOwner(t *testing.T) {
	fx := newTodoFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, fx.alice, "private", "")
	require.NoError(t, err)

	assert.ErrorIs(t, fx.svc.Delete(ctx, fx.bob, created.ID), ErrTodoNotFound)

	// Still there for the owner.
	_, err = fx.svc.Get(ctx, fx.alice, created.ID)
	assert.NoError(t, err)
}

// todoRecorder captures todo operation outcomes.
type todoRecorder struct {
	metrics.NoopMetrics
	ops []string
}

func (r *todoRecorder) RecordTodoOperation(operation, result string) {
	r.ops = append(r.ops, operation+":"+result)
}

func TestTodoMetricsRecorded(t *testing.T) {
	st, err := store.New(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	userID := uuid.New().String()
	require.NoError(t, st.CreateUser(&models.User{
		ID:           userID,
		Name:         "Test User",
		Email:        "alice@example.com",
		PasswordHash: "not-a-real-hash",
	}))

	recorder := &todoRecorder{}
	svc := NewTodoService(st, recorder, zap.NewNop())
	ctx := context.Background()

	created, err := svc.Create(ctx, userID, "groceries", "")
	require.NoError(t, err)
	_, err = svc.Get(ctx, userID, created.ID)
	require.NoError(t, err)
	_, err = svc.Get(ctx, userID, "missing")
	require.ErrorIs(t, err, ErrTodoNotFound)
	require.NoError(t, svc.Delete(ctx, userID, created.ID))

	assert.Equal(t, []string{
		"create:success",
		"get:success",
		"get:not_found",
		"delete:success",
	}, recorder.ops)
}
