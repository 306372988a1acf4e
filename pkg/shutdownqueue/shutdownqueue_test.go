package shutdownqueue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdown_RunsInReverseOrder(t *testing.T) {
	q := New()
	var order []string
	for _, name := range []string{"db", "redis", "http"} {
		name := name
		q.Add(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	require.NoError(t, q.Shutdown(context.Background()))
	assert.Equal(t, []string{"http", "redis", "db"}, order)
}

func TestShutdown_JoinsErrorsAndRecoversPanics(t *testing.T) {
	q := New()
	boom := errors.New("boom")
	q.Add("failing", func(context.Context) error { return boom })
	q.Add("panicking", func(context.Context) error { panic("bad") })

	err := q.Shutdown(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "panic in shutdown task panicking")
}

func TestShutdown_IsIdempotent(t *testing.T) {
	q := New()
	calls := 0
	q.Add("once", func(context.Context) error { calls++; return nil })

	require.NoError(t, q.Shutdown(context.Background()))
	require.NoError(t, q.Shutdown(context.Background()))
	assert.Equal(t, 1, calls)

	q.Add("late", func(context.Context) error { calls++; return nil })
	assert.Equal(t, 0, q.Len())
}

func TestShutdown_StopsOnCanceledContext(t *testing.T) {
	q := New()
	ran := false
	q.Add("never", func(context.Context) error { ran = true; return nil })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := q.Shutdown(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)
}

func TestAdd_IgnoresNil(t *testing.T) {
	q := New()
	q.Add("nil", nil)
	assert.Equal(t, 0, q.Len())
}
