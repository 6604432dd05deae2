package closer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloseRunsInReverseOrder(t *testing.T) {
	c := NewCloser(0)

	var order []string
	for _, name := range []string{"db", "redis", "http"} {
		c.AddFunc(name, func() error {
			order = append(order, name)
			return nil
		})
	}

	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, []string{"http", "redis", "db"}, order)
}

func TestCloseCollectsErrors(t *testing.T) {
	c := NewCloser(0)
	c.AddFunc("kafka", func() error { return errors.New("broker gone") })
	c.AddFunc("http", func() error { return nil })

	err := c.Close(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kafka: broker gone")
}

func TestCloseOnlyOnce(t *testing.T) {
	c := NewCloser(0)
	calls := 0
	c.AddFunc("x", func() error { calls++; return nil })

	require.NoError(t, c.Close(context.Background()))
	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestCloseForcesRemainingOnTimeout(t *testing.T) {
	c := NewCloser(100 * time.Millisecond)

	var (
		mu     sync.Mutex
		forced bool
	)
	c.Add("slow-first", func(ctx context.Context) error {
		mu.Lock()
		forced = true
		mu.Unlock()
		return nil
	})
	c.Add("blocking", func(ctx context.Context) error {
		time.Sleep(150 * time.Millisecond)
		return errors.New("stuck")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Close(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shutdown interrupted after 0/2 funcs")
	assert.Contains(t, err.Error(), "[FORCED] blocking: stuck")

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, forced)
}
