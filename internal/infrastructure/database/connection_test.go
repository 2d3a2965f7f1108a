package database

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct{ n int32 }

func TestHandleMemoizes(t *testing.T) {
	var dials int32
	h := NewHandle("fake", func(context.Context) (*fakeConn, error) {
		return &fakeConn{n: atomic.AddInt32(&dials, 1)}, nil
	})

	_, ok := h.Current()
	assert.False(t, ok)

	var wg sync.WaitGroup
	conns := make([]*fakeConn, 16)
	for i := range conns {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := h.Acquire(context.Background())
			assert.NoError(t, err)
			conns[i] = c
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&dials))
	for _, c := range conns {
		assert.Same(t, conns[0], c)
	}
	cur, ok := h.Current()
	assert.True(t, ok)
	assert.Same(t, conns[0], cur)
}

func TestHandleRetriesAfterFailure(t *testing.T) {
	fail := true
	h := NewHandle("fake", func(context.Context) (*fakeConn, error) {
		if fail {
			return nil, errors.New("no route to host")
		}
		return &fakeConn{}, nil
	})

	h.WarmUp(context.Background())
	_, ok := h.Current()
	assert.False(t, ok)

	_, err := h.Acquire(context.Background())
	require.Error(t, err)

	fail = false
	c, err := h.Acquire(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, c)
}
