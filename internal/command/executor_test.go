package command

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"daybook/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestExecutorSerializesCommands(t *testing.T) {
	defer goleak.VerifyNone(t)

	r, st := newTestRouter(t)
	ex := NewExecutor(r)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result := ex.Submit(context.Background(), DomainTask, "create", Params{
				"title": fmt.Sprintf("Task %d", i),
			})
			assert.True(t, result.Success, result.Message)
		}(i)
	}
	wg.Wait()
	ex.Close()

	assert.Len(t, st.Tasks(), 20)
	assert.Equal(t, 20, st.SaveCount)
}

func TestExecutorSubmitAfterCloseFails(t *testing.T) {
	r, _ := newTestRouter(t)
	ex := NewExecutor(r)
	ex.Close()

	result := ex.Submit(context.Background(), DomainTask, "create", Params{"title": "x"})
	require.False(t, result.Success)
	assert.Contains(t, result.Message, "executor is closed")
}

// blockingStore parks every Save until released, signalling entry first. It
// lets a test hold the executor's worker inside a command.
type blockingStore struct {
	*store.MemoryStore
	entered chan struct{}
	release chan struct{}
}

func (b *blockingStore) Save() error {
	b.entered <- struct{}{}
	<-b.release
	return b.MemoryStore.Save()
}

func TestExecutorCancelledBeforeExecution(t *testing.T) {
	defer goleak.VerifyNone(t)

	st := &blockingStore{
		MemoryStore: store.NewMemoryStore(),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	ex := NewExecutor(NewRouter(st))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		result := ex.Submit(context.Background(), DomainTask, "create", Params{"title": "holds the worker"})
		assert.True(t, result.Success, result.Message)
	}()
	<-st.entered

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := ex.Submit(ctx, DomainTask, "create", Params{"title": "never runs"})
	require.False(t, result.Success)
	assert.Contains(t, result.Message, "cancelled before execution")

	close(st.release)
	wg.Wait()
	ex.Close()

	assert.Len(t, st.Tasks(), 1, "the queued command must not have executed")
}
