package registry_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinayn0707/showtime-reservations/internal/registry"
)

func TestAcquireIsExclusivePerShow(t *testing.T) {
	r := registry.New()
	release := r.Acquire(1)

	acquired := make(chan struct{})
	go func() {
		release2 := r.Acquire(1)
		close(acquired)
		release2()
	}()

	select {
	case <-acquired:
		t.Fatal("second acquire on the same show should block until release")
	default:
	}

	release()
	<-acquired
}

func TestDifferentShowsNeverBlock(t *testing.T) {
	r := registry.New()
	release1 := r.Acquire(1)
	defer release1()

	done := make(chan struct{})
	go func() {
		release2 := r.Acquire(2)
		release2()
		close(done)
	}()
	<-done
}

func TestAcquireCtxTimesOutWithoutAcquiring(t *testing.T) {
	r := registry.New()
	release := r.Acquire(1)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	release2, err := r.AcquireCtx(ctx, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, release2)

	// The timed-out waiter must leave no trace: its reference is unwound,
	// so the registry still tracks only the holder's entry for show 1.
	assert.Equal(t, 1, r.Len())
}

func TestAcquireCtxSucceedsWhenLockFreesBeforeDeadline(t *testing.T) {
	r := registry.New()
	release := r.Acquire(1)

	go func() {
		time.Sleep(10 * time.Millisecond)
		release()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	release2, err := r.AcquireCtx(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, release2)
	release2()

	assert.Equal(t, 0, r.Len())
}

func TestRegistryShrinksToZero(t *testing.T) {
	r := registry.New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id uint64) {
			defer wg.Done()
			release := r.Acquire(id % 5)
			release()
		}(uint64(i))
	}
	wg.Wait()
	assert.Equal(t, 0, r.Len())
}
