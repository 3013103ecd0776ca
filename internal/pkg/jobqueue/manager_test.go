package jobqueue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetManager(t *testing.T) {
	// Reset the singleton for testing
	globalManager = nil
	managerOnce = sync.Once{}
	t.Setenv("JOBQUEUE_WORKERS", "4")

	manager1 := GetManager()
	manager2 := GetManager()

	assert.NotNil(t, manager1)
	assert.Same(t, manager1, manager2, "GetManager should return the same instance")
	assert.Equal(t, 4, manager1.queue.workers)
	assert.False(t, manager1.running)
}

func TestManager_GetQueue(t *testing.T) {
	queue := NewQueue(nil, 2)
	manager := NewManager(queue)

	assert.Same(t, queue, manager.GetQueue())
	assert.Equal(t, defaultStatsInterval, manager.statsInterval)
}

func TestManager_IsRunning(t *testing.T) {
	manager := NewManager(NewQueue(nil, 1))

	assert.False(t, manager.IsRunning())

	manager.mu.Lock()
	manager.running = true
	manager.mu.Unlock()

	assert.True(t, manager.IsRunning())

	manager.mu.Lock()
	manager.running = false
	manager.mu.Unlock()

	assert.False(t, manager.IsRunning())
}

func TestManager_StopWithoutStart(t *testing.T) {
	manager := NewManager(NewQueue(nil, 1))

	// Stop without starting should be safe
	manager.Stop()
	assert.False(t, manager.IsRunning())
}

func TestWorkerCount(t *testing.T) {
	t.Setenv("JOBQUEUE_WORKERS", "nope")
	assert.Equal(t, 3, workerCount())

	t.Setenv("JOBQUEUE_WORKERS", "0")
	assert.Equal(t, 3, workerCount())

	t.Setenv("JOBQUEUE_WORKERS", "7")
	assert.Equal(t, 7, workerCount())
}
