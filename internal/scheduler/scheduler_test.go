package scheduler

import (
	"context"
	"sync"
	"testing"

	"access-log-backend/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

type countingProducer struct {
	mu    sync.Mutex
	calls int
	ctx   context.Context
}

func (p *countingProducer) ProcessLogs(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.ctx = ctx
	return nil
}

func TestNewScheduler(t *testing.T) {
	t.Run("Valid Schedule", func(t *testing.T) {
		lc := fxtest.NewLifecycle(t)
		cfg := &config.Config{LogProcessor: config.LogProcessorConfig{Schedule: "*/30 * * * * *"}}

		c, err := NewScheduler(lc, cfg, &countingProducer{})
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Len(t, c.Entries(), 1)

		lc.RequireStart()
		lc.RequireStop()
	})

	t.Run("Descriptor", func(t *testing.T) {
		cfg := &config.Config{LogProcessor: config.LogProcessorConfig{Schedule: "@every 1m"}}
		_, err := NewScheduler(fxtest.NewLifecycle(t), cfg, &countingProducer{})
		assert.NoError(t, err)
	})

	t.Run("Invalid Schedule", func(t *testing.T) {
		cfg := &config.Config{LogProcessor: config.LogProcessorConfig{Schedule: "every five minutes"}}
		c, err := NewScheduler(fxtest.NewLifecycle(t), cfg, &countingProducer{})
		require.Error(t, err)
		assert.Nil(t, c)
		assert.Contains(t, err.Error(), "every five minutes")
	})
}

func TestNewShipJob(t *testing.T) {
	producer := &countingProducer{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	job := NewShipJob(ctx, &wg, producer)
	job()
	job()
	wg.Wait()

	assert.Equal(t, 2, producer.calls)
	assert.Equal(t, ctx, producer.ctx)
}
