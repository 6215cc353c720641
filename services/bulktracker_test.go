package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sairajgoud-kodipaka/CRM-FINAL-sub001/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestTracker swaps the real sleep for a recorder.
func newTestTracker(delay time.Duration) (*BulkTracker, *[]time.Duration) {
	bt := NewBulkTracker(delay)
	var slept []time.Duration
	bt.sleep = func(d time.Duration) { slept = append(slept, d) }
	return bt, &slept
}

func payloadsOf(n int) []interface{} {
	payloads := make([]interface{}, n)
	for i := range payloads {
		payloads[i] = i
	}
	return payloads
}

func TestBulkRunAllItemsAttemptedDespiteFailure(t *testing.T) {
	bt, _ := newTestTracker(300 * time.Millisecond)

	var attempted []int
	result := bt.Run(context.Background(), payloadsOf(5), func(index int, payload interface{}) error {
		attempted = append(attempted, index)
		if index == 2 {
			return errors.New("duplicate email")
		}
		return nil
	})

	// No skipped items, no early abort
	assert.Equal(t, []int{0, 1, 2, 3, 4}, attempted)
	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 4, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)

	for i, item := range result.Items {
		if i == 2 {
			assert.Equal(t, models.BulkError, item.Status)
			assert.Equal(t, "duplicate email", item.Message)
		} else {
			assert.Equal(t, models.BulkSuccess, item.Status, "item %d", i)
			assert.Empty(t, item.Message, "item %d", i)
		}
	}
}

func TestBulkRunSequentialWithFixedDelay(t *testing.T) {
	bt, slept := newTestTracker(300 * time.Millisecond)

	inFlight := 0
	result := bt.Run(context.Background(), payloadsOf(4), func(index int, payload interface{}) error {
		inFlight++
		defer func() { inFlight-- }()
		require.Equal(t, 1, inFlight, "items must never overlap")
		return nil
	})

	assert.Equal(t, 4, result.SuccessCount)
	// The pause runs after every attempt except the last
	require.Len(t, *slept, 3)
	for _, d := range *slept {
		assert.Equal(t, 300*time.Millisecond, d)
	}
}

func TestBulkRunDelayAppliedAfterFailuresToo(t *testing.T) {
	bt, slept := newTestTracker(300 * time.Millisecond)

	bt.Run(context.Background(), payloadsOf(3), func(index int, payload interface{}) error {
		return errors.New("nope")
	})

	assert.Len(t, *slept, 2)
}

func TestBulkRunStatusProgression(t *testing.T) {
	bt, _ := newTestTracker(0)

	var seen []string
	bt.OnProgress = func(item models.BulkOperationItem) {
		seen = append(seen, item.Status)
	}

	bt.Run(context.Background(), payloadsOf(1), func(index int, payload interface{}) error {
		return nil
	})

	assert.Equal(t, []string{models.BulkCreating, models.BulkSuccess}, seen)
}

func TestBulkRunRecoversFromPanickingSubmit(t *testing.T) {
	bt, _ := newTestTracker(0)

	result := bt.Run(context.Background(), payloadsOf(3), func(index int, payload interface{}) error {
		if index == 1 {
			panic("boom")
		}
		return nil
	})

	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, models.BulkError, result.Items[1].Status)
	assert.Contains(t, result.Items[1].Message, "boom")
}

func TestBulkRunCancellationLeavesRemainingPending(t *testing.T) {
	bt, _ := newTestTracker(0)
	ctx, cancel := context.WithCancel(context.Background())

	result := bt.Run(ctx, payloadsOf(5), func(index int, payload interface{}) error {
		if index == 1 {
			cancel()
		}
		return nil
	})

	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, models.BulkSuccess, result.Items[1].Status)
	for _, item := range result.Items[2:] {
		assert.Equal(t, models.BulkPending, item.Status)
	}
}

func TestBulkRunEmptyInput(t *testing.T) {
	bt, slept := newTestTracker(300 * time.Millisecond)

	result := bt.Run(context.Background(), nil, func(index int, payload interface{}) error {
		t.Fatal("submit must not be called")
		return nil
	})

	assert.Zero(t, result.Total)
	assert.Empty(t, result.Items)
	assert.Empty(t, *slept)
}
