package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Sairajgoud-kodipaka/CRM-FINAL-sub001/models"
	"github.com/sirupsen/logrus"
)

// BulkSubmitFunc attempts one item of a bulk job. An error marks the item
// as failed; the run continues with the next item either way.
type BulkSubmitFunc func(index int, payload interface{}) error

// BulkTracker runs row-wise bulk jobs strictly sequentially with a fixed
// pause between items. The pause is a resource-sharing contract that bounds
// backend request rate, not a performance knob. The same machine backs the
// team roster import and any future row-wise pipeline edit.
type BulkTracker struct {
	itemDelay time.Duration

	// sleep is swappable so tests don't wait out real delays.
	sleep func(time.Duration)

	// OnProgress, if set, observes every item status change.
	OnProgress func(item models.BulkOperationItem)
}

// NewBulkTracker builds a tracker with the given inter-item delay.
func NewBulkTracker(itemDelay time.Duration) *BulkTracker {
	return &BulkTracker{
		itemDelay: itemDelay,
		sleep:     time.Sleep,
	}
}

// Run processes the payloads in order, one at a time. Every item is
// attempted: a failure is recorded with its message and the run moves on.
// Cancelling the context stops the run before the next item; remaining
// items stay pending in the returned result.
func (bt *BulkTracker) Run(ctx context.Context, payloads []interface{}, submit BulkSubmitFunc) models.BulkOperationResult {
	result := models.BulkOperationResult{
		Total: len(payloads),
		Items: make([]models.BulkOperationItem, len(payloads)),
	}
	for i, payload := range payloads {
		result.Items[i] = models.BulkOperationItem{
			Index:   i,
			Payload: payload,
			Status:  models.BulkPending,
		}
	}

	for i := range result.Items {
		if ctx.Err() != nil {
			logrus.WithField("completed", i).Warn("Bulk run cancelled")
			break
		}

		bt.setStatus(&result.Items[i], models.BulkCreating, "")

		if err := bt.attempt(i, result.Items[i].Payload, submit); err != nil {
			result.ErrorCount++
			bt.setStatus(&result.Items[i], models.BulkError, err.Error())
		} else {
			result.SuccessCount++
			bt.setStatus(&result.Items[i], models.BulkSuccess, "")
		}

		// Fixed pause after every attempt, success or not
		if bt.itemDelay > 0 && i < len(result.Items)-1 {
			bt.sleep(bt.itemDelay)
		}
	}

	logrus.WithFields(logrus.Fields{
		"total":   result.Total,
		"success": result.SuccessCount,
		"errors":  result.ErrorCount,
	}).Info("Bulk run finished")
	return result
}

// attempt shields the run from a panicking submit func: the item is
// recorded as failed and the run continues.
func (bt *BulkTracker) attempt(index int, payload interface{}, submit BulkSubmitFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return submit(index, payload)
}

func (bt *BulkTracker) setStatus(item *models.BulkOperationItem, status, message string) {
	item.Status = status
	item.Message = message
	if bt.OnProgress != nil {
		bt.OnProgress(*item)
	}
}
