package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherRunsEveryHandler(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string
	d.Subscribe(EventIssueCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.IssueID)
		return errors.New("boom")
	})
	d.Subscribe(EventIssueCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.IssueID)
		return nil
	})
	d.Subscribe(EventIssueDeleted, func(context.Context, Event) error {
		calls = append(calls, "deleted")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventIssueCreated, IssueID: "1"})
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []string{"first:1", "second:1"}, calls)
}

func TestDispatcherWithoutListeners(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventIssueAssigned}))
}
