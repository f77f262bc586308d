package worker

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/facility-service/internal/events"
)

type fakeNotifier struct {
	mu      sync.Mutex
	handled []events.Event
}

func (f *fakeNotifier) EventTypes() []events.EventType {
	return []events.EventType{events.EventIssueCreated, events.EventIssueAssigned}
}

func (f *fakeNotifier) Handle(_ context.Context, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handled = append(f.handled, event)
	return nil
}

func TestNotificationWorkerDrainsOnStop(t *testing.T) {
	notifier := &fakeNotifier{}
	dispatcher := events.NewInMemoryDispatcher()
	w := NewNotificationWorker(notifier, zap.NewNop(), 8)
	w.Start(context.Background(), dispatcher)
	w.Start(context.Background(), dispatcher)

	ctx := context.Background()
	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventIssueCreated, IssueID: "1"}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventIssueDeleted, IssueID: "1"}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventIssueAssigned, IssueID: "1"}))
	w.Stop()
	w.Stop()

	require.Len(t, notifier.handled, 2)
	assert.Equal(t, events.EventIssueCreated, notifier.handled[0].Type)
	assert.Equal(t, events.EventIssueAssigned, notifier.handled[1].Type)

	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventIssueCreated, IssueID: "2"}))
}

func TestNotificationWorkerNilSafe(t *testing.T) {
	var w *NotificationWorker
	w.Start(context.Background(), events.NewInMemoryDispatcher())
	w.Stop()

	NewNotificationWorker(nil, nil, 0).Stop()
}
