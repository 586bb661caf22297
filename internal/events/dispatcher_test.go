package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var seen []Event
	d.Subscribe(EventIssueCreated, func(ctx context.Context, event Event) error {
		seen = append(seen, event)
		return nil
	})
	d.Subscribe(EventIssueAssigned, func(ctx context.Context, event Event) error {
		t.Fatal("handler for a different type should not fire")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventIssueCreated, IssueID: "issue-1"})
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, "issue-1", seen[0].IssueID)
}

func TestDispatcherSwallowsHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	called := 0
	d.Subscribe(EventIssueStatusChanged, func(ctx context.Context, event Event) error {
		called++
		return errors.New("handler failure")
	})
	d.Subscribe(EventIssueStatusChanged, func(ctx context.Context, event Event) error {
		called++
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventIssueStatusChanged})
	require.NoError(t, err)
	assert.Equal(t, 2, called)
}

func TestDispatcherNoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventIssueCommented}))
}
