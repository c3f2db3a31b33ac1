package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishRunsEveryHandler(t *testing.T) {
	t.Parallel()

	d := NewInMemoryDispatcher()
	var seen []Event
	d.Subscribe(EventBlogPublished, func(_ context.Context, e Event) error {
		seen = append(seen, e)
		return errors.New("webhook down")
	})
	d.Subscribe(EventBlogPublished, func(_ context.Context, e Event) error {
		seen = append(seen, e)
		return nil
	})
	d.Subscribe(EventBlogUnpublished, func(context.Context, Event) error {
		t.Fatal("unrelated handler invoked")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventBlogPublished, ResourceID: "b1"})

	assert.EqualError(t, err, "webhook down")
	assert.Len(t, seen, 2)
	assert.NotEmpty(t, seen[0].ID)
	assert.False(t, seen[0].Timestamp.IsZero())
	assert.Equal(t, "b1", seen[1].ResourceID)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	t.Parallel()
	assert.NoError(t, NewInMemoryDispatcher().Publish(context.Background(), Event{Type: EventUserRoleChanged}))
}
