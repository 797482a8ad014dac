package watch_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"studkits-backend/internal/models"
	"studkits-backend/internal/watch"
)

func TestHub_PublishReachesSubscriber(t *testing.T) {
	hub := watch.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := hub.Subscribe(ctx, "SK-1024")
	hub.Publish(models.ProjectResponse{ProjectID: "SK-1024", CurrentStage: "programming"})

	select {
	case snapshot := <-ch:
		assert.Equal(t, "programming", snapshot.CurrentStage)
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the snapshot")
	}
}

func TestHub_PublishScopedToProject(t *testing.T) {
	hub := watch.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := hub.Subscribe(ctx, "SK-1024")
	hub.Publish(models.ProjectResponse{ProjectID: "SK-9999"})

	select {
	case snapshot := <-ch:
		t.Fatalf("received snapshot for the wrong project: %v", snapshot.ProjectID)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_ContextCancelReleasesSubscription(t *testing.T) {
	hub := watch.NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	ch := hub.Subscribe(ctx, "SK-1024")
	require.Equal(t, 1, hub.SubscriberCount("SK-1024"))

	cancel()

	// The channel closes once the hub has dropped the subscriber.
	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("channel never closed after cancel")
	}
	assert.Equal(t, 0, hub.SubscriberCount("SK-1024"))
}

func TestHub_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	hub := watch.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub.Subscribe(ctx, "SK-1024") // never drained

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish(models.ProjectResponse{ProjectID: "SK-1024"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
