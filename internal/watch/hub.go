// Package watch fans project snapshots out to live tracking views. Every
// successful project write publishes the fresh snapshot; subscribers hold a
// channel for the lifetime of their request context and are released the
// moment that context ends, so a torn-down view can never leak its
// subscription.
package watch

import (
	"context"
	"sync"

	"studkits-backend/internal/models"
)

type subscriber chan models.ProjectResponse

type Hub struct {
	mu   sync.Mutex
	subs map[string]map[subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[subscriber]struct{})}
}

// Subscribe registers for snapshots of one project. The returned channel is
// closed when ctx is done; the caller just ranges over it.
func (h *Hub) Subscribe(ctx context.Context, projectID string) <-chan models.ProjectResponse {
	ch := make(subscriber, 8)

	h.mu.Lock()
	if h.subs[projectID] == nil {
		h.subs[projectID] = make(map[subscriber]struct{})
	}
	h.subs[projectID][ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		if set, ok := h.subs[projectID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, projectID)
			}
		}
		h.mu.Unlock()
		close(ch)
	}()

	return ch
}

// Publish delivers a snapshot to every live subscriber of the project. A
// subscriber that cannot keep up has the update dropped rather than blocking
// the writer; the next publish supersedes it anyway.
func (h *Hub) Publish(snapshot models.ProjectResponse) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[snapshot.ProjectID] {
		select {
		case ch <- snapshot:
		default:
		}
	}
}

// SubscriberCount reports live subscriptions for one project.
func (h *Hub) SubscriberCount(projectID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[projectID])
}
