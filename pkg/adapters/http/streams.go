package http

import (
	"log/slog"
	"sync"
)

// StreamManager handles active SSE connections, keyed by workspace name.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // workspace -> set of channels
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

// Subscribe registers a listener for one workspace. The returned cancel func
// must be called when the client goes away.
func (sm *StreamManager) Subscribe(workspace string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[workspace]; !ok {
		sm.subscribers[workspace] = make(map[chan<- string]struct{})
	}
	sm.subscribers[workspace][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[workspace]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, workspace)
			}
		}
	}
}

// Broadcast fans a message out to every subscriber of the workspace.
func (sm *StreamManager) Broadcast(workspace string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if subs, ok := sm.subscribers[workspace]; ok {
		for ch := range subs {
			select {
			case ch <- msg:
			default:
				// Drop message if channel is full (slow client)
				slog.Warn("SSE: client buffer full, dropping message", "workspace", workspace)
			}
		}
	}
}
