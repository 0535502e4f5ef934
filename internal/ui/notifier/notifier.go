// Package notifier provides a simple broadcast mechanism for SSE updates.
package notifier

import "sync"

// All is the topic of listeners interested in every change.
const All = ""

// Notifier broadcasts update signals to subscribed listeners.
// It uses a simple ping mechanism - listeners receive an empty struct
// when records of their topic changed and should re-query the store.
// Topics are kind slugs.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan struct{}]string
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan struct{}]string),
	}
}

// Subscribe returns a channel that receives pings for topic. Subscribing to
// All receives every ping.
// The caller must call Unsubscribe when done to prevent goroutine leaks.
func (n *Notifier) Subscribe(topic string) chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.listeners[ch] = topic
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan struct{}) {
	n.mu.Lock()
	_, ok := n.listeners[ch]
	delete(n.listeners, ch)
	n.mu.Unlock()
	if ok {
		close(ch)
	}
}

// Broadcast pings the listeners of the given topics and those subscribed to
// All. Without topics every listener is pinged.
// Non-blocking: if a listener's channel is full, the ping is skipped.
func (n *Notifier) Broadcast(topics ...string) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch, topic := range n.listeners {
		if !matches(topic, topics) {
			continue
		}
		select {
		case ch <- struct{}{}:
		default:
			// Channel full, skip (listener will catch up on next broadcast)
		}
	}
}

// Listeners returns the number of subscribed channels.
func (n *Notifier) Listeners() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

func matches(topic string, topics []string) bool {
	if topic == All || len(topics) == 0 {
		return true
	}
	for _, t := range topics {
		if t == topic || t == All {
			return true
		}
	}
	return false
}
