// Package session tracks live player sessions independently of their
// transport. The SSH and web servers register one handle per connection so
// shutdown can close every session and health checks can count them.
package session

import "sync"

// Handle is the transport-neutral view of a connected session.
type Handle interface {
	// ID returns the unique session identifier.
	ID() string

	// Close ends the session. Must be safe to call more than once.
	Close()

	// Done returns a channel that closes when the session ends.
	Done() <-chan struct{}
}

// Outbox is a Handle that buffers outgoing messages for one writer.
// Send never blocks; when the buffer is full the oldest message is dropped.
type Outbox[T any] struct {
	id       string
	messages chan T
	done     chan struct{}
	doneOnce sync.Once
	onClose  func()
}

// NewOutbox creates an outbox with room for size messages.
func NewOutbox[T any](id string, size int) *Outbox[T] {
	if size < 1 {
		size = 64
	}
	return &Outbox[T]{
		id:       id,
		messages: make(chan T, size),
		done:     make(chan struct{}),
	}
}

// OnClose registers f to run once when the outbox is closed.
// It must be called before the outbox is shared.
func (o *Outbox[T]) OnClose(f func()) {
	o.onClose = f
}

// ID returns the session identifier.
func (o *Outbox[T]) ID() string {
	return o.id
}

// Send queues msg for the writer.
func (o *Outbox[T]) Send(msg T) {
	select {
	case <-o.done:
		return
	default:
	}

	select {
	case o.messages <- msg:
		return
	default:
	}

	// Full: drop the oldest and retry once.
	select {
	case <-o.messages:
	default:
	}
	select {
	case o.messages <- msg:
	default:
	}
}

// Messages returns the channel the writer drains.
func (o *Outbox[T]) Messages() <-chan T {
	return o.messages
}

// Done returns the done channel.
func (o *Outbox[T]) Done() <-chan struct{} {
	return o.done
}

// Close marks the session as done.
func (o *Outbox[T]) Close() {
	o.doneOnce.Do(func() {
		close(o.done)
		if o.onClose != nil {
			o.onClose()
		}
	})
}

// Registry tracks active sessions. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Handle
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]Handle),
	}
}

// Register adds a session to the registry.
func (r *Registry) Register(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[h.ID()] = h
}

// Unregister removes a session from the registry.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Get retrieves a session by ID.
func (r *Registry) Get(id string) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.sessions[id]
	return h, ok
}

// Count returns the number of registered sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll closes every registered session. Handles stay registered until
// their owners unregister them.
func (r *Registry) CloseAll() {
	r.mu.RLock()
	handles := make([]Handle, 0, len(r.sessions))
	for _, h := range r.sessions {
		handles = append(handles, h)
	}
	r.mu.RUnlock()

	for _, h := range handles {
		h.Close()
	}
}
