// Package session keeps the process-wide view of who is signed in.
//
// A Holder resolves the identity once, then follows the gateway's
// session-change events and fans them out to its own subscribers, so views
// derive identity from one place instead of each asking the service.
package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/passionpath/internal/client/gateway"
	"github.com/dmitrijs2005/passionpath/internal/client/models"
	"github.com/dmitrijs2005/passionpath/internal/logging"
)

// State is a snapshot of the held session. Identity is nil when signed out.
type State struct {
	Identity *models.Identity
}

// SignedIn reports whether the state carries an identity.
func (s State) SignedIn() bool { return s.Identity != nil }

type subscriber struct {
	id int
	fn func(State)
}

type Holder struct {
	gw     gateway.Gateway
	logger logging.Logger

	mu          sync.RWMutex
	state       State
	subs        []subscriber
	nextID      int
	unsubscribe func()
}

func NewHolder(gw gateway.Gateway, l logging.Logger) *Holder {
	return &Holder{gw: gw, logger: l.With("module", "session")}
}

// Start resolves the current identity and begins following session changes.
// Calling Start twice has no further effect.
func (h *Holder) Start(ctx context.Context) {
	h.mu.Lock()
	if h.unsubscribe != nil {
		h.mu.Unlock()
		return
	}
	h.unsubscribe = h.gw.OnSessionChange(h.onEvent)
	h.mu.Unlock()

	h.Refresh(ctx)
}

// Stop detaches from the gateway.
func (h *Holder) Stop() {
	h.mu.Lock()
	unsubscribe := h.unsubscribe
	h.unsubscribe = nil
	h.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// Refresh asks the gateway for the identity and publishes the result.
func (h *Holder) Refresh(ctx context.Context) {
	var st State
	if id, ok := h.gw.CurrentIdentity(ctx); ok {
		st.Identity = &id
	}
	h.publish(st)
}

// Current returns the last published state.
func (h *Holder) Current() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// Subscribe registers fn for every later state change and returns a function
// that removes it.
func (h *Holder) Subscribe(fn func(State)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.subs = append(h.subs, subscriber{id: id, fn: fn})

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		for i, s := range h.subs {
			if s.id == id {
				h.subs = append(h.subs[:i], h.subs[i+1:]...)
				return
			}
		}
	}
}

// onEvent derives the new state from the event itself; only an event
// without a session payload falls back to asking the gateway.
func (h *Holder) onEvent(ev gateway.Event) {
	h.logger.Debug(context.Background(), "session changed", "event", ev.Kind.String())

	switch {
	case ev.Kind == gateway.SignedOut:
		h.publish(State{})
	case ev.Session != nil:
		id := ev.Session.User
		h.publish(State{Identity: &id})
	default:
		h.Refresh(context.Background())
	}
}

func (h *Holder) publish(st State) {
	h.mu.Lock()
	h.state = st
	subs := make([]subscriber, len(h.subs))
	copy(subs, h.subs)
	h.mu.Unlock()

	for _, s := range subs {
		s.fn(st)
	}
}
