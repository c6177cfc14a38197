// SPDX-License-Identifier: MIT

// Package memhost is an in-memory Host implementation. It simulates
// connected users, tracks the view each user has open, and feeds the
// three external event sources (wire notifications, clicks, disconnects)
// to subscribed factories. The demo daemon and the engine's tests both
// run against it.
package memhost

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/forgecraft/anvilmenu"
	"github.com/forgecraft/anvilmenu/internal/log"
	"github.com/forgecraft/anvilmenu/sched"
)

// Host simulates the application instance a factory binds to. Its loop is
// the designated goroutine; clicks and disconnects are delivered on it,
// wire notifications on whatever goroutine the caller is on.
type Host struct {
	loop    *sched.Loop
	views   *presenter
	running atomic.Bool

	mu    sync.RWMutex
	users map[uuid.UUID]*User
	sinks []anvilmenu.EventSink
}

// New creates and starts a running host.
func New() *Host {
	h := &Host{
		loop:  sched.New(),
		users: make(map[uuid.UUID]*User),
	}
	h.views = &presenter{host: h, views: make(map[anvilmenu.User]*View)}
	h.loop.Start()
	h.running.Store(true)
	return h
}

// Running reports whether the host accepts new factories.
func (h *Host) Running() bool {
	return h.running.Load()
}

// Loop returns the designated goroutine.
func (h *Host) Loop() *sched.Loop {
	return h.loop
}

// Presenter returns the view collaborator.
func (h *Host) Presenter() anvilmenu.Presenter {
	return h.views
}

// Subscribe registers a sink for click, wire and disconnect events.
func (h *Host) Subscribe(sink anvilmenu.EventSink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sinks = append(h.sinks, sink)
}

// Connect adds a simulated online user.
func (h *Host) Connect(name string) *User {
	u := &User{
		id:   uuid.New(),
		name: name,
		host: h,
	}
	u.online.Store(true)

	h.mu.Lock()
	h.users[u.id] = u
	h.mu.Unlock()

	lg := log.WithComponent("memhost")
	lg.Debug().
		Str(log.FieldUser, name).
		Str(log.FieldUserID, u.id.String()).
		Msg("user connected")
	return u
}

// Lookup finds a connected user by ID.
func (h *Host) Lookup(id uuid.UUID) (*User, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	u, ok := h.users[id]
	return u, ok
}

// Users snapshots all connected users.
func (h *Host) Users() []*User {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*User, 0, len(h.users))
	for _, u := range h.users {
		out = append(out, u)
	}
	return out
}

// Shutdown disconnects every user, stops accepting factories, and drains
// the loop.
func (h *Host) Shutdown() {
	h.running.Store(false)
	for _, u := range h.Users() {
		u.Disconnect()
	}
	h.loop.Stop()
}

// ForceClose dismisses whatever view the user has open, the way another
// subsystem would without going through a menu. The user's open session,
// if any, terminates with a server-close reason.
func (h *Host) ForceClose(u *User) {
	h.loop.Dispatch(func() {
		h.views.Dismiss(u)
	})
}

func (h *Host) removeUser(u *User) {
	h.mu.Lock()
	delete(h.users, u.id)
	h.mu.Unlock()
}

func (h *Host) sinkSnapshot() []anvilmenu.EventSink {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]anvilmenu.EventSink(nil), h.sinks...)
}

func (h *Host) deliverTextEdit(u *User, text string) (swallowed bool) {
	for _, s := range h.sinkSnapshot() {
		if s.HandleTextEdit(u, text) {
			swallowed = true
		}
	}
	return swallowed
}

func (h *Host) deliverClick(u *User, slot int) (swallowed bool) {
	for _, s := range h.sinkSnapshot() {
		if s.HandleClick(u, slot) {
			swallowed = true
		}
	}
	return swallowed
}

func (h *Host) deliverClientClose(u *User) {
	for _, s := range h.sinkSnapshot() {
		s.HandleClientClose(u)
	}
}

func (h *Host) deliverServerClose(u *User) {
	for _, s := range h.sinkSnapshot() {
		s.HandleServerClose(u)
	}
}

func (h *Host) deliverDisconnect(u *User) {
	for _, s := range h.sinkSnapshot() {
		s.HandleDisconnect(u)
	}
}
