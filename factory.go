// SPDX-License-Identifier: MIT

// Package anvilmenu presents modal text-input dialogs ("fake anvils") to
// remote users and delivers exactly one terminal callback per session.
//
// A Factory binds to one running Host and owns the per-user session
// registry. A Menu is a reusable dialog template; opening it for a user
// creates a session tracked solely by the registry entry. Termination
// signals from any goroutine funnel through a single chokepoint that
// claims the entry atomically, so duplicate signals are harmless.
//
// Example:
//
//	factory, err := anvilmenu.New(host)
//	if err != nil {
//		return err
//	}
//	menu := factory.NewMenu(
//		anvilmenu.WithTitle("What is your name?"),
//		anvilmenu.WithDefaultText("Jacob"),
//		anvilmenu.WithResponse(func(u anvilmenu.User, reason anvilmenu.CloseReason, text string) anvilmenu.Directive {
//			if reason == anvilmenu.ReasonClick {
//				greet(u, text)
//				return anvilmenu.DirectiveClose
//			}
//			return anvilmenu.DirectiveReopenWithText
//		}),
//	)
//	menu.Open(user)
package anvilmenu

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/forgecraft/anvilmenu/internal/log"
	"github.com/forgecraft/anvilmenu/sched"
)

var (
	// ErrNilHost is returned when New is given a nil host.
	ErrNilHost = errors.New("anvilmenu: host is nil")
	// ErrHostNotRunning is returned when the host is not in a running state.
	ErrHostNotRunning = errors.New("anvilmenu: host is not running")
)

// Factory creates menus and owns the session registry binding users to
// the menu they currently have open. Multiple factories may coexist; each
// has its own isolated registry.
type Factory struct {
	host Host
	loop *sched.Loop

	mu       sync.RWMutex
	sessions map[User]*Menu

	logger zerolog.Logger
}

// New binds a factory to a host and subscribes it to the host's click,
// wire and disconnect events.
func New(h Host) (*Factory, error) {
	if h == nil {
		return nil, ErrNilHost
	}
	if !h.Running() {
		return nil, ErrHostNotRunning
	}

	f := &Factory{
		host:     h,
		loop:     h.Loop(),
		sessions: make(map[User]*Menu),
		logger:   log.WithComponent("anvilmenu"),
	}
	h.Subscribe(f)
	return f, nil
}

// Host returns the host this factory is bound to.
func (f *Factory) Host() Host {
	return f.host
}

// MenuOption configures a menu at construction.
type MenuOption func(*Menu)

// WithTitle sets the dialog title. Empty selects the platform default.
func WithTitle(title string) MenuOption {
	return func(m *Menu) { m.title = title }
}

// WithItem sets the display payload. A zero item resets to the default.
func WithItem(item Item) MenuOption {
	return func(m *Menu) { m.item = item.orDefault() }
}

// WithDefaultText sets the default editable text, carried in the display
// payload's decoration field.
func WithDefaultText(text string) MenuOption {
	return func(m *Menu) { m.item.Name = text }
}

// WithResponse sets the terminal callback. Nil resets to a callback that
// always closes.
func WithResponse(r Response) MenuOption {
	return func(m *Menu) {
		if r == nil {
			r = defaultResponse
		}
		m.resp = r
	}
}

// NewMenu creates a dialog template owned by this factory. Options apply
// in order; without any, the menu shows the default item, strips
// decoration, and closes on every termination.
func (f *Factory) NewMenu(opts ...MenuOption) *Menu {
	menu := &Menu{
		f:               f,
		item:            Item{Kind: DefaultItemKind},
		resp:            defaultResponse,
		stripDecoration: true,
		pending:         make(map[User]string),
		suppress:        make(map[User]struct{}),
	}
	for _, opt := range opts {
		opt(menu)
	}
	return menu
}

// session returns the menu the user currently has open, or nil.
func (f *Factory) session(u User) *Menu {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.sessions[u]
}

// putSession registers u -> m, returning any entry it displaced.
func (f *Factory) putSession(u User, m *Menu) *Menu {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev := f.sessions[u]
	f.sessions[u] = m
	return prev
}

// removeSession atomically claims and removes the user's entry.
func (f *Factory) removeSession(u User) (*Menu, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.sessions[u]
	if ok {
		delete(f.sessions, u)
	}
	return m, ok
}

// removeSessionIf removes the user's entry only if it still points at m.
func (f *Factory) removeSessionIf(u User, m *Menu) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sessions[u] != m {
		return false
	}
	delete(f.sessions, u)
	return true
}

// viewersOf snapshots every user whose entry points at exactly m.
func (f *Factory) viewersOf(m *Menu) []User {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var users []User
	for u, open := range f.sessions {
		if open == m {
			users = append(users, u)
		}
	}
	return users
}
