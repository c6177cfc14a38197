// SPDX-License-Identifier: MIT

package anvilmenu

import "github.com/forgecraft/anvilmenu/sched"

// Slot indices of the fixed anvil-style view shape. The engine places the
// display payload in DisplaySlot; only TriggerSlot clicks end a session,
// every other click is swallowed while a dialog is open.
const (
	DisplaySlot = 0
	TriggerSlot = 2
)

// User is an opaque handle to a connected remote party. Implementations
// must be comparable by identity (pointer receivers): the engine keys its
// registry by the interface value itself, so two handles are the same
// user exactly when they are the same instance.
type User interface {
	// Online reports whether the user is still connected.
	Online() bool
	// Name returns a display name for logging.
	Name() string
}

// View is one concrete dialog view instance created by the presenter.
type View interface {
	// SetSlot places an item in the given slot of the view.
	SetSlot(slot int, item Item)
}

// Presenter owns the actual modal views shown to users. All methods are
// invoked only on the host's designated goroutine.
type Presenter interface {
	// CreateView builds a fresh anvil-shaped view. An empty title selects
	// the platform default.
	CreateView(title string) View
	// Present shows the view to the user, replacing whatever they had open.
	Present(u User, v View)
	// Dismiss force-closes whatever view the user currently has open.
	Dismiss(u User)
	// Viewing reports whether the user currently has exactly this view
	// instance open.
	Viewing(u User, v View) bool
}

// EventSink receives the external signals that drive dialog sessions. The
// Factory implements it and subscribes itself at construction. HandleClick
// and HandleTextEdit report whether the engine swallowed the event; the
// host must then cancel its default handling.
//
// HandleTextEdit and HandleClientClose may arrive on any goroutine;
// HandleClick arrives on the designated goroutine per the host's threading
// contract.
type EventSink interface {
	HandleClick(u User, slot int) (swallow bool)
	HandleTextEdit(u User, text string) (swallow bool)
	HandleClientClose(u User)
	HandleServerClose(u User)
	HandleDisconnect(u User)
}

// Host is the application instance a Factory binds to.
type Host interface {
	// Running reports whether the host is in an active state. Factories
	// refuse to bind to a stopped host.
	Running() bool
	// Loop returns the designated goroutine that owns presentation state.
	Loop() *sched.Loop
	// Presenter returns the view collaborator.
	Presenter() Presenter
	// Subscribe registers a sink for click, wire and disconnect events.
	Subscribe(sink EventSink)
}
