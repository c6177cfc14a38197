// SPDX-License-Identifier: MIT

package anvilmenu

import "github.com/forgecraft/anvilmenu/internal/metrics"

// The factory is its own event bridge: each handler is a registry lookup
// plus a call into the termination protocol. Handlers tolerate arbitrary
// calling goroutines except where noted on EventSink.

// HandleClick processes a click in the view the user has open. Every
// click is swallowed while a dialog is open so the user cannot manipulate
// items; only the trigger slot ends the session.
func (f *Factory) HandleClick(u User, slot int) bool {
	if f.session(u) == nil {
		return false
	}
	if slot != TriggerSlot {
		return true
	}
	f.terminate(u, ReasonClick)
	return true
}

// HandleTextEdit records the text the user typed into the editable field.
// The edit is swallowed so it never causes a state change through the
// normal click path. Absent text must be normalized to "" by the caller.
func (f *Factory) HandleTextEdit(u User, text string) bool {
	m := f.session(u)
	if m == nil {
		return false
	}
	m.putPending(u, text)
	metrics.TextEdit()
	return true
}

// HandleClientClose processes the remote party dismissing the dialog
// locally. The wire layer may deliver it on any goroutine; termination
// runs on the designated one.
func (f *Factory) HandleClientClose(u User) {
	if f.session(u) == nil {
		return
	}
	f.loop.Dispatch(func() {
		f.terminate(u, ReasonClientClose)
	})
}

// HandleServerClose processes a view close the host application did not
// originate, e.g. another subsystem forcibly closing views.
func (f *Factory) HandleServerClose(u User) {
	f.terminate(u, ReasonServerClose)
}

// HandleDisconnect processes the end of the user's whole session.
func (f *Factory) HandleDisconnect(u User) {
	f.disconnect(u)
}
