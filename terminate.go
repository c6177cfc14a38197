// SPDX-License-Identifier: MIT

package anvilmenu

import (
	"github.com/forgecraft/anvilmenu/internal/log"
	"github.com/forgecraft/anvilmenu/internal/metrics"
	"github.com/forgecraft/anvilmenu/internal/textfmt"
)

// CloseReason describes why a dialog session ended.
type CloseReason int

const (
	// ReasonClick means the user actuated the trigger slot.
	ReasonClick CloseReason = iota
	// ReasonClientClose means the remote party dismissed the dialog locally.
	ReasonClientClose
	// ReasonServerClose means the view was closed by a signal the host
	// application did not originate.
	ReasonServerClose
	// ReasonDisconnect means the user's session ended entirely.
	ReasonDisconnect
)

func (r CloseReason) String() string {
	switch r {
	case ReasonClick:
		return "click"
	case ReasonClientClose:
		return "client_close"
	case ReasonServerClose:
		return "server_close"
	case ReasonDisconnect:
		return "disconnect"
	}
	return "unknown"
}

// Directive is what a response callback wants done after it returns.
type Directive int

const (
	// DirectiveClose dismisses the dialog.
	DirectiveClose Directive = iota
	// DirectiveReopen reopens the dialog with the template's default text.
	DirectiveReopen
	// DirectiveReopenWithText reopens the dialog pre-filled with the text
	// the user had typed.
	DirectiveReopenWithText
)

func (d Directive) String() string {
	switch d {
	case DirectiveClose:
		return "close"
	case DirectiveReopen:
		return "reopen"
	case DirectiveReopenWithText:
		return "reopen_with_text"
	}
	return "unknown"
}

// Response is the terminal callback of a session. It receives the user,
// why the dialog ended, and the final edited text (decoration-stripped
// when the menu is configured to). Exactly one Response fires per session
// unless the close was suppressed.
type Response func(u User, reason CloseReason, text string) Directive

// defaultResponse is installed when a menu has no callback configured.
func defaultResponse(User, CloseReason, string) Directive {
	return DirectiveClose
}

// terminate is the single chokepoint every external close signal funnels
// through. It atomically claims the user's registry entry; duplicate
// signals for the same session find nothing and return.
func (f *Factory) terminate(u User, reason CloseReason) {
	menu, ok := f.removeSession(u)
	if !ok {
		return
	}
	f.conclude(menu, u, reason)
}

// disconnect handles session teardown. It bypasses the click-interception
// path but applies the same suppression check and callback contract as
// terminate.
func (f *Factory) disconnect(u User) {
	menu, ok := f.removeSession(u)
	if !ok {
		return
	}
	f.conclude(menu, u, ReasonDisconnect)
}

// conclude finishes a session whose registry entry the caller has already
// claimed. The entry is gone for good at this point: a callback failure
// does not roll termination back.
func (f *Factory) conclude(m *Menu, u User, reason CloseReason) {
	metrics.SessionTerminated(reason.String())

	if m.consumeSuppressed(u) {
		m.clearPending(u)
		f.logger.Debug().
			Str(log.FieldUser, u.Name()).
			Str(log.FieldCloseReason, reason.String()).
			Msg("termination suppressed")
		return
	}

	f.loop.Dispatch(func() {
		text, _ := m.takePending(u)
		if m.StripDecoration() {
			text = textfmt.StripDecoration(text)
		}

		directive := f.invokeResponse(m, u, reason, text)
		metrics.CallbackDirective(directive.String())
		f.logger.Debug().
			Str(log.FieldUser, u.Name()).
			Str(log.FieldCloseReason, reason.String()).
			Str(log.FieldDirective, directive.String()).
			Msg("session terminated")

		switch directive {
		case DirectiveReopen:
			m.Open(u)
		case DirectiveReopenWithText:
			m.OpenWithText(u, text)
		default:
			f.host.Presenter().Dismiss(u)
		}
	})
}

// invokeResponse runs the host-authored callback, containing any panic so
// a failure never reaches the event-delivery path. A failed callback
// behaves as if it had returned DirectiveClose.
func (f *Factory) invokeResponse(m *Menu, u User, reason CloseReason, text string) (d Directive) {
	defer func() {
		if r := recover(); r != nil {
			d = DirectiveClose
			metrics.CallbackError()
			f.logger.Error().
				Interface("panic", r).
				Str(log.FieldUser, u.Name()).
				Str(log.FieldCloseReason, reason.String()).
				Msg("response callback failed")
		}
	}()
	return m.Response()(u, reason, text)
}
