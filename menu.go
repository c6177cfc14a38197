// SPDX-License-Identifier: MIT

package anvilmenu

import (
	"sync"

	"github.com/forgecraft/anvilmenu/internal/log"
	"github.com/forgecraft/anvilmenu/internal/metrics"
)

// Menu is a reusable dialog template. One instance can be open for many
// users at once; per-user state lives in side tables keyed by identity,
// and "who has this menu open" is answered only by the factory registry.
type Menu struct {
	f *Factory

	mu              sync.RWMutex
	title           string
	item            Item
	resp            Response
	stripDecoration bool

	stateMu  sync.Mutex
	pending  map[User]string
	suppress map[User]struct{}
}

// Title returns the dialog title; empty means the platform default.
func (m *Menu) Title() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.title
}

// SetTitle changes the dialog title for subsequent opens. Empty resets to
// the platform default.
func (m *Menu) SetTitle(title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.title = title
}

// Item returns a copy of the display payload.
func (m *Menu) Item() Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.item
}

// SetItem changes the display payload. A zero item resets to the default.
// Already-open dialogs keep showing the old payload until Update.
func (m *Menu) SetItem(item Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.item = item.orDefault()
}

// DefaultText returns the default editable text, read through the display
// payload's decoration field.
func (m *Menu) DefaultText() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.item.Name
}

// SetDefaultText changes the default editable text.
func (m *Menu) SetDefaultText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.item.Name = text
}

// StripDecoration reports whether decoration codes are removed from the
// user's text before the response callback sees it. Default is true.
func (m *Menu) StripDecoration() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stripDecoration
}

// SetStripDecoration changes the decoration-stripping policy.
func (m *Menu) SetStripDecoration(strip bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stripDecoration = strip
}

// Response returns the terminal callback.
func (m *Menu) Response() Response {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.resp
}

// SetResponse changes the terminal callback. Nil resets to a callback
// that always closes.
func (m *Menu) SetResponse(r Response) {
	if r == nil {
		r = defaultResponse
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resp = r
}

// Open presents the dialog to the user with the configured display
// payload. No-op for nil or offline users. Opening always wins: any
// dialog the user already has open, from this menu or any other, is
// silently discarded without a callback.
func (m *Menu) Open(u User) {
	m.open(u, m.Item().orDefault(), false, "")
}

// OpenWithText presents the dialog with the editable text pre-populated,
// typically to restore what the user had typed before a reopen.
func (m *Menu) OpenWithText(u User, text string) {
	item := m.Item().orDefault()
	item.Name = text
	m.open(u, item, false, "")
}

// open dispatches the presentation sequence to the designated goroutine:
// discard any current session, dismiss the current view, build and
// present a fresh one, then register the entry. When restore is set the
// user's pending text is re-seeded after presentation (the Update path).
func (m *Menu) open(u User, item Item, restore bool, restoreText string) {
	if u == nil || !u.Online() {
		return
	}
	title := m.Title()

	m.f.loop.Dispatch(func() {
		f := m.f
		if prev, ok := f.removeSession(u); ok {
			// Opening always wins: the displaced session ends without
			// a callback.
			prev.clearUserState(u)
			metrics.SessionReplaced()
		} else {
			metrics.SessionOpened()
		}

		p := f.host.Presenter()
		p.Dismiss(u)
		v := p.CreateView(title)
		v.SetSlot(DisplaySlot, item)
		p.Present(u, v)
		// A fresh session starts clean: no text or suppression left over
		// from an earlier one.
		m.clearUserState(u)
		f.putSession(u, m)
		if restore {
			m.putPending(u, restoreText)
		}

		f.logger.Debug().
			Str(log.FieldUser, u.Name()).
			Str(log.FieldMenuTitle, title).
			Msg("menu opened")
	})
}

// Update refreshes the dialog for a user who has this menu open, without
// invoking the callback and without disturbing the text they have typed:
// the pending text present at call time survives the close and reopen.
func (m *Menu) Update(u User) {
	if u == nil || !u.Online() {
		return
	}
	if m.f.session(u) != m {
		return
	}

	text, typed := m.takePending(u)
	m.close(u, false)

	item := m.Item().orDefault()
	if typed {
		item.Name = text
	}
	m.open(u, item, typed, text)
}

// UpdateAll refreshes the dialog for every current viewer.
func (m *Menu) UpdateAll() {
	for _, u := range m.Viewers() {
		m.Update(u)
	}
}

// Close ends the user's session with this menu and dismisses the dialog.
func (m *Menu) Close(u User) {
	m.close(u, true)
}

// CloseSilent ends the user's session guaranteeing the response callback
// does not fire, even if a termination signal races the removal.
func (m *Menu) CloseSilent(u User) {
	m.close(u, false)
}

func (m *Menu) close(u User, invoke bool) {
	if u == nil || !u.Online() {
		return
	}
	if m.f.session(u) != m {
		return
	}

	// The suppression flag goes up before the removal attempt so a
	// racing terminate that claims the entry first still skips the
	// callback.
	if !invoke {
		m.markSuppressed(u)
	}
	if m.f.removeSessionIf(u, m) {
		m.clearUserState(u)
		metrics.SessionTerminated("silent")
	}
	m.f.loop.Dispatch(func() {
		m.f.host.Presenter().Dismiss(u)
	})
}

// Viewers snapshots every user who currently has exactly this menu
// instance open.
func (m *Menu) Viewers() []User {
	return m.f.viewersOf(m)
}

// PendingText returns the text the user has typed but not yet committed.
func (m *Menu) PendingText(u User) (string, bool) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	text, ok := m.pending[u]
	return text, ok
}

// PendingTexts snapshots the pending text of every user typing in this
// menu.
func (m *Menu) PendingTexts() map[User]string {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	out := make(map[User]string, len(m.pending))
	for u, text := range m.pending {
		out[u] = text
	}
	return out
}

func (m *Menu) putPending(u User, text string) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	m.pending[u] = text
}

// takePending atomically reads and clears the user's pending text.
func (m *Menu) takePending(u User) (string, bool) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	text, ok := m.pending[u]
	if ok {
		delete(m.pending, u)
	}
	return text, ok
}

func (m *Menu) clearPending(u User) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	delete(m.pending, u)
}

func (m *Menu) markSuppressed(u User) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	m.suppress[u] = struct{}{}
}

// consumeSuppressed atomically tests and clears the suppression flag.
func (m *Menu) consumeSuppressed(u User) bool {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	_, ok := m.suppress[u]
	if ok {
		delete(m.suppress, u)
	}
	return ok
}

// clearUserState drops all transient state for a user whose session ended
// without the termination protocol running.
func (m *Menu) clearUserState(u User) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	delete(m.pending, u)
	delete(m.suppress, u)
}
