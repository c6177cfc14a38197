// SPDX-License-Identifier: MIT

package memhost

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// User is a simulated remote party. Its pointer identity is what the
// engine keys sessions by.
type User struct {
	id     uuid.UUID
	name   string
	online atomic.Bool
	host   *Host
}

// ID returns the user's stable identifier.
func (u *User) ID() uuid.UUID {
	return u.id
}

// Online reports whether the user is still connected.
func (u *User) Online() bool {
	return u.online.Load()
}

// Name returns the user's display name.
func (u *User) Name() string {
	return u.name
}

// TypeText simulates the wire text-edit notification: the client typed
// into the editable field. Delivered on the calling goroutine, which is
// how wire notifications legitimately arrive. Reports whether the edit
// was swallowed by an open dialog.
func (u *User) TypeText(text string) bool {
	return u.host.deliverTextEdit(u, text)
}

// ClearText simulates the client clearing the field; the wire layer
// normalizes absent text to the empty string.
func (u *User) ClearText() bool {
	return u.host.deliverTextEdit(u, "")
}

// Click simulates the user clicking a slot of their open view. Click
// notifications arrive on the designated goroutine per the host's
// threading contract.
func (u *User) Click(slot int) {
	u.host.loop.Dispatch(func() {
		u.host.deliverClick(u, slot)
	})
}

// CloseView simulates the client dismissing its view locally: the view
// mapping drops first, then the inbound close notification is delivered
// on the calling goroutine.
func (u *User) CloseView() {
	u.host.views.drop(u)
	u.host.deliverClientClose(u)
}

// Disconnect takes the user offline and delivers the disconnect
// notification on the designated goroutine.
func (u *User) Disconnect() {
	if !u.online.CompareAndSwap(true, false) {
		return
	}
	u.host.views.drop(u)
	u.host.removeUser(u)
	u.host.loop.Dispatch(func() {
		u.host.deliverDisconnect(u)
	})
}
