// SPDX-License-Identifier: MIT

package anvilmenu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgecraft/anvilmenu"
)

func TestTerminate_ClickOnTriggerSlot(t *testing.T) {
	host, factory := newEngine(t)
	u := host.Connect("steve")
	rec := &recorder{}
	menu := factory.NewMenu(
		anvilmenu.WithDefaultText("Jacob"),
		anvilmenu.WithResponse(rec.Response),
	)

	menu.Open(u)
	host.Loop().Flush()
	require.True(t, u.TypeText("§cRed"))

	u.Click(anvilmenu.TriggerSlot)
	host.Loop().Flush()

	calls := rec.Calls()
	require.Len(t, calls, 1)
	assert.Same(t, u, calls[0].user)
	assert.Equal(t, anvilmenu.ReasonClick, calls[0].reason)
	assert.Equal(t, "Red", calls[0].text, "decoration is stripped by default")

	assert.Empty(t, menu.Viewers())
	_, ok := host.CurrentView(u)
	assert.False(t, ok)
}

func TestTerminate_StripDecorationDisabled(t *testing.T) {
	host, factory := newEngine(t)
	u := host.Connect("steve")
	rec := &recorder{}
	menu := factory.NewMenu(anvilmenu.WithResponse(rec.Response))
	menu.SetStripDecoration(false)

	menu.Open(u)
	host.Loop().Flush()
	u.TypeText("§cRed")

	u.Click(anvilmenu.TriggerSlot)
	host.Loop().Flush()

	calls := rec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "§cRed", calls[0].text)
}

func TestTerminate_ClickOnOtherSlotsSwallowedWithoutTermination(t *testing.T) {
	host, factory := newEngine(t)
	u := host.Connect("steve")
	rec := &recorder{}
	menu := factory.NewMenu(anvilmenu.WithResponse(rec.Response))

	menu.Open(u)
	host.Loop().Flush()

	assert.True(t, factory.HandleClick(u, 0), "clicks are swallowed while a dialog is open")
	assert.True(t, factory.HandleClick(u, 1))
	host.Loop().Flush()

	assert.Empty(t, rec.Calls())
	assert.Equal(t, []anvilmenu.User{u}, menu.Viewers())
}

func TestTerminate_ClickWithoutSessionNotSwallowed(t *testing.T) {
	host, factory := newEngine(t)
	u := host.Connect("steve")

	assert.False(t, factory.HandleClick(u, anvilmenu.TriggerSlot))
}

func TestTerminate_NoTypedTextYieldsEmptyString(t *testing.T) {
	host, factory := newEngine(t)
	u := host.Connect("steve")
	rec := &recorder{}
	menu := factory.NewMenu(anvilmenu.WithResponse(rec.Response))

	menu.Open(u)
	host.Loop().Flush()

	u.Click(anvilmenu.TriggerSlot)
	host.Loop().Flush()

	calls := rec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "", calls[0].text, "absent text normalizes to empty, never nil")
}

func TestTerminate_Idempotent(t *testing.T) {
	host, factory := newEngine(t)
	u := host.Connect("steve")
	rec := &recorder{}
	menu := factory.NewMenu(anvilmenu.WithResponse(rec.Response))

	menu.Open(u)
	host.Loop().Flush()

	// Duplicate signals for a single session: only the first finds an
	// entry to claim.
	factory.HandleServerClose(u)
	factory.HandleServerClose(u)
	host.Loop().Flush()

	calls := rec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, anvilmenu.ReasonServerClose, calls[0].reason)
}

func TestTerminate_ClientClose(t *testing.T) {
	host, factory := newEngine(t)
	u := host.Connect("steve")
	rec := &recorder{}
	menu := factory.NewMenu(anvilmenu.WithResponse(rec.Response))

	menu.Open(u)
	host.Loop().Flush()

	u.CloseView()
	host.Loop().Flush()

	calls := rec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, anvilmenu.ReasonClientClose, calls[0].reason)
	assert.Empty(t, menu.Viewers())
}

func TestTerminate_ForceCloseReportsServerClose(t *testing.T) {
	host, factory := newEngine(t)
	u := host.Connect("steve")
	rec := &recorder{}
	menu := factory.NewMenu(anvilmenu.WithResponse(rec.Response))

	menu.Open(u)
	host.Loop().Flush()

	host.ForceClose(u)
	host.Loop().Flush()

	calls := rec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, anvilmenu.ReasonServerClose, calls[0].reason)
}

func TestTerminate_CloseSilentSuppressesCallback(t *testing.T) {
	host, factory := newEngine(t)
	u := host.Connect("steve")
	rec := &recorder{}
	menu := factory.NewMenu(anvilmenu.WithResponse(rec.Response))

	menu.Open(u)
	host.Loop().Flush()
	u.TypeText("draft")

	menu.CloseSilent(u)
	// Any straggling termination signal after the silent close must stay
	// silent too.
	factory.HandleServerClose(u)
	factory.HandleClientClose(u)
	host.Loop().Flush()

	assert.Empty(t, rec.Calls())
	assert.Empty(t, menu.Viewers())
	_, ok := menu.PendingText(u)
	assert.False(t, ok, "pending text is cleared when the session ends")
}

func TestTerminate_DirectiveReopen(t *testing.T) {
	host, factory := newEngine(t)
	u := host.Connect("steve")
	rec := &recorder{}
	rec.setNext(func(c call) anvilmenu.Directive {
		if len(rec.Calls()) == 1 {
			return anvilmenu.DirectiveReopen
		}
		return anvilmenu.DirectiveClose
	})
	menu := factory.NewMenu(
		anvilmenu.WithDefaultText("Jacob"),
		anvilmenu.WithResponse(rec.Response),
	)

	menu.Open(u)
	host.Loop().Flush()
	u.TypeText("abc")

	u.Click(anvilmenu.TriggerSlot)
	host.Loop().Flush()

	// Reopened with the default text; the typed text is discarded.
	require.Equal(t, []anvilmenu.User{u}, menu.Viewers())
	view, ok := host.CurrentView(u)
	require.True(t, ok)
	item, _ := view.Slot(anvilmenu.DisplaySlot)
	assert.Equal(t, "Jacob", item.Name)
}

func TestTerminate_DirectiveReopenWithText(t *testing.T) {
	host, factory := newEngine(t)
	u := host.Connect("steve")
	rec := &recorder{}
	rec.setNext(func(c call) anvilmenu.Directive {
		if len(rec.Calls()) == 1 {
			return anvilmenu.DirectiveReopenWithText
		}
		return anvilmenu.DirectiveClose
	})
	menu := factory.NewMenu(
		anvilmenu.WithDefaultText("Jacob"),
		anvilmenu.WithResponse(rec.Response),
	)

	menu.Open(u)
	host.Loop().Flush()
	u.TypeText("abc")

	u.Click(anvilmenu.TriggerSlot)
	host.Loop().Flush()

	require.Equal(t, []anvilmenu.User{u}, menu.Viewers())
	view, ok := host.CurrentView(u)
	require.True(t, ok)
	item, _ := view.Slot(anvilmenu.DisplaySlot)
	assert.Equal(t, "abc", item.Name, "the typed text is restored on reopen")
}

func TestTerminate_CallbackPanicIsIsolated(t *testing.T) {
	host, factory := newEngine(t)
	u := host.Connect("steve")
	rec := &recorder{}
	rec.setNext(func(c call) anvilmenu.Directive {
		panic("host code is broken")
	})
	menu := factory.NewMenu(anvilmenu.WithResponse(rec.Response))

	menu.Open(u)
	host.Loop().Flush()

	u.Click(anvilmenu.TriggerSlot)
	host.Loop().Flush()

	// Termination is committed despite the failure: entry gone, dialog
	// closed, and the engine keeps working for the next session.
	require.Len(t, rec.Calls(), 1)
	assert.Empty(t, menu.Viewers())
	_, ok := host.CurrentView(u)
	assert.False(t, ok)

	rec.setNext(nil)
	menu.Open(u)
	host.Loop().Flush()
	assert.Equal(t, []anvilmenu.User{u}, menu.Viewers())
}

func TestTerminate_Disconnect(t *testing.T) {
	host, factory := newEngine(t)
	u := host.Connect("steve")
	rec := &recorder{}
	menu := factory.NewMenu(anvilmenu.WithResponse(rec.Response))

	menu.Open(u)
	host.Loop().Flush()
	u.TypeText("§abye")

	u.Disconnect()
	host.Loop().Flush()

	calls := rec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, anvilmenu.ReasonDisconnect, calls[0].reason)
	assert.Equal(t, "bye", calls[0].text)
	assert.Empty(t, menu.Viewers())

	// Duplicate disconnects stay silent.
	u.Disconnect()
	host.Loop().Flush()
	assert.Len(t, rec.Calls(), 1)
}

func TestTerminate_DisconnectAfterSilentCloseSuppressed(t *testing.T) {
	host, factory := newEngine(t)
	u := host.Connect("steve")
	rec := &recorder{}
	menu := factory.NewMenu(anvilmenu.WithResponse(rec.Response))

	menu.Open(u)
	host.Loop().Flush()

	menu.CloseSilent(u)
	u.Disconnect()
	host.Loop().Flush()

	assert.Empty(t, rec.Calls())
}
