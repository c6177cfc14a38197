// SPDX-License-Identifier: MIT

package memhost

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgecraft/anvilmenu"
)

// sinkRecorder counts event deliveries.
type sinkRecorder struct {
	mu           sync.Mutex
	clicks       []int
	edits        []string
	clientCloses int
	serverCloses int
	disconnects  int
	swallowAll   bool
}

func (s *sinkRecorder) HandleClick(_ anvilmenu.User, slot int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clicks = append(s.clicks, slot)
	return s.swallowAll
}

func (s *sinkRecorder) HandleTextEdit(_ anvilmenu.User, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edits = append(s.edits, text)
	return s.swallowAll
}

func (s *sinkRecorder) HandleClientClose(anvilmenu.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientCloses++
}

func (s *sinkRecorder) HandleServerClose(anvilmenu.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serverCloses++
}

func (s *sinkRecorder) HandleDisconnect(anvilmenu.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disconnects++
}

func (s *sinkRecorder) snapshot() sinkRecorder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sinkRecorder{
		clicks:       append([]int(nil), s.clicks...),
		edits:        append([]string(nil), s.edits...),
		clientCloses: s.clientCloses,
		serverCloses: s.serverCloses,
		disconnects:  s.disconnects,
	}
}

func TestHost_ConnectAndLookup(t *testing.T) {
	h := New()
	t.Cleanup(h.Shutdown)

	u := h.Connect("steve")
	assert.True(t, h.Running())
	assert.True(t, u.Online())

	found, ok := h.Lookup(u.ID())
	require.True(t, ok)
	assert.Same(t, u, found)
	assert.Len(t, h.Users(), 1)
}

func TestHost_DisconnectRemovesUser(t *testing.T) {
	h := New()
	t.Cleanup(h.Shutdown)
	sink := &sinkRecorder{}
	h.Subscribe(sink)

	u := h.Connect("steve")
	u.Disconnect()
	h.Loop().Flush()

	assert.False(t, u.Online())
	_, ok := h.Lookup(u.ID())
	assert.False(t, ok)
	assert.Equal(t, 1, sink.snapshot().disconnects)
}

func TestHost_EventDelivery(t *testing.T) {
	h := New()
	t.Cleanup(h.Shutdown)
	sink := &sinkRecorder{}
	h.Subscribe(sink)

	u := h.Connect("steve")
	u.TypeText("hello")
	u.ClearText()
	u.Click(2)
	u.CloseView()
	h.Loop().Flush()

	got := sink.snapshot()
	assert.Equal(t, []string{"hello", ""}, got.edits)
	assert.Equal(t, []int{2}, got.clicks)
	assert.Equal(t, 1, got.clientCloses)
}

func TestPresenter_ViewLifecycle(t *testing.T) {
	h := New()
	t.Cleanup(h.Shutdown)
	sink := &sinkRecorder{}
	h.Subscribe(sink)

	u := h.Connect("steve")
	p := h.Presenter()

	v := p.CreateView("Rename")
	v.SetSlot(0, anvilmenu.Item{Kind: "paper", Name: "Jacob"})
	p.Present(u, v)

	require.True(t, p.Viewing(u, v))
	view, ok := h.CurrentView(u)
	require.True(t, ok)
	assert.Equal(t, "Rename", view.Title())
	item, ok := view.Slot(0)
	require.True(t, ok)
	assert.Equal(t, "Jacob", item.Name)

	// Host-originated dismissal synthesizes exactly one server-close.
	p.Dismiss(u)
	assert.Equal(t, 1, sink.snapshot().serverCloses)
	assert.False(t, p.Viewing(u, v))

	// Dismissing a user with no view is silent.
	p.Dismiss(u)
	assert.Equal(t, 1, sink.snapshot().serverCloses)
}

func TestPresenter_DefaultTitle(t *testing.T) {
	h := New()
	t.Cleanup(h.Shutdown)

	v := h.Presenter().CreateView("")
	view, ok := v.(*View)
	require.True(t, ok)
	assert.Equal(t, DefaultViewTitle, view.Title())
}

func TestHost_ShutdownDisconnectsEveryone(t *testing.T) {
	h := New()
	sink := &sinkRecorder{}
	h.Subscribe(sink)

	h.Connect("steve")
	h.Connect("alex")
	h.Shutdown()

	assert.False(t, h.Running())
	assert.Empty(t, h.Users())
	assert.Equal(t, 2, sink.snapshot().disconnects)
}
