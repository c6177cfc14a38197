// SPDX-License-Identifier: MIT

package memhost

import (
	"sync"

	"github.com/google/uuid"

	"github.com/forgecraft/anvilmenu"
)

// DefaultViewTitle is the platform default title used when a menu has
// none configured.
const DefaultViewTitle = "Repair & Name"

// View is one concrete anvil-shaped view instance.
type View struct {
	id    uuid.UUID
	title string

	mu    sync.RWMutex
	slots map[int]anvilmenu.Item
}

// ID returns the view instance identifier.
func (v *View) ID() uuid.UUID {
	return v.id
}

// Title returns the resolved view title.
func (v *View) Title() string {
	return v.title
}

// SetSlot places an item in the given slot.
func (v *View) SetSlot(slot int, item anvilmenu.Item) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.slots[slot] = item
}

// Slot reads the item in the given slot.
func (v *View) Slot(slot int) (anvilmenu.Item, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	item, ok := v.slots[slot]
	return item, ok
}

// presenter tracks the one view each user currently has open. Dismissing
// a tracked view synthesizes a host-originated close notification, the
// way the platform's outbound close-window packet behaves.
type presenter struct {
	host *Host

	mu    sync.RWMutex
	views map[anvilmenu.User]*View
}

func (p *presenter) CreateView(title string) anvilmenu.View {
	if title == "" {
		title = DefaultViewTitle
	}
	return &View{
		id:    uuid.New(),
		title: title,
		slots: make(map[int]anvilmenu.Item),
	}
}

func (p *presenter) Present(u anvilmenu.User, v anvilmenu.View) {
	view, ok := v.(*View)
	if !ok {
		return
	}
	p.mu.Lock()
	p.views[u] = view
	p.mu.Unlock()
}

func (p *presenter) Dismiss(u anvilmenu.User) {
	p.mu.Lock()
	_, had := p.views[u]
	delete(p.views, u)
	p.mu.Unlock()

	if !had {
		return
	}
	if mu, ok := u.(*User); ok {
		p.host.deliverServerClose(mu)
	}
}

func (p *presenter) Viewing(u anvilmenu.User, v anvilmenu.View) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.views[u] == v
}

// ViewOf returns the view the user currently has open, if any.
func (p *presenter) ViewOf(u anvilmenu.User) (*View, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.views[u]
	return v, ok
}

// drop removes the view mapping without a close notification, for closes
// that originated client-side.
func (p *presenter) drop(u anvilmenu.User) {
	p.mu.Lock()
	delete(p.views, u)
	p.mu.Unlock()
}

// CurrentView returns the view a user currently has open, for inspection
// by tests and the admin surface.
func (h *Host) CurrentView(u anvilmenu.User) (*View, bool) {
	return h.views.ViewOf(u)
}
