// SPDX-License-Identifier: MIT

package anvilmenu

// DefaultItemKind is the display payload used when a menu has no item
// configured.
const DefaultItemKind = "paper"

// Item is the opaque display payload shown in the menu's static slot.
// Name doubles as the editable text the client sees when the menu opens.
// Items are plain values; copies are independent.
type Item struct {
	Kind string
	Name string
}

// orDefault returns it with the default kind substituted for a zero kind.
func (it Item) orDefault() Item {
	if it.Kind == "" {
		it.Kind = DefaultItemKind
	}
	return it
}
