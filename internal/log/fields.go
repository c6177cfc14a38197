// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldUser   = "user"
	FieldUserID = "user_id"
	FieldViewID = "view_id"

	// Menu fields
	FieldMenuTitle   = "menu_title"
	FieldCloseReason = "close_reason"
	FieldDirective   = "directive"
	FieldSlot        = "slot"
	FieldText        = "text"

	// Process fields
	FieldComponent  = "component"
	FieldQueueDepth = "queue_depth"
)
