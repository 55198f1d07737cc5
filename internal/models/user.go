package models

// Palette is the fixed list of avatar colors. A new user gets the color at
// index len(users) % len(Palette).
var Palette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4",
	"#FFEAA7", "#DDA0DD", "#98D8C8", "#F7DC6F",
}

// User represents a participant of the ledger.
type User struct {
	// ID is the unique, stable identifier for the user (UUID format for new
	// users; older documents may carry millisecond timestamps).
	ID string `json:"id"`

	// Name is the display name. Unique among active users, compared
	// case-insensitively.
	Name string `json:"name"`

	// Color is the avatar color picked from Palette at creation time.
	Color string `json:"color"`
}
