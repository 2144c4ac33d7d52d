package display

import "time"

// Embed is the display payload handed to the sink's rich-message renderer.
// It is an internal structure; the sink adapter maps it to the platform's
// native embed type.
type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []Field
	FooterText  string
	Timestamp   time.Time
}

// Field is one ordered named section of the embed.
type Field struct {
	Name  string
	Value string
}

const (
	// TitleMarker is the stable substring the reconciler looks for when
	// scanning history for a prior artifact. It must survive cosmetic
	// title changes, so keep it free of emoji and decoration.
	TitleMarker = "Dungeon & Raid Schedule"

	embedTitle       = "🏰 Dungeon & Raid Schedule"
	embedDescription = "Live countdowns for hourly dungeons and raids"
	embedFooter      = "🤖 Auto-updating every 10 seconds • Join during the green active window!"
	embedColor       = 0x71368A // dark purple
)

// Placeholder is the content a freshly created artifact starts with, before
// the first refresh pass overwrites it.
func Placeholder() Embed {
	return Embed{
		Title:       embedTitle,
		Description: "Initializing countdown system...",
		Color:       embedColor,
	}
}
