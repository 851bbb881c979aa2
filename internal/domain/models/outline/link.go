package outline

// Icon kinds for a link widget
const (
	IconEmoji = "emoji"
	IconImage = "img"

	DefaultEmoji = "🔗"
)

// Link is a labeled bookmark attached to a section or kept on the shelf.
// Links are always copied between owners, never shared.
type Link struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	URL   string `json:"url"`
	Icon  string `json:"icon"` // "emoji" or "img"
	Emoji string `json:"emoji,omitempty"`
	Img   string `json:"img,omitempty"`
}

// DisplayIcon returns what the view should draw for the icon slot.
func (l Link) DisplayIcon() string {
	if l.Icon == IconImage && l.Img != "" {
		return l.Img
	}
	if l.Emoji != "" {
		return l.Emoji
	}
	return DefaultEmoji
}
