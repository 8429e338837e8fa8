package media

import "fmt"

// Type identifies the kind of media behind a cover.
type Type string

// Known media types.
const (
	TypeMovie   Type = "movie"
	TypeTV      Type = "tv"
	TypeBook    Type = "book"
	TypeAlbum   Type = "album"
	TypeGame    Type = "game"
	TypePodcast Type = "podcast"
	TypeCustom  Type = "custom"
)

// ValidTypes is the set of recognised media types.
var ValidTypes = map[Type]bool{
	TypeMovie:   true,
	TypeTV:      true,
	TypeBook:    true,
	TypeAlbum:   true,
	TypeGame:    true,
	TypePodcast: true,
	TypeCustom:  true,
}

// ParseType converts a string to a Type.
// Unknown values are accepted as-is; they resolve to the universal default ratio.
func ParseType(s string) Type {
	return Type(s)
}

// Item is a single cover on the grid.
type Item struct {
	ID          string   `json:"id" toml:"id" bson:"id"`
	Type        Type     `json:"type" toml:"type" bson:"type"`
	AspectRatio *float64 `json:"aspect_ratio,omitempty" toml:"aspect_ratio,omitempty" bson:"aspect_ratio,omitempty"`

	// Presentation fields, ignored by the layout core.
	Title    string `json:"title,omitempty" toml:"title,omitempty" bson:"title,omitempty"`
	Caption  string `json:"caption,omitempty" toml:"caption,omitempty" bson:"caption,omitempty"`
	CoverURL string `json:"cover_url,omitempty" toml:"cover_url,omitempty" bson:"cover_url,omitempty"`
}

// WithRatio returns a copy of the item with an explicit aspect ratio.
func (it Item) WithRatio(r float64) Item {
	it.AspectRatio = &r
	return it
}

// Label returns the title if set, otherwise the ID.
func (it Item) Label() string {
	if it.Title != "" {
		return it.Title
	}
	return it.ID
}

// String implements fmt.Stringer.
func (it Item) String() string {
	if it.AspectRatio != nil {
		return fmt.Sprintf("%s(%s %.3f)", it.ID, it.Type, *it.AspectRatio)
	}
	return fmt.Sprintf("%s(%s)", it.ID, it.Type)
}

// Ratio is a convenience constructor for an optional aspect ratio.
func Ratio(r float64) *float64 { return &r }
