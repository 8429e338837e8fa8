package cache

import "strings"

// Key prefixes, also used as the key type reported to cache hooks.
const (
	PrefixLayout   = "layout"
	PrefixArtifact = "artifact"
)

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey returns the key for a packed layout of the items hashed as itemsHash.
	LayoutKey(itemsHash string, opts LayoutKeyOpts) string

	// ArtifactKey returns the key for a rendered view hashed as viewHash.
	ArtifactKey(viewHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the packing inputs besides the items.
type LayoutKeyOpts struct {
	Columns int     `json:"columns"`
	MinRows int     `json:"min_rows"`
	Policy  string  `json:"policy"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Gap     float64 `json:"gap"`
	Align   string  `json:"align"`
}

// ArtifactKeyOpts are the rendering inputs besides the view.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Captions bool   `json:"captions"`
	Covers   bool   `json:"covers"`
}

// DefaultKeyer hashes options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(itemsHash string, opts LayoutKeyOpts) string {
	return hashKey(PrefixLayout, itemsHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(viewHash string, opts ArtifactKeyOpts) string {
	return hashKey(PrefixArtifact, viewHash, opts)
}

// KeyType returns the prefix of a key built by DefaultKeyer, ignoring any
// scope prefix.
func KeyType(key string) string {
	for _, seg := range strings.Split(key, ":") {
		if seg == PrefixLayout || seg == PrefixArtifact {
			return seg
		}
	}
	return "other"
}
