// Package cache stores solved layouts and rendered drawings so repeated runs
// over an unchanged netlist skip the solve and the encoders.
//
// Three backends share the [Cache] interface:
//
//   - [FileCache]: one JSON file per entry under a local directory (CLI)
//   - [RedisCache]: a shared Redis instance (serve mode, several workers)
//   - [NullCache]: stores nothing (caching disabled)
//
// Keys are built by a [Keyer] from content hashes, so a key never needs
// invalidation: a changed netlist hashes to a new key.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values per entry type.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value stored under key. A miss is reported with
	// hit=false and a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// LayoutKeyOpts holds the inputs besides the netlist that affect a layout.
type LayoutKeyOpts struct {
	Version int `json:"version"` // solver revision
}

// ArtifactKeyOpts holds the inputs besides the layout that affect a drawing.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	DrawNodes  bool   `json:"draw_nodes"`
	LabelNodes bool   `json:"label_nodes"`
	Args       string `json:"args,omitempty"`
	Wires      string `json:"wires,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey returns the key of the layout solved for a netlist hash.
	LayoutKey(netlistHash string, opts LayoutKeyOpts) string

	// ArtifactKey returns the key of a drawing rendered from a netlist hash.
	ArtifactKey(netlistHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(netlistHash string, opts LayoutKeyOpts) string {
	return entryKey("layout", netlistHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(netlistHash string, opts ArtifactKeyOpts) string {
	return entryKey("artifact", netlistHash, opts)
}
