package cache

// ScopedKeyer prefixes every key of an inner Keyer, so several schematic
// projects can share one Redis instance without colliding.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "project:filters:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer selects
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(netlistHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(netlistHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(netlistHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(netlistHash, opts)
}
