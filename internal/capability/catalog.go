package capability

import (
	"sort"

	"github.com/bayleafwalker/capture-core/internal/semver"
)

// ParameterID identifies one configuration parameter, e.g. "awb-mode".
type ParameterID string

// Catalog is an immutable snapshot of what a device supports.
//
// Lookup is total: anything the catalog does not know about is Unavailable.
// A Catalog is safe for concurrent reads and may be shared across runs.
type Catalog struct {
	platform semver.Level
	entries  map[ParameterID]Descriptor
}

// Builder accumulates descriptors for a Catalog. It is not safe for concurrent use.
type Builder struct {
	platform semver.Level
	entries  map[ParameterID]Descriptor
}

func NewBuilder() *Builder {
	return &Builder{entries: map[ParameterID]Descriptor{}}
}

func (b *Builder) Platform(l semver.Level) *Builder {
	b.platform = l
	return b
}

// Set records d for id, replacing any previous descriptor.
func (b *Builder) Set(id ParameterID, d Descriptor) *Builder {
	b.entries[id] = d.clone()
	return b
}

// Build snapshots the builder. Later Set calls do not affect the returned Catalog.
func (b *Builder) Build() *Catalog {
	entries := make(map[ParameterID]Descriptor, len(b.entries))
	for id, d := range b.entries {
		entries[id] = d.clone()
	}
	return &Catalog{platform: b.platform, entries: entries}
}

// Empty returns a catalog where every parameter is Unavailable.
func Empty() *Catalog {
	return &Catalog{entries: map[ParameterID]Descriptor{}}
}

func (c *Catalog) Lookup(id ParameterID) Descriptor {
	if c == nil {
		return NotAvailable()
	}
	d, ok := c.entries[id]
	if !ok {
		return NotAvailable()
	}
	return d.clone()
}

func (c *Catalog) Platform() semver.Level {
	if c == nil {
		return semver.Level{}
	}
	return c.platform
}

// IDs returns the known parameter ids in lexical order.
func (c *Catalog) IDs() []ParameterID {
	if c == nil {
		return nil
	}
	out := make([]ParameterID, 0, len(c.entries))
	for id := range c.entries {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}
