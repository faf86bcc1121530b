package models

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// ResolutionKey names the synthetic scalar entry that carries the pixel
// size in µm alongside the element channels of a stored tile set.
const ResolutionKey = "resolution"

// GreyChannel is the electron-image channel present in most scans and
// preferred for visual alignment.
const GreyChannel = "Grey"

// TileSet maps channel names to 2D composition maps for one scan field.
// Channel matrices are read-only to the registration core.
type TileSet struct {
	Channels   map[string]*mat.Dense
	Resolution float64
}

// NewTileSet returns an empty tile set.
func NewTileSet() *TileSet {
	return &TileSet{Channels: make(map[string]*mat.Dense)}
}

// ChannelNames lists the set's channels, sorted.
func (ts *TileSet) ChannelNames() []string {
	names := make([]string, 0, len(ts.Channels))
	for name := range ts.Channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SharedElements lists the channels present in both sets, sorted.
func SharedElements(a, b *TileSet) []string {
	var shared []string
	for name := range a.Channels {
		if _, ok := b.Channels[name]; ok {
			shared = append(shared, name)
		}
	}
	sort.Strings(shared)
	return shared
}
