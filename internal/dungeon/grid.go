package dungeon

import "fmt"

// Grid is a sparse record of block occupancy around tracked doors.
// The feed only scans a bounded area per run; lookups outside it fail
// so callers can apply their own conservative fallback.
type Grid struct {
	minSet bool
	min    Vec3i
	max    Vec3i

	solid map[Vec3i]bool
}

func NewGrid() *Grid {
	return &Grid{solid: map[Vec3i]bool{}}
}

// SetArea declares the scanned bounding box. Cells inside the area
// that were never marked solid are air.
func (g *Grid) SetArea(min, max Vec3i) {
	g.min = min
	g.max = max
	g.minSet = true
}

func (g *Grid) SetSolid(pos Vec3i, solid bool) {
	if solid {
		g.solid[pos] = true
		return
	}
	delete(g.solid, pos)
}

// SolidAt reports whether the cell holds solid matter. Lookups
// outside the scanned area return an error.
func (g *Grid) SolidAt(pos Vec3i) (bool, error) {
	if !g.inArea(pos) {
		return false, fmt.Errorf("block (%d,%d,%d) outside scanned area", pos.X, pos.Y, pos.Z)
	}
	return g.solid[pos], nil
}

func (g *Grid) inArea(pos Vec3i) bool {
	if !g.minSet {
		return false
	}
	return pos.X >= g.min.X && pos.X <= g.max.X &&
		pos.Y >= g.min.Y && pos.Y <= g.max.Y &&
		pos.Z >= g.min.Z && pos.Z <= g.max.Z
}
