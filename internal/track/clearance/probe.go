// Package clearance picks a standing cell next to a door by probing
// block occupancy around its floor-plane center.
package clearance

import (
	"witherwatch.gg/internal/dungeon"
)

// BlockEnv is the world occupancy probe. Lookup failures are treated
// as solid.
type BlockEnv interface {
	SolidAt(pos dungeon.Vec3i) (bool, error)
}

// Stand is a chosen standing cell and the cardinal side of the door
// it sits on.
type Stand struct {
	X    int
	Y    int
	Z    int
	Side string
}

func (s Stand) Pos() dungeon.Vec3i {
	return dungeon.Vec3i{X: s.X, Y: s.Y, Z: s.Z}
}

// Probe directions in fixed order; ties on distance resolve to the
// first direction probed.
var directions = [4]struct {
	side string
	dx   int
	dz   int
}{
	{side: "north", dx: 0, dz: -1},
	{side: "south", dx: 0, dz: 1},
	{side: "east", dx: 1, dz: 0},
	{side: "west", dx: -1, dz: 0},
}

const (
	// Air is checked two cells out from the door center...
	checkOffset = 2
	// ...and the stand cell sits one further along the approach axis.
	standOffset = 3
)

// Prober computes standing positions against a block environment.
type Prober struct {
	Env BlockEnv

	// Warnf receives non-fatal probe failures. May be nil.
	Warnf func(format string, args ...any)
}

// Probe tests the four cardinal approaches to the door center. A
// direction is open only when both the floor cell and the cell above
// it, two blocks out, are free of solid matter. Among open directions
// the candidate closest (squared planar distance) to the observer
// wins; with none open it reports ok=false and the caller must fall
// back.
func (p *Prober) Probe(center, observer dungeon.Vec3i) (Stand, bool) {
	var best Stand
	bestDist := -1
	for _, d := range directions {
		if !p.open(center, d.dx, d.dz) {
			continue
		}
		cand := Stand{
			X:    center.X + standOffset*d.dx,
			Y:    center.Y,
			Z:    center.Z + standOffset*d.dz,
			Side: d.side,
		}
		dist := dungeon.DistSqXZ(observer, cand.Pos())
		if bestDist < 0 || dist < bestDist {
			best = cand
			bestDist = dist
		}
	}
	if bestDist < 0 {
		return Stand{}, false
	}
	return best, true
}

func (p *Prober) open(center dungeon.Vec3i, dx, dz int) bool {
	foot := dungeon.Vec3i{X: center.X + checkOffset*dx, Y: center.Y, Z: center.Z + checkOffset*dz}
	head := dungeon.Vec3i{X: foot.X, Y: foot.Y + 1, Z: foot.Z}
	return !p.solid(foot) && !p.solid(head)
}

// solid treats probe errors as solid so an unscanned cell never
// produces a standing position.
func (p *Prober) solid(pos dungeon.Vec3i) bool {
	s, err := p.Env.SolidAt(pos)
	if err != nil {
		if p.Warnf != nil {
			p.Warnf("clearance probe at (%d,%d,%d): %v", pos.X, pos.Y, pos.Z, err)
		}
		return true
	}
	return s
}
