// Package search walks the room graph outward from the player's
// current room and collects the unopened wither and blood doors ahead.
package search

import (
	"witherwatch.gg/internal/dungeon"
	"witherwatch.gg/internal/track/clearance"
)

// maxDoorsPerPath bounds how many tracked doors a single traversal
// path may take. The bound is per path: sibling branches carry
// independent counts, so a non-tree graph can collect the same door
// more than once. That matches the tracker's published behavior and
// is left uncorrected.
const maxDoorsPerPath = 2

// TrackedDoor is a door of interest augmented with the standing cell
// chosen for this tick. Fallback marks doors whose approaches were
// all blocked; their stand is the door's own center at floor level.
type TrackedDoor struct {
	dungeon.Door
	Stand    clearance.Stand
	Fallback bool
}

// CollectDeps supplies the collaborators of one traversal.
type CollectDeps struct {
	// DoorBetween returns the door connecting two adjacent rooms.
	DoorBetween func(a, b *dungeon.Room) (dungeon.Door, bool)
	// ProbeStand picks a standing cell for a door center.
	ProbeStand func(center, observer dungeon.Vec3i) (clearance.Stand, bool)
	// Warnf receives fallback notices. May be nil.
	Warnf func(format string, args ...any)
}

// Collect walks depth-first from start in child declaration order.
// Doors that are absent, untracked, or already opened are skipped and
// their branch is not descended. Output order is insertion order.
func Collect(deps CollectDeps, start *dungeon.Room, observer dungeon.Vec3i) []TrackedDoor {
	var out []TrackedDoor
	collect(deps, start, observer, 0, &out)
	return out
}

func collect(deps CollectDeps, room *dungeon.Room, observer dungeon.Vec3i, found int, out *[]TrackedDoor) {
	if room == nil {
		return
	}
	for _, child := range room.Children {
		door, ok := deps.DoorBetween(room, child)
		if !ok {
			continue
		}
		if !door.Kind.Tracked() || door.Opened {
			continue
		}

		td := TrackedDoor{Door: door}
		if stand, ok := deps.ProbeStand(door.Center(), observer); ok {
			td.Stand = stand
		} else {
			td.Stand = clearance.Stand{X: door.X, Y: dungeon.FloorY, Z: door.Z}
			td.Fallback = true
			if deps.Warnf != nil {
				deps.Warnf("no clear approach to %s door between %s and %s; using door center", door.Kind, room.Name, child.Name)
			}
		}
		*out = append(*out, td)

		if found+1 < maxDoorsPerPath {
			collect(deps, child, observer, found+1, out)
		}
	}
}
