package dungeon

// DoorKind classifies a connector between two rooms.
type DoorKind int

const (
	KindNormal DoorKind = iota
	KindWither
	KindBlood
	KindEntrance
)

var kindLabels = map[DoorKind]string{
	KindNormal:   "NORMAL",
	KindWither:   "WITHER",
	KindBlood:    "BLOOD",
	KindEntrance: "ENTRANCE",
}

func (k DoorKind) String() string {
	if s, ok := kindLabels[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// KindFromLabel maps a wire label back to a kind. Unrecognized labels
// map to KindNormal, which is never tracked.
func KindFromLabel(s string) DoorKind {
	for k, label := range kindLabels {
		if label == s {
			return k
		}
	}
	return KindNormal
}

// Tracked reports whether doors of this kind are of interest to the
// tracker. Only unopened wither and blood doors are ever published.
func (k DoorKind) Tracked() bool {
	return k == KindWither || k == KindBlood
}

// Door connects two rooms. X and Z are the planar center of the door
// frame at FloorY. Doors are value types: the tracker re-derives them
// from the graph every tick and never mutates graph-held records.
type Door struct {
	X      int
	Z      int
	Kind   DoorKind
	Opened bool

	// RoomA and RoomB are the names of the rooms this door connects,
	// in the order they were linked.
	RoomA string
	RoomB string
}

// Center is the door's floor-plane center cell.
func (d Door) Center() Vec3i {
	return Vec3i{X: d.X, Y: FloorY, Z: d.Z}
}
