package dungeon

// FloorY is the block elevation of the dungeon floor. Door centers and
// standing positions all live on this plane.
const FloorY = 69

type Vec3i struct {
	X int
	Y int
	Z int
}

// DistSqXZ is the squared planar distance between a and b; the Y
// component is ignored.
func DistSqXZ(a, b Vec3i) int {
	dx := a.X - b.X
	dz := a.Z - b.Z
	return dx*dx + dz*dz
}
