package search

import (
	"fmt"
	"testing"

	"witherwatch.gg/internal/dungeon"
	"witherwatch.gg/internal/track/clearance"
)

// openProbe pretends every door has a clear north approach.
func openProbe(center, observer dungeon.Vec3i) (clearance.Stand, bool) {
	return clearance.Stand{X: center.X, Y: center.Y, Z: center.Z - 3, Side: "north"}, true
}

func graphDeps(g *dungeon.Graph) CollectDeps {
	return CollectDeps{
		DoorBetween: g.DoorBetween,
		ProbeStand:  openProbe,
	}
}

func TestCollectFiltersKindAndOpened(t *testing.T) {
	g := dungeon.NewGraph()
	g.Link("spawn", "a", dungeon.Door{X: 4, Z: -8, Kind: dungeon.KindWither})
	g.Link("spawn", "b", dungeon.Door{X: 12, Z: 0, Kind: dungeon.KindBlood, Opened: true})
	g.Link("spawn", "c", dungeon.Door{X: 0, Z: 12, Kind: dungeon.KindEntrance})

	spawn, _ := g.Room("spawn")
	doors := Collect(graphDeps(g), spawn, dungeon.Vec3i{})
	if len(doors) != 1 {
		t.Fatalf("expected only the unopened wither door, got %d", len(doors))
	}
	if doors[0].Kind != dungeon.KindWither || doors[0].X != 4 {
		t.Fatalf("unexpected door: %+v", doors[0])
	}
	if doors[0].Stand.Z != -8-3 {
		t.Fatalf("expected augmented stand, got %+v", doors[0].Stand)
	}
}

func TestCollectPerPathBound(t *testing.T) {
	// A chain of three wither doors: spawn -> a -> b -> c. Only the
	// first two along the path may be taken.
	g := dungeon.NewGraph()
	g.Link("spawn", "a", dungeon.Door{X: 1, Z: 0, Kind: dungeon.KindWither})
	g.Link("a", "b", dungeon.Door{X: 2, Z: 0, Kind: dungeon.KindWither})
	g.Link("b", "c", dungeon.Door{X: 3, Z: 0, Kind: dungeon.KindWither})

	spawn, _ := g.Room("spawn")
	doors := Collect(graphDeps(g), spawn, dungeon.Vec3i{})
	if len(doors) != 2 {
		t.Fatalf("expected per-path bound of 2, got %d doors", len(doors))
	}
	if doors[0].X != 1 || doors[1].X != 2 {
		t.Fatalf("expected depth-first insertion order, got %+v", doors)
	}
}

func TestCollectSiblingBranchesCountIndependently(t *testing.T) {
	// Two sibling branches, each two doors deep: every branch gets its
	// own budget.
	g := dungeon.NewGraph()
	g.Link("spawn", "a", dungeon.Door{X: 1, Z: 0, Kind: dungeon.KindWither})
	g.Link("a", "a2", dungeon.Door{X: 2, Z: 0, Kind: dungeon.KindBlood})
	g.Link("spawn", "b", dungeon.Door{X: 3, Z: 0, Kind: dungeon.KindWither})
	g.Link("b", "b2", dungeon.Door{X: 4, Z: 0, Kind: dungeon.KindBlood})

	spawn, _ := g.Room("spawn")
	doors := Collect(graphDeps(g), spawn, dungeon.Vec3i{})
	if len(doors) != 4 {
		t.Fatalf("expected four doors across branches, got %d", len(doors))
	}
	want := []int{1, 2, 3, 4}
	for i, d := range doors {
		if d.X != want[i] {
			t.Fatalf("unexpected order: %+v", doors)
		}
	}
}

func TestCollectSkippedDoorStopsBranch(t *testing.T) {
	// An opened door hides everything behind it.
	g := dungeon.NewGraph()
	g.Link("spawn", "a", dungeon.Door{X: 1, Z: 0, Kind: dungeon.KindWither, Opened: true})
	g.Link("a", "b", dungeon.Door{X: 2, Z: 0, Kind: dungeon.KindWither})

	spawn, _ := g.Room("spawn")
	doors := Collect(graphDeps(g), spawn, dungeon.Vec3i{})
	if len(doors) != 0 {
		t.Fatalf("expected nothing past an opened door, got %d", len(doors))
	}
}

func TestCollectFallbackOnBlockedDoor(t *testing.T) {
	g := dungeon.NewGraph()
	g.Link("spawn", "vault", dungeon.Door{X: 10, Z: -4, Kind: dungeon.KindBlood})

	var warned string
	deps := CollectDeps{
		DoorBetween: g.DoorBetween,
		ProbeStand: func(center, observer dungeon.Vec3i) (clearance.Stand, bool) {
			return clearance.Stand{}, false
		},
		Warnf: func(format string, args ...any) { warned = fmt.Sprintf(format, args...) },
	}

	spawn, _ := g.Room("spawn")
	doors := Collect(deps, spawn, dungeon.Vec3i{})
	if len(doors) != 1 {
		t.Fatalf("expected the door despite the blocked approach")
	}
	d := doors[0]
	if !d.Fallback || d.Stand.X != 10 || d.Stand.Y != dungeon.FloorY || d.Stand.Z != -4 {
		t.Fatalf("expected door-center fallback, got %+v", d)
	}
	if warned == "" {
		t.Fatalf("expected a fallback warning naming the rooms")
	}
}

func TestCollectDuplicatesOnDiamondGraph(t *testing.T) {
	// spawn -> a -> shared and spawn -> b -> shared: the shared door is
	// reachable twice and is collected twice. Known limitation, kept.
	g := dungeon.NewGraph()
	g.Link("spawn", "a", dungeon.Door{X: 1, Z: 0, Kind: dungeon.KindWither})
	g.Link("spawn", "b", dungeon.Door{X: 2, Z: 0, Kind: dungeon.KindWither})
	g.Link("a", "shared", dungeon.Door{X: 9, Z: 9, Kind: dungeon.KindBlood})
	g.Link("b", "shared", dungeon.Door{X: 9, Z: 9, Kind: dungeon.KindBlood})

	spawn, _ := g.Room("spawn")
	doors := Collect(graphDeps(g), spawn, dungeon.Vec3i{})
	seen := 0
	for _, d := range doors {
		if d.X == 9 && d.Z == 9 {
			seen++
		}
	}
	if seen != 2 {
		t.Fatalf("expected the shared door twice, got %d (doors: %+v)", seen, doors)
	}
}

func TestCollectNilStart(t *testing.T) {
	if doors := Collect(CollectDeps{}, nil, dungeon.Vec3i{}); len(doors) != 0 {
		t.Fatalf("expected no doors from a nil start")
	}
}
