package track

import (
	"encoding/json"
	"testing"

	"witherwatch.gg/internal/dungeon"
	"witherwatch.gg/internal/protocol"
)

type fakeSink struct {
	doors [][]byte
	gotos []dungeon.Vec3i
}

func (f *fakeSink) SendDoors(payload []byte) bool {
	f.doors = append(f.doors, payload)
	return true
}

func (f *fakeSink) SendGoto(pos dungeon.Vec3i) bool {
	f.gotos = append(f.gotos, pos)
	return true
}

type fakeRecorder struct{ runs []RunRecord }

func (f *fakeRecorder) RecordRun(r RunRecord) { f.runs = append(f.runs, r) }

// feedScenario loads the two-child scenario: the door to child A is an
// unopened wither door with east and west approaches clear, the door
// to child B is an already-opened blood door.
func feedScenario(t *Tracker) {
	t.ApplyGraph(protocol.GraphMsg{
		Type: protocol.TypeGraph,
		Rooms: []protocol.RoomDef{
			{Name: "spawn", Children: []string{"a", "b"}},
			{Name: "a"},
			{Name: "b"},
		},
		Doors: []protocol.DoorDef{
			{A: "spawn", B: "a", X: 0, Z: 0, Kind: "WITHER"},
			{A: "spawn", B: "b", X: 20, Z: 0, Kind: "BLOOD", Opened: true},
		},
	})
	// Scanned area covers the doors; wall off north and south of door A
	// so only east and west stay open.
	blocks := protocol.BlocksMsg{
		Type: protocol.TypeBlocks,
		Area: &protocol.AreaDef{Min: [3]int{-32, dungeon.FloorY, -32}, Max: [3]int{32, dungeon.FloorY + 1, 32}},
	}
	for _, z := range []int{-2, 2} {
		blocks.Set = append(blocks.Set,
			protocol.BlockDef{X: 0, Y: dungeon.FloorY, Z: z, Solid: true},
			protocol.BlockDef{X: 0, Y: dungeon.FloorY + 1, Z: z, Solid: true},
		)
	}
	t.ApplyBlocks(blocks)
	t.ApplyRunState(protocol.RunStateMsg{
		Type:        protocol.TypeRunState,
		InDungeon:   true,
		CurrentRoom: "spawn",
		Player:      [3]int{0, dungeon.FloorY, 0},
	})
}

func TestStepOncePublishesScenario(t *testing.T) {
	sink := &fakeSink{}
	tr := NewTracker(sink, nil, nil)
	feedScenario(tr)

	tr.StepOnce()
	if len(sink.doors) != 1 {
		t.Fatalf("expected one doorLocations emission, got %d", len(sink.doors))
	}
	var msg protocol.DoorLocationsMsg
	if err := json.Unmarshal(sink.doors[0], &msg); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if len(msg.Doors) != 1 {
		t.Fatalf("expected the opened blood door excluded, got %+v", msg.Doors)
	}
	d := msg.Doors[0]
	if d.Kind != "WITHER" {
		t.Fatalf("unexpected door: %+v", d)
	}
	// Observer equidistant from east and west: the tie resolves to the
	// first direction probed with both sides open, east.
	if d.FootX != 3 || d.FootY != dungeon.FloorY || d.FootZ != 0 {
		t.Fatalf("expected east stand via tie-break, got %+v", d)
	}

	// Unchanged tick: transport stays quiet.
	tr.StepOnce()
	if len(sink.doors) != 1 {
		t.Fatalf("expected no re-emission, got %d", len(sink.doors))
	}
}

func TestStepOnceInactiveInBossRoom(t *testing.T) {
	sink := &fakeSink{}
	tr := NewTracker(sink, nil, nil)
	feedScenario(tr)
	tr.StepOnce()

	tr.ApplyRunState(protocol.RunStateMsg{
		Type:        protocol.TypeRunState,
		InDungeon:   true,
		BossEntry:   true,
		CurrentRoom: "spawn",
		Player:      [3]int{0, dungeon.FloorY, 0},
	})
	tr.StepOnce()
	// Transition from a non-empty emission: one explicit empty list.
	if len(sink.doors) != 2 {
		t.Fatalf("expected empty-list emission on boss entry, got %d", len(sink.doors))
	}
	var msg protocol.DoorLocationsMsg
	_ = json.Unmarshal(sink.doors[1], &msg)
	if len(msg.Doors) != 0 {
		t.Fatalf("expected empty doors, got %+v", msg.Doors)
	}
}

func TestDisableClearsThroughInactivePath(t *testing.T) {
	sink := &fakeSink{}
	tr := NewTracker(sink, nil, nil)
	feedScenario(tr)
	tr.StepOnce()

	if tr.ToggleEnabled() {
		t.Fatalf("expected toggle to disable tracking")
	}
	tr.StepOnce()
	// The prior emission was non-empty: disabling emits the empty list.
	if len(sink.doors) != 2 {
		t.Fatalf("expected empty-list emission on disable, got %d", len(sink.doors))
	}
	if len(tr.Status().Doors) != 0 {
		t.Fatalf("expected door list cleared while disabled")
	}

	if !tr.ToggleEnabled() {
		t.Fatalf("expected toggle to re-enable tracking")
	}
	tr.StepOnce()
	if len(sink.doors) != 3 {
		t.Fatalf("expected re-emission after re-enable, got %d", len(sink.doors))
	}
}

func TestStepOnceUnresolvableRoomIsInactive(t *testing.T) {
	sink := &fakeSink{}
	tr := NewTracker(sink, nil, nil)
	feedScenario(tr)
	tr.ApplyRunState(protocol.RunStateMsg{
		Type:        protocol.TypeRunState,
		InDungeon:   true,
		CurrentRoom: "nowhere",
		Player:      [3]int{0, dungeon.FloorY, 0},
	})
	tr.StepOnce()
	if len(sink.doors) != 0 {
		t.Fatalf("expected no emission without a resolvable room")
	}
}

func TestAutoNavGotoLifecycle(t *testing.T) {
	sink := &fakeSink{}
	tr := NewTracker(sink, nil, nil)
	feedScenario(tr)
	if !tr.ToggleAutoNav() {
		t.Fatalf("expected toggle to enable auto-navigation")
	}

	tr.StepOnce()
	if len(sink.gotos) != 1 {
		t.Fatalf("expected one GOTO, got %d", len(sink.gotos))
	}
	tr.StepOnce()
	if len(sink.gotos) != 1 {
		t.Fatalf("expected no repeat GOTO for the same target")
	}

	// The wither door opens: the filtered list empties and the
	// last-sent state clears without an explicit message.
	tr.ApplyGraph(protocol.GraphMsg{
		Type: protocol.TypeGraph,
		Rooms: []protocol.RoomDef{
			{Name: "spawn", Children: []string{"a"}},
			{Name: "a"},
		},
		Doors: []protocol.DoorDef{
			{A: "spawn", B: "a", X: 0, Z: 0, Kind: "WITHER", Opened: true},
		},
	})
	tr.StepOnce()
	if len(sink.gotos) != 1 {
		t.Fatalf("expected no GOTO after target loss")
	}
}

func TestResetClearsStateAndClosesRun(t *testing.T) {
	sink := &fakeSink{}
	rec := &fakeRecorder{}
	tr := NewTracker(sink, rec, nil)
	feedScenario(tr)
	tr.ToggleAutoNav()
	tr.StepOnce()

	tr.Reset()
	st := tr.Status()
	if st.InDungeon || st.AutoNav || len(st.Doors) != 0 {
		t.Fatalf("expected cleared status after reset, got %+v", st)
	}
	if len(rec.runs) != 1 {
		t.Fatalf("expected the open run recorded on reset, got %d", len(rec.runs))
	}
	if rec.runs[0].DoorsPublished != 1 || rec.runs[0].GotosSent != 1 {
		t.Fatalf("unexpected run record: %+v", rec.runs[0])
	}
}

func TestRunRecordedOnDungeonExit(t *testing.T) {
	sink := &fakeSink{}
	rec := &fakeRecorder{}
	tr := NewTracker(sink, rec, nil)
	feedScenario(tr)
	tr.StepOnce()

	tr.ApplyRunState(protocol.RunStateMsg{Type: protocol.TypeRunState})
	tr.StepOnce()
	if len(rec.runs) != 1 {
		t.Fatalf("expected run record on dungeon exit, got %d", len(rec.runs))
	}
	if rec.runs[0].EndedTick <= rec.runs[0].StartedTick {
		t.Fatalf("unexpected run ticks: %+v", rec.runs[0])
	}
}
