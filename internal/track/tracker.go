// Package track owns the per-run tracking state and the tick
// pipeline: traversal, clearance probing, change-detected publishing.
package track

import (
	"log"
	"time"

	"witherwatch.gg/internal/dungeon"
	"witherwatch.gg/internal/protocol"
	"witherwatch.gg/internal/track/clearance"
	"witherwatch.gg/internal/track/publish"
	"witherwatch.gg/internal/track/search"
)

// Sink is the companion-link boundary. Sends are fire-and-forget;
// false means the message did not go out.
type Sink interface {
	SendDoors(payload []byte) bool
	SendGoto(pos dungeon.Vec3i) bool
}

// RunRecord summarizes one dungeon run for the history index.
type RunRecord struct {
	StartedTick uint64
	EndedTick   uint64
	StartedAt   time.Time
	EndedAt     time.Time

	DoorsPublished int
	GotosSent      int
}

// RunRecorder receives a record when a run ends. Implementations must
// not block the tick loop.
type RunRecorder interface {
	RecordRun(r RunRecord)
}

// Tracker holds all mutable tracking state. It is confined to one
// goroutine; Runtime is the only caller.
type Tracker struct {
	log  *log.Logger
	sink Sink
	rec  RunRecorder

	enabled bool
	graph   *dungeon.Graph
	grid    *dungeon.Grid
	run     dungeon.RunState

	prober clearance.Prober
	pub    publish.State

	tick  uint64
	doors []search.TrackedDoor

	runOpen        bool
	runStartTick   uint64
	runStartedAt   time.Time
	doorsPublished int
	gotosSent      int
}

func NewTracker(sink Sink, rec RunRecorder, logger *log.Logger) *Tracker {
	t := &Tracker{
		log:     logger,
		sink:    sink,
		rec:     rec,
		enabled: true,
		graph:   dungeon.NewGraph(),
		grid:    dungeon.NewGrid(),
	}
	t.prober = clearance.Prober{Env: t.grid, Warnf: t.warnf}
	return t
}

func (t *Tracker) warnf(format string, args ...any) {
	if t.log != nil {
		t.log.Printf("warn: "+format, args...)
	}
}

// ToggleEnabled flips the whole feature and returns the new state.
// While disabled, the next tick clears tracked state through the
// normal inactive path.
func (t *Tracker) ToggleEnabled() bool {
	t.enabled = !t.enabled
	return t.enabled
}

// SetAutoNav sets auto-navigation directly (startup default).
func (t *Tracker) SetAutoNav(on bool) { t.pub.SetAutoNav(on) }

// ToggleAutoNav flips auto-navigation and returns the new state.
func (t *Tracker) ToggleAutoNav() bool {
	t.pub.SetAutoNav(!t.pub.AutoNav())
	return t.pub.AutoNav()
}

// StepOnce runs one tick: evaluate preconditions, rebuild the door
// list from the current room, and publish changes.
func (t *Tracker) StepOnce() {
	t.tick++
	t.stepRunAccounting()

	active := t.enabled && t.run.Active()
	var room *dungeon.Room
	if active {
		r, ok := t.graph.Room(t.run.CurrentRoom)
		if !ok {
			active = false
		}
		room = r
	}

	var doors []search.TrackedDoor
	if active {
		doors = search.Collect(search.CollectDeps{
			DoorBetween: t.graph.DoorBetween,
			ProbeStand:  t.prober.Probe,
			Warnf:       t.warnf,
		}, room, t.run.Player)
	}
	t.doors = doors

	publish.Step(&t.pub, publish.StepInput{Active: active, Doors: doors}, publish.StepDeps{
		SendDoors: func(payload []byte) bool {
			if t.sink == nil || !t.sink.SendDoors(payload) {
				return false
			}
			t.doorsPublished++
			return true
		},
		SendGoto: func(pos dungeon.Vec3i) bool {
			if t.sink == nil || !t.sink.SendGoto(pos) {
				return false
			}
			t.gotosSent++
			return true
		},
	})
}

func (t *Tracker) stepRunAccounting() {
	if t.run.InDungeon && !t.runOpen {
		t.runOpen = true
		t.runStartTick = t.tick
		t.runStartedAt = time.Now()
		t.doorsPublished = 0
		t.gotosSent = 0
		return
	}
	if !t.run.InDungeon && t.runOpen {
		t.closeRun()
	}
}

func (t *Tracker) closeRun() {
	if !t.runOpen {
		return
	}
	t.runOpen = false
	if t.rec == nil {
		return
	}
	t.rec.RecordRun(RunRecord{
		StartedTick:    t.runStartTick,
		EndedTick:      t.tick,
		StartedAt:      t.runStartedAt,
		EndedAt:        time.Now(),
		DoorsPublished: t.doorsPublished,
		GotosSent:      t.gotosSent,
	})
}

// ApplyRunState ingests a feed runState message.
func (t *Tracker) ApplyRunState(msg protocol.RunStateMsg) {
	t.run = dungeon.RunState{
		InDungeon:   msg.InDungeon,
		BossEntry:   msg.BossEntry,
		CurrentRoom: msg.CurrentRoom,
		Player:      dungeon.Vec3i{X: msg.Player[0], Y: msg.Player[1], Z: msg.Player[2]},
	}
}

// ApplyGraph replaces the room graph wholesale. Child order in the
// message fixes traversal order.
func (t *Tracker) ApplyGraph(msg protocol.GraphMsg) {
	g := dungeon.NewGraph()
	for _, r := range msg.Rooms {
		g.AddRoom(r.Name)
		for _, c := range r.Children {
			g.AddChild(r.Name, c)
		}
	}
	for _, d := range msg.Doors {
		g.SetDoor(d.A, d.B, dungeon.Door{
			X:      d.X,
			Z:      d.Z,
			Kind:   dungeon.KindFromLabel(d.Kind),
			Opened: d.Opened,
		})
	}
	t.graph = g
}

// ApplyBlocks ingests sparse occupancy updates.
func (t *Tracker) ApplyBlocks(msg protocol.BlocksMsg) {
	if msg.Area != nil {
		t.grid.SetArea(
			dungeon.Vec3i{X: msg.Area.Min[0], Y: msg.Area.Min[1], Z: msg.Area.Min[2]},
			dungeon.Vec3i{X: msg.Area.Max[0], Y: msg.Area.Max[1], Z: msg.Area.Max[2]},
		)
	}
	for _, b := range msg.Set {
		t.grid.SetSolid(dungeon.Vec3i{X: b.X, Y: b.Y, Z: b.Z}, b.Solid)
	}
}

// Reset drops all transient run state, as on world unload. The door
// list empties, auto-navigate disables, and every last-sent snapshot
// clears.
func (t *Tracker) Reset() {
	t.closeRun()
	t.graph = dungeon.NewGraph()
	t.grid = dungeon.NewGrid()
	t.prober = clearance.Prober{Env: t.grid, Warnf: t.warnf}
	t.run = dungeon.RunState{}
	t.doors = nil
	t.pub.Reset()
}

// Status is a point-in-time snapshot for the admin surface.
type Status struct {
	Tick        uint64               `json:"tick"`
	Enabled     bool                 `json:"enabled"`
	AutoNav     bool                 `json:"auto_nav"`
	InDungeon   bool                 `json:"in_dungeon"`
	BossEntry   bool                 `json:"boss_entry"`
	CurrentRoom string               `json:"current_room,omitempty"`
	Doors       []protocol.DoorEntry `json:"doors"`
}

func (t *Tracker) Status() Status {
	doors := make([]protocol.DoorEntry, 0, len(t.doors))
	for _, d := range t.doors {
		doors = append(doors, protocol.DoorEntry{
			X:      d.X,
			Z:      d.Z,
			Kind:   d.Kind.String(),
			Opened: d.Opened,
			FootX:  d.Stand.X,
			FootY:  d.Stand.Y,
			FootZ:  d.Stand.Z,
		})
	}
	return Status{
		Tick:        t.tick,
		Enabled:     t.enabled,
		AutoNav:     t.pub.AutoNav(),
		InDungeon:   t.run.InDungeon,
		BossEntry:   t.run.BossEntry,
		CurrentRoom: t.run.CurrentRoom,
		Doors:       doors,
	}
}
