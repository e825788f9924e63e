// Package publish decides, once per tick, what to push to the
// companion: a doorLocations payload when the door set changed, and a
// GOTO when the auto-navigate target moved.
package publish

import (
	"bytes"
	"encoding/json"

	"witherwatch.gg/internal/dungeon"
	"witherwatch.gg/internal/protocol"
	"witherwatch.gg/internal/track/search"
)

// State is the publisher's comparison state. It lives for one dungeon
// session and is reset whenever the run ends or the world unloads.
// All mutation happens on the tick goroutine.
type State struct {
	// lastPayload is the last doorLocations payload delivered to the
	// companion; nil means unset.
	lastPayload []byte
	lastCount   int

	autoNav  bool
	lastGoto *dungeon.Vec3i
}

// AutoNav reports whether auto-navigation is enabled.
func (s *State) AutoNav() bool { return s.autoNav }

// SetAutoNav toggles auto-navigation. Turning it off clears the
// last-sent coordinates so re-enabling re-evaluates against the
// current target.
func (s *State) SetAutoNav(on bool) {
	s.autoNav = on
	if !on {
		s.lastGoto = nil
	}
}

// Reset drops every snapshot and disables auto-navigation. Used on
// world unload.
func (s *State) Reset() {
	s.lastPayload = nil
	s.lastCount = 0
	s.autoNav = false
	s.lastGoto = nil
}

type StepInput struct {
	// Active is false when tracking preconditions do not hold
	// (disabled, outside a dungeon, boss entry, no current room).
	Active bool
	// Doors is this tick's augmented door sequence.
	Doors []search.TrackedDoor
}

// StepDeps are the transport callbacks. They report delivery; a false
// return leaves the recorded snapshot unchanged so the next changed
// tick retries naturally.
type StepDeps struct {
	SendDoors func(payload []byte) bool
	SendGoto  func(pos dungeon.Vec3i) bool
}

// Step runs one tick of publishing. Re-invoking it with unchanged
// input is a transport no-op.
func Step(s *State, in StepInput, deps StepDeps) {
	if !in.Active {
		if s.lastPayload != nil {
			// Emit an explicit empty list only when the previous
			// emission was non-empty.
			if s.lastCount > 0 {
				if payload, err := EncodeDoors(nil); err == nil && deps.SendDoors != nil {
					_ = deps.SendDoors(payload)
				}
			}
			s.lastPayload = nil
			s.lastCount = 0
		}
		s.lastGoto = nil
		return
	}

	payload, err := EncodeDoors(in.Doors)
	if err == nil && !bytes.Equal(payload, s.lastPayload) {
		if deps.SendDoors != nil && deps.SendDoors(payload) {
			s.lastPayload = payload
			s.lastCount = len(in.Doors)
		}
	}

	stepAutoNav(s, in, deps)
}

func stepAutoNav(s *State, in StepInput, deps StepDeps) {
	if !s.autoNav {
		return
	}
	if len(in.Doors) == 0 {
		// Target lost: clear without an explicit emission.
		s.lastGoto = nil
		return
	}
	pos := in.Doors[0].Stand.Pos()
	if s.lastGoto != nil && *s.lastGoto == pos {
		return
	}
	if deps.SendGoto != nil && deps.SendGoto(pos) {
		p := pos
		s.lastGoto = &p
	}
}

// EncodeDoors serializes the augmented door sequence to the canonical
// doorLocations payload. The encoding is deterministic, so byte
// equality doubles as structural equality for change detection.
func EncodeDoors(doors []search.TrackedDoor) ([]byte, error) {
	msg := protocol.DoorLocationsMsg{
		Type:  protocol.TypeDoorLocations,
		Doors: make([]protocol.DoorEntry, 0, len(doors)),
	}
	for _, d := range doors {
		msg.Doors = append(msg.Doors, protocol.DoorEntry{
			X:      d.X,
			Z:      d.Z,
			Kind:   d.Kind.String(),
			Opened: d.Opened,
			FootX:  d.Stand.X,
			FootY:  d.Stand.Y,
			FootZ:  d.Stand.Z,
		})
	}
	return json.Marshal(msg)
}
