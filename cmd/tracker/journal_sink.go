package main

import (
	"encoding/json"
	"log"

	"witherwatch.gg/internal/dungeon"
	"witherwatch.gg/internal/persistence/journal"
	"witherwatch.gg/internal/protocol"
	"witherwatch.gg/internal/transport/companion"
)

// journalingSink mirrors every delivered companion message into the
// relay journal. Journal failures are logged and never affect
// relaying.
type journalingSink struct {
	link *companion.Client
	j    *journal.RelayJournal
	log  *log.Logger
}

func (s *journalingSink) SendDoors(payload []byte) bool {
	if !s.link.SendDoors(payload) {
		return false
	}
	if err := s.j.WriteEmission(protocol.TypeDoorLocations, payload); err != nil {
		s.log.Printf("journal: %v", err)
	}
	return true
}

func (s *journalingSink) SendGoto(pos dungeon.Vec3i) bool {
	if !s.link.SendGoto(pos) {
		return false
	}
	b, _ := json.Marshal(protocol.GotoData{X: pos.X, Y: pos.Y, Z: pos.Z})
	if err := s.j.WriteEmission(protocol.TypeAction, b); err != nil {
		s.log.Printf("journal: %v", err)
	}
	return true
}
