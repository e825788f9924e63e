package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"witherwatch.gg/internal/protocol"
)

// Simulated game client: fabricates a short dungeon run and streams
// it at the tracker's feed endpoint.
func main() {
	var (
		url   = flag.String("url", "ws://127.0.0.1:8377/v1/feed", "tracker feed url")
		pause = flag.Duration("pause", 2*time.Second, "delay between run phases")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[simgame] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	send := func(v any) {
		if err := conn.WriteJSON(v); err != nil {
			logger.Fatalf("send: %v", err)
		}
	}

	// Layout: spawn -> hall behind a wither door, hall -> vault behind
	// a blood door.
	send(protocol.GraphMsg{
		Type: protocol.TypeGraph,
		Rooms: []protocol.RoomDef{
			{Name: "spawn", Children: []string{"hall"}},
			{Name: "hall", Children: []string{"vault"}},
			{Name: "vault"},
		},
		Doors: []protocol.DoorDef{
			{A: "spawn", B: "hall", X: 4, Z: -8, Kind: "WITHER"},
			{A: "hall", B: "vault", X: 20, Z: -8, Kind: "BLOOD"},
		},
	})

	// Scan area around the doors, with the wither door's north and
	// south approaches walled off.
	blocks := protocol.BlocksMsg{
		Type: protocol.TypeBlocks,
		Area: &protocol.AreaDef{Min: [3]int{-64, 69, -64}, Max: [3]int{64, 70, 64}},
	}
	for _, z := range []int{-10, -6} {
		blocks.Set = append(blocks.Set,
			protocol.BlockDef{X: 4, Y: 69, Z: z, Solid: true},
			protocol.BlockDef{X: 4, Y: 70, Z: z, Solid: true},
		)
	}
	send(blocks)

	run := protocol.RunStateMsg{
		Type:        protocol.TypeRunState,
		InDungeon:   true,
		CurrentRoom: "spawn",
		Player:      [3]int{0, 69, 0},
	}
	send(run)
	logger.Printf("entered dungeon at spawn")
	time.Sleep(*pause)

	// Player opens the wither door and walks into the hall.
	send(protocol.GraphMsg{
		Type: protocol.TypeGraph,
		Rooms: []protocol.RoomDef{
			{Name: "spawn", Children: []string{"hall"}},
			{Name: "hall", Children: []string{"vault"}},
			{Name: "vault"},
		},
		Doors: []protocol.DoorDef{
			{A: "spawn", B: "hall", X: 4, Z: -8, Kind: "WITHER", Opened: true},
			{A: "hall", B: "vault", X: 20, Z: -8, Kind: "BLOOD"},
		},
	})
	run.CurrentRoom = "hall"
	run.Player = [3]int{4, 69, -12}
	send(run)
	logger.Printf("wither door opened; moved to hall")
	time.Sleep(*pause)

	// Into the boss fight: tracking suspends.
	run.BossEntry = true
	send(run)
	logger.Printf("boss entry")
	time.Sleep(*pause)

	// Run over.
	send(protocol.RunStateMsg{Type: protocol.TypeRunState})
	logger.Printf("left dungeon")
}
