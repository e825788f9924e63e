package protocol

// runState (game -> tracker): coarse run flags and the player
// position. Sent whenever any field changes.
type RunStateMsg struct {
	Type        string `json:"type"`
	InDungeon   bool   `json:"in_dungeon"`
	BossEntry   bool   `json:"boss_entry"`
	CurrentRoom string `json:"current_room"`
	Player      [3]int `json:"player"`
}

// graph (game -> tracker): full replacement of the room graph.
type GraphMsg struct {
	Type  string    `json:"type"`
	Rooms []RoomDef `json:"rooms"`
	Doors []DoorDef `json:"doors"`
}

type RoomDef struct {
	Name     string   `json:"name"`
	Children []string `json:"children,omitempty"`
}

type DoorDef struct {
	A      string `json:"a"`
	B      string `json:"b"`
	X      int    `json:"x"`
	Z      int    `json:"z"`
	Kind   string `json:"kind"`
	Opened bool   `json:"opened"`
}

// blocks (game -> tracker): sparse occupancy updates around doors,
// plus an optional scanned-area declaration.
type BlocksMsg struct {
	Type string     `json:"type"`
	Area *AreaDef   `json:"area,omitempty"`
	Set  []BlockDef `json:"set,omitempty"`
}

type AreaDef struct {
	Min [3]int `json:"min"`
	Max [3]int `json:"max"`
}

type BlockDef struct {
	X     int  `json:"x"`
	Y     int  `json:"y"`
	Z     int  `json:"z"`
	Solid bool `json:"solid"`
}
