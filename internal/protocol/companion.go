package protocol

// identification (tracker -> companion), sent once per successful
// connection open.
type IdentificationMsg struct {
	Type   string `json:"type"`
	Sender string `json:"sender"`
}

// doorLocations (tracker -> companion).
type DoorLocationsMsg struct {
	Type  string      `json:"type"`
	Doors []DoorEntry `json:"doors"`
}

type DoorEntry struct {
	X      int    `json:"x"`
	Z      int    `json:"z"`
	Kind   string `json:"type"`
	Opened bool   `json:"opened"`
	FootX  int    `json:"footX"`
	FootY  int    `json:"footY"`
	FootZ  int    `json:"footZ"`
}

// action (tracker -> companion). GOTO is the only action the tracker
// emits.
const ActionGoto = "GOTO"

type ActionMsg struct {
	Type   string   `json:"type"`
	Action string   `json:"action"`
	Sender string   `json:"sender"`
	Data   GotoData `json:"data"`
}

type GotoData struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}
