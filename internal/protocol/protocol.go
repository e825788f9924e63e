package protocol

import "encoding/json"

// Companion link message types (tracker -> companion).
const (
	TypeIdentification = "identification"
	TypeDoorLocations  = "doorLocations"
	TypeAction         = "action"
)

// Feed link message types (game -> tracker).
const (
	TypeRunState = "runState"
	TypeGraph    = "graph"
	TypeBlocks   = "blocks"
)

// DefaultSender is the identity announced on the companion link.
// Existing companion listeners key on this value, so it stays the
// wire default; deployments can override it in config.
const DefaultSender = "ChatTriggers"

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type string `json:"type"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}
