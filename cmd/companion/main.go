package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/websocket"

	"witherwatch.gg/internal/protocol"
)

// Reference companion listener: accepts the tracker's dial, prints
// door locations, and acknowledges GOTO commands.
func main() {
	var (
		addr = flag.String("addr", "127.0.0.1:8080", "listen address")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[companion] ", log.LstdFlags|log.Lmicroseconds)
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

	http.HandleFunc("/", func(rw http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		logger.Printf("tracker connected: %s", r.RemoteAddr)

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				logger.Printf("tracker disconnected")
				return
			}
			handle(conn, logger, msg)
		}
	})

	logger.Printf("listening on %s", *addr)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		logger.Fatalf("listen: %v", err)
	}
}

func handle(conn *websocket.Conn, logger *log.Logger, msg []byte) {
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		logger.Printf("unparseable frame: %s", msg)
		return
	}
	switch base.Type {
	case protocol.TypeIdentification:
		var m protocol.IdentificationMsg
		if json.Unmarshal(msg, &m) == nil {
			logger.Printf("identified: sender=%s", m.Sender)
		}
	case protocol.TypeDoorLocations:
		var m protocol.DoorLocationsMsg
		if json.Unmarshal(msg, &m) != nil {
			return
		}
		logger.Printf("doors: %d", len(m.Doors))
		for _, d := range m.Doors {
			logger.Printf("  %s at (%d,%d) stand (%d,%d,%d)", d.Kind, d.X, d.Z, d.FootX, d.FootY, d.FootZ)
		}
	case protocol.TypeAction:
		var m protocol.ActionMsg
		if json.Unmarshal(msg, &m) != nil {
			return
		}
		if m.Action == protocol.ActionGoto {
			logger.Printf("GOTO (%d,%d,%d)", m.Data.X, m.Data.Y, m.Data.Z)
			// Free-form text back; the tracker logs whatever arrives.
			ack := fmt.Sprintf("moving to (%d,%d,%d)", m.Data.X, m.Data.Y, m.Data.Z)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(ack))
		}
	default:
		logger.Printf("message: %s", msg)
	}
}
