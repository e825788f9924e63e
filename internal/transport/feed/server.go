// Package feed accepts the game client's dungeon-state stream and
// routes it into the tracker's tick goroutine.
package feed

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"witherwatch.gg/internal/protocol"
	"witherwatch.gg/internal/track"
)

type Server struct {
	rt  *track.Runtime
	log *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(rt *track.Runtime, logger *log.Logger) *Server {
	return &Server{
		rt:  rt,
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // local link
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		if s.log != nil {
			s.log.Printf("feed connected: %s", r.RemoteAddr)
		}

		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			s.route(msg)
		}
		if s.log != nil {
			s.log.Printf("feed disconnected: %s", r.RemoteAddr)
		}
		// A dropped feed means the game client went away and its world
		// unloaded: empty the door list, disable auto-navigate, clear
		// every last-sent snapshot.
		s.rt.Reset()
	}
}

// route decodes one feed frame. Malformed frames are dropped; a full
// inbox drops the update rather than stalling the reader.
func (s *Server) route(msg []byte) {
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		return
	}

	var u track.Update
	switch base.Type {
	case protocol.TypeRunState:
		var m protocol.RunStateMsg
		if json.Unmarshal(msg, &m) != nil {
			return
		}
		u.Run = &m
	case protocol.TypeGraph:
		var m protocol.GraphMsg
		if json.Unmarshal(msg, &m) != nil {
			return
		}
		u.Graph = &m
	case protocol.TypeBlocks:
		var m protocol.BlocksMsg
		if json.Unmarshal(msg, &m) != nil {
			return
		}
		u.Blocks = &m
	default:
		return
	}

	if !s.rt.Apply(u) && s.log != nil {
		s.log.Printf("feed inbox full; dropped %s", base.Type)
	}
}

func isLoopbackRemote(remote string) bool {
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		host = remote
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
