// Package admin exposes the operator command surface over loopback
// HTTP: status, the auto-navigate toggle, and the companion reconnect
// trigger.
package admin

import (
	"encoding/json"
	"log"
	"net"
	"net/http"

	"witherwatch.gg/internal/track"
)

// Reconnector is the companion link's manual redial hook.
type Reconnector interface {
	Reconnect() error
	Connected() bool
}

type Server struct {
	rt   *track.Runtime
	link Reconnector
	log  *log.Logger
}

func NewServer(rt *track.Runtime, link Reconnector, logger *log.Logger) *Server {
	return &Server{rt: rt, link: link, log: logger}
}

// Register mounts the admin routes on mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/admin/v1/status", s.guard(http.MethodGet, s.handleStatus))
	mux.HandleFunc("/admin/v1/enabled", s.guard(http.MethodPost, s.handleEnabled))
	mux.HandleFunc("/admin/v1/autonav", s.guard(http.MethodPost, s.handleAutoNav))
	mux.HandleFunc("/admin/v1/reconnect", s.guard(http.MethodPost, s.handleReconnect))
}

func (s *Server) guard(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		if r.Method != method {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(rw, r)
	}
}

func (s *Server) handleStatus(rw http.ResponseWriter, r *http.Request) {
	type statusResp struct {
		track.Status
		CompanionConnected bool `json:"companion_connected"`
	}
	resp := statusResp{Status: s.rt.Status()}
	if s.link != nil {
		resp.CompanionConnected = s.link.Connected()
	}
	writeJSON(rw, resp)
}

func (s *Server) handleEnabled(rw http.ResponseWriter, r *http.Request) {
	on := s.rt.ToggleEnabled()
	if s.log != nil {
		s.log.Printf("tracking toggled: %v", on)
	}
	writeJSON(rw, map[string]bool{"enabled": on})
}

func (s *Server) handleAutoNav(rw http.ResponseWriter, r *http.Request) {
	on := s.rt.ToggleAutoNav()
	if s.log != nil {
		s.log.Printf("auto-navigate toggled: %v", on)
	}
	writeJSON(rw, map[string]bool{"auto_nav": on})
}

func (s *Server) handleReconnect(rw http.ResponseWriter, r *http.Request) {
	if s.link == nil {
		http.Error(rw, "no companion link", http.StatusServiceUnavailable)
		return
	}
	if err := s.link.Reconnect(); err != nil {
		if s.log != nil {
			s.log.Printf("reconnect failed: %v", err)
		}
		rw.WriteHeader(http.StatusBadGateway)
		writeJSON(rw, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(rw, map[string]bool{"connected": true})
}

func writeJSON(rw http.ResponseWriter, v any) {
	rw.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(rw).Encode(v)
}

func isLoopbackRemote(remote string) bool {
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		host = remote
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
