package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"go-drummer/pads"
)

// Path is where the state socket is served
const Path = "/ws"

type Server struct {
	logger  *slog.Logger
	hub     *Hub
	machine *pads.Machine
	sub     <-chan struct{}
}

type Config struct {
	Hub HubConfig
}

// NewServer constructs the state server. Call Run(ctx) to start the hub and
// broadcaster, then mount Handler.
func NewServer(machine *pads.Machine, logger *slog.Logger, cfg Config) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger:  logger,
		hub:     NewHub(logger, cfg.Hub),
		machine: machine,
		sub:     machine.Subscribe(),
	}
}

// Run starts the hub and streams machine changes until ctx is canceled
func (s *Server) Run(ctx context.Context) {
	go s.hub.Run(ctx)
	s.runBroadcaster(ctx)
}

// Register registers the WS handler on the provided mux.
func (s *Server) Register(mux *http.ServeMux, path string) {
	if mux == nil {
		return
	}
	mux.HandleFunc(path, s.handleStateWS)
}

// Handler returns a mux serving the socket at Path
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Register(mux, Path)
	return mux
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleStateWS upgrades and joins the client with a state_init frame taken
// under the hub lock, so every later broadcast follows the initial snapshot.
func (s *Server) handleStateWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws upgrade failed", "error", err)
		return
	}

	client := NewClient(s.hub, conn, r.RemoteAddr, s.logger, s.apply)

	// Synchronous so a command sent right after connect sees its own broadcast
	err = s.hub.join(client, func() ([]byte, error) {
		return encode(TypeStateInit, s.machine.Snapshot())
	})
	if err != nil {
		s.logger.Warn("ws state_init marshal failed", "error", err)
		_ = conn.Close()
		return
	}

	// Pumps outlive the request; the hub and socket errors end them.
	go client.writePump(context.Background())
	go client.readPump(context.Background())
}

// apply runs one inbound command against the machine
func (s *Server) apply(cmd command) {
	switch cmd.Type {
	case CmdTrigger:
		if !s.machine.Trigger(pads.SourceRemote, cmd.Key) {
			s.logger.Debug("ws trigger ignored", "key", cmd.Key)
		}
	case CmdPower:
		s.machine.TogglePower()
	case CmdBank:
		s.machine.ToggleBank()
	case CmdVolume:
		if cmd.Value == nil {
			s.logger.Warn("ws volume command without value")
			return
		}
		s.machine.SetVolumePercent(*cmd.Value)
	default:
		s.logger.Warn("ws unknown command", "type", cmd.Type)
	}
}

// runBroadcaster encodes a fresh snapshot each time the machine changes.
// Machine notifications coalesce, so bursts collapse to the latest state.
func (s *Server) runBroadcaster(ctx context.Context) {
	defer s.machine.Unsubscribe(s.sub)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.sub:
			msg, err := encode(TypeState, s.machine.Snapshot())
			if err != nil {
				s.logger.Warn("ws broadcaster marshal failed", "error", err)
				continue
			}
			s.hub.BroadcastBytes(msg)
		}
	}
}

// Serve runs an HTTP server for s on addr and shuts it down gracefully when
// ctx is canceled.
func Serve(ctx context.Context, addr string, s *Server) error {
	s.logger.Info("state server listening", "addr", addr)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		// ListenAndServe returns http.ErrServerClosed on Shutdown; treat that as clean exit.
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown: %w", err)
		}
		<-errCh
		return nil

	case err := <-errCh:
		return err
	}
}
