package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/guslan/xpong"
	"github.com/pkg/errors"
)

// Message kinds sent over the display socket. The kind is the first byte.
const (
	MessageFrame    byte = 'F'
	MessageSegments byte = 'S'
)

var upgrader = websocket.Upgrader{} // use default options

// Server runs a board in the background and streams it to a browser
type Server struct {
	config  ServerConfig
	mux     *http.ServeMux
	machine *xpong.Machine

	debugger *HttpDebugger

	socket  *websocket.Conn
	wsMutex sync.Mutex
}

type ServerConfig struct {
	RateHz      uint32
	UseDebugger bool
	StaticDir   string
}
type ServerConfigCb func(config *ServerConfig)

func NewServer(configs ...ServerConfigCb) *Server {
	config := &ServerConfig{
		RateHz:      xpong.DefaultRateHz,
		UseDebugger: false,
		StaticDir:   "./web/static",
	}
	for _, cb := range configs {
		cb(config)
	}

	s := &Server{
		config: *config,
		mux:    http.NewServeMux(),
	}
	if config.UseDebugger {
		s.debugger = NewHttpDebugger()
	}
	s.machine = xpong.NewMachine([]xpong.Display{s}, func(mc *xpong.MachineConfig) {
		mc.RateHz = config.RateHz
		if s.debugger != nil {
			mc.Prepare = s.debugger.Attach
		}
	})

	s.routes()

	return s
}

func (server *Server) routes() {
	server.mux.Handle("/", http.FileServer(http.Dir(server.config.StaticDir)))
	server.mux.HandleFunc("/switch", server.handleSwitch)
	server.mux.HandleFunc("/switches", server.handleSwitches)
	server.mux.HandleFunc("/power", server.handlePower)
	server.mux.HandleFunc("/display", server.handleDisplay)
	if server.debugger != nil {
		server.mux.HandleFunc("/debugger", server.debugger.handle)
	}
}

// Handler serves the HTTP endpoints
func (server *Server) Handler() http.Handler {
	return server.mux
}

// PowerOn builds a fresh board, runs the start-up sequence and starts the timer
func (server *Server) PowerOn(ctx context.Context) error {
	return server.machine.PowerOn(ctx)
}

// PowerOff stops the timer goroutine. Nothing survives a power off.
func (server *Server) PowerOff() {
	server.machine.PowerOff()
}

// PowerCycle switches the board off and on again
func (server *Server) PowerCycle(ctx context.Context) error {
	slog.Info("Power cycling")

	return server.machine.PowerCycle(ctx)
}

func (server *Server) currentBoard() *xpong.Board {
	return server.machine.Board()
}

func (server *Server) Listen(ctx context.Context, port int) error {
	if err := server.PowerOn(ctx); err != nil {
		return err
	}
	defer server.PowerOff()

	slog.Info("Listening on port", slog.Int("port", port))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: server.mux,
	}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func noCache(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Expose-Headers", "Content-Type")

	w.Header().Set("Cache-Control", "no-cache")
}

// handleSwitch toggles switch n, or sets it with on=0/1
func (server *Server) handleSwitch(w http.ResponseWriter, r *http.Request) {
	noCache(w)

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	n, err := strconv.ParseUint(r.URL.Query().Get("n"), 10, 8)
	if err != nil {
		http.Error(w, "invalid switch", http.StatusBadRequest)
		return
	}

	board := server.currentBoard()
	if board == nil {
		http.Error(w, "board is off", http.StatusServiceUnavailable)
		return
	}

	if on := r.URL.Query().Get("on"); on != "" {
		err = board.SetSwitch(uint(n), on == "1")
	} else {
		err = board.ToggleSwitch(uint(n))
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	slog.Info("Switch changed", slog.Uint64("switch", n))
	fmt.Fprintf(w, "%010b", board.Switches())
}

func (server *Server) handleSwitches(w http.ResponseWriter, r *http.Request) {
	noCache(w)

	board := server.currentBoard()
	if board == nil {
		http.Error(w, "board is off", http.StatusServiceUnavailable)
		return
	}

	fmt.Fprintf(w, "%010b", board.Switches())
}

func (server *Server) handlePower(w http.ResponseWriter, r *http.Request) {
	noCache(w)

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := server.PowerCycle(context.Background()); err != nil {
		slog.Error("Error power cycling", slog.Any("error", err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (server *Server) handleDisplay(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("upgrade", slog.Any("error", err))
		return
	}
	defer conn.Close()

	slog.Info("Connecting to display")
	server.setWs(conn)
	defer server.unsetWs(conn)

	// the socket is write only, reading detects the client going away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			slog.Info("Disconnecting from display")
			return
		}
	}
}
