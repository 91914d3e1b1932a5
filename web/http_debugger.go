package web

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/guslan/xpong"
)

// HttpDebugger streams console snapshots to a websocket client
type HttpDebugger struct {
	// SendEvery n-th tick is published
	SendEvery uint

	send chan xpong.Snapshot
}

func NewHttpDebugger() *HttpDebugger {
	return &HttpDebugger{
		SendEvery: 1,
		send:      make(chan xpong.Snapshot, 1),
	}
}

// Attach registers the hooks on the console. Attach before Setup.
func (d *HttpDebugger) Attach(console *xpong.Console) {
	console.AddAfterTickHook(d.afterTick)
	console.AddErrorHook(d.onError)
}

// afterTick runs inside the interrupt context and must not block.
// The slot always holds the latest snapshot, an unread one is replaced.
func (d *HttpDebugger) afterTick(console *xpong.Console) {
	if d.SendEvery == 0 || console.Ticks()%d.SendEvery != 0 {
		return
	}

	snap := console.Snapshot()
	select {
	case <-d.send:
	default:
	}
	select {
	case d.send <- snap:
	default:
	}
}

func (d *HttpDebugger) onError(console *xpong.Console) {
	slog.Warn("Tick finished with an error", slog.Any("error", console.LastError()))
}

// Listen serves the debugger alone on /debugger until ctx is done
func (d *HttpDebugger) Listen(ctx context.Context, port int) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/debugger", d.handle)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (d *HttpDebugger) handle(w http.ResponseWriter, r *http.Request) {
	slog.Info("Connecting to debugger")
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("upgrade", slog.Any("error", err))
		return
	}
	defer conn.Close()

	slog.Info("Listening for events")
	for {
		select {
		case snap := <-d.send:
			if err := conn.WriteMessage(websocket.BinaryMessage, formatAsEvent(snap)); err != nil {
				slog.Error("Error writing debugger message", slog.Any("error", err))
				return
			}

		case <-r.Context().Done():
			return
		}
	}
}

// formatAsEvent packs a snapshot, big endian:
//
//	ticks u32, spurious u32, switches u16,
//	ball x, y, dx, dy (i8), left y, right y (u8),
//	score left, score right (u8), running, dirty (u8), ball tick (u8)
func formatAsEvent(snap xpong.Snapshot) []byte {
	buf := make([]byte, 0, 24)

	buf = binary.BigEndian.AppendUint32(buf, uint32(snap.Ticks))
	buf = binary.BigEndian.AppendUint32(buf, uint32(snap.Spurious))
	buf = binary.BigEndian.AppendUint16(buf, uint16(snap.Switches))

	s := snap.State
	buf = append(buf,
		byte(int8(s.Ball.X)), byte(int8(s.Ball.Y)),
		byte(int8(s.Ball.Dx)), byte(int8(s.Ball.Dy)),
		byte(s.Left.Y), byte(s.Right.Y),
		byte(s.ScoreLeft), byte(s.ScoreRight),
		bool2byte(s.Running), bool2byte(s.ScoreDirty),
		byte(s.BallTick()),
	)

	return buf
}

func bool2byte(b bool) byte {
	if b {
		return 1
	}

	return 0
}
