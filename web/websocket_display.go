package web

import (
	"github.com/gorilla/websocket"
	"github.com/guslan/xpong"
)

// Boot implements xpong.Display.
func (server *Server) Boot() error {
	return nil
}

func (server *Server) setWs(conn *websocket.Conn) {
	server.wsMutex.Lock()
	defer server.wsMutex.Unlock()

	if server.socket != nil {
		server.socket.Close()
	}
	server.socket = conn
}

// unsetWs forgets conn unless a newer client already replaced it
func (server *Server) unsetWs(conn *websocket.Conn) {
	server.wsMutex.Lock()
	defer server.wsMutex.Unlock()

	if server.socket == conn {
		server.socket = nil
	}
}

func (server *Server) send(kind byte, payload []byte) error {
	server.wsMutex.Lock()
	defer server.wsMutex.Unlock()

	if server.socket == nil {
		return nil
	}

	w, err := server.socket.NextWriter(websocket.BinaryMessage)
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte{kind}); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}

	return w.Close()
}

// Render implements xpong.Display.
func (server *Server) Render(frame xpong.Frame, settings xpong.ScreenSettings) error {
	return server.send(MessageFrame, frame)
}

// RenderSegments implements xpong.SegmentRenderer.
func (server *Server) RenderSegments(hex [xpong.HexCount]byte) error {
	return server.send(MessageSegments, hex[:])
}
