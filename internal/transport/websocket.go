package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/kestrelmc/dfsmc/internal/core"
)

// WebSocketRemoteApp drives an app-under-check exposing a websocket
// endpoint, speaking the JSON-RPC protocol with one request/response per
// text message.
type WebSocketRemoteApp struct {
	*remoteAppRPC
	conn *websocket.Conn
}

// DialWebSocketRemoteApp connects to an app-under-check's websocket
// endpoint at url.
func DialWebSocketRemoteApp(ctx context.Context, url string, header http.Header) (*WebSocketRemoteApp, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("transport: dial websocket %s: %w", url, err)
	}
	rw := &wsReadWriter{conn: conn}
	return &WebSocketRemoteApp{
		conn: conn,
		remoteAppRPC: &remoteAppRPC{
			client: newRPCClient(rw, rw),
			closer: conn,
		},
	}, nil
}

// wsReadWriter adapts a *websocket.Conn to io.Reader/io.Writer so rpcClient
// can drive it the same way it drives a stdio pipe or TCP socket: one
// JSON-RPC message per Write call, one message per Read call. Messages are
// expected to fit the caller's read buffer whole; this holds for the small
// request/response payloads this protocol exchanges.
type wsReadWriter struct {
	conn *websocket.Conn
}

func (w *wsReadWriter) Read(p []byte) (int, error) {
	_, data, err := w.conn.ReadMessage()
	if err != nil {
		return 0, err
	}
	n := copy(p, data)
	if n < len(data) {
		return n, io.ErrShortBuffer
	}
	return n, nil
}

func (w *wsReadWriter) Write(p []byte) (int, error) {
	if err := w.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

var _ core.RemoteApp = (*WebSocketRemoteApp)(nil)
