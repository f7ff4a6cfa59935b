package transport

import (
	"context"
	"fmt"
	"net"

	"github.com/kestrelmc/dfsmc/internal/core"
)

// SocketRemoteApp drives an app-under-check listening on a TCP or Unix
// domain socket, speaking the JSON-RPC protocol over the connection.
type SocketRemoteApp struct {
	*remoteAppRPC
	conn net.Conn
}

// DialSocketRemoteApp connects to an app-under-check at address using
// network ("tcp" or "unix").
func DialSocketRemoteApp(ctx context.Context, network, address string) (*SocketRemoteApp, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, network, address)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s %s: %w", network, address, err)
	}
	return &SocketRemoteApp{
		conn: conn,
		remoteAppRPC: &remoteAppRPC{
			client: newRPCClient(conn, conn),
			closer: conn,
		},
	}, nil
}

var _ core.RemoteApp = (*SocketRemoteApp)(nil)
