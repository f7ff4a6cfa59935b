package transport

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/kestrelmc/dfsmc/internal/core"
)

// StdioRemoteApp drives an app-under-check started as a child process,
// speaking the JSON-RPC protocol over its stdin/stdout.
type StdioRemoteApp struct {
	*remoteAppRPC
	cmd *exec.Cmd
}

// StartStdioRemoteApp launches name with args and wires a RemoteApp to its
// stdio. The returned value's Close method closes the child's stdin and
// waits for it to exit; it does not kill the child.
func StartStdioRemoteApp(ctx context.Context, name string, args ...string) (*StdioRemoteApp, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("transport: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("transport: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("transport: start %s: %w", name, err)
	}

	app := &StdioRemoteApp{cmd: cmd}
	app.remoteAppRPC = &remoteAppRPC{
		client: newRPCClient(stdout, stdin),
		closer: stdioCloser{stdin: stdin, stdout: stdout, cmd: cmd},
	}
	return app, nil
}

// stdioCloser closes the child's pipes and waits for it to exit.
type stdioCloser struct {
	stdin  io.WriteCloser
	stdout io.ReadCloser
	cmd    *exec.Cmd
}

func (c stdioCloser) Close() error {
	stdinErr := c.stdin.Close()
	waitErr := c.cmd.Wait()
	if stdinErr != nil {
		return stdinErr
	}
	return waitErr
}

var _ core.RemoteApp = (*StdioRemoteApp)(nil)
