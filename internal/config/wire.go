package config

import (
	"context"
	"fmt"
	"io"

	"github.com/kestrelmc/dfsmc/internal/core"
	"github.com/kestrelmc/dfsmc/internal/transport"
)

// Options translates the reduction and algorithm settings into the
// functional options DFSExplorer/dfsmc.New expect. dotOutput, if non-nil,
// is passed through as WithDotOutput; logger, if non-nil, as WithLogger.
func (c *Config) Options(logger core.Logger, dotOutput io.Writer) ([]core.Option, error) {
	mode, err := parseReductionMode(c.Reduction.Mode)
	if err != nil {
		return nil, err
	}
	algo, err := parseAlgorithm(c.Algorithm)
	if err != nil {
		return nil, err
	}

	opts := []core.Option{
		core.WithReductionMode(mode),
		core.WithMaxDepth(c.Reduction.MaxDepth),
		core.WithMaxVisitedStates(c.Reduction.MaxVisitedStates),
		core.WithTermination(c.Reduction.Termination),
		core.WithSnapshots(c.Reduction.Snapshots),
		core.WithAlgorithm(algo),
	}
	if logger != nil {
		opts = append(opts, core.WithLogger(logger))
	}
	if dotOutput != nil {
		opts = append(opts, core.WithDotOutput(dotOutput))
	}
	return opts, nil
}

// RemoteApp dials or spawns the configured transport.
func (c *Config) RemoteApp(ctx context.Context) (core.RemoteApp, error) {
	switch c.Transport.Kind {
	case "stdio":
		if c.Transport.Command == "" {
			return nil, fmt.Errorf("config: transport.command is required for stdio transport")
		}
		return transport.StartStdioRemoteApp(ctx, c.Transport.Command, c.Transport.Args...)
	case "socket":
		if c.Transport.Address == "" {
			return nil, fmt.Errorf("config: transport.address is required for socket transport")
		}
		network := c.Transport.Network
		if network == "" {
			network = "tcp"
		}
		return transport.DialSocketRemoteApp(ctx, network, c.Transport.Address)
	case "websocket":
		if c.Transport.URL == "" {
			return nil, fmt.Errorf("config: transport.url is required for websocket transport")
		}
		return transport.DialWebSocketRemoteApp(ctx, c.Transport.URL, nil)
	default:
		return nil, fmt.Errorf("config: unknown transport.kind %q", c.Transport.Kind)
	}
}

func parseReductionMode(s string) (core.ReductionMode, error) {
	switch s {
	case "", "dpor":
		return core.ReductionDPOR, nil
	case "none":
		return core.ReductionNone, nil
	default:
		return 0, fmt.Errorf("config: unknown reduction.mode %q", s)
	}
}

func parseAlgorithm(s string) (core.Algorithm, error) {
	switch s {
	case "", "safety":
		return core.AlgorithmSafety, nil
	case "udpor":
		return core.AlgorithmUDPOR, nil
	case "liveness":
		return core.AlgorithmLiveness, nil
	case "comm-determinism":
		return core.AlgorithmCommDeterminism, nil
	default:
		return 0, fmt.Errorf("config: unknown algorithm %q", s)
	}
}
