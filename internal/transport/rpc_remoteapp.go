package transport

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/kestrelmc/dfsmc/internal/core"
	"github.com/kestrelmc/dfsmc/internal/primitives"
)

// remoteAppRPC implements core.RemoteApp over an rpcClient. The three
// concrete transports (stdio, socket, websocket) each build one of these
// around their own connection and differ only in how that connection is
// opened and torn down.
type remoteAppRPC struct {
	client *rpcClient
	closer io.Closer

	tagsMu sync.Mutex
	tags   map[transitionKey]tagInfo
}

type transitionKey struct {
	aid             primitives.ActorID
	timesConsidered int
}

type tagInfo struct {
	tag       string
	exclusive bool
}

func (a *remoteAppRPC) GetActors(ctx context.Context) ([]primitives.ActorHandle, error) {
	var res getActorsResult
	if err := a.client.call(ctx, methodGetActors, nil, &res); err != nil {
		return nil, err
	}
	out := make([]primitives.ActorHandle, len(res.Actors))
	for i, d := range res.Actors {
		out[i] = primitives.ActorHandle{
			AID:        primitives.ActorID(d.AID),
			Descriptor: primitives.ActorDescriptor{Enabled: d.Enabled, MaxConsidered: d.MaxConsidered},
		}
	}
	return out, nil
}

func (a *remoteAppRPC) Execute(ctx context.Context, aid primitives.ActorID, timesConsidered int) (*primitives.Transition, error) {
	var dto transitionDTO
	params := executeParams{AID: int64(aid), TimesConsidered: timesConsidered}
	if err := a.client.call(ctx, methodExecute, params, &dto); err != nil {
		return nil, err
	}
	if primitives.ActorID(dto.AID) != aid {
		return nil, fmt.Errorf("transport: remote executed actor %d, requested %d", dto.AID, aid)
	}

	key := transitionKey{aid: aid, timesConsidered: timesConsidered}
	a.tagsMu.Lock()
	if a.tags == nil {
		a.tags = make(map[transitionKey]tagInfo)
	}
	a.tags[key] = tagInfo{tag: dto.DependsTag, exclusive: dto.Exclusive}
	a.tagsMu.Unlock()

	client := a.client
	replay := func() error {
		return client.call(context.Background(), methodReplay, replayParams{
			AID:             dto.AID,
			TimesConsidered: dto.TimesConsidered,
			DependsTag:      dto.DependsTag,
		}, nil)
	}

	// Two transitions commute unless they share a non-empty resource tag
	// and at least one of them is exclusive (a write to that resource).
	// The other transition's tag is looked up by (aid, timesConsidered),
	// since Transition keeps its construction arguments private.
	tag, exclusive := dto.DependsTag, dto.Exclusive
	depends := func(other *primitives.Transition) bool {
		if tag == "" || other == nil {
			return false
		}
		a.tagsMu.Lock()
		info, ok := a.tags[transitionKey{aid: other.AID, timesConsidered: other.TimesConsidered}]
		a.tagsMu.Unlock()
		return ok && info.tag == tag && (exclusive || info.exclusive)
	}

	return primitives.NewTransition(aid, timesConsidered, dto.Text, dto.DotLabel, depends, replay), nil
}

func (a *remoteAppRPC) CheckDeadlock(ctx context.Context) error {
	return a.client.call(ctx, methodCheckDeadlock, nil, nil)
}

func (a *remoteAppRPC) TakeSnapshot(ctx context.Context, stateNum int64) (core.Snapshot, error) {
	var res takeSnapshotResult
	if err := a.client.call(ctx, methodTakeSnapshot, takeSnapshotParams{StateNum: stateNum}, &res); err != nil {
		return nil, err
	}
	return &rpcSnapshot{id: res.SnapshotID, heapBytes: res.HeapBytes}, nil
}

func (a *remoteAppRPC) Restore(ctx context.Context, snap core.Snapshot) error {
	s, ok := snap.(*rpcSnapshot)
	if !ok {
		return fmt.Errorf("transport: foreign snapshot type %T", snap)
	}
	return a.client.call(ctx, methodRestore, restoreParams{SnapshotID: s.id}, nil)
}

func (a *remoteAppRPC) RestoreInitialState(ctx context.Context) error {
	return a.client.call(ctx, methodRestoreInitialState, nil, nil)
}

func (a *remoteAppRPC) FinalizeApp(ctx context.Context) error {
	return a.client.call(ctx, methodFinalizeApp, nil, nil)
}

// Close tears down the underlying connection (process pipes, socket, or
// websocket connection, depending on which constructor built this value).
func (a *remoteAppRPC) Close() error {
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

// rpcSnapshot is a core.Snapshot that refers to the remote app's own
// snapshot by opaque id: equality and restoration are both the remote's
// responsibility, never compared locally by content.
type rpcSnapshot struct {
	id        string
	heapBytes int64
}

func (s *rpcSnapshot) Equal(other core.Snapshot) bool {
	o, ok := other.(*rpcSnapshot)
	return ok && o.id == s.id
}

func (s *rpcSnapshot) HeapBytes() int64 { return s.heapBytes }

func (s *rpcSnapshot) Release() {}
