package echo

import (
	"context"
	"errors"
	"net"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// Server owns the accept loop. Connections are processed strictly one at a
// time: a connection runs to completion before the next accept. Connections
// share no state with each other.
type Server struct {
	id        string
	maxMsgLen int
	stats     counters
}

func NewServer(id string, maxMsgLen int) *Server {
	if id == "" {
		id = "echoctl"
	}
	if maxMsgLen <= 0 {
		maxMsgLen = DefaultMaxMsgLen
	}
	return &Server{id: id, maxMsgLen: maxMsgLen}
}

// Serve accepts connections from ln until ctx is cancelled or the listener
// fails. Cancellation closes the listener; a connection already in flight
// still runs to its natural completion.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				log.Warn().Str("server", s.id).Err(err).Msg("transient accept error")
				continue
			}
			return err
		}
		s.stats.served.Add(1)
		s.handle(conn)
	}
}

// Stats is a point-in-time snapshot of connection outcomes.
type Stats struct {
	Served      uint64 `json:"served"`
	Echoed      uint64 `json:"echoed"`
	Overflows   uint64 `json:"overflows"`
	IdleCloses  uint64 `json:"idle_closes"`
	EmptyLines  uint64 `json:"empty_lines"`
	PeerGone    uint64 `json:"peer_gone"`
	ReadFaults  uint64 `json:"read_faults"`
	WriteFaults uint64 `json:"write_faults"`
}

func (s *Server) Stats() Stats {
	return Stats{
		Served:      s.stats.served.Load(),
		Echoed:      s.stats.echoed.Load(),
		Overflows:   s.stats.overflows.Load(),
		IdleCloses:  s.stats.idleCloses.Load(),
		EmptyLines:  s.stats.emptyLines.Load(),
		PeerGone:    s.stats.peerGone.Load(),
		ReadFaults:  s.stats.readFaults.Load(),
		WriteFaults: s.stats.writeFaults.Load(),
	}
}

type counters struct {
	served      atomic.Uint64
	echoed      atomic.Uint64
	overflows   atomic.Uint64
	idleCloses  atomic.Uint64
	emptyLines  atomic.Uint64
	peerGone    atomic.Uint64
	readFaults  atomic.Uint64
	writeFaults atomic.Uint64
}

func (c *counters) record(disp Disposition) {
	switch disp {
	case DispositionEchoed:
		c.echoed.Add(1)
	case DispositionOverflowSent:
		c.overflows.Add(1)
	case DispositionIdleClose:
		c.idleCloses.Add(1)
	case DispositionEmptyLine:
		c.emptyLines.Add(1)
	case DispositionPeerGone:
		c.peerGone.Add(1)
	}
}
