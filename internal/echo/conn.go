package echo

import (
	"net"
	"time"

	"github.com/danmuck/echoctl/internal/observability"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// handle drives one connection end to end: frame one message, apply the
// response policy, release the connection. Close is unconditional on every
// exit path; nothing survives into the next connection.
func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	start := time.Now()
	connID := uuid.NewString()
	remote := conn.RemoteAddr().String()
	log.Info().
		Str("server", s.id).
		Str("conn_id", connID).
		Str("remote", remote).
		Msg("client connected")

	out, err := NewLineReader(conn, s.maxMsgLen).ReadOutcome()
	if err != nil {
		s.stats.readFaults.Add(1)
		observability.RecordConnection(s.id, "read_fault", 0, time.Since(start))
		log.Error().
			Str("server", s.id).
			Str("conn_id", connID).
			Str("remote", remote).
			Err(err).
			Msg("read failed; closing without response")
		return
	}

	disp, err := Respond(conn, out)
	if err != nil {
		s.stats.writeFaults.Add(1)
		observability.RecordConnection(s.id, "write_fault", len(out.Content), time.Since(start))
		log.Error().
			Str("server", s.id).
			Str("conn_id", connID).
			Str("remote", remote).
			Str("disposition", disp.String()).
			Err(err).
			Msg("write failed")
		return
	}

	s.stats.record(disp)
	observability.RecordConnection(s.id, disp.String(), len(out.Content), time.Since(start))

	event := log.Info()
	if disp == DispositionOverflowSent {
		event = log.Warn()
	}
	event = event.
		Str("server", s.id).
		Str("conn_id", connID).
		Str("remote", remote)
	switch disp {
	case DispositionEchoed:
		event.Str("content", string(out.Content)).
			Int("bytes", len(out.Content)).
			Msg("echoed message")
	case DispositionOverflowSent:
		event.Msg("overlong message; error sentinel sent")
	case DispositionIdleClose:
		event.Msg("connection closed, no data")
	case DispositionEmptyLine:
		event.Msg("connection closed with no data")
	case DispositionPeerGone:
		event.Msg("peer went away before reply")
	default:
		event.Str("disposition", disp.String()).Msg("connection finished")
	}
}
