package echo

import (
	"errors"
	"io"
	"syscall"
)

// OverflowReply is the fixed sentinel sent when a message exceeds the bound.
var OverflowReply = []byte("ERR too long\n")

var terminator = []byte{'\n'}

// Disposition names how one connection concluded after the response step.
type Disposition int

const (
	// DispositionEchoed: content was echoed back followed by a terminator.
	DispositionEchoed Disposition = iota
	// DispositionOverflowSent: the overflow sentinel was delivered.
	DispositionOverflowSent
	// DispositionIdleClose: the peer closed without sending any bytes.
	DispositionIdleClose
	// DispositionEmptyLine: the peer sent only a terminator; nothing to echo.
	DispositionEmptyLine
	// DispositionPeerGone: the peer stopped reading before the reply landed.
	// This is a benign outcome, not an error.
	DispositionPeerGone
)

func (d Disposition) String() string {
	switch d {
	case DispositionEchoed:
		return "echoed"
	case DispositionOverflowSent:
		return "overflow_sent"
	case DispositionIdleClose:
		return "idle_close"
	case DispositionEmptyLine:
		return "empty_line"
	case DispositionPeerGone:
		return "peer_gone"
	default:
		return "unknown"
	}
}

// Respond maps a framing outcome to reply bytes on w. A non-nil error is a
// genuine write fault; peer-initiated write failures (broken pipe, reset)
// come back as DispositionPeerGone with a nil error.
func Respond(w io.Writer, out Outcome) (Disposition, error) {
	switch out.Kind {
	case OutcomeClosed:
		return DispositionIdleClose, nil

	case OutcomeOverflow:
		if _, err := w.Write(OverflowReply); err != nil {
			if peerGone(err) {
				return DispositionPeerGone, nil
			}
			return DispositionOverflowSent, err
		}
		return DispositionOverflowSent, nil

	case OutcomeOk:
		if len(out.Content) == 0 {
			return DispositionEmptyLine, nil
		}
		if _, err := w.Write(out.Content); err != nil {
			if peerGone(err) {
				return DispositionPeerGone, nil
			}
			return DispositionEchoed, err
		}
		if _, err := w.Write(terminator); err != nil {
			if peerGone(err) {
				return DispositionPeerGone, nil
			}
			return DispositionEchoed, err
		}
		return DispositionEchoed, nil
	}
	return DispositionIdleClose, nil
}

// peerGone reports whether a write failed because the peer closed its read
// side. io.ErrClosedPipe covers in-memory pipes used in tests.
func peerGone(err error) bool {
	return errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.ErrClosedPipe)
}
