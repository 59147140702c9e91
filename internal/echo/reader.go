package echo

import (
	"bufio"
	"errors"
	"io"
)

// DefaultMaxMsgLen bounds the accumulated content of one message.
const DefaultMaxMsgLen = 20

// OutcomeKind classifies the result of framing one message.
type OutcomeKind int

const (
	// OutcomeClosed means the peer ended the stream before any content byte.
	OutcomeClosed OutcomeKind = iota
	// OutcomeOk means a terminator was observed with content within the bound.
	OutcomeOk
	// OutcomeOverflow means content exceeded the bound before the terminator.
	OutcomeOverflow
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeClosed:
		return "closed"
	case OutcomeOk:
		return "ok"
	case OutcomeOverflow:
		return "overflow"
	default:
		return "unknown"
	}
}

// Outcome is the sole value handed from the line reader to the response policy.
type Outcome struct {
	Kind    OutcomeKind
	Content []byte
}

// LineReader assembles exactly one bounded, terminator-delimited message from
// a byte stream. Overlong input keeps being consumed until the terminator so
// the stream is never left mid-message.
type LineReader struct {
	br  *bufio.Reader
	max int
}

func NewLineReader(r io.Reader, max int) *LineReader {
	if max <= 0 {
		max = DefaultMaxMsgLen
	}
	return &LineReader{
		br:  bufio.NewReader(r),
		max: max,
	}
}

func isTerminator(b byte) bool {
	return b == '\n' || b == '\r'
}

// ReadOutcome consumes bytes until a terminator or end of stream and reports
// the framing outcome. A non-nil error is a genuine I/O fault; the stream is
// unusable afterwards and no response should be written.
func (lr *LineReader) ReadOutcome() (Outcome, error) {
	buf := make([]byte, 0, lr.max)
	overflow := false

	for {
		b, err := lr.br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Peer disconnected. With no content this is an orderly
				// close; mid-message we flush what arrived per the length
				// rule instead of hanging on a terminator that never comes.
				if len(buf) == 0 && !overflow {
					return Outcome{Kind: OutcomeClosed}, nil
				}
				return lr.flush(buf, overflow), nil
			}
			return Outcome{}, err
		}

		if isTerminator(b) {
			return lr.flush(buf, overflow), nil
		}

		if len(buf) < lr.max {
			buf = append(buf, b)
			continue
		}
		// Bound reached: discard, but keep draining this message's bytes.
		overflow = true
	}
}

func (lr *LineReader) flush(buf []byte, overflow bool) Outcome {
	if overflow {
		return Outcome{Kind: OutcomeOverflow}
	}
	return Outcome{Kind: OutcomeOk, Content: buf}
}
