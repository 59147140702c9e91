package echo

import (
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/echoctl/internal/testutil/testlog"
)

func startTestServer(t *testing.T) (string, *Server) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := NewServer("echo-test", 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, ln)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("serve returned error: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Errorf("serve did not stop after cancel")
		}
	})
	return ln.Addr().String(), srv
}

// sendRaw writes payload, half-closes, and returns everything the server
// replies before closing the connection.
func sendRaw(t *testing.T, addr, payload string) string {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))
	if payload != "" {
		if _, err := conn.Write([]byte(payload)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := conn.(*net.TCPConn).CloseWrite(); err != nil {
		t.Fatalf("close write: %v", err)
	}
	reply, err := io.ReadAll(conn)
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	return string(reply)
}

func TestServeEchoesBoundedLines(t *testing.T) {
	testlog.Start(t)
	addr, _ := startTestServer(t)

	if got := sendRaw(t, addr, "hello world\n"); got != "hello world\n" {
		t.Fatalf("reply = %q, want %q", got, "hello world\n")
	}
	if got := sendRaw(t, addr, "hi\r"); got != "hi\n" {
		t.Fatalf("CR-terminated reply = %q, want %q", got, "hi\n")
	}
	exact := strings.Repeat("a", 20)
	if got := sendRaw(t, addr, exact+"\n"); got != exact+"\n" {
		t.Fatalf("boundary reply = %q, want %q", got, exact+"\n")
	}
}

func TestServeOverflowYieldsSentinel(t *testing.T) {
	testlog.Start(t)
	addr, _ := startTestServer(t)

	if got := sendRaw(t, addr, "12345678901234567890X\n"); got != "ERR too long\n" {
		t.Fatalf("reply = %q, want %q", got, "ERR too long\n")
	}
	if got := sendRaw(t, addr, strings.Repeat("a", 21)+"\n"); got != "ERR too long\n" {
		t.Fatalf("21-byte reply = %q, want %q", got, "ERR too long\n")
	}
}

func TestServeSilentAndEmptyPeers(t *testing.T) {
	testlog.Start(t)
	addr, srv := startTestServer(t)

	if got := sendRaw(t, addr, ""); got != "" {
		t.Fatalf("silent close reply = %q, want none", got)
	}
	if got := sendRaw(t, addr, "\n"); got != "" {
		t.Fatalf("bare terminator reply = %q, want none", got)
	}

	stats := srv.Stats()
	if stats.IdleCloses != 1 || stats.EmptyLines != 1 {
		t.Fatalf("stats = %+v, want one idle close and one empty line", stats)
	}
}

func TestServeIsIdempotentAcrossConnections(t *testing.T) {
	testlog.Start(t)
	addr, srv := startTestServer(t)

	first := sendRaw(t, addr, "same input\n")
	second := sendRaw(t, addr, "same input\n")
	if first != second {
		t.Fatalf("replies differ across connections: %q vs %q", first, second)
	}

	stats := srv.Stats()
	if stats.Served != 2 || stats.Echoed != 2 {
		t.Fatalf("stats = %+v, want served=2 echoed=2", stats)
	}
}

func TestServeStopsOnCancelWithoutError(t *testing.T) {
	testlog.Start(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := NewServer("echo-test", 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, ln)
	}()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve after cancel = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("serve did not return after cancel")
	}
}
