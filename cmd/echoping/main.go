package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:9000", "echo server address")
	timeout := flag.Duration("timeout", 5*time.Second, "dial and reply timeout")
	flag.Parse()

	msg := strings.Join(flag.Args(), " ")
	reply, err := roundTrip(*addr, msg, *timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "echoping: %v\n", err)
		os.Exit(1)
	}
	if reply == "" {
		fmt.Println("(no reply; server closed the connection)")
		return
	}
	fmt.Print(reply)
}

// roundTrip sends one line and returns the reply line. An empty reply with a
// nil error means the server closed without responding, which is what the
// protocol does for empty input.
func roundTrip(addr, msg string, timeout time.Duration) (string, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return "", fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))

	if _, err := fmt.Fprintf(conn, "%s\n", msg); err != nil {
		return "", fmt.Errorf("send: %w", err)
	}

	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && reply == "" {
			return "", nil
		}
		return "", fmt.Errorf("read reply: %w", err)
	}
	return reply, nil
}
