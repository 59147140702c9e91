package echo

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// DefaultBacklog sizes the kernel accept queue.
const DefaultBacklog = 128

// ListenSpec configures the listening endpoint.
type ListenSpec struct {
	IP      string
	Port    int
	Backlog int
}

// Listen builds the listening socket step by step so the accept backlog and
// quick local-address reuse are under our control, then hands it to the net
// package. Each step failure names the operation that failed.
func Listen(spec ListenSpec) (net.Listener, error) {
	if spec.Backlog <= 0 {
		spec.Backlog = DefaultBacklog
	}
	ip := net.ParseIP(spec.IP)
	if ip != nil {
		ip = ip.To4()
	}
	if ip == nil {
		return nil, fmt.Errorf("parse bind address %q: not an IPv4 address", spec.IP)
	}
	if spec.Port < 0 || spec.Port > 65535 {
		return nil, fmt.Errorf("bind port %d: out of range", spec.Port)
	}

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("socket: %w", err)
	}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("setsockopt SO_REUSEADDR: %w", err)
	}

	sa := &unix.SockaddrInet4{Port: spec.Port}
	copy(sa.Addr[:], ip)
	if err := unix.Bind(fd, sa); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("bind %s:%d: %w", spec.IP, spec.Port, err)
	}

	if err := unix.Listen(fd, spec.Backlog); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("listen: %w", err)
	}

	f := os.NewFile(uintptr(fd), "echoctl-listener")
	ln, err := net.FileListener(f)
	// FileListener dups the descriptor; the original must go either way.
	_ = f.Close()
	if err != nil {
		return nil, fmt.Errorf("file listener: %w", err)
	}
	return ln, nil
}
