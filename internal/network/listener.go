package network

import (
	"fmt"
	"net"

	"golang.org/x/net/netutil"
)

// Listen opens a TCP listener on addr. When maxConns > 0 at most that many
// connections are served at once; further accepts wait for a slot.
func Listen(addr string, maxConns int) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	if maxConns > 0 {
		return netutil.LimitListener(ln, maxConns), nil
	}
	return ln, nil
}
