package inkwell

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"syscall"
)

const maxPort = 65535

// Listen binds the configured port. When the port is taken it tries the
// following ones, up to Config.PortAttempts ports in total, and returns
// ErrNoPortAvailable when all of them are busy. Errors other than
// "address in use" are returned immediately.
func (s *Server) Listen() (net.Listener, error) {
	if s.listener != nil {
		return s.listener, nil
	}

	cfg := s.Config
	if cfg.Port == RandomPort {
		ln, err := net.Listen("tcp", cfg.Addr())
		if err != nil {
			return nil, fmt.Errorf("inkwell: listen: %w", err)
		}
		s.listener = ln
		return ln, nil
	}

	var lastErr error
	for i := 0; i < cfg.PortAttempts; i++ {
		port := cfg.Port + i
		if port > maxPort {
			break
		}
		ln, err := net.Listen("tcp", net.JoinHostPort(cfg.Host, strconv.Itoa(port)))
		if err == nil {
			if i > 0 {
				s.Logger.Warnf("port %d in use, bound %d instead", cfg.Port, port)
			}
			s.listener = ln
			return ln, nil
		}
		if !errors.Is(err, syscall.EADDRINUSE) {
			return nil, fmt.Errorf("inkwell: listen: %w", err)
		}
		s.Logger.Debugf("port %d in use, trying %d", port, port+1)
		lastErr = err
	}
	return nil, fmt.Errorf("inkwell: %w: ports %d-%d: %v", ErrNoPortAvailable, cfg.Port, min(cfg.Port+cfg.PortAttempts-1, maxPort), lastErr)
}
