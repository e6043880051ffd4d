// Package server implements the connection loop and command router: it
// accepts connections over TCP and a Unix domain socket, decodes RESP
// requests from each, dispatches them against a core.Keyspace, and
// writes back RESP replies.
package server

import (
	"context"
	"net"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/epokhe/rhino-rox/core"
)

// Config is the listen configuration a Server is started with.
type Config struct {
	TCPAddr    string // e.g. ":6000"; empty disables the TCP listener.
	UnixSocket string // e.g. "/tmp/rhino-rox.sock"; empty disables it.
}

// Server owns the keyspace and the listeners serving it.
type Server struct {
	cfg Config
	ks  *core.Keyspace
	log *zap.Logger
}

// New builds a Server around an existing keyspace. Passing the
// keyspace in rather than constructing it internally lets callers
// (and tests) seed or inspect it independently of the wire layer.
func New(cfg Config, ks *core.Keyspace, log *zap.Logger) *Server {
	return &Server{cfg: cfg, ks: ks, log: log}
}

// ListenAndServe opens the configured listeners and serves connections
// until ctx is cancelled, at which point it stops accepting, closes
// the listeners, and returns once all accept loops have exited. The
// TCP and Unix accept loops are supervised by an errgroup: the first
// one to fail (for a reason other than a deliberate shutdown) cancels
// the other, so a single listener failure tears down the whole server
// instead of leaving it half up.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.cfg.TCPAddr == "" && s.cfg.UnixSocket == "" {
		return errors.New("server: no listen address configured")
	}

	g, ctx := errgroup.WithContext(ctx)

	var listeners []net.Listener

	if s.cfg.TCPAddr != "" {
		ln, err := net.Listen("tcp", s.cfg.TCPAddr)
		if err != nil {
			return errors.Wrap(err, "listen tcp")
		}
		s.log.Info("listening", zap.String("transport", "tcp"), zap.String("addr", ln.Addr().String()))
		listeners = append(listeners, ln)
	}

	if s.cfg.UnixSocket != "" {
		if err := unlinkStale(s.cfg.UnixSocket); err != nil {
			_ = closeAll(listeners)
			return errors.Wrap(err, "unlink stale unix socket")
		}
		ln, err := net.Listen("unix", s.cfg.UnixSocket)
		if err != nil {
			_ = closeAll(listeners)
			return errors.Wrap(err, "listen unix")
		}
		s.log.Info("listening", zap.String("transport", "unix"), zap.String("addr", s.cfg.UnixSocket))
		listeners = append(listeners, ln)
	}

	for _, ln := range listeners {
		ln := ln
		g.Go(func() error { return s.acceptLoop(ctx, ln) })
	}

	// Closes listeners the moment ctx is cancelled, which unblocks
	// each acceptLoop's blocking Accept call.
	g.Go(func() error {
		<-ctx.Done()
		if err := closeAll(listeners); err != nil {
			s.log.Warn("error closing listeners", zap.Error(err))
		}
		if s.cfg.UnixSocket != "" {
			os.Remove(s.cfg.UnixSocket)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return errors.Wrap(err, "accept")
			}
		}
		go serveConn(conn, s.ks, s.log)
	}
}

func unlinkStale(path string) error {
	if path == "" {
		return nil
	}
	if _, err := net.Dial("unix", path); err == nil {
		return errors.Errorf("unix socket %s is already in use", path)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// closeAll closes every listener, aggregating any errors rather than
// stopping at the first one, so a problem closing the TCP listener
// never masks one closing the Unix listener.
func closeAll(listeners []net.Listener) error {
	var result *multierror.Error
	for _, ln := range listeners {
		if err := ln.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
