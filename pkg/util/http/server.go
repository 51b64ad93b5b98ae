package httputil

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Server is a wrapper over http.Server providing start and stop routines.
//
// Server must be created using New.
type Server struct {
	shutdownTimeout time.Duration

	srv *http.Server
}

// Option is a Server's constructor option.
type Option func(*cfg)

type cfg struct {
	shutdownTimeout   time.Duration
	readHeaderTimeout time.Duration
}

func defaultCfg() *cfg {
	return &cfg{
		shutdownTimeout:   time.Second,
		readHeaderTimeout: 5 * time.Second,
	}
}

// WithShutdownTimeout returns an option to set the time given to active
// connections to finish on Shutdown. Non-positive values are ignored.
func WithShutdownTimeout(d time.Duration) Option {
	return func(c *cfg) {
		if d > 0 {
			c.shutdownTimeout = d
		}
	}
}

// New creates a new Server listening on addr and serving requests via
// handler. Panics if any of them is not set.
func New(addr string, handler http.Handler, opts ...Option) *Server {
	if addr == "" || handler == nil {
		panic("httputil: address and handler are required")
	}

	c := defaultCfg()
	for _, o := range opts {
		o(c)
	}

	return &Server{
		shutdownTimeout: c.shutdownTimeout,
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: c.readHeaderTimeout,
		},
	}
}

// Address returns the address server listens on.
func (x *Server) Address() string {
	return x.srv.Addr
}

// Serve listens and serves requests until Shutdown is called. Returns nil
// after Shutdown.
func (x *Server) Serve() error {
	err := x.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server waiting for active connections no
// longer than the configured timeout.
func (x *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), x.shutdownTimeout)
	defer cancel()

	return x.srv.Shutdown(ctx)
}
