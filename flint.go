// Package flint is a small HTTP/1.x server for static and generated content, that doesn't
// allocate on the request path. Every connection owns a fixed set of buffers, which
// are reused for all the requests it carries.
package flint

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/indigo-web/flint/config"
	"github.com/indigo-web/flint/engine"
	"github.com/indigo-web/flint/handler"
	"github.com/indigo-web/flint/internal/address"
	"github.com/indigo-web/flint/internal/server/http"
	"github.com/indigo-web/flint/internal/server/tcp"
	"github.com/indigo-web/flint/internal/telemetry"
	"github.com/indigo-web/flint/router"
)

// App is the server application: the address, routes and every listener.
type App struct {
	addr      address.Address
	cfg       *config.Config
	routes    []router.Route
	listeners []listener
	hooks     hooks
	logger    *slog.Logger

	mu      sync.Mutex
	servers []*tcp.Server
	stopped bool
}

type listener struct {
	Port uint16
	// TLS is nil for plain-text listeners.
	TLS func() (*tls.Config, error)
}

// New returns a new App instance. Routes are matched in the order they're passed; any path
// none of them matches is served from the static root (see config.Static).
func New(addr string, routes ...router.Route) *App {
	appAddr, err := address.Parse(addr)
	if err != nil {
		panic(fmt.Errorf("flint: listen: bad addr: %v", err))
	}

	return &App{
		addr:   appAddr,
		cfg:    config.Default(),
		routes: routes,
		logger: telemetry.Logger(),
	}
}

// Tune replaces default config.
func (a *App) Tune(cfg *config.Config) *App {
	a.cfg = cfg
	return a
}

// NotifyOnStart calls the callback at the moment, when all the servers are started. However,
// it isn't strongly guaranteed that they'll be able to accept new connections immediately
func (a *App) NotifyOnStart(cb func()) *App {
	a.hooks.OnStart = cb
	return a
}

// NotifyOnStop calls the callback at the moment, when all the servers are down. It's guaranteed,
// that at the moment as the callback is called, the server isn't able to accept any new connections
// and all the clients are already disconnected
func (a *App) NotifyOnStop(cb func()) *App {
	a.hooks.OnStop = cb
	return a
}

// HTTPS adds a TLS listener on the port using the certificate and the key files.
func (a *App) HTTPS(port uint16, cert, key string) *App {
	a.listeners = append(a.listeners, listener{
		Port: port,
		TLS:  staticTLS(cert, key),
	})

	return a
}

// AutoHTTPS adds a TLS listener on the port, obtaining certificates via ACME for the
// domains. For localhost, a self-signed certificate is generated instead.
func (a *App) AutoHTTPS(port uint16, domains ...string) *App {
	if a.addr.IsLocalhost() {
		cert, key, err := generateSelfSignedCert()
		if err != nil {
			a.logger.Warn("AutoHTTPS: can't generate self-signed certificate, disabling TLS", "err", err)
			return a
		}

		return a.HTTPS(port, cert, key)
	}

	a.listeners = append(a.listeners, listener{
		Port: port,
		TLS:  autoTLS(a.logger, domains...),
	})

	return a
}

// Serve starts the application and blocks until it's stopped or any of the listeners fails.
func (a *App) Serve() error {
	table, err := router.New(
		handler.Static(a.cfg.Static.Root, a.cfg.Static.Index), handler.ErrorPage, a.routes...,
	)
	if err != nil {
		return err
	}

	metrics, err := telemetry.NewMetrics(nil)
	if err != nil {
		return err
	}

	httpServer := http.NewServer(engine.New(a.cfg, table), metrics, a.logger)
	servers, err := a.bind()
	if err != nil {
		return err
	}

	return a.run(servers, httpServer.Serve)
}

func (a *App) bind() ([]*tcp.Server, error) {
	listeners := append([]listener{{Port: a.addr.Port}}, a.listeners...)
	servers := make([]*tcp.Server, 0, len(listeners))

	for _, l := range listeners {
		server, err := a.newServer(l)
		if err != nil {
			for _, s := range servers {
				_ = s.Close()
			}

			return nil, err
		}

		servers = append(servers, server)
	}

	return servers, nil
}

func (a *App) newServer(l listener) (*tcp.Server, error) {
	var tlsCfg *tls.Config

	if l.TLS != nil {
		var err error
		if tlsCfg, err = l.TLS(); err != nil {
			return nil, err
		}
	}

	sock, err := tcp.Bind(a.addr.SetPort(l.Port).String())
	if err != nil {
		return nil, err
	}

	if tlsCfg != nil {
		return tcp.NewTLSServer(sock, tlsCfg), nil
	}

	return tcp.NewServer(sock), nil
}

func (a *App) run(servers []*tcp.Server, onConn func(net.Conn)) error {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		closeAll(servers)
		return nil
	}
	a.servers = servers
	a.mu.Unlock()

	errCh := make(chan error, len(servers))
	for _, server := range servers {
		a.logger.Info("listening", "addr", server.Addr().String())

		go func(server *tcp.Server) {
			errCh <- server.Start(a.cfg.NET.AcceptLoopInterruptPeriod, onConn)
		}(server)
	}

	callIfNotNil(a.hooks.OnStart)
	// the first server to return either failed or was stopped, so the rest must follow
	err := <-errCh
	if err != nil {
		closeAll(servers)
	}

	a.Stop()
	for range servers[1:] {
		if e := <-errCh; err == nil {
			err = e
		}
	}

	callIfNotNil(a.hooks.OnStop)

	return err
}

// Stop stops accepting new connections on every listener. Serve returns after the
// already accepted connections are served.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopped = true
	for _, server := range a.servers {
		server.Stop()
	}
}

// Addrs returns the addresses of all the bound listeners, the plain-text one first.
// It's empty until Serve binds them.
func (a *App) Addrs() []net.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()

	addrs := make([]net.Addr, len(a.servers))
	for i, server := range a.servers {
		addrs[i] = server.Addr()
	}

	return addrs
}

func closeAll(servers []*tcp.Server) {
	for _, server := range servers {
		_ = server.Close()
	}
}

type hooks struct {
	OnStart, OnStop func()
}

func callIfNotNil(f func()) {
	if f != nil {
		f()
	}
}
