// Command flint serves a directory over HTTP/1.x, along with a couple of JSON endpoints
// reporting on the server itself.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/indigo-web/flint"
	"github.com/indigo-web/flint/config"
	"github.com/indigo-web/flint/handler"
	"github.com/indigo-web/flint/http"
	"github.com/indigo-web/flint/http/status"
	"github.com/indigo-web/flint/router"
)

type options struct {
	addr, root, config, otlp string
	httpsPort                uint
	cert, key                string
	auto                     bool
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.addr, "addr", "0.0.0.0:8080", "address to listen on")
	flag.StringVar(&opts.root, "root", "", "directory to serve files from (overrides the config)")
	flag.StringVar(&opts.config, "config", "", "path to a JSON config file")
	flag.StringVar(&opts.otlp, "otlp", "", "OTLP gRPC collector endpoint, e.g. localhost:4317")
	flag.UintVar(&opts.httpsPort, "https", 0, "port to additionally serve HTTPS on")
	flag.StringVar(&opts.cert, "cert", "", "TLS certificate file")
	flag.StringVar(&opts.key, "key", "", "TLS key file")
	flag.BoolVar(&opts.auto, "autocert", false, "obtain TLS certificates automatically")
	flag.Parse()

	return opts
}

func main() {
	if err := run(context.Background(), parseFlags()); err != nil {
		log.Fatalln(err)
	}
}

func run(ctx context.Context, opts options) (err error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Default()
	if len(opts.config) > 0 {
		if cfg, err = config.Load(opts.config); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}

	if len(opts.root) > 0 {
		cfg.Static.Root = opts.root
	}

	if len(opts.otlp) > 0 {
		shutdown, otelErr := setupOTelSDK(ctx, opts.otlp)
		if otelErr != nil {
			return fmt.Errorf("otel: %w", otelErr)
		}

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err = errors.Join(err, shutdown(shutdownCtx))
		}()
	}

	app := flint.New(opts.addr, routes(time.Now())...).Tune(cfg)
	switch {
	case opts.httpsPort == 0:
	case opts.auto:
		app.AutoHTTPS(uint16(opts.httpsPort), flag.Args()...)
	default:
		app.HTTPS(uint16(opts.httpsPort), opts.cert, opts.key)
	}

	go func() {
		<-ctx.Done()
		app.Stop()
	}()

	return app.Serve()
}

type health struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func routes(started time.Time) []router.Route {
	return []router.Route{
		{
			Pattern: "/api/health",
			Handler: handler.JSON(func(*http.Request) (any, error) {
				return health{
					Status: "ok",
					Uptime: time.Since(started).Truncate(time.Second).String(),
				}, nil
			}),
		},
		{
			Pattern: "/api/echo/{word}",
			Handler: handler.JSON(func(request *http.Request) (any, error) {
				word, found := request.Var("word")
				if !found {
					return nil, status.ErrNotFound
				}

				echo := map[string]string{"word": word, "remote": request.Remote()}
				if lang, ok := request.QueryParam("lang"); ok {
					echo["lang"] = lang
				}

				return echo, nil
			}),
		},
	}
}
