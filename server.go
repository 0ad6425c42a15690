package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rifflingua-go/logcolors"
	"rifflingua-go/middleware"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *App, _ []string) error {
			return a.serve(cmd.Context(), port)
		}),
	}
	cmd.Flags().StringVarP(&port, "port", "p", conf.Configuration.Port, "port to listen on")
	return cmd
}

// handler builds the router wrapped in logging, CORS and rate limiting.
func (a *App) handler() http.Handler {
	router := mux.NewRouter()
	setupRoutes(router, a)

	c := cors.New(cors.Options{
		AllowedOrigins: a.conf.Configuration.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept-Language"},
		ExposedHeaders: []string{"X-Lyrics-Source", "X-Provider", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
	})

	limiter := middleware.NewIPRateLimiter(
		rate.Limit(a.conf.Configuration.RateLimitPerSecond),
		a.conf.Configuration.RateLimitBurstLimit,
	)

	loggedRouter := middleware.LoggingMiddleware(router)
	corsHandler := c.Handler(loggedRouter)
	return limiter.Middleware(corsHandler)
}

func (a *App) serve(ctx context.Context, port string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           a.handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("%s Listening on port %s (providers: %v)", logcolors.LogServer, port, a.engine.Providers())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Infof("%s Shutting down", logcolors.LogServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
