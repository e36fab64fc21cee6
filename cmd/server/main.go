// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"impostor/internal/game"
	"impostor/internal/handlers"
	"impostor/internal/middleware"
	"impostor/internal/notify"
	"impostor/internal/room"
)

const releaseVersion = "0.1.0"

type config struct {
	bind      string
	port      int
	redisAddr string
	roomTTL   time.Duration
	verbose   bool
}

func (c *config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.roomTTL < time.Minute {
		return fmt.Errorf("room TTL too short: %s", c.roomTTL)
	}
	return nil
}

func newCmd(cfg *config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("IMPOSTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "impostor",
		Short:         "Game server for the Impostor party game.",
		Args:          cobra.ExactArgs(0),
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: IMPOSTOR_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: IMPOSTOR_PORT)")
	fs.StringVar(&cfg.redisAddr, "redis-addr", "", "redis address; empty selects the in-memory store (env: IMPOSTOR_REDIS_ADDR)")
	fs.DurationVar(&cfg.roomTTL, "room-ttl", 2*time.Hour, "idle time before rooms expire (env: IMPOSTOR_ROOM_TTL)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "enable debug logging (env: IMPOSTOR_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	return cmd
}

func serve(ctx context.Context, cfg *config) error {
	logger := logrus.New()
	if cfg.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	repo, cleanup, err := buildRepository(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	hub := notify.NewHub(logger)
	engine := game.New(repo, hub, logger)
	server := handlers.NewServer(engine, hub, logger)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port)),
		Handler:           middleware.LogMiddleware(logger)(server.Routes()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Running on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
	case s := <-sig:
		logger.Infof("Received %s, shutting down", s)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildRepository selects redis when an address is configured and falls back
// to the in-memory store otherwise.
func buildRepository(cfg *config, logger *logrus.Logger) (room.Repository, func(), error) {
	if cfg.redisAddr == "" {
		logger.Info("No redis address configured, using in-memory room store")
		repo := room.NewMemoryRepository(cfg.roomTTL, logger)
		return repo, repo.Close, nil
	}

	repo, err := room.NewRedisRepository(cfg.redisAddr, 0, cfg.roomTTL, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.WithField("addr", cfg.redisAddr).Info("Using redis room store")
	return repo, func() { _ = repo.Close() }, nil
}

func main() {
	cfg := &config{}
	cobra.CheckErr(newCmd(cfg).Execute())
}
