package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/radhhh/flae-bot/internal/api"
	"github.com/radhhh/flae-bot/internal/config"
	"github.com/radhhh/flae-bot/internal/domain/allocation"
	"github.com/radhhh/flae-bot/internal/domain/session"
	"github.com/radhhh/flae-bot/internal/sqlite"
	"github.com/radhhh/flae-bot/internal/transport"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "flae-server",
		Short:         "Time-tracking service behind the chat-platform webhook router",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newAddKeyCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}

			logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: parseLogLevel(cfg.Log.Level),
			}))

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			loc, err := time.LoadLocation(cfg.Week.Timezone)
			if err != nil {
				return fmt.Errorf("invalid week timezone %q: %w", cfg.Week.Timezone, err)
			}

			userRepo := sqlite.NewUserRepository(db)
			subjectRepo := sqlite.NewSubjectRepository(db)
			sessionRepo := sqlite.NewSessionRepository(db)
			allocationRepo := sqlite.NewAllocationRepository(db)

			sessionSvc := session.NewService(userRepo, subjectRepo, sessionRepo, logger)
			allocationSvc := allocation.NewService(userRepo, subjectRepo, allocationRepo, sessionRepo, loc, logger)

			handler := api.NewHandler(sessionSvc, allocationSvc)

			var authMiddleware func(http.Handler) http.Handler
			if cfg.Auth.Enabled {
				authMiddleware = transport.AuthMiddleware(&apiKeyResolver{db: db})
			} else {
				logger.Warn("authentication disabled")
			}

			router := transport.NewServer(handler, authMiddleware, logger)

			addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
			httpServer := &http.Server{
				Addr:    addr,
				Handler: router,
			}

			go func() {
				logger.Info("server listening", "addr", addr, "week_timezone", cfg.Week.Timezone)
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("server error", "error", err)
				}
			}()

			waitForShutdown(logger, httpServer)
			return nil
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.RunMigrations(); err != nil {
				return fmt.Errorf("migrations failed: %w", err)
			}
			fmt.Println("migrations applied")
			return nil
		},
	}
}

func newAddKeyCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add-key <token> <client-id>",
		Short: "Register an API key for a router caller",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			_, err = db.Exec(
				`INSERT INTO api_keys (key_hash, client_id, created_at, description) VALUES (?, ?, ?, ?)`,
				hashToken(args[0]), args[1], time.Now().UTC(), description,
			)
			if err != nil {
				return fmt.Errorf("adding api key: %w", err)
			}
			fmt.Printf("key registered for client %s\n", args[1])
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "key description")
	return cmd
}

func openDB(cfg config.Config) (*sqlite.DB, error) {
	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("preparing database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type apiKeyResolver struct {
	db *sqlite.DB
}

func (r *apiKeyResolver) ResolveClient(ctx context.Context, token string) (string, error) {
	hash := hashToken(token)
	var clientID string
	err := r.db.QueryRowContext(ctx, `SELECT client_id FROM api_keys WHERE key_hash = ?`, hash).Scan(&clientID)
	if err != nil || clientID == "" {
		return "", transport.ErrUnauthorized
	}
	return clientID, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
