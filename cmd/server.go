package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/solution-finder/internal/admin"
	"github.com/ziadkadry99/solution-finder/internal/audit"
	"github.com/ziadkadry99/solution-finder/internal/catalog"
	"github.com/ziadkadry99/solution-finder/internal/config"
	"github.com/ziadkadry99/solution-finder/internal/loader"
	"github.com/ziadkadry99/solution-finder/internal/render"
	"github.com/ziadkadry99/solution-finder/internal/scoring"
	"github.com/ziadkadry99/solution-finder/internal/search"
	"github.com/ziadkadry99/solution-finder/internal/server"
	"github.com/ziadkadry99/solution-finder/internal/session"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the solution finder HTTP server",
	Long:  `Starts the REST API and WebSocket endpoint that back the web wizard, plus the admin publish and audit endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		cfg := a.cfg
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}

		if _, err := a.loader.Load(ctx); err != nil {
			// The server still starts; catalog routes answer 503 until a reload succeeds.
			a.logger.Warn("initial catalog load failed", zap.Error(err))
		}

		var rdb *redis.Client
		if cfg.Sessions.Backend == config.BackendRedis {
			rdb = redis.NewClient(&redis.Options{
				Addr:     cfg.Sessions.RedisAddr,
				Password: cfg.Sessions.RedisPassword,
				DB:       cfg.Sessions.RedisDB,
			})
			defer rdb.Close()
			if err := rdb.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("connecting to redis at %s: %w", cfg.Sessions.RedisAddr, err)
			}
		}

		srv := server.New(server.Config{
			Port:           cfg.Server.Port,
			AllowAll:       cfg.Server.AllowAllOrigins,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		}, a.db, a.loader, a.logger)

		hub := session.NewHub(rdb, a.logger)
		registerAllRoutes(srv, a, rdb, hub)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return srv.Run(gctx) })
		g.Go(func() error { return hub.Run(gctx) })
		if cfg.Catalog.Watch && cfg.Catalog.URL == "" {
			path, err := filepath.Abs(cfg.Catalog.Path)
			if err != nil {
				return fmt.Errorf("resolving catalog path: %w", err)
			}
			w := loader.NewWatcher(path, a.loader, a.logger)
			g.Go(func() error { return w.Run(gctx) })
		}

		fmt.Fprintf(os.Stderr, "solfinder server v%s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  Catalog: %s (origin %s)\n", describeSource(cfg), a.loader.Origin())
		fmt.Fprintf(os.Stderr, "  Database: %s\n", a.db.Path())
		fmt.Fprintf(os.Stderr, "  Sessions: %s\n", cfg.Sessions.Backend)

		err = g.Wait()
		fmt.Fprintln(os.Stderr, "Server stopped.")
		return err
	},
}

// registerAllRoutes wires up all feature routes.
func registerAllRoutes(srv *server.Server, a *app, rdb *redis.Client, hub *session.Hub) {
	r := srv.Router()

	// Catalog, ranking, search and solution detail
	catalog.RegisterRoutes(r, a.loader)
	scoring.RegisterRoutes(r, a.loader)
	search.RegisterRoutes(r, a.loader)
	render.RegisterRoutes(r, a.loader)

	// Visitor sessions
	var store session.Store
	if rdb != nil {
		store = session.NewRedisStore(rdb, a.cfg.SessionTTL())
	} else {
		store = session.NewMemoryStore(a.cfg.SessionTTL())
	}
	session.RegisterRoutes(r, session.NewManager(store, a.loader, hub, a.logger))

	// Admin publish
	publisher := admin.NewPublisher(a.cfg.Catalog.Path, a.loader, a.audit, a.logger)
	admin.RegisterRoutes(r, publisher, a.cfg.Server.AdminToken)

	// Audit Trail
	audit.RegisterRoutes(r, a.audit)
}

func describeSource(cfg *config.Config) string {
	if cfg.Catalog.URL != "" {
		return cfg.Catalog.URL
	}
	return cfg.Catalog.Path
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serverCmd)
}
