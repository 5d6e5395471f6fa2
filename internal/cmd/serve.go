package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"

	"github.com/Coxless/wtenv/internal/cache"
	_ "github.com/Coxless/wtenv/internal/docs"
	"github.com/Coxless/wtenv/internal/handlers"
	"github.com/Coxless/wtenv/internal/logger"
	"github.com/Coxless/wtenv/internal/middleware"
	"github.com/Coxless/wtenv/internal/services"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "🌐 Serve task progress over HTTP",
	Long: `# 🌐 Task Progress API

Runs a read-only JSON API over the progress directory.

## 📡 Endpoints
- **GET /v1/tasks** - all tasks
- **GET /v1/tasks/active** - running tasks
- **GET /v1/tasks/latest** - newest task per directory
- **GET /v1/tasks/location?path=** - tasks at or below a path
- **GET /v1/tasks/:id** - one task with its event history
- **GET /v1/tasks/stream** - WebSocket feed of the latest task per directory
- **POST /v1/tasks/reload** - re-read every session log
- **GET /v1/status** - counts by status
- **GET /health** - liveness
- **GET /swagger/** - API documentation

Set **server.token** or **WTENV_API_TOKEN** to require a bearer token on /v1.`,
	Example: `  wtenv serve
  wtenv serve --port 7000
  curl localhost:6370/v1/tasks/active`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveHost string
	servePort int
)

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen host (default from config, 127.0.0.1)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Listen port (default from config, 6370)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	server := settings.Server
	if serveHost != "" {
		server.Host = serveHost
	}
	if servePort != 0 {
		server.Port = servePort
	}
	if token := os.Getenv("WTENV_API_TOKEN"); token != "" {
		server.Token = token
	}

	svc := services.NewProgressService(services.ProgressServiceConfig{
		Dir:             settings.ProgressDir,
		RefreshInterval: settings.RefreshInterval,
		Watch:           settings.Watch,
		Projects:        cache.NewProjectCacheWithDefaults(),
	})
	if err := svc.Start(); err != nil {
		return err
	}
	defer svc.Stop()

	app := newAPIApp(svc, server.Token)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("🌐 Serving task progress on http://%s", server.Addr())
		errCh <- app.Listen(server.Addr())
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-sigChan:
		logger.Infof("🛑 Received %v, shutting down", sig)
	}

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// newAPIApp wires the routes. An empty token leaves the API open.
func newAPIApp(svc *services.ProgressService, token string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "wtenv",
		DisableStartupMessage: true,
	})
	app.Use(handlers.RequestLogger())
	if auth := middleware.NewAuthMiddleware(token); auth != nil {
		app.Use(auth.RequireAuth)
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/swagger/*", swagger.HandlerDefault)

	v1 := app.Group("/v1")
	handlers.NewStreamHandler(svc).Register(v1)
	handlers.NewTasksHandler(svc).Register(v1)
	return app
}
