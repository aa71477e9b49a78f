// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/osa030/dashboard/internal/api/rest"
	"github.com/osa030/dashboard/internal/infra/config"
	"github.com/osa030/dashboard/internal/infra/geoapify"
	"github.com/osa030/dashboard/internal/infra/hardcover"
	"github.com/osa030/dashboard/internal/infra/httpclient"
	"github.com/osa030/dashboard/internal/infra/logger"
	"github.com/osa030/dashboard/internal/infra/spotify"
)

var (
	app        = kingpin.New("dashboard-server", "Personal dashboard backend")
	configPath = app.Flag("config", "Path to config file (overrides --mode)").String()
	configDir  = app.Flag("config-dir", "Directory holding config.<mode>.toml").Default(".").String()
	mode       = app.Flag("mode", "Deployment mode (DEV or PROD)").Envar(config.ModeEnv).Default(config.ModeDev).String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()

	// routes command
	routesCmd = app.Command("routes", "List HTTP routes and exit")
)

func init() {
	// start command (default) - no need to store the command
	app.Command("start", "Start the server (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	// Initialize logger
	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
	}
	// Override with command-line flags if specified
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
		loggerConfig.File = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	// Load config
	path, err := resolveConfigPath()
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to resolve config path")
	}
	zlog.Info().Msgf("Loading config from %s", path)
	cfg, err := config.Load(path)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	if command == routesCmd.FullCommand() {
		if err := printRoutes(cfg); err != nil {
			zlog.Fatal().Err(err).Msg("Failed to list routes")
		}
		return
	}

	// Run server (defer ensures shutdown hook is called)
	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		os.Exit(1)
	}
}

func resolveConfigPath() (string, error) {
	if *configPath != "" {
		return *configPath, nil
	}
	return config.PathForMode(*configDir, *mode)
}

// newHandler wires the upstream clients into the router.
func newHandler(cfg *config.Config, httpClient *http.Client) (chi.Router, error) {
	spotifyClient, err := spotify.New(httpClient, spotify.Config{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		RefreshToken: cfg.Spotify.RefreshToken,
		APIURL:       cfg.Spotify.APIURL,
		TokenURL:     cfg.Spotify.TokenURL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Spotify client")
	}

	hardcoverClient, err := hardcover.New(httpClient, hardcover.Config{
		APIToken:   cfg.Hardcover.APIToken,
		UserID:     cfg.Hardcover.UserID,
		GraphQLURL: cfg.Hardcover.GraphQLURL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Hardcover client")
	}

	geoapifyClient, err := geoapify.New(httpClient, geoapify.Config{
		MapURL: cfg.Geoapify.MapURL,
		APIKey: cfg.Geoapify.APIKey,
		LonLat: cfg.Geoapify.LonLat,
		Style:  cfg.Geoapify.Style,
		Width:  cfg.Geoapify.Width,
		Height: cfg.Geoapify.Height,
		Zoom:   cfg.Geoapify.Zoom,
		Pitch:  cfg.Geoapify.Pitch,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Geoapify client")
	}

	return rest.NewRouter(
		rest.RouterConfig{AllowedOrigins: cfg.API.AllowedOrigins},
		rest.Services{
			Spotify:  spotifyClient,
			Books:    hardcoverClient,
			Location: geoapifyClient,
		},
		zlog.Logger,
	), nil
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	// One client for every upstream call, closed on shutdown
	httpClient := httpclient.New(httpclient.Config{
		Timeout:             cfg.HTTP.Timeout,
		MaxIdleConnsPerHost: cfg.HTTP.MaxIdleConnsPerHost,
	})
	defer httpClient.CloseIdleConnections()

	router, err := newHandler(cfg, httpClient)
	if err != nil {
		return err
	}

	// Create server with h2c (HTTP/2 cleartext) support
	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: h2c.NewHandler(router, &http2.Server{}),
	}

	// Listen before running hooks so on_started sees a bound port
	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", cfg.Server.Addr)
	}

	// Channel to capture server errors
	serverErrCh := make(chan error, 1)

	// Start server
	go func() {
		zlog.Info().Msgf("Starting server: addr=%s", ln.Addr())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	// Execute startup hook if configured (after server is running)
	executeHooks(cfg.Server.Hooks.OnStarted, "on_started")

	// Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return errors.Wrap(err, "server error")
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	httpClient.CloseIdleConnections()
	zlog.Info().Msg("Server stopped")

	// Execute shutdown hook if configured
	executeHooks(cfg.Server.Hooks.OnStopped, "on_stopped")

	return nil
}

// printRoutes prints every registered route.
func printRoutes(cfg *config.Config) error {
	httpClient := httpclient.New(httpclient.Config{Timeout: cfg.HTTP.Timeout})
	defer httpClient.CloseIdleConnections()

	router, err := newHandler(cfg, httpClient)
	if err != nil {
		return err
	}

	fmt.Println("Routes:")
	return chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		fmt.Printf("  %-7s %s\n", method, route)
		return nil
	})
}

// executeHooks runs a list of shell commands.
func executeHooks(hooks []string, stage string) {
	if len(hooks) == 0 {
		return
	}

	zlog.Info().Msgf("Executing %s hooks (%d commands)", stage, len(hooks))

	for _, hook := range hooks {
		zlog.Info().Msgf("Executing hook: %s", hook)
		// Use sh -c to allow shell features like redirection or pipes
		cmd := exec.Command("sh", "-c", hook)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			zlog.Error().Err(err).Msgf("Failed to execute hook: %s", hook)
		}
	}
}
