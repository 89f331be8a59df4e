// Package main is the entry point for the workspace storage server.
//
// The server exposes a JSON API for workspace folder management under /api,
// serves the embedded web frontend with SPA fallback at /, and stores
// workspace content in a blob container addressed by a storage URL
// (file://, mem://, or any connector the storage layer supports).
// Configuration is read from CLI flags, a .env file, and server_config.json.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/Dhanaraju-118/backend/internal/server"
	"github.com/Dhanaraju-118/backend/internal/server/handlers"
	"github.com/Dhanaraju-118/backend/internal/storage"
	"github.com/fsnotify/fsnotify"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/viant/afs"
)

func main() {
	if err := mainImpl(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "backend: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	version := flag.Bool("version", false, "Print version and exit")
	httpAddr := flag.String("http", "localhost:8787", "Address to listen on (e.g., localhost:8787, :8787, 0.0.0.0:8787). Use 0.0.0.0:port to listen on all interfaces.")
	dataDir := flag.String("data-dir", "./data", "Data directory")
	staticDir := flag.String("static-dir", "", "Serve the frontend from this directory instead of the embedded bundle")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	storageURL := flag.String("storage-url", "", "Blob storage base URL (default file://<data-dir>/blobs)")
	containerName := flag.String("container", "", "Blob container name (default workspaces)")
	flag.Parse()
	if len(flag.Args()) > 0 {
		return fmt.Errorf("unknown arguments: %v", flag.Args())
	}

	if *version {
		printVersion()
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()
	ll := &slog.LevelVar{}
	ll.Set(slog.LevelInfo)
	// Skip timestamps when running under systemd (it adds its own).
	underSystemd := os.Getenv("JOURNAL_STREAM") != ""
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000", // Like time.TimeOnly plus milliseconds.
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Drop time when running under systemd.
			if underSystemd && a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			// Drop localhost IPs (not useful in logs).
			if a.Key == "ip" {
				if v := a.Value.String(); v == "127.0.0.1" || v == "::1" {
					return slog.Attr{}
				}
			}
			val := a.Value.Any()
			skip := false
			switch t := val.(type) {
			case string:
				skip = t == ""
			case bool:
				skip = !t
			case uint64:
				skip = t == 0
			case int64:
				skip = t == 0
			case float64:
				skip = t == 0
			case time.Time:
				skip = t.IsZero()
			case time.Duration:
				skip = t == 0
			case nil:
				skip = true
			}
			if skip {
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(*dataDir, 0o755); err != nil { //nolint:gosec // G301: 0o755 is intentional for data directories
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	// Run onboarding if no .env file exists and stdin is a TTY
	envPath := filepath.Join(*dataDir, ".env")
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		if isatty.IsTerminal(os.Stdin.Fd()) {
			if err := runOnboarding(*dataDir); err != nil {
				return fmt.Errorf("onboarding failed: %w", err)
			}
		}
	}

	// Load .env for storage settings
	env, err := loadDotEnv(*dataDir)
	if err != nil {
		return err
	}

	// Load server_config.json for the API secret, rate limits and body cap
	// (creates with defaults if missing)
	serverCfg, err := storage.LoadServerConfig(*dataDir)
	if err != nil {
		return fmt.Errorf("failed to load server_config.json: %w", err)
	}

	// Override with .env file values if not explicitly set via flags
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	if !set["http"] {
		if v := env["HTTP"]; v != "" {
			*httpAddr = v
		} else if p := os.Getenv("PORT"); p != "" {
			// PaaS-style deployment: listen on all interfaces.
			*httpAddr = "0.0.0.0:" + p
		}
	}
	if !set["log-level"] {
		if v := env["LOG_LEVEL"]; v != "" {
			*logLevel = v
		}
	}
	if !set["storage-url"] {
		if v := env["STORAGE_URL"]; v != "" {
			*storageURL = v
		}
	}
	if !set["container"] {
		if v := env["STORAGE_CONTAINER"]; v != "" {
			*containerName = v
		}
	}

	if *storageURL == "" {
		abs, err := filepath.Abs(*dataDir)
		if err != nil {
			return fmt.Errorf("failed to resolve data directory: %w", err)
		}
		*storageURL = "file://" + filepath.ToSlash(abs) + "/blobs"
	}
	if *containerName == "" {
		*containerName = "workspaces"
	}

	// Normalize addr: ":8787" becomes "localhost:8787"
	addr := *httpAddr
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}

	switch *logLevel {
	case "debug":
		ll.Set(slog.LevelDebug)
	case "info":
	case "warn":
		ll.Set(slog.LevelWarn)
	case "error":
		ll.Set(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level: %q", *logLevel)
	}

	container := storage.NewContainer(afs.New(), *storageURL, *containerName)
	wsService := storage.NewWorkspaceService(container)
	// Best-effort bootstrap: make the container and the parent folder marker
	// exist so listings work from the first request.
	if wsService.EnsureContainer(ctx) {
		wsService.EnsureParentFolder(ctx)
	}

	// Watch own executable for modifications (for development restarts)
	if err := watchExecutable(ctx, stop); err != nil {
		return fmt.Errorf("failed to watch executable: %w", err)
	}

	svc := &handlers.Services{
		Workspaces: wsService,
	}

	buildVersion, _, _, _ := getBuildInfo()
	cfg := &server.Config{
		ServerConfig: serverCfg,
		DataDir:      *dataDir,
		StaticDir:    *staticDir,
		Version:      buildVersion,
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.NewRouter(svc, cfg),
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "Starting server", "addr", addr, "storage", container.URL(), "version", buildVersion)
		serverErr <- httpServer.ListenAndServe()
	}()

	// Wait for either context cancellation or server error
	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		// Graceful shutdown
		slog.InfoContext(ctx, "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		slog.InfoContext(ctx, "Server stopped")
	}
	return nil
}

func printVersion() {
	version, goVersion, revision, dirty := getBuildInfo()
	fmt.Printf("backend %s\n", version)
	fmt.Printf("  Go version: %s\n", goVersion)
	fmt.Printf("  Revision:   %s\n", revision)
	if dirty {
		fmt.Printf("  Modified:   true\n")
	}
}

func getBuildInfo() (version, goVersion, revision string, dirty bool) {
	version = "unknown"
	goVersion = "unknown"
	revision = "unknown"
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	version = info.Main.Version
	if version == "" || version == "(devel)" {
		version = "dev"
	}
	goVersion = info.GoVersion
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	return
}

func loadDotEnv(dataDir string) (map[string]string, error) {
	env := make(map[string]string)
	path := filepath.Join(dataDir, ".env")
	envContent, err := os.ReadFile(path) //nolint:gosec // G304: path is constructed from dataDir flag, not user input
	if err != nil {
		if os.IsNotExist(err) {
			return env, nil
		}
		return nil, err
	}

	for line := range strings.SplitSeq(string(envContent), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])

		if strings.HasPrefix(val, "'") || strings.HasSuffix(val, "'") {
			if strings.HasPrefix(val, "'") && strings.HasSuffix(val, "'") {
				return nil, fmt.Errorf("single quotes are not supported for wrapping in .env: %s", line)
			}
			return nil, fmt.Errorf("unbalanced single quotes in .env: %s", line)
		}

		if strings.HasPrefix(val, "\"") {
			unquoted, err := strconv.Unquote(val)
			if err != nil {
				return nil, fmt.Errorf("failed to unquote %s: %w", key, err)
			}
			val = unquoted
		}

		env[key] = val
	}
	return env, nil
}

func saveDotEnv(dataDir string, env map[string]string) error {
	path := filepath.Join(dataDir, ".env")
	var lines []string
	for k, v := range env {
		if v != "" {
			lines = append(lines, fmt.Sprintf("%s=%s", k, v))
		}
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600)
}

func runOnboarding(dataDir string) error {
	fmt.Println("Welcome! Let's set up your storage configuration.")
	fmt.Println("")

	reader := bufio.NewReader(os.Stdin)
	env := make(map[string]string)

	fmt.Println("--- Blob Storage Setup ---")
	fmt.Println("Workspace folders live in a blob container addressed by a storage URL.")
	fmt.Printf("Leave empty to store blobs under %s/blobs on local disk.\n", dataDir)
	fmt.Print("Storage URL (optional): ")
	val, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read storage URL: %w", err)
	}
	env["STORAGE_URL"] = strings.TrimSpace(val)

	fmt.Print("Container name (default: workspaces): ")
	val, err = reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read container name: %w", err)
	}
	env["STORAGE_CONTAINER"] = strings.TrimSpace(val)

	fmt.Println("")
	if err := saveDotEnv(dataDir, env); err != nil {
		return fmt.Errorf("failed to save .env file: %w", err)
	}

	fmt.Printf("Configuration saved to %s/.env\n", dataDir)
	fmt.Println("You can edit this file later to change your settings.")
	fmt.Println("")

	return nil
}

// watchExecutable watches the current executable for modifications and calls
// stop to trigger graceful shutdown when detected. This enables seamless
// restarts during development.
func watchExecutable(ctx context.Context, stop context.CancelFunc) error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(exe); err != nil {
		_ = w.Close()
		return err
	}
	go func() {
		defer func() { _ = w.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Chmod) {
					slog.InfoContext(ctx, "Executable modified, initiating shutdown")
					stop()
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.WarnContext(ctx, "Error watching executable", "err", err)
			}
		}
	}()
	return nil
}
