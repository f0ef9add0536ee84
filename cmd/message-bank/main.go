// ABOUTME: Entry point for the message-bank web server
// ABOUTME: Provides serve, init, and health subcommands

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/2389/message-bank/internal/config"
	"github.com/2389/message-bank/internal/resubmit"
	"github.com/2389/message-bank/internal/store"
	"github.com/2389/message-bank/internal/web"
)

// healthTimeout bounds the whole health check request
const healthTimeout = 5 * time.Second

// resubmitCapacity bounds how many recent submissions the repeat guard remembers
const resubmitCapacity = 10000

// version is set at build time
var version = "dev"

const banner = `
                                                 _                 _
 _ __ ___   ___  ___ ___  __ _  __ _  ___       | |__   __ _ _ __ | | __
| '_ ' _ \ / _ \/ __/ __|/ _' |/ _' |/ _ \_____ | '_ \ / _' | '_ \| |/ /
| | | | | |  __/\__ \__ \ (_| | (_| |  __/_____|| |_) | (_| | | | |   <
|_| |_| |_|\___||___/___/\__,_|\__, |\___|      |_.__/ \__,_|_| |_|_|\_\
                               |___/
`

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: message-bank <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve    Start the web server")
		fmt.Println("  init     Create a new config file interactively")
		fmt.Println("  health   Check server health")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit(os.Stdin, os.Stdout)
	case "health":
		err = runHealth(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := config.DefaultPath()

	// Print banner
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.LoadOptional(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:    %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:      %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("Database:  %s (%s)\n", cfg.Database.Path, cfg.Database.Driver)
	fmt.Println()

	logger.Info("starting message-bank",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
		"database", cfg.Database.Path,
	)

	st, err := store.NewSQLiteStore(cfg.Database.Path,
		store.WithDriver(cfg.Database.Driver),
		store.WithBusyTimeout(cfg.Database.BusyTimeout),
		store.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	opts := web.Options{
		Title:        cfg.Bank.Title,
		SampleSize:   cfg.Bank.SampleSize,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	if cfg.Bank.ResubmitWindow > 0 {
		opts.Resubmit = resubmit.New(cfg.Bank.ResubmitWindow, resubmitCapacity)
		defer opts.Resubmit.Close()
	}

	srv, err := web.New(st, opts, logger)
	if err != nil {
		return fmt.Errorf("creating web server: %w", err)
	}

	return srv.Run(ctx, cfg.Server.HTTPAddr)
}

func runHealth(ctx context.Context) error {
	cfg, err := config.LoadOptional(config.DefaultPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	return checkHealth(ctx, newHealthClient(healthTimeout), "http://"+cfg.Server.HTTPAddr, os.Stdout)
}

// newHealthClient returns a client that gives up on a server that stops answering
func newHealthClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// checkHealth GETs baseURL/health and reports the message count on success
func checkHealth(ctx context.Context, client *http.Client, baseURL string, out io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	fmt.Fprintln(out, "healthy")
	return nil
}

// initAnswers holds the values collected by runInit
type initAnswers struct {
	configPath string
	httpAddr   string
	dbPath     string
	driver     string
	sampleSize int
	logLevel   string
	logFormat  string
}

func runInit(in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	fmt.Fprintln(out, "message-bank configuration setup")
	fmt.Fprintln(out, "================================")
	fmt.Fprintln(out)

	var a initAnswers
	a.configPath = prompt(reader, out, "Config file path", config.DefaultPath())

	if _, err := os.Stat(a.configPath); err == nil {
		overwrite := prompt(reader, out, "File exists. Overwrite?", "no")
		if strings.ToLower(overwrite) != "yes" && strings.ToLower(overwrite) != "y" {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	fmt.Fprintln(out, "\n--- Server Configuration ---")
	a.httpAddr = prompt(reader, out, "HTTP address", config.DefaultHTTPAddr)

	fmt.Fprintln(out, "\n--- Database Configuration ---")
	a.dbPath = prompt(reader, out, "SQLite database path", config.DefaultDatabasePath())
	a.driver = prompt(reader, out, "SQLite driver (sqlite/sqlite3)", config.DefaultDriver)

	fmt.Fprintln(out, "\n--- Message Bank ---")
	sampleStr := prompt(reader, out, "Messages shown on /view/", strconv.Itoa(config.DefaultSampleSize))
	n, err := strconv.Atoi(sampleStr)
	if err != nil || n < 0 {
		return fmt.Errorf("invalid sample size %q", sampleStr)
	}
	a.sampleSize = n

	fmt.Fprintln(out, "\n--- Logging Configuration ---")
	a.logLevel = prompt(reader, out, "Log level (debug/info/warn/error)", "info")
	a.logFormat = prompt(reader, out, "Log format (text/json)", "text")

	if err := writeConfigFile(a); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nConfig written to %s\n", a.configPath)
	fmt.Fprintf(out, "Data directory: %s\n", filepath.Dir(a.dbPath))
	fmt.Fprintln(out, "\nTo start the server:")
	fmt.Fprintln(out, "  message-bank serve")

	return nil
}

func writeConfigFile(a initAnswers) error {
	var cfg strings.Builder
	cfg.WriteString("# message-bank configuration\n")
	cfg.WriteString("# Generated by message-bank init\n\n")

	cfg.WriteString("server:\n")
	cfg.WriteString(fmt.Sprintf("  http_addr: %q\n", a.httpAddr))
	cfg.WriteString("  read_timeout: \"10s\"\n")
	cfg.WriteString("  write_timeout: \"10s\"\n")
	cfg.WriteString("\n")

	cfg.WriteString("database:\n")
	cfg.WriteString(fmt.Sprintf("  path: %q\n", a.dbPath))
	cfg.WriteString(fmt.Sprintf("  driver: %q\n", a.driver))
	cfg.WriteString("  busy_timeout: \"5s\"\n")
	cfg.WriteString("\n")

	cfg.WriteString("bank:\n")
	cfg.WriteString(fmt.Sprintf("  title: %q\n", config.DefaultTitle))
	cfg.WriteString(fmt.Sprintf("  sample_size: %d\n", a.sampleSize))
	cfg.WriteString("  resubmit_window: \"10s\"\n")
	cfg.WriteString("\n")

	cfg.WriteString("logging:\n")
	cfg.WriteString(fmt.Sprintf("  level: %q\n", a.logLevel))
	cfg.WriteString(fmt.Sprintf("  format: %q\n", a.logFormat))

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(a.configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(a.configPath, []byte(cfg.String()), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(a.dbPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	return nil
}

func prompt(reader *bufio.Reader, out io.Writer, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Fprintf(out, "%s [%s]: ", question, defaultVal)
	} else {
		fmt.Fprintf(out, "%s: ", question)
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		// On EOF or error, return default
		fmt.Fprintln(out)
		return defaultVal
	}
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultVal
	}
	return input
}
