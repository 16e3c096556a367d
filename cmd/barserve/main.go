/*
Package main implements the selection-controller server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

BarServe decides what an address-bar style input should do with the top
suggestion while results are still arriving: when to pre-select the first
real suggestion, when to let a typed URL, domain or shortcut pass straight
through, and how long a premature Enter may wait for late results before the
raw text commits anyway. It can operate as a MessagePack IPC server for
integration with host shells, or as a CLI application for testing and
debugging.

# Usage

Start the server with default settings:

	barserve

Use a custom data directory and enable debug mode:

	barserve -data /path/to/data -d

Run in CLI mode for interactive testing:

	barserve -c -limit 10

The data directory holds msgpack files: history.mpack with visited entries
feeding the suggestion list, and shortcuts.mpack with user-defined keyword
shortcuts backing the keyword cache.

# Configuration

Runtime configuration is managed through a TOML file:

	[selection]
	max_wait_ms = 350

	[keyword]
	prewarm = true

	[engines]
	"@gh" = "https://github.com/search?q=%s"

The config file is automatically created with defaults if it doesn't exist.
max_wait_ms bounds the Enter-wait; the actual delay shrinks with input
length, so a specific query waits less than a one-letter one.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. A host attaches
one session per input field and streams text changes and key events:

	{"id": "r1", "cmd": "attach", "sid": "bar1"}
	{"id": "r2", "cmd": "type", "sid": "bar1", "text": "cats"}
	{"id": "r3", "cmd": "key", "sid": "bar1", "key": "enter"}

Responses carry the settled session state: field value and caret, result
count, selected index, whether a suppressed Enter is still awaiting results,
and the commit count.

# Selection Core

The core lives in the selection package. One controller attaches per field,
subscribing to list growth and key events; all transitions run on a single
event loop (sched package), and every deferred action re-validates its
preconditions at fire time, so racing completions degrade to silent no-ops.

	ctrl := selection.Attach(selection.Config{...})

The keyword package answers shortcut membership without blocking by caching
tri-state answers process-wide and warming the cache from the shortcut
store at startup.

# Command Line Flags

The following flags control application behavior:

	-data string
	    Directory containing the msgpack data files (default "data/")
	-config string
	    Custom config file path
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of history matches per search (default from config)
	-wait int
	    Max Enter-wait in milliseconds (default from config)
	-no-warm
	    Skip bulk-loading stored shortcuts into the keyword cache

The application resolves data and config paths relative to the executable
location, supporting both development and production deployments.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/bastiangx/barserve/internal/cli"
	"github.com/bastiangx/barserve/internal/logger"
	"github.com/bastiangx/barserve/internal/utils"
	"github.com/bastiangx/barserve/pkg/classify"
	"github.com/bastiangx/barserve/pkg/config"
	"github.com/bastiangx/barserve/pkg/history"
	"github.com/bastiangx/barserve/pkg/keyword"
	"github.com/bastiangx/barserve/pkg/registry"
	"github.com/bastiangx/barserve/pkg/sched"
	"github.com/bastiangx/barserve/pkg/server"
)

const (
	Version = "0.3.0-beta"
	AppName = "barserve"
	gh      = "https://github.com/bastiangx/barserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires the packages together and manages the flow; the logic lives
// in the packages it calls.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	dataDir := flag.String("data", defaultConfig.Data.Dir, "Directory containing the msgpack data files")
	configPathFlag := flag.String("config", "", "Custom config file path")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of history matches per search")
	waitMs := flag.Int("wait", defaultConfig.Selection.MaxWaitMs, "Max Enter-wait in milliseconds")
	noWarm := flag.Bool("no-warm", false, "Skip bulk-loading stored shortcuts into the keyword cache")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}

	configPath, err := pathResolver.GetConfigPath("barserve-config.toml")
	if err != nil {
		log.Fatalf("Failed to determine config path: (%v)", err)
	}
	appConfig, activePath, _ := config.LoadConfigWithPriority(*configPathFlag, configPath)
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))

	resolvedDataDir, err := pathResolver.GetDataDir(*dataDir)
	if err != nil {
		log.Fatalf("Failed to resolve data dir: (%v)", err)
	}
	log.Debugf("Using data dir at: %s", resolvedDataDir)

	engines := registry.NewEngineSet()
	for alias, searchURL := range appConfig.Engines {
		engines.Add(registry.Engine{
			Alias:     alias,
			Name:      strings.TrimPrefix(alias, "@"),
			SearchURL: searchURL,
		})
	}

	store := registry.NewStore(filepath.Join(resolvedDataDir, appConfig.Data.ShortcutsFile))
	keywords := keyword.New(engines, store)
	if appConfig.Keyword.Prewarm && !*noWarm {
		if err := keywords.Warm(context.Background()); err != nil {
			log.Warnf("Shortcut cache warm failed, relying on lazy lookups: %v", err)
		}
	}
	classifier := classify.New(keywords)

	provider := history.NewProvider(*limit)
	historyPath := filepath.Join(resolvedDataDir, appConfig.Data.HistoryFile)
	if err := provider.Load(historyPath); err != nil {
		log.Warnf("Failed to load history from %s: %v", historyPath, err)
	}
	log.Debugf("History entries indexed: %d", provider.Len())

	maxWait := time.Duration(*waitMs) * time.Millisecond

	if *cliMode {
		log.SetReportTimestamp(false)
		handler := cli.NewInputHandler(classifier, provider, engines, maxWait)
		if err := handler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	loop := sched.NewLoop()
	srv := server.NewServer(loop, classifier, provider, maxWait)

	showStartupInfo(resolvedDataDir)

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// printVersion displays the styled version banner.
func printVersion() {
	banner := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ BarServe ] Serves address-bar selection decisions!")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(dataDir string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("==========")
	println(" BarServe ")
	println("==========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("data dir: ( %s )", dataDir)
	log.Info("status: ready")
	println("==========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
