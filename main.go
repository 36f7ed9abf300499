package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/shazow/wifichan/internal/history"
	wifilog "github.com/shazow/wifichan/internal/log"
	"github.com/shazow/wifichan/internal/monitor"
	"github.com/shazow/wifichan/internal/settings"
	"github.com/shazow/wifichan/internal/tui"
	"github.com/shazow/wifichan/wifi"
)

var (
	// Version is the version of the application. It is set at build time.
	Version string = "dev"
)

// main is the entry point of the application
func main() {
	var (
		rootFlagSet = flag.NewFlagSet("wifichan", flag.ExitOnError)
		configPath  = rootFlagSet.String("config", "", "path to settings toml file (env: WIFICHAN_CONFIG)")
		theme       = rootFlagSet.String("theme", "", "path to theme toml file (env: WIFICHAN_THEME)")
		logLevel    = rootFlagSet.String("log-level", "info", "log level: debug, info, warn or error (env: WIFICHAN_LOG_LEVEL)")
		debugLog    = rootFlagSet.String("debug-log", "", "write logs of the interactive UI to this file (env: WIFICHAN_DEBUG_LOG)")
		version     = rootFlagSet.Bool("version", false, "display version")
	)

	var (
		s     *settings.Settings
		level = new(slog.LevelVar)
	)

	tuiExec := func(ctx context.Context, args []string) error {
		if err := initTUILogging(*debugLog, level); err != nil {
			return err
		}
		b, err := GetBackend()
		if err != nil {
			return err
		}
		return runTUI(b, s)
	}

	tuiCmd := &ffcli.Command{
		Name:       "tui",
		ShortUsage: "wifichan tui",
		ShortHelp:  "Start the interactive UI (default)",
		Exec:       tuiExec,
	}

	listFlagSet := flag.NewFlagSet("list", flag.ExitOnError)
	listJSON := listFlagSet.Bool("json", false, "output in JSON format")
	listSort := listFlagSet.String("sort", "", "sort by strength, ssid or channel (default from settings)")
	listGroup := listFlagSet.String("group", "", "group by none, ssid or channel (default from settings)")
	listBand := listFlagSet.String("band", "", "only show one band: 2.4, 5 or 6")
	listSSID := listFlagSet.String("ssid", "", "only show access points whose ssid or bssid contains this")
	listCmd := &ffcli.Command{
		Name:       "list",
		ShortUsage: "wifichan list [flags]",
		ShortHelp:  "List nearby access points",
		FlagSet:    listFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			opts := listOptions{
				JSON:  *listJSON,
				Sort:  s.SortBy(),
				Group: s.GroupBy(),
				SSID:  *listSSID,
			}
			var err error
			if *listSort != "" {
				if opts.Sort, err = wifi.ParseSortBy(*listSort); err != nil {
					return err
				}
			}
			if *listGroup != "" {
				if opts.Group, err = wifi.ParseGroupBy(*listGroup); err != nil {
					return err
				}
			}
			if *listBand != "" {
				band, err := wifi.ParseBand(*listBand)
				if err != nil {
					return err
				}
				opts.Bands = []wifi.Band{band}
			}

			snapshot, err := scanWithBackend(ctx, s)
			if err != nil {
				return err
			}
			return runList(os.Stdout, snapshot, opts)
		},
	}

	channelsFlagSet := flag.NewFlagSet("channels", flag.ExitOnError)
	channelsBand := channelsFlagSet.String("band", "", "band to rate: 2.4, 5 or 6 (default from settings)")
	channelsJSON := channelsFlagSet.Bool("json", false, "output in JSON format")
	channelsCmd := &ffcli.Command{
		Name:       "channels",
		ShortUsage: "wifichan channels [flags]",
		ShortHelp:  "Rate the channels of a band",
		FlagSet:    channelsFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			band, err := parseBand(*channelsBand, s)
			if err != nil {
				return err
			}
			snapshot, err := scanWithBackend(ctx, s)
			if err != nil {
				return err
			}
			return runChannels(os.Stdout, snapshot, band, *channelsJSON)
		},
	}

	bestFlagSet := flag.NewFlagSet("best", flag.ExitOnError)
	bestBand := bestFlagSet.String("band", "", "band to rate: 2.4, 5 or 6 (default from settings)")
	bestAll := bestFlagSet.Bool("all", false, "consider every allowed channel, not only the preferred ones")
	bestLimit := bestFlagSet.Int("limit", 0, "show at most this many channels (0 for all)")
	bestJSON := bestFlagSet.Bool("json", false, "output in JSON format")
	bestCmd := &ffcli.Command{
		Name:       "best",
		ShortUsage: "wifichan best [flags]",
		ShortHelp:  "Show the least congested channels",
		FlagSet:    bestFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			band, err := parseBand(*bestBand, s)
			if err != nil {
				return err
			}
			if *bestLimit < 0 {
				return fmt.Errorf("invalid limit: %d", *bestLimit)
			}
			snapshot, err := scanWithBackend(ctx, s)
			if err != nil {
				return err
			}
			return runBest(os.Stdout, snapshot, bestOptions{
				Band:        band,
				All:         *bestAll,
				Limit:       *bestLimit,
				JSON:        *bestJSON,
				CountryCode: s.CountryCode(),
			})
		},
	}

	historyFlagSet := flag.NewFlagSet("history", flag.ExitOnError)
	historyDB := historyFlagSet.String("db", "", "path to the history database (default next to the settings file)")
	historyBSSID := historyFlagSet.String("bssid", "", "show the signal of one access point instead of recent scans")
	historySince := historyFlagSet.Duration("since", 24*time.Hour, "how far back to look for -bssid")
	historyLimit := historyFlagSet.Int("limit", 20, "show at most this many entries")
	historyCmd := &ffcli.Command{
		Name:       "history",
		ShortUsage: "wifichan history [flags]",
		ShortHelp:  "Show scans recorded by serve",
		FlagSet:    historyFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			path := *historyDB
			if path == "" {
				var err error
				if path, err = defaultHistoryPath(); err != nil {
					return err
				}
			}
			db, err := history.Open(ctx, path)
			if err != nil {
				return err
			}
			defer db.Close()
			return runHistory(ctx, os.Stdout, history.NewStore(db), historyOptions{
				BSSID: *historyBSSID,
				Since: *historySince,
				Limit: *historyLimit,
			})
		},
	}

	serveFlagSet := flag.NewFlagSet("serve", flag.ExitOnError)
	serveListen := serveFlagSet.String("listen", "127.0.0.1:8080", "address of the HTTP API (env: WIFICHAN_LISTEN)")
	serveDB := serveFlagSet.String("db", "", "record scans to this history database")
	serveInterval := serveFlagSet.Duration("interval", 0, "time between scans (default from settings)")
	serveRetention := serveFlagSet.Duration("retention", 7*24*time.Hour, "drop recorded scans older than this (0 keeps everything)")
	serveCmd := &ffcli.Command{
		Name:       "serve",
		ShortUsage: "wifichan serve [flags]",
		ShortHelp:  "Scan continuously and serve ratings over HTTP",
		FlagSet:    serveFlagSet,
		Options:    []ff.Option{ff.WithEnvVarPrefix("WIFICHAN")},
		Exec: func(ctx context.Context, args []string) error {
			interval := *serveInterval
			if interval == 0 {
				interval = s.ScanInterval()
			}
			if interval < settings.MinScanInterval {
				return fmt.Errorf("invalid interval %s: must be at least %s", interval, settings.MinScanInterval)
			}
			b, err := GetBackend()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, b, s, serveOptions{
				Listen:    *serveListen,
				DB:        *serveDB,
				Interval:  interval,
				Retention: *serveRetention,
			})
		},
	}

	configShowCmd := &ffcli.Command{
		Name:       "show",
		ShortUsage: "wifichan config show",
		ShortHelp:  "Print the stored settings",
		Exec: func(ctx context.Context, args []string) error {
			return runConfigShow(os.Stdout, s)
		},
	}

	configSetCmd := &ffcli.Command{
		Name:       "set",
		ShortUsage: "wifichan config set <key> <value>",
		ShortHelp:  "Change a setting, lists are comma separated",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("expected <key> <value>, got %d arguments", len(args))
			}
			return runConfigSet(s, args[0], args[1])
		},
	}

	configCmd := &ffcli.Command{
		Name:        "config",
		ShortUsage:  "wifichan config <subcommand>",
		ShortHelp:   "Show or change settings",
		Subcommands: []*ffcli.Command{configShowCmd, configSetCmd},
		Exec: func(ctx context.Context, args []string) error {
			return runConfigShow(os.Stdout, s)
		},
	}

	aboutCmd := &ffcli.Command{
		Name:       "about",
		ShortUsage: "wifichan about",
		ShortHelp:  "Show version and license information",
		Exec: func(ctx context.Context, args []string) error {
			return runAbout(os.Stdout, time.Now())
		},
	}

	root := &ffcli.Command{
		ShortUsage:  "wifichan [flags] <subcommand> [args...]",
		FlagSet:     rootFlagSet,
		Options:     []ff.Option{ff.WithEnvVarPrefix("WIFICHAN")},
		Subcommands: []*ffcli.Command{tuiCmd, listCmd, channelsCmd, bestCmd, historyCmd, serveCmd, configCmd, aboutCmd},
		Exec:        tuiExec,
	}

	// Parse the root flags first, the settings and logger are shared by
	// every subcommand.
	err := ff.Parse(rootFlagSet, os.Args[1:],
		ff.WithEnvVarPrefix("WIFICHAN"),
		ff.WithIgnoreUndefined(true),
	)
	if err != nil {
		if err == flag.ErrHelp {
			// ff.Parse doesn't print usage on ErrHelp, so we do it manually.
			root.FlagSet.Usage()
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error parsing flags: %v\n", err)
		os.Exit(1)
	}

	if *version {
		fmt.Println(Version)
		os.Exit(0)
	}

	lvl, err := wifilog.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	level.Set(lvl)
	wifilog.Init(wifilog.NewTextHandler(os.Stderr, level))

	s, err = openSettings(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	themePath := *theme
	if themePath == "" {
		themePath = s.Theme()
	}
	if err := tui.LoadThemeFile(themePath); err != nil {
		fmt.Fprintf(os.Stderr, "error loading theme: %v\n", err)
		os.Exit(1)
	}

	if err := root.ParseAndRun(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func openSettings(path string) (*settings.Settings, error) {
	if path == "" {
		var err error
		if path, err = settings.DefaultPath(); err != nil {
			return nil, fmt.Errorf("failed to find settings: %w", err)
		}
	}
	repo, err := settings.Open(path)
	if err != nil {
		return nil, err
	}
	return settings.New(repo), nil
}

// initTUILogging moves logging off the terminal while the UI owns it.
func initTUILogging(path string, level slog.Leveler) error {
	if path == "" {
		wifilog.Init(wifilog.NewTextHandler(io.Discard, level))
		return nil
	}
	f, err := wifilog.OpenFile(path)
	if err != nil {
		return err
	}
	wifilog.Init(wifilog.NewTextHandler(f, level))
	return nil
}

func scanWithBackend(ctx context.Context, s *settings.Settings) (snapshot monitor.Snapshot, err error) {
	b, err := GetBackend()
	if err != nil {
		return snapshot, err
	}
	return scan(ctx, b, s)
}

func parseBand(value string, s *settings.Settings) (wifi.Band, error) {
	if value == "" {
		return s.Band(), nil
	}
	return wifi.ParseBand(value)
}
