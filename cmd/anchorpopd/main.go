// Package main is the entry point for the anchorpopd popup daemon.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/anchorpop/internal/config"
	"github.com/jmylchreest/anchorpop/internal/dbus"
	"github.com/jmylchreest/anchorpop/internal/geom"
	"github.com/jmylchreest/anchorpop/internal/popup"
	"github.com/jmylchreest/anchorpop/internal/surface/layershell"
	"github.com/jmylchreest/anchorpop/internal/theme"
	"github.com/jmylchreest/anchorpop/internal/watch"
)

const (
	appID   = "io.github.jmylchreest.anchorpopd"
	appName = "anchorpopd"
)

var (
	// Build-time variables
	version = "dev"
)

type options struct {
	anchor     geom.Rect
	monitor    int
	configPath string
	text       string
	textFile   string
	noDBus     bool
}

func main() {
	anchor := flag.String("anchor", "", "Anchor rectangle x,y,width,height in monitor coordinates (required)")
	monitor := flag.Int("monitor", 0, "Monitor to show the popup on (1-based, 0 for the first)")
	configPath := flag.String("config", "", "Path to config file (default: ~/.config/anchorpop/config.toml)")
	text := flag.String("text", "", "Popup text")
	textFile := flag.String("text-file", "", "Read the popup text from a file and follow its changes")
	noDBus := flag.Bool("no-dbus", false, "Do not export the D-Bus control interface")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(appName, "version", version)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	r, err := geom.ParseRect(*anchor)
	if err != nil {
		logger.Error("invalid --anchor", "value", *anchor, "error", err)
		os.Exit(2)
	}

	opts := options{
		anchor:     r,
		monitor:    *monitor,
		configPath: *configPath,
		text:       *text,
		textFile:   *textFile,
		noDBus:     *noDBus,
	}
	if opts.configPath == "" {
		opts.configPath = config.ConfigPath()
	}

	os.Exit(run(opts, logger))
}

func run(opts options, logger *slog.Logger) int {
	logger.Info("starting anchorpopd", "version", version)

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return 1
	}

	app := adw.NewApplication(appID, 0)

	// Shared state between the GTK main loop and signal handlers
	var (
		surface       *layershell.Surface
		ctl           *control
		themeLoader   *theme.Loader
		configWatcher *config.Watcher
		textWatcher   *watch.FileWatcher
		running       atomic.Bool
	)

	stop := func() {
		if themeLoader != nil {
			themeLoader.StopHotReload()
		}
		if configWatcher != nil {
			_ = configWatcher.Stop()
			configWatcher = nil
		}
		if textWatcher != nil {
			_ = textWatcher.Stop()
			textWatcher = nil
		}
		if ctl != nil {
			if ctl.server != nil {
				_ = ctl.server.Stop()
			}
			if ctl.pop != nil && ctl.pop.Shown() {
				_ = ctl.pop.Dismiss()
			}
		}
		if surface != nil {
			surface.Close()
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		// Stop components in GTK main loop context
		glib.IdleAdd(func() {
			if running.Load() {
				stop()
				app.Quit()
			}
		})
	}()

	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		themeLoader = theme.NewLoader(logger)
		if err := loadTheme(themeLoader, cfg); err != nil {
			logger.Warn("failed to load theme, using default", "error", err)
		}

		text := opts.text
		if opts.textFile != "" {
			if data, err := os.ReadFile(opts.textFile); err != nil {
				logger.Warn("failed to read text file", "path", opts.textFile, "error", err)
			} else {
				text = strings.TrimRight(string(data), "\n")
			}
		}
		label := layershell.NewLabel(text)

		mon := layershell.Monitor(opts.monitor, logger)
		frame := layershell.Frame(mon)
		if frame.Empty() {
			logger.Error("no usable monitor geometry")
			app.Quit()
			return
		}

		ctl = &control{
			label:  label,
			logger: logger,
			anchor: opts.anchor,
			root:   frame.Origin(),
			frame:  frame,
		}

		surface = layershell.NewSurface(&app.Application, label, mon, logger)
		pop, err := popup.New(popup.Config{
			Settings:    popup.SettingsFromConfig(cfg),
			Surface:     surface,
			Scheduler:   layershell.IdleScheduler{},
			Theme:       themeLoader,
			Logger:      logger,
			OnPlacement: ctl.placed,
		})
		if err != nil {
			logger.Error("failed to create popup", "error", err)
			app.Quit()
			return
		}
		pop.SetContent(label)
		ctl.pop = pop

		if !opts.noDBus {
			server := dbus.NewControlServer(ctl, logger)
			server.SetServerInfo(dbus.ServerInfo{Name: appName, Version: version})
			if err := server.Start(); err != nil {
				logger.Warn("failed to start D-Bus control server", "error", err)
			} else {
				ctl.server = server
			}
		}

		if err := ctl.show(); err != nil {
			logger.Error("failed to show popup", "error", err)
		}

		// GTK lays the label out after it is mapped; pick up its real size.
		label.ConnectMap(func() {
			glib.IdleAdd(func() {
				pop.Layout()
			})
		})

		if cfg.Theme.HotReload {
			themeLoader.SetChangeCallback(func(*theme.Theme) {
				glib.IdleAdd(func() {
					if pop.Shown() {
						if err := pop.Refresh(); err != nil {
							logger.Warn("failed to refresh popup", "error", err)
						}
					}
				})
			})
			if err := themeLoader.StartHotReload(); err != nil {
				logger.Warn("failed to start theme hot-reload", "error", err)
			}
		}

		configWatcher, err = config.Watch(opts.configPath, logger, func(newConfig *config.Config) {
			glib.IdleAdd(func() {
				themeChanged := newConfig.Theme.Name != cfg.Theme.Name || newConfig.Theme.Path != cfg.Theme.Path
				cfg = newConfig
				if themeChanged {
					if err := loadTheme(themeLoader, cfg); err != nil {
						logger.Warn("failed to load new theme", "theme", cfg.Theme.Name, "error", err)
					}
				}
				pop.SetSettings(popup.SettingsFromConfig(cfg))
				// Direction and sizing may change, so solve again from the anchor.
				if err := ctl.show(); err != nil {
					logger.Warn("failed to show popup after config reload", "error", err)
				}
				logger.Info("config reloaded")
			})
		})
		if err != nil {
			logger.Warn("failed to start config watcher", "error", err)
		}

		if opts.textFile != "" {
			textWatcher, err = watch.NewFileWatcher(opts.textFile, logger)
			if err != nil {
				logger.Warn("failed to create text watcher", "error", err)
			} else {
				textWatcher.SetChangeCallback(func() {
					data, err := os.ReadFile(opts.textFile)
					if err != nil {
						logger.Debug("failed to read text file", "error", err)
						return
					}
					glib.IdleAdd(func() {
						ctl.setText(strings.TrimRight(string(data), "\n"))
					})
				})
				if err := textWatcher.Start(); err != nil {
					logger.Warn("failed to start text watcher", "error", err)
				}
			}
		}

		logger.Info("anchorpopd ready", "popup", pop.ID(), "anchor", opts.anchor, "frame", frame)

		keepAliveWindow := gtk.NewWindow()
		keepAliveWindow.SetApplication(&app.Application)
		keepAliveWindow.SetDefaultSize(1, 1)
		keepAliveWindow.SetDecorated(false)
		keepAliveWindow.SetVisible(false)
	})

	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		stop()
		running.Store(false)
	})

	status := app.Run([]string{os.Args[0]})
	if status != 0 {
		logger.Error("application exited with error", "status", status)
		return status
	}

	logger.Info("anchorpopd stopped")
	return 0
}

func loadTheme(loader *theme.Loader, cfg *config.Config) error {
	if cfg.Theme.Path != "" {
		return loader.LoadFile(cfg.Theme.Path)
	}
	return loader.LoadTheme(cfg.Theme.Name)
}
