// Package main implements the gones NES emulator executable.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"

	"gones/internal/app"
	"gones/internal/version"
)

func main() {
	defer glog.Flush()

	var (
		romFile        = flag.String("rom", "", "Path to NES ROM file (optional for GUI mode)")
		configFile     = flag.String("config", "", "Path to configuration file")
		debug          = flag.Bool("debug", false, "Enable debug mode")
		nogui          = flag.Bool("nogui", false, "Run without GUI (headless mode)")
		headlessFrames = flag.Int("frames", 120, "Frames to run before exiting in headless mode")
		help           = flag.Bool("help", false, "Show help message")
		version        = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	if *version {
		printVersion()
		os.Exit(0)
	}

	setupGracefulShutdown()

	glog.Info("gones starting")

	configPath := *configFile
	if configPath == "" {
		configPath = app.GetDefaultConfigPath()
	}

	application, err := app.NewApplicationWithMode(configPath, *nogui)
	if err != nil {
		glog.Exitf("failed to create application: %v", err)
	}

	if *nogui {
		config := application.GetConfig()
		config.Video.Backend = "headless"
		glog.V(1).Info("headless mode requested")
	}
	defer func() {
		if err := application.Cleanup(); err != nil {
			glog.Errorf("application cleanup error: %v", err)
		}
	}()

	if *debug {
		config := application.GetConfig()
		config.UpdateDebug(true, true, true)
		application.ApplyDebugSettings()
		glog.V(1).Info("debug mode enabled")
	}

	if *romFile != "" {
		glog.Infof("loading ROM: %s", *romFile)
		if err := application.LoadROM(*romFile); err != nil {
			glog.Exitf("failed to load ROM: %v", err)
		}
		glog.V(1).Info("ROM loaded")

		// PPU is recreated on ROM load, so debug settings must be reapplied.
		if *debug {
			application.ApplyDebugSettings()
		}
	}

	if *nogui {
		if *romFile == "" {
			glog.Exit("ROM file required for headless mode")
		}
		runHeadlessMode(application, *headlessFrames)
	} else {
		glog.V(1).Info("starting GUI mode")
		if err := runGUIMode(application); err != nil {
			glog.Exitf("GUI mode failed: %v", err)
		}
	}

	glog.Info("gones shutting down")
}

// runGUIMode runs the full GUI application.
func runGUIMode(application *app.Application) error {
	config := application.GetConfig()
	windowWidth, windowHeight := config.GetWindowResolution()
	glog.V(1).Infof("window %dx%d (scale %dx)", windowWidth, windowHeight, config.Window.Scale)
	glog.V(1).Infof("audio: %s (%d Hz, %.0f%% volume)",
		enabledString(config.Audio.Enabled),
		config.Audio.SampleRate,
		config.Audio.Volume*100)
	glog.V(1).Infof("video: %s, %s, vsync=%s",
		config.Video.Filter,
		config.Video.AspectRatio,
		enabledString(config.Video.VSync))

	if err := application.Run(); err != nil {
		return fmt.Errorf("application run failed: %v", err)
	}

	glog.Infof("session stats: frames=%d uptime=%v avg_fps=%.1f",
		application.GetFrameCount(), application.GetUptime(), application.GetFPS())

	return nil
}

// runHeadlessMode runs the bus for a fixed number of frames without a graphics
// backend, used for automated ROM smoke-testing and CI.
func runHeadlessMode(application *app.Application, targetFrames int) {
	glog.Infof("running headless for %d frames", targetFrames)

	nesBus := application.GetBus()
	if nesBus == nil {
		glog.Error("bus not initialized")
		return
	}

	const cpuCyclesPerFrame = 29780
	for frame := 0; frame < targetFrames; frame++ {
		for cycles := 0; cycles < cpuCyclesPerFrame; cycles++ {
			nesBus.Step()
		}
		if frame%30 == 29 {
			glog.V(1).Infof("%d/%d frames complete", frame+1, targetFrames)
		}
	}

	glog.Infof("headless run complete: %d frames", targetFrames)
}

// setupGracefulShutdown sets up signal handling for graceful shutdown.
func setupGracefulShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		glog.Info("interrupt received, shutting down")
		glog.Flush()
		os.Exit(0)
	}()
}

// enabledString returns "enabled" or "disabled" based on boolean value.
func enabledString(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

func printVersion() {
	version.PrintBuildInfo()
}

func printUsage() {
	fmt.Println("gones - Go NES Emulator")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  A cycle-accurate NES (Nintendo Entertainment System) emulator core")
	fmt.Println("  written in Go, with an Ebitengine-based GUI frontend.")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  gones [options]                    # Start GUI mode without ROM")
	fmt.Println("  gones -rom <file> [options]        # Start with ROM loaded")
	fmt.Println("  gones -nogui -rom <file> [options] # Run headless mode")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  gones                              # Start GUI, load ROM from menu")
	fmt.Println("  gones -rom game.nes                # Start with ROM loaded")
	fmt.Println("  gones -rom game.nes -debug         # Start with debug info enabled")
	fmt.Println("  gones -config custom.json          # Use custom configuration")
	fmt.Println("  gones -nogui -rom test.nes -frames 600 # Run 600 frames headless")
	fmt.Println()
	fmt.Println("CONTROLS (Default):")
	fmt.Println("  Player 1:")
	fmt.Println("    Arrow Keys / WASD - D-Pad")
	fmt.Println("    J / Z             - A Button")
	fmt.Println("    K / X             - B Button")
	fmt.Println("    Enter             - Start")
	fmt.Println("    Space             - Select")
	fmt.Println()
	fmt.Println("  Special Keys:")
	fmt.Println("    Escape (2x)       - Quit (double-tap within 3 seconds)")
	fmt.Println("    F11               - Toggle Fullscreen")
	fmt.Println("    F12               - Screenshot")
	fmt.Println()
	fmt.Println("CONFIGURATION:")
	fmt.Println("  Config file: ./config/gones.json")
	fmt.Println("  ROMs:        ./roms/")
	fmt.Println("  Screenshots: ./screenshots/")
	fmt.Println()
	fmt.Println("SUPPORTED MAPPERS:")
	fmt.Println("  - NROM (0), MMC1 (1), UxROM (2), CNROM (3), MMC3 (4)")
	fmt.Println()
	fmt.Println("For more information, visit the project documentation.")
}
