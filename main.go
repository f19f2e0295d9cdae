package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"digitpad/app"
	"digitpad/config"
	"digitpad/fonts"
	"digitpad/hal"
	"digitpad/infer"
	"digitpad/internal/buildinfo"
)

func main() {
	var (
		cfgPath    string
		headless   hal.HeadlessConfig
		mode       string
		url        string
		model      string
		scale      int
		scriptPath string
		version    bool
	)
	flag.StringVar(&cfgPath, "config", "", "Config file (TOML). Defaults to $DIGITPAD_CONFIG or ~/.config/digitpad/config.toml.")
	flag.BoolVar(&headless.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&headless.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&headless.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run until closed).")
	flag.StringVar(&scriptPath, "script", "", "Input script replayed in headless mode.")
	flag.StringVar(&headless.ScreenshotPath, "screenshot", "", "Write the last frame as PNG when headless mode exits.")
	flag.StringVar(&mode, "mode", config.ModeLive, "Inference trigger: live|on-demand.")
	flag.StringVar(&url, "classifier-url", "", "TensorFlow Serving base URL (empty = no classifier).")
	flag.StringVar(&model, "model", "mnist", "Model name on the serving endpoint.")
	flag.IntVar(&scale, "scale", 1, "Window scale factor.")
	flag.BoolVar(&version, "version", false, "Print version and exit.")
	flag.Parse()

	if version {
		fmt.Println(buildinfo.String())
		return
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.Mode = mode
		case "classifier-url":
			cfg.Classifier.URL = url
		case "model":
			cfg.Classifier.Model = model
		case "scale":
			cfg.Window.Scale = scale
		case "hz":
			cfg.Headless.Hz = headless.Hz
		}
	})
	if err := cfg.Validate(); err != nil {
		fatalf("%v", err)
	}
	headless.Hz = cfg.Headless.Hz

	appMode, err := app.ParseMode(cfg.Mode)
	if err != nil {
		fatalf("%v", err)
	}
	clf, err := newClassifier(cfg.Classifier)
	if err != nil {
		fatalf("%v", err)
	}

	fnt := fonts.Load()
	appCfg := app.Config{
		Mode:         appMode,
		HistoryDepth: cfg.History.Depth,
		InferTimeout: cfg.Classifier.Timeout,
	}
	newApp := func(h hal.HAL) func() error {
		h.Logger().WriteLineString("digitpad " + buildinfo.Short())
		if cfg.Classifier.URL == "" {
			h.Logger().WriteLineString("infer: no classifier configured, readouts stay at 0")
		}
		return app.New(h, clf, fnt, appCfg).Step
	}

	if headless.Enabled {
		if scriptPath != "" {
			f, err := os.Open(scriptPath)
			if err != nil {
				fatalf("script: %v", err)
			}
			headless.Script, err = hal.ParseScript(f)
			_ = f.Close()
			if err != nil {
				fatalf("%v", err)
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, headless); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			fatalf("%v", err)
		}
		return
	}

	wcfg := hal.WindowConfig{Scale: cfg.Window.Scale, Title: cfg.Window.Title}
	if err := hal.RunWindow(wcfg, newApp); err != nil {
		fatalf("%v", err)
	}
}

// newClassifier connects to the configured model server and probes it so a
// missing model fails at startup rather than on the first stroke.
func newClassifier(cfg config.ClassifierConfig) (infer.Classifier, error) {
	if cfg.URL == "" {
		return infer.Zero{}, nil
	}
	s := infer.NewTFServing(cfg.URL, cfg.Model)
	s.Version = cfg.Version

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Probe(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
