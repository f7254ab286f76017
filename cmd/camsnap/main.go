// Package main provides the CLI entry point for camsnap.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/camsnap/pkg/adapters/base64codec"
	"github.com/user/camsnap/pkg/adapters/gstsource"
	"github.com/user/camsnap/pkg/adapters/jpegcompressor"
	"github.com/user/camsnap/pkg/adapters/logger"
	"github.com/user/camsnap/pkg/adapters/mountfs"
	"github.com/user/camsnap/pkg/adapters/osfilesystem"
	"github.com/user/camsnap/pkg/adapters/patternsource"
	"github.com/user/camsnap/pkg/adapters/queuesource"
	"github.com/user/camsnap/pkg/adapters/s3filesystem"
	"github.com/user/camsnap/pkg/config"
	"github.com/user/camsnap/pkg/ports"
	"github.com/user/camsnap/pkg/snapshot"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:    "camsnap",
		Usage:   l10n.T("Capture camera frames and encode images as Base64 text"),
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   l10n.T("Path to a YAML configuration file"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   l10n.T("Log level (debug, info, warn, error, quiet)"),
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: l10n.T("Log format (console, json)"),
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"Q"},
				Usage:   l10n.T("Suppress all log output"),
			},
		},
		Commands: []*cli.Command{
			captureCommand(),
			encodeCommand(),
			mountsCommand(),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "camsnap: %v\n", err)
		os.Exit(1)
	}
}

func captureCommand() *cli.Command {
	return &cli.Command{
		Name:  "capture",
		Usage: l10n.T("Capture one camera frame and print it as Base64 text"),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "source",
				Usage: l10n.T("Frame source kind (v4l2, rtsp, pattern)"),
			},
			&cli.StringFlag{
				Name:  "device",
				Usage: l10n.T("V4L2 camera device path"),
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: l10n.T("RTSP stream URL"),
			},
			&cli.StringFlag{
				Name:  "pattern",
				Usage: l10n.T("Test pattern (colorbars, gradient, grid)"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   l10n.T("Write the text to this path instead of stdout"),
			},
			&cli.BoolFlag{
				Name:  "data-uri",
				Usage: l10n.T("Wrap the output as a data:image/jpeg;base64 URI"),
			},
			&cli.IntFlag{
				Name:    "attempts",
				Aliases: []string{"a"},
				Value:   1,
				Usage:   l10n.T("Retry up to this many times when no frame is available"),
			},
		},
		Action: runCapture,
	}
}

func encodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "encode",
		Usage:     l10n.T("Encode a file from a mounted filesystem as Base64 text"),
		ArgsUsage: "PATH",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   l10n.T("Write the text to this path instead of stdout"),
			},
			&cli.StringFlag{
				Name:  "mime",
				Value: "application/octet-stream",
				Usage: l10n.T("MIME type used with --data-uri"),
			},
			&cli.BoolFlag{
				Name:  "data-uri",
				Usage: l10n.T("Wrap the output as a data URI"),
			},
		},
		Action: runEncode,
	}
}

func mountsCommand() *cli.Command {
	return &cli.Command{
		Name:   "mounts",
		Usage:  l10n.T("List the configured filesystem mounts"),
		Action: runMounts,
	}
}

// loadConfig layers the configuration and applies CLI overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.Context, c.String("config"))
	if err != nil {
		return cfg, err
	}

	if v := c.String("source"); v != "" {
		cfg.Source.Kind = v
	}
	if v := c.String("device"); v != "" {
		cfg.Source.Device = v
	}
	if v := c.String("url"); v != "" {
		cfg.Source.URL = v
	}
	if v := c.String("pattern"); v != "" {
		cfg.Source.Pattern = v
	}
	if v := c.String("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v := c.String("log-format"); v != "" {
		cfg.Log.Format = v
	}
	if c.Bool("quiet") {
		cfg.Log.Level = "quiet"
	}

	return cfg, cfg.Validate()
}

// buildLogger selects the log adapter for the configuration.
func buildLogger(cfg config.LogConfig) ports.Logger {
	level := ports.ParseLogLevel(cfg.Level)
	if level == ports.LevelQuiet {
		return logger.NewNoop()
	}
	if cfg.Format == "json" {
		return logger.NewZerolog(os.Stderr, level)
	}
	return logger.NewConsole(level)
}

// buildSource constructs the configured frame source. The returned
// stop function tears down any capture pipeline.
func buildSource(ctx context.Context, cfg config.Config, log ports.Logger) (ports.FrameSource, func(), error) {
	switch cfg.Source.Kind {
	case config.SourcePattern:
		src, err := patternsource.New(patternsource.Config{
			Pattern: patternsource.Pattern(cfg.Source.Pattern),
			Width:   cfg.Source.Width,
			Height:  cfg.Source.Height,
			Slots:   cfg.Source.Slots,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Debug(l10n.F("Pattern source generating %s frames", src.Pattern()))
		return src, func() {}, nil

	case config.SourceV4L2, config.SourceRTSP:
		kind := gstsource.KindV4L2
		if cfg.Source.Kind == config.SourceRTSP {
			kind = gstsource.KindRTSP
		}
		src, err := gstsource.New(gstsource.Config{
			Kind:   kind,
			Device: cfg.Source.Device,
			URL:    cfg.Source.URL,
			Width:  cfg.Source.Width,
			Height: cfg.Source.Height,
			FPS:    cfg.Source.FPS,
			Queue: queuesource.Config{
				Slots:          cfg.Source.Slots,
				AcquireTimeout: acquireTimeout(cfg),
			},
		}, log)
		if err != nil {
			return nil, nil, err
		}
		if err := src.Start(ctx); err != nil {
			return nil, nil, err
		}
		return src, src.Stop, nil

	default:
		return nil, nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}

func acquireTimeout(cfg config.Config) time.Duration {
	return time.Duration(cfg.Source.AcquireTimeoutMs) * time.Millisecond
}

// buildFileSystem constructs the mount table from the configuration.
func buildFileSystem(ctx context.Context, cfg config.Config) (*mountfs.FileSystem, error) {
	fs := mountfs.New()
	for _, m := range cfg.Mounts {
		switch m.Backend {
		case config.BackendOS:
			fs.Mount(m.Prefix, osfilesystem.NewRooted(m.Root))
		case config.BackendS3:
			backend, err := s3filesystem.New(ctx, s3filesystem.Config{
				Bucket:          m.Bucket,
				Region:          m.Region,
				Endpoint:        m.Endpoint,
				AccessKeyID:     m.AccessKeyID,
				SecretAccessKey: m.SecretAccessKey,
				KeyPrefix:       m.KeyPrefix,
			})
			if err != nil {
				return nil, fmt.Errorf("mount %s: %w", m.Prefix, err)
			}
			fs.Mount(m.Prefix, backend)
		default:
			return nil, fmt.Errorf("mount %s: unknown backend %q", m.Prefix, m.Backend)
		}
	}
	fs.SetFallback(osfilesystem.New())
	return fs, nil
}

func runCapture(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log := buildLogger(cfg.Log)

	source, stop, err := buildSource(c.Context, cfg, log)
	if err != nil {
		return err
	}
	defer stop()

	codec := base64codec.New()
	enc := snapshot.New(
		source,
		jpegcompressor.NewWithOptions(jpegcompressor.Options{
			Quality:   cfg.Compressor.Quality,
			MaxWidth:  cfg.Compressor.MaxWidth,
			MaxHeight: cfg.Compressor.MaxHeight,
		}),
		codec,
		nil,
		log,
	)

	// The encoder makes one attempt per call; bounded retry lives
	// here at the call site.
	attempts := c.Int("attempts")
	if attempts < 1 {
		attempts = 1
	}
	var text string
	for try := 1; ; try++ {
		text, err = enc.CaptureFrame(c.Context)
		if err == nil {
			break
		}
		if !errors.Is(err, ports.ErrNoFrame) || try >= attempts {
			if errors.Is(err, ports.ErrNoFrame) {
				log.Error(l10n.F("No image available after %d attempts", attempts))
			}
			return err
		}
		log.Warn(l10n.F("Retrying capture (%d/%d)...", try+1, attempts))
	}

	if c.Bool("data-uri") {
		data, derr := codec.Decode(text)
		if derr != nil {
			return derr
		}
		text = codec.DataURI("image/jpeg", data)
	}
	return writeOutput(c, cfg, log, text)
}

func runEncode(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("encode requires exactly one PATH argument")
	}
	path := c.Args().First()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log := buildLogger(cfg.Log)

	fs, err := buildFileSystem(c.Context, cfg)
	if err != nil {
		return err
	}

	codec := base64codec.New()
	enc := snapshot.New(nil, nil, codec, fs, log)

	text, err := enc.EncodeFile(c.Context, path)
	if err != nil {
		return err
	}

	if c.Bool("data-uri") {
		data, derr := codec.Decode(text)
		if derr != nil {
			return derr
		}
		text = codec.DataURI(c.String("mime"), data)
	}
	return writeOutput(c, cfg, log, text)
}

func runMounts(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	for _, m := range cfg.Mounts {
		target := m.Root
		if m.Backend == config.BackendS3 {
			target = "s3://" + m.Bucket + "/" + m.KeyPrefix
		}
		fmt.Printf("%s:/  %-4s %s\n", m.Prefix, m.Backend, target)
	}
	return nil
}

// writeOutput prints the text to stdout, or routes it through the
// mount table when --output is set so results can land on any backend.
func writeOutput(c *cli.Context, cfg config.Config, log ports.Logger, text string) error {
	out := c.String("output")
	if out == "" || out == "-" {
		fmt.Println(text)
		return nil
	}

	fs, err := buildFileSystem(c.Context, cfg)
	if err != nil {
		return err
	}
	if err := fs.WriteFile(c.Context, out, []byte(text)); err != nil {
		log.Error(l10n.F("Failed to write output: %s", err))
		return err
	}
	return nil
}
