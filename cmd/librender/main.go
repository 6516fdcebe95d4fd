package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/librender/bytecode"
	"github.com/wippyai/librender/config"
	"github.com/wippyai/librender/script"
	"github.com/wippyai/librender/sink"
)

type options struct {
	stdout  io.Writer
	scripts []string
	out     string
	lock    bool
	hexDump bool
}

func main() {
	var (
		scripts     = flag.String("script", "", "Instruction scripts, .json or .msgpack (comma-separated)")
		out         = flag.String("out", "", "Output file, - for stdout (default from config)")
		configPath  = flag.String("config", "", "Path to librender.toml (default: search upward)")
		lock        = flag.Bool("lock", false, "Lock the stream before writing it")
		verbose     = flag.Bool("v", false, "Debug logging")
		hexDump     = flag.Bool("hex", false, "Print a hex dump of the stream")
		interactive = flag.Bool("i", false, "Interactive builder with TUI")
	)
	flag.Parse()

	if *scripts == "" && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: librender -script <page.json> [-out page.bin] [-lock] [-hex]")
		fmt.Fprintln(os.Stderr, "       librender -script a.json,b.msgpack -out -  (stream to stdout)")
		fmt.Fprintln(os.Stderr, "       librender -i [-out page.bin]  (interactive mode)")
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	bytecode.SetLogger(logger.Named("bytecode"))
	sink.SetLogger(logger.Named("sink"))

	outPath := *out
	if outPath == "" {
		outPath = cfg.OutputPath()
	}

	if *interactive {
		if err := runInteractive(cfg, outPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := options{
		stdout:  os.Stdout,
		scripts: strings.Split(*scripts, ","),
		out:     outPath,
		lock:    *lock,
		hexDump: *hexDump,
	}
	if err := run(ctx, cfg, logger, opts); err != nil {
		logger.Error("compile failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.FindAndLoad(".")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts options) error {
	pool := cfg.NewPool()

	// One buffer per script, so a failing script leaves the others untouched.
	bufs := make([]*bytecode.Buffer, 0, len(opts.scripts))
	defer func() {
		for _, b := range bufs {
			pool.Put(b)
		}
	}()

	for _, path := range opts.scripts {
		steps, err := script.Load(path)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}

		buf := pool.Get()
		bufs = append(bufs, buf)
		n, err := script.Compile(steps, buf)
		if err != nil {
			return fmt.Errorf("compile %s: %w", path, err)
		}
		logger.Debug("script compiled",
			zap.String("script", path),
			zap.Int("steps", n),
			zap.Int("bytes", buf.Len()))
	}

	if opts.out == "-" {
		for _, b := range bufs {
			if opts.lock {
				b.Lock()
			}
		}
		if _, err := sink.Stream(ctx, opts.stdout, bufs...); err != nil {
			return fmt.Errorf("stream: %w", err)
		}
		return nil
	}

	// The merged stream is held to the same limit as each script.
	merged, err := cfg.NewBuffer()
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	defer merged.Destroy()
	for i, b := range bufs {
		if err := bytecode.Copy(merged, b); err != nil {
			return fmt.Errorf("merge %s: %w", opts.scripts[i], err)
		}
	}

	if opts.lock {
		merged.Lock()
	}

	if err := sink.WriteFile(merged, opts.out); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	fmt.Printf("Wrote %d bytes to %s", merged.Len(), opts.out)
	if merged.IsLocked() {
		fmt.Print(" (locked)")
	}
	fmt.Println()

	if opts.hexDump {
		fmt.Print(hex.Dump(merged.Bytes()))
	}
	return nil
}
