package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/reoring/lossy"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "lossy CLI\n\nUsage:\n  lossy render [-config c.yaml] [-format json|yaml] [-driver goccy|std] [-dup ignore|warn|error] [file]\n  lossy at -path a.0.b [flags] [file]\n\nNotes:\n  - Input is read from stdin when no file is given.\n  - Losses (such as duplicate keys under -dup warn) are logged to stderr.")
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	switch args[0] {
	case "render", "at":
		return renderCmd(args[0], args[1:], stdin, stdout, stderr)
	case "-h", "-help", "help":
		usage(stdout)
		return 0
	default:
		usage(stderr)
		return 2
	}
}

func renderCmd(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		cfgPath, format, driver, dup, path string
		maxDepth                           int
	)
	fs.StringVar(&cfgPath, "config", "", "YAML config file")
	fs.StringVar(&format, "format", "", "input format: json or yaml (default from file extension)")
	fs.StringVar(&driver, "driver", "", "JSON driver: goccy or std")
	fs.StringVar(&dup, "dup", "", "duplicate key policy: ignore, warn or error")
	fs.IntVar(&maxDepth, "max-depth", 0, "maximum nesting depth (0 disables)")
	if name == "at" {
		fs.StringVar(&path, "path", "", "dot separated path, e.g. items.0.name")
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fail(stderr, err)
	}
	if format != "" {
		cfg.Format = format
	}
	if driver != "" {
		cfg.Driver = driver
	}
	if dup != "" {
		cfg.DuplicateKeys = dup
	}
	if maxDepth > 0 {
		cfg.MaxDepth = maxDepth
	}
	opt, err := cfg.decodeOpt()
	if err != nil {
		return fail(stderr, err)
	}

	data, file, err := readInput(fs.Arg(0), stdin)
	if err != nil {
		return fail(stderr, err)
	}
	if cfg.Format == "" {
		cfg.Format = formatFromName(file)
	}
	src, err := sourceFor(cfg, data)
	if err != nil {
		return fail(stderr, err)
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}))
	ctx := lossy.WithLogger(context.Background(), logger)
	ctx = lossy.WithReporter(ctx, lossy.LogReporter{Logger: logger, Level: slog.LevelWarn})

	c, err := lossy.Open(ctx, src, opt)
	if err != nil {
		return fail(stderr, err)
	}
	if path != "" {
		c, err = walk(c, path)
		if err != nil {
			return fail(stderr, err)
		}
	}
	raw, ok := c.Raw()
	if !ok {
		return fail(stderr, errors.New("no value"))
	}
	fmt.Fprintln(stdout, raw)
	return 0
}

// walk follows a dot separated path from c. Numeric segments index into
// sequences; every other segment names an object member.
func walk(c *lossy.Cursor, path string) (*lossy.Cursor, error) {
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			continue
		}
		if i, err := strconv.Atoi(part); err == nil && c.Shape() == "array" {
			seq, err := c.Sequence()
			if err != nil {
				return nil, err
			}
			if i < 0 || i >= seq.Len() {
				return nil, fmt.Errorf("index %d out of range at %s", i, c.Path())
			}
			for seq.Index() < i {
				seq.Advance()
			}
			c = seq.Element()
			continue
		}
		kc, err := c.Keyed()
		if err != nil {
			return nil, err
		}
		c, err = kc.Cursor(part)
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

func readInput(file string, stdin io.Reader) ([]byte, string, error) {
	if file == "" || file == "-" {
		b, err := io.ReadAll(stdin)
		return b, "", err
	}
	b, err := os.ReadFile(file)
	return b, file, err
}

func formatFromName(file string) string {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}

func sourceFor(cfg config, data []byte) (lossy.Source, error) {
	switch strings.ToLower(cfg.Format) {
	case "yaml", "yml":
		return lossy.YAMLReader(bytes.NewReader(data)), nil
	case "json", "":
		d, err := driverFor(cfg.Driver)
		if err != nil {
			return nil, err
		}
		return d.NewBytes(data), nil
	}
	return nil, fmt.Errorf("unknown format %q", cfg.Format)
}

func logLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func fail(w io.Writer, err error) int {
	fmt.Fprintf(w, "lossy: %v\n", err)
	return 1
}
