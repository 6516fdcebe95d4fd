package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/wippyai/librender/bytecode"
	"github.com/wippyai/librender/errors"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Buffer.InitialCapacity != bytecode.DefaultCapacity {
		t.Errorf("InitialCapacity = %d, want %d", cfg.Buffer.InitialCapacity, bytecode.DefaultCapacity)
	}
	if cfg.OutputPath() != DefaultOutputPath {
		t.Errorf("OutputPath() = %q, want %q", cfg.OutputPath(), DefaultOutputPath)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
[buffer]
initial_capacity = 64
max_capacity = 4096

[log]
level = "debug"
development = true
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Buffer.InitialCapacity != 64 || cfg.Buffer.MaxCapacity != 4096 {
		t.Errorf("Buffer = %+v", cfg.Buffer)
	}
	if cfg.Log.Level != "debug" || !cfg.Log.Development {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Output.Path != DefaultOutputPath {
		t.Errorf("Output.Path = %q, want default", cfg.Output.Path)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		path string
	}{
		{"malformed", "[buffer\n", ""},
		{"unknown key", "[buffer]\nsize = 3\n", "buffer.size"},
		{"negative capacity", "[buffer]\ninitial_capacity = -1\n", "buffer.initial_capacity"},
		{"negative limit", "[buffer]\nmax_capacity = -1\n", "buffer.max_capacity"},
		{"capacity over limit", "[buffer]\ninitial_capacity = 10\nmax_capacity = 5\n", "buffer.initial_capacity"},
		{"empty output", "[output]\npath = \"\"\n", "output.path"},
		{"bad level", "[log]\nlevel = \"loud\"\n", "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !errors.IsKind(err, errors.KindInvalidData) {
				t.Fatalf("Parse = %v, want invalid_data", err)
			}
			if tt.path == "" {
				return
			}
			if !strings.Contains(err.Error(), " at "+tt.path) {
				t.Errorf("error %q does not name %s", err, tt.path)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "[output]\npath = \"build/page.bin\"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	abs, _ := filepath.Abs(dir)
	if cfg.Dir != abs {
		t.Errorf("Dir = %q, want %q", cfg.Dir, abs)
	}
	if want := filepath.Join(abs, "build", "page.bin"); cfg.OutputPath() != want {
		t.Errorf("OutputPath() = %q, want %q", cfg.OutputPath(), want)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.IsKind(err, errors.KindIO) {
		t.Errorf("Load(missing) = %v, want io", err)
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[log]\nlevel = \"loud\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil || !strings.Contains(err.Error(), bad) {
		t.Errorf("Load(bad) = %v, want error naming the file", err)
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[buffer]\ninitial_capacity = 32\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad: %v", err)
	}
	if cfg.Buffer.InitialCapacity != 32 {
		t.Errorf("InitialCapacity = %d, want 32 from parent config", cfg.Buffer.InitialCapacity)
	}
}

func TestNewBuffer(t *testing.T) {
	cfg := Default()
	cfg.Buffer = Buffer{InitialCapacity: 4, MaxCapacity: 8}

	buf, err := cfg.NewBuffer()
	if err != nil {
		t.Fatal(err)
	}
	if buf.Cap() != 4 || buf.MaxCap() != 8 {
		t.Errorf("buffer = %v, max %d", buf, buf.MaxCap())
	}
	if err := buf.AppendBytes(make([]byte, 9)); !errors.IsKind(err, errors.KindAllocation) {
		t.Errorf("AppendBytes past limit = %v, want allocation", err)
	}
}

func TestNewPoolCarriesLimit(t *testing.T) {
	cfg := Default()
	cfg.Buffer = Buffer{InitialCapacity: 8, MaxCapacity: 8}

	buf := cfg.NewPool().Get()
	if buf.MaxCap() != 8 {
		t.Errorf("MaxCap() = %d, want 8", buf.MaxCap())
	}
	if err := buf.AppendBytes(make([]byte, 9)); !errors.IsKind(err, errors.KindAllocation) {
		t.Errorf("AppendBytes past limit = %v, want allocation", err)
	}

	cfg.Buffer.MaxCapacity = 0
	if opts := cfg.BufferOptions(); len(opts) != 0 {
		t.Errorf("BufferOptions() = %d options, want none when unlimited", len(opts))
	}
}

func TestNewLogger(t *testing.T) {
	for _, dev := range []bool{false, true} {
		cfg := Default()
		cfg.Log = Log{Level: "warn", Development: dev}
		l, err := cfg.NewLogger()
		if err != nil {
			t.Fatalf("NewLogger(development=%t): %v", dev, err)
		}
		if l.Core().Enabled(zapcore.DebugLevel) {
			t.Errorf("debug enabled at warn level")
		}
	}
}
