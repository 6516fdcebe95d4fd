package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/wippyai/librender/bytecode"
	"github.com/wippyai/librender/config"
	"github.com/wippyai/librender/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunMergesScripts(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")
	writeFile(t, a, `[{"op": "create_element", "args": ["div"]}]`)
	writeFile(t, b, `[{"op": "append_child"}]`)
	out := filepath.Join(dir, "page.bin")

	err := run(context.Background(), config.Default(), zap.NewNop(), options{
		scripts: []string{a, b},
		out:     out,
		lock:    true,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{1, 3, 'd', 'i', 'v', 3}
	if !bytes.Equal(got, want) {
		t.Errorf("output = %v, want %v", got, want)
	}
}

func TestRunReportsFailingScript(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	writeFile(t, bad, `[{"op": "nop"}, {"op": "create_element", "args": [""]}]`)
	out := filepath.Join(dir, "page.bin")

	err := run(context.Background(), config.Default(), zap.NewNop(), options{
		scripts: []string{bad},
		out:     out,
	})
	if !errors.IsKind(err, errors.KindEmptyField) {
		t.Fatalf("run = %v, want empty_field", err)
	}
	if !strings.Contains(err.Error(), "steps.1.tag") {
		t.Errorf("error %q does not name the step", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("output written for failing script")
	}
}

func limitedConfig(t *testing.T, limit int) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Buffer = config.Buffer{InitialCapacity: limit, MaxCapacity: limit}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config rejected: %v", err)
	}
	return cfg
}

func TestRunRespectsMaxCapacity(t *testing.T) {
	dir := t.TempDir()
	long := filepath.Join(dir, "long.json")
	short := filepath.Join(dir, "short.json")
	writeFile(t, long, `[{"op": "text_node", "args": ["0123456789"]}]`)
	writeFile(t, short, `[{"op": "text_node", "args": ["abcd"]}]`)

	tests := []struct {
		name    string
		scripts []string
		out     string
	}{
		{"file, script over limit", []string{long}, "page.bin"},
		{"stdout, script over limit", []string{long}, "-"},
		{"file, merged stream over limit", []string{short, short}, "merged.bin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			out := tt.out
			if out != "-" {
				out = filepath.Join(dir, out)
			}

			err := run(context.Background(), limitedConfig(t, 8), zap.NewNop(), options{
				stdout:  &stdout,
				scripts: tt.scripts,
				out:     out,
			})
			if !errors.IsKind(err, errors.KindAllocation) {
				t.Fatalf("run = %v, want allocation", err)
			}
			if stdout.Len() != 0 {
				t.Errorf("streamed %d bytes past the limit", stdout.Len())
			}
			if out != "-" {
				if _, err := os.Stat(out); !os.IsNotExist(err) {
					t.Error("output written past the limit")
				}
			}
		})
	}
}

func TestRunStreamsToStdout(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.msgpack")
	writeFile(t, a, `[{"op": "create_element", "args": ["p"]}]`)
	// [{"op": "append_child"}]
	writeFile(t, b, "\x91\x81\xa2op\xacappend_child")

	var stdout bytes.Buffer
	err := run(context.Background(), limitedConfig(t, 8), zap.NewNop(), options{
		stdout:  &stdout,
		scripts: []string{a, b},
		out:     "-",
		lock:    true,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []byte{1, 1, 'p', 3}
	if !bytes.Equal(stdout.Bytes(), want) {
		t.Errorf("stdout = %v, want %v", stdout.Bytes(), want)
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m *builderModel, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestBuilder(t *testing.T) {
	buf, err := bytecode.New(4)
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "built.bin")
	m := newBuilderModel(buf, out)

	// create_element "ul"
	m.Update(key("down"))
	m.Update(key("enter"))
	if m.state != stateInputFields {
		t.Fatalf("state = %v, want field input", m.state)
	}
	typeText(m, "ul")
	m.Update(key("enter"))

	// append_child has no fields
	m.Update(key("down"))
	m.Update(key("down"))
	m.Update(key("enter"))

	want := []byte{1, 2, 'u', 'l', 3}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("stream = %v, want %v", buf.Bytes(), want)
	}

	m.Update(key("l"))
	m.Update(key("u"))
	if !errors.IsKind(m.err, errors.KindLocked) {
		t.Errorf("undo while locked: err = %v, want locked", m.err)
	}
	m.Update(key("l"))
	m.Update(key("u"))
	if !bytes.Equal(buf.Bytes(), want[:4]) {
		t.Errorf("after undo = %v, want %v", buf.Bytes(), want[:4])
	}

	m.Update(key("s"))
	if m.err != nil {
		t.Fatalf("save: %v", m.err)
	}
	got, _ := os.ReadFile(out)
	if !bytes.Equal(got, want[:4]) {
		t.Errorf("saved = %v, want %v", got, want[:4])
	}
	if !strings.Contains(m.View(), "saved 4 bytes") {
		t.Errorf("view missing status:\n%s", m.View())
	}
}

func TestBuilderRejectsEmptyField(t *testing.T) {
	buf, err := bytecode.New(0)
	if err != nil {
		t.Fatal(err)
	}
	m := newBuilderModel(buf, "unused.bin")

	m.Update(key("down"))
	m.Update(key("enter"))
	m.Update(key("enter"))

	if !errors.IsKind(m.err, errors.KindEmptyField) {
		t.Errorf("err = %v, want empty_field", m.err)
	}
	if m.state != stateInputFields {
		t.Error("builder left field input after a rejected instruction")
	}
	if buf.Len() != 0 {
		t.Errorf("Len() = %d, want 0", buf.Len())
	}
}
