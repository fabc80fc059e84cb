package cli

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	qerrors "github.com/quill-lang/quill/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.json")} {
		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig(%q) failed: %v", path, err)
		}
		if *config != *DefaultConfig() {
			t.Errorf("expected defaults, got %+v", config)
		}
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `{"verbose": true, "namespace": "App.Core", "max_depth": 32, "color": "never", "requires": ">= 0.1.0"}`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	want := Config{Verbose: true, Namespace: "App.Core", MaxDepth: 32, Color: ColorNever, Requires: ">= 0.1.0"}
	if *config != want {
		t.Errorf("expected %+v, got %+v", want, *config)
	}
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, `{"debug": true}`))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !config.Debug || config.Namespace != "Main" || config.MaxDepth != 256 || config.Color != ColorAuto {
		t.Errorf("unexpected config %+v", config)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		category qerrors.ErrorCategory
		code     string
	}{
		{"malformed json", `{"verbose": `, qerrors.CategoryConfig, "INVALID_CONFIG"},
		{"wrong type", `{"max_depth": "deep"}`, qerrors.CategoryConfig, "INVALID_CONFIG"},
		{"bad color", `{"color": "purple"}`, qerrors.CategoryConfig, "INVALID_OPTION"},
		{"zero depth", `{"max_depth": 0}`, qerrors.CategoryConfig, "INVALID_OPTION"},
		{"empty namespace", `{"namespace": ""}`, qerrors.CategoryConfig, "INVALID_OPTION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))

			var se *qerrors.StandardError
			if !stderrors.As(err, &se) {
				t.Fatalf("expected *StandardError, got %v", err)
			}
			if se.Category != tt.category || se.Code != tt.code {
				t.Errorf("expected %s:%s, got %s:%s", tt.category, tt.code, se.Category, se.Code)
			}
		})
	}
}

func TestLoadConfigUnreadable(t *testing.T) {
	// a directory cannot be read as a file
	_, err := LoadConfig(t.TempDir())

	var se *qerrors.StandardError
	if !stderrors.As(err, &se) || se.Category != qerrors.CategoryIO {
		t.Errorf("expected IO error, got %v", err)
	}
}

func TestCheckRequires(t *testing.T) {
	tests := []struct {
		requires string
		code     string
	}{
		{"", ""},
		{">= 0.1.0", ""},
		{"^0.1", ""},
		{"~0.1.0", ""},
		{">= 1.0.0", "VERSION_MISMATCH"},
		{"< 0.1.0", "VERSION_MISMATCH"},
		{"not a version", "INVALID_CONSTRAINT"},
	}

	for _, tt := range tests {
		t.Run(tt.requires, func(t *testing.T) {
			config := DefaultConfig()
			config.Requires = tt.requires

			err := config.CheckRequires()
			if tt.code == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			var se *qerrors.StandardError
			if !stderrors.As(err, &se) {
				t.Fatalf("expected *StandardError, got %v", err)
			}
			if se.Category != qerrors.CategoryVersion || se.Code != tt.code {
				t.Errorf("expected VERSION:%s, got %s:%s", tt.code, se.Category, se.Code)
			}
		})
	}
}

func TestUseColor(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	config := DefaultConfig()

	config.Color = ColorAlways
	if !config.UseColor(f) {
		t.Errorf("expected colour when always")
	}

	config.Color = ColorNever
	if config.UseColor(f) {
		t.Errorf("expected no colour when never")
	}

	// a regular file is never a terminal
	config.Color = ColorAuto
	if config.UseColor(f) {
		t.Errorf("expected no colour for a regular file")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)

	config := DefaultConfig()
	config.Namespace = "Saved"
	if err := config.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if *loaded != *config {
		t.Errorf("expected %+v, got %+v", config, loaded)
	}
}

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name     string
		verbose  bool
		debug    bool
		expected []string
	}{
		{"quiet", false, false, []string{"[WARN]", "[ERROR]"}},
		{"verbose", true, false, []string{"[INFO]", "[WARN]", "[ERROR]"}},
		{"debug", false, true, []string{"[INFO]", "[DEBUG]", "[WARN]", "[ERROR]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(tt.verbose, tt.debug)
			logger.Out = &buf

			logger.Info("info %d", 1)
			logger.Debug("debug %d", 2)
			logger.Warn("warn %d", 3)
			logger.Error("error %d", 4)

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if len(lines) != len(tt.expected) {
				t.Fatalf("expected %d lines, got %d: %q", len(tt.expected), len(lines), buf.String())
			}
			for i, prefix := range tt.expected {
				if !strings.HasPrefix(lines[i], prefix) {
					t.Errorf("line %d: expected prefix %s, got %q", i, prefix, lines[i])
				}
			}
		})
	}
}

func TestFprintVersion(t *testing.T) {
	var plain bytes.Buffer
	FprintVersion(&plain, "quillc", false)
	if !strings.HasPrefix(plain.String(), "quillc v"+Version+"\n") {
		t.Errorf("unexpected version output %q", plain.String())
	}

	var js bytes.Buffer
	FprintVersion(&js, "quillc", true)

	var decoded struct {
		Tool        string      `json:"tool"`
		VersionInfo VersionInfo `json:"version_info"`
	}
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Tool != "quillc" || decoded.VersionInfo.Version != Version {
		t.Errorf("unexpected JSON %+v", decoded)
	}
}
