package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/Masterminds/semver/v3"

	qerrors "github.com/quill-lang/quill/internal/errors"
)

// Version information for all CLI tools
const (
	Version   = "0.1.0"
	BuildDate = "2026-10-19"
	CommitSHA = "unknown" // Will be set during build
)

// VersionInfo contains version and build information
type VersionInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
	CommitSHA string `json:"commit_sha"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Arch      string `json:"arch"`
}

// GetVersionInfo returns structured version information
func GetVersionInfo() *VersionInfo {
	return &VersionInfo{
		Version:   Version,
		BuildDate: BuildDate,
		CommitSHA: CommitSHA,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// PrintVersion prints version information to stdout
func PrintVersion(toolName string, jsonOutput bool) {
	FprintVersion(os.Stdout, toolName, jsonOutput)
}

// FprintVersion writes version information in a consistent format
func FprintVersion(w io.Writer, toolName string, jsonOutput bool) {
	info := GetVersionInfo()

	if jsonOutput {
		data, err := json.MarshalIndent(map[string]interface{}{
			"tool":         toolName,
			"version_info": info,
		}, "", "  ")
		if err == nil {
			fmt.Fprintln(w, string(data))
			return
		}
		fmt.Fprintf(os.Stderr, "Error: Failed to marshal version info to JSON: %v\n", err)
	}

	fmt.Fprintf(w, "%s v%s\n", toolName, info.Version)
	fmt.Fprintf(w, "Build Date: %s\n", info.BuildDate)
	if info.CommitSHA != "unknown" && info.CommitSHA != "" {
		fmt.Fprintf(w, "Commit: %s\n", info.CommitSHA)
	}
	fmt.Fprintf(w, "Go Version: %s\n", info.GoVersion)
	fmt.Fprintf(w, "Platform: %s/%s\n", info.Platform, info.Arch)
}

// ExitWithError prints an error message and exits with code 1
func ExitWithError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// Logger provides structured logging for CLI tools
type Logger struct {
	Verbose   bool
	DebugMode bool
	Out       io.Writer
}

// NewLogger creates a new logger writing to stderr
func NewLogger(verbose, debug bool) *Logger {
	return &Logger{
		Verbose:   verbose,
		DebugMode: debug,
		Out:       os.Stderr,
	}
}

func (l *Logger) log(level, format string, args ...interface{}) {
	fmt.Fprintf(l.Out, "[%s] %s: %s\n", level, time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	if l.Verbose || l.DebugMode {
		l.log("INFO", format, args...)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.DebugMode {
		l.log("DEBUG", format, args...)
	}
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log("WARN", format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log("ERROR", format, args...)
}

// Colour modes accepted by Config.Color
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// DefaultConfigFile is looked up in the working directory when no -config is given.
const DefaultConfigFile = "quill.json"

// Config represents common configuration for CLI tools
type Config struct {
	Verbose   bool   `json:"verbose"`
	Debug     bool   `json:"debug"`
	Namespace string `json:"namespace"`
	MaxDepth  int    `json:"max_depth"`
	Color     string `json:"color"`
	// Requires is a semver constraint the front end version must satisfy.
	Requires string `json:"requires,omitempty"`
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() *Config {
	return &Config{
		Namespace: "Main",
		MaxDepth:  256,
		Color:     ColorAuto,
	}
}

// LoadConfig loads configuration from file. A missing file yields the defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, qerrors.ReadFailed(configPath, err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, qerrors.InvalidConfig(configPath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks field values that JSON decoding cannot
func (c *Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return qerrors.InvalidOption("color", c.Color)
	}

	if c.MaxDepth <= 0 {
		return qerrors.InvalidOption("max_depth", fmt.Sprint(c.MaxDepth))
	}

	if c.Namespace == "" {
		return qerrors.InvalidOption("namespace", c.Namespace)
	}

	return nil
}

// CheckRequires verifies that Version satisfies the configured constraint
func (c *Config) CheckRequires() error {
	if c.Requires == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(c.Requires)
	if err != nil {
		return qerrors.InvalidConstraint(c.Requires, err)
	}

	current, err := semver.NewVersion(Version)
	if err != nil {
		return qerrors.InvalidConstraint(Version, err)
	}

	if !constraint.Check(current) {
		return qerrors.VersionMismatch(c.Requires, Version)
	}

	return nil
}

// UseColor reports whether diagnostics written to f should be coloured
func (c *Config) UseColor(f *os.File) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return IsTerminal(f.Fd())
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
