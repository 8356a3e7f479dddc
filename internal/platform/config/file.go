package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// File is the CLI configuration file, TASKER_* env vars override it
type File struct {
	User      UserSection      `toml:"user"`
	Local     LocalSection     `toml:"local"`
	Remote    RemoteSection    `toml:"remote"`
	Analytics AnalyticsSection `toml:"analytics"`
	Calendar  CalendarSection  `toml:"calendar"`
}

// UserSection identifies who owns locally created tasks
type UserSection struct {
	ID   string `toml:"id"`
	Zone string `toml:"zone"`
}

// LocalSection locates the offline store
type LocalSection struct {
	DB   string `toml:"db"`
	Lock string `toml:"lock"`
}

// RemoteSection points sync at the Postgres task store
type RemoteSection struct {
	DSN string `toml:"dsn"`
}

// AnalyticsSection configures the optional ClickHouse event sink
type AnalyticsSection struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Database string `toml:"database"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// CalendarSection tunes calendar links
type CalendarSection struct {
	Zone            string `toml:"zone"`
	DurationMinutes int    `toml:"duration_minutes"`
}

// DefaultFile returns the settings used when no file exists
func DefaultFile() File {
	data := dataDir()
	return File{
		User:      UserSection{ID: "local", Zone: "America/Sao_Paulo"},
		Local:     LocalSection{DB: filepath.Join(data, "tasks.db"), Lock: filepath.Join(data, "sync.lock")},
		Analytics: AnalyticsSection{Addr: "localhost:9000", Database: "tasker", Username: "default"},
		Calendar:  CalendarSection{Zone: "America/Sao_Paulo", DurationMinutes: 60},
	}
}

// DefaultFilePath is $XDG_CONFIG_HOME/tasker/config.toml or ~/.config/tasker/config.toml
func DefaultFilePath() string {
	if base := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); base != "" {
		return filepath.Join(base, "tasker", "config.toml")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "tasker", "config.toml")
	}
	return "tasker.toml"
}

func dataDir() string {
	if base := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); base != "" {
		return filepath.Join(base, "tasker")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "tasker")
	}
	return "."
}

// LoadFile reads path over the defaults, a missing file is not an error
// env overrides are applied last, exists reports whether the file was found
func LoadFile(path string) (f File, exists bool, err error) {
	f = DefaultFile()
	if path == "" {
		path = DefaultFilePath()
	}
	path, err = ExpandPath(path)
	if err != nil {
		return f, false, err
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return f, false, fmt.Errorf("config: read %s: %w", path, err)
	default:
		exists = true
		if err := toml.Unmarshal(raw, &f); err != nil {
			return f, true, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	f.overlay(New().Prefix("TASKER_"))
	if err := f.Validate(); err != nil {
		return f, exists, err
	}
	return f, exists, nil
}

func (f *File) overlay(env Conf) {
	f.User.ID = env.MayString("USER", f.User.ID)
	f.User.Zone = env.MayString("ZONE", f.User.Zone)
	f.Local.DB = env.MayString("DB", f.Local.DB)
	f.Local.Lock = env.MayString("LOCK", f.Local.Lock)
	f.Remote.DSN = env.MayString("REMOTE_DSN", f.Remote.DSN)
	f.Analytics.Enabled = env.MayBool("ANALYTICS_ENABLED", f.Analytics.Enabled)
	f.Analytics.Addr = env.MayString("ANALYTICS_ADDR", f.Analytics.Addr)
	f.Analytics.Password = env.MayString("ANALYTICS_PASSWORD", f.Analytics.Password)
	f.Calendar.Zone = env.MayString("CALENDAR_ZONE", f.Calendar.Zone)
}

// Validate checks zones and paths
func (f File) Validate() error {
	if strings.TrimSpace(f.User.ID) == "" {
		return fmt.Errorf("config: user.id is required")
	}
	for name, zone := range map[string]string{"user.zone": f.User.Zone, "calendar.zone": f.Calendar.Zone} {
		if _, err := time.LoadLocation(zone); err != nil {
			return fmt.Errorf("config: %s: %w", name, err)
		}
	}
	if f.Local.DB == "" {
		return fmt.Errorf("config: local.db is required")
	}
	if f.Calendar.DurationMinutes < 0 {
		return fmt.Errorf("config: calendar.duration_minutes must not be negative")
	}
	return nil
}

// Location returns the user's zone, Validate has already accepted it
func (f File) Location() *time.Location {
	loc, err := time.LoadLocation(f.User.Zone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Encode renders f as TOML
func (f File) Encode() ([]byte, error) { return toml.Marshal(f) }

// ExpandPath resolves a leading ~ and makes the path absolute
func ExpandPath(p string) (string, error) {
	if p == "" {
		return p, nil
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("config: resolve home directory: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	abs, err := filepath.Abs(filepath.Clean(p))
	if err != nil {
		return "", fmt.Errorf("config: resolve %q: %w", p, err)
	}
	return abs, nil
}
