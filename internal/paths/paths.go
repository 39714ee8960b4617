package paths

import (
	"os"
	"path/filepath"
)

// AppName names the per-user directories freshen owns
const AppName = "freshen"

// Resolver centralizes the default locations used by freshen.
// Directories are derived from HOME.
type Resolver struct {
	homeDir string
}

// NewResolver creates a Resolver for the current user's HOME
func NewResolver() *Resolver {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		homeDir = os.Getenv("HOME")
	}
	if homeDir == "" {
		homeDir = "."
	}
	return &Resolver{homeDir: homeDir}
}

// NewResolverWithHome creates a Resolver with an explicit homeDir (useful for tests)
func NewResolverWithHome(homeDir string) *Resolver {
	return &Resolver{homeDir: homeDir}
}

// HomeDir returns the resolved HOME directory
func (r *Resolver) HomeDir() string {
	return r.homeDir
}

// ConfigDir returns ~/.config/freshen
func (r *Resolver) ConfigDir() string {
	return filepath.Join(r.homeDir, ".config", AppName)
}

// StateDir returns ~/.local/state/freshen
func (r *Resolver) StateDir() string {
	return filepath.Join(r.homeDir, ".local", "state", AppName)
}

// LogFile returns the default rotating log file location
func (r *Resolver) LogFile() string {
	return filepath.Join(r.StateDir(), AppName+".log")
}
