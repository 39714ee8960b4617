package updater

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/quantmind-br/freshen/internal/core"
)

// Options describes one application's update source and install location
type Options struct {
	// BaseURL is the listing page that links to release archives
	BaseURL string
	// Pattern matches the end of an archive link; its first group is the version
	Pattern string
	// CurrentVersion is the version of the running application
	CurrentVersion string
	// OverwriteTarget is the file or directory holding the installed application
	OverwriteTarget string
	// EntryPoint is the executable to restart, relative to the parent of OverwriteTarget
	EntryPoint string

	// Comparator overrides version ordering
	Comparator core.Comparator
	// Unpacker overrides archive extraction
	Unpacker core.Unpacker
	// Lenient turns a listing without matches into "no update" instead of an error
	Lenient bool
	// Timeout caps each HTTP exchange including the body; zero leaves only the
	// connect and response header limits in place
	Timeout time.Duration
	// Progress receives a download progress bar when set
	Progress io.Writer
}

// Validate reports every missing required field at once
func (o Options) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"base url", o.BaseURL},
		{"pattern", o.Pattern},
		{"current version", o.CurrentVersion},
		{"overwrite target", o.OverwriteTarget},
		{"entry point", o.EntryPoint},
	}

	var missing []string
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", core.ErrInvalidOptions, strings.Join(missing, ", "))
	}

	if o.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout %s", core.ErrInvalidOptions, o.Timeout)
	}

	return nil
}
