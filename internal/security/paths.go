package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateExtractPath prevents directory traversal (Zip Slip): an archive entry
// named entryName must land inside targetDir once joined to it.
func ValidateExtractPath(targetDir, entryName string) error {
	if strings.Contains(entryName, "\x00") {
		return fmt.Errorf("path contains null bytes: %q", entryName)
	}

	cleanPath := filepath.Clean(filepath.FromSlash(entryName))

	if filepath.IsAbs(cleanPath) || strings.HasPrefix(entryName, "/") {
		return fmt.Errorf("absolute path not allowed: %s", entryName)
	}

	for _, part := range strings.Split(cleanPath, string(filepath.Separator)) {
		if part == ".." {
			return fmt.Errorf("path contains ..: %s", entryName)
		}
	}

	return within(targetDir, filepath.Join(targetDir, cleanPath), entryName)
}

// ValidateSymlink ensures a symlink at linkPath pointing to linkTarget stays inside targetDir
func ValidateSymlink(targetDir, linkPath, linkTarget string) error {
	if filepath.IsAbs(linkTarget) {
		return fmt.Errorf("symlink target escapes destination: %s -> %s", linkPath, linkTarget)
	}

	resolved := filepath.Join(filepath.Dir(linkPath), linkTarget)
	if err := within(targetDir, resolved, linkTarget); err != nil {
		return fmt.Errorf("symlink target escapes destination: %s -> %s", linkPath, linkTarget)
	}

	return nil
}

// SafeFilename reduces name to a single path element usable inside a scratch directory.
// It returns fallback when nothing usable remains.
func SafeFilename(name, fallback string) string {
	name = strings.ReplaceAll(name, "\x00", "")
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return fallback
	}

	return name
}

func within(baseDir, path, original string) error {
	cleanBase, err := filepath.Abs(baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve target directory: %w", err)
	}

	cleanPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve destination path: %w", err)
	}

	if cleanPath != cleanBase && !strings.HasPrefix(cleanPath, cleanBase+string(filepath.Separator)) {
		return fmt.Errorf("path escapes destination directory: %s", original)
	}

	return nil
}
