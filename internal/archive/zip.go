package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/quantmind-br/freshen/internal/security"
)

// maxSymlinkTarget bounds how much of a zip symlink entry is read as its target
const maxSymlinkTarget = 4096

// ExtractZip extracts a .zip archive with security checks
func ExtractZip(ctx context.Context, archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Security: Validate path
		if err := security.ValidateExtractPath(destDir, f.Name); err != nil {
			return fmt.Errorf("invalid path in zip: %w", err)
		}

		target := filepath.Join(destDir, filepath.FromSlash(f.Name))

		switch {
		case f.FileInfo().IsDir():
			if err := os.MkdirAll(target, f.Mode().Perm()|0o700); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}

		case f.Mode()&os.ModeSymlink != 0:
			if err := extractZipSymlink(f, destDir, target); err != nil {
				return fmt.Errorf("failed to extract %s: %w", f.Name, err)
			}

		default:
			if err := extractZipFile(f, target); err != nil {
				return fmt.Errorf("failed to extract %s: %w", f.Name, err)
			}
		}
	}

	return nil
}

func extractZipFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open zip file entry: %w", err)
	}
	defer rc.Close()

	mode := f.Mode().Perm()
	if mode == 0 {
		// archives written without unix attributes
		mode = 0o644
	}

	return extractFile(rc, target, mode)
}

func extractZipSymlink(f *zip.File, destDir, target string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open zip file entry: %w", err)
	}
	defer rc.Close()

	linkname, err := io.ReadAll(io.LimitReader(rc, maxSymlinkTarget))
	if err != nil {
		return fmt.Errorf("failed to read symlink target: %w", err)
	}

	if err := security.ValidateSymlink(destDir, target, string(linkname)); err != nil {
		return fmt.Errorf("invalid symlink: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	return os.Symlink(string(linkname), target)
}
