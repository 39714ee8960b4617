package archive

import (
	"archive/tar"
	"compress/bzip2"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/quantmind-br/freshen/internal/security"
	"github.com/ulikunitz/xz"
)

// ExtractTar extracts a .tar archive with security checks
func ExtractTar(ctx context.Context, archivePath, destDir string) error {
	return withFile(archivePath, func(r io.Reader) error {
		return extractTar(ctx, r, destDir)
	})
}

// ExtractTarGz extracts a .tar.gz archive with security checks
func ExtractTarGz(ctx context.Context, archivePath, destDir string) error {
	return withFile(archivePath, func(r io.Reader) error {
		gzr, err := gzip.NewReader(r)
		if err != nil {
			return fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzr.Close()

		return extractTar(ctx, gzr, destDir)
	})
}

// ExtractTarXz extracts a .tar.xz archive with security checks
func ExtractTarXz(ctx context.Context, archivePath, destDir string) error {
	return withFile(archivePath, func(r io.Reader) error {
		xzr, err := xz.NewReader(r)
		if err != nil {
			return fmt.Errorf("failed to create xz reader: %w", err)
		}

		return extractTar(ctx, xzr, destDir)
	})
}

// ExtractTarBz2 extracts a .tar.bz2 archive with security checks
func ExtractTarBz2(ctx context.Context, archivePath, destDir string) error {
	return withFile(archivePath, func(r io.Reader) error {
		return extractTar(ctx, bzip2.NewReader(r), destDir)
	})
}

// ExtractTarZst extracts a .tar.zst archive with security checks
func ExtractTarZst(ctx context.Context, archivePath, destDir string) error {
	return withFile(archivePath, func(r io.Reader) error {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer zr.Close()

		return extractTar(ctx, zr, destDir)
	})
}

func withFile(archivePath string, fn func(io.Reader) error) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer file.Close()

	return fn(file)
}

func extractTar(ctx context.Context, r io.Reader, destDir string) error {
	tr := tar.NewReader(r)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("tar read error: %w", err)
		}

		// Security: Validate path to prevent directory traversal
		if err := security.ValidateExtractPath(destDir, header.Name); err != nil {
			return fmt.Errorf("invalid path in archive: %w", err)
		}

		target := filepath.Join(destDir, filepath.FromSlash(header.Name))

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(header.Mode).Perm()|0o700); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}

		case tar.TypeReg:
			if err := extractFile(tr, target, os.FileMode(header.Mode).Perm()); err != nil {
				return fmt.Errorf("failed to extract file %s: %w", header.Name, err)
			}

		case tar.TypeSymlink:
			// Security: Validate symlink target
			if err := security.ValidateSymlink(destDir, target, header.Linkname); err != nil {
				return fmt.Errorf("invalid symlink: %w", err)
			}

			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("failed to create parent directory: %w", err)
			}
			if err := os.Symlink(header.Linkname, target); err != nil {
				return fmt.Errorf("failed to create symlink: %w", err)
			}

		case tar.TypeLink:
			if err := security.ValidateExtractPath(destDir, header.Linkname); err != nil {
				return fmt.Errorf("invalid hard link target: %w", err)
			}

			linkTarget := filepath.Join(destDir, filepath.FromSlash(header.Linkname))
			if err := os.Link(linkTarget, target); err != nil {
				return fmt.Errorf("failed to create hard link: %w", err)
			}

		default:
			// Skip unsupported types (TypeBlock, TypeChar, TypeFifo, etc.)
			continue
		}
	}

	return nil
}

func extractFile(r io.Reader, target string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	// umask may have masked the execute bits the archive carries
	return os.Chmod(target, mode)
}
