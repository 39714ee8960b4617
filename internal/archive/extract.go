// Package archive is the default unpacker: it turns a downloaded release archive
// into a directory tree that mirrors the archive layout.
package archive

import (
	"context"
	"fmt"
	"os"

	"github.com/quantmind-br/freshen/internal/helpers"
	"github.com/rs/zerolog"
)

// Extractor unpacks zip and tar family archives natively and delegates 7z and rar
// to external tools
type Extractor struct {
	runner helpers.CommandRunner
	log    *zerolog.Logger
}

// NewExtractor creates an Extractor. A nil runner uses the host's PATH.
func NewExtractor(log *zerolog.Logger, runner helpers.CommandRunner) *Extractor {
	if runner == nil {
		runner = helpers.NewOSCommandRunner()
	}
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Extractor{runner: runner, log: log}
}

// Unpack extracts archivePath into outputDir, creating outputDir when needed
func (e *Extractor) Unpack(ctx context.Context, archivePath, outputDir string) error {
	format, err := DetectFormat(archivePath)
	if err != nil {
		return err
	}

	e.log.Debug().
		Str("archive", archivePath).
		Str("format", string(format)).
		Str("output", outputDir).
		Msg("unpacking archive")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	switch format {
	case FormatZip:
		return ExtractZip(ctx, archivePath, outputDir)
	case FormatTar:
		return ExtractTar(ctx, archivePath, outputDir)
	case FormatTarGz:
		return ExtractTarGz(ctx, archivePath, outputDir)
	case FormatTarXz:
		return ExtractTarXz(ctx, archivePath, outputDir)
	case FormatTarBz2:
		return ExtractTarBz2(ctx, archivePath, outputDir)
	case FormatTarZst:
		return ExtractTarZst(ctx, archivePath, outputDir)
	case Format7z:
		return e.extract7z(ctx, archivePath, outputDir)
	case FormatRar:
		return e.extractRar(ctx, archivePath, outputDir)
	default:
		return fmt.Errorf("unsupported archive format: %s", archivePath)
	}
}
