package archive

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/quantmind-br/freshen/internal/helpers"
)

var sevenZipCommands = []string{"7z", "7za", "7zz"}

func (e *Extractor) extract7z(ctx context.Context, archivePath, destDir string) error {
	name, ok := helpers.FirstAvailable(e.runner, sevenZipCommands...)
	if !ok {
		name = sevenZipCommands[0]
		if err := e.runner.RequireCommand(name); err != nil {
			return fmt.Errorf("7z archives need one of %v: %w", sevenZipCommands, err)
		}
	}

	return e.run(ctx, destDir, name, "x", "-y", "-o"+destDir, archivePath)
}

func (e *Extractor) extractRar(ctx context.Context, archivePath, destDir string) error {
	if !e.runner.CommandExists("unrar") {
		// 7-Zip reads rar archives too
		if name, ok := helpers.FirstAvailable(e.runner, sevenZipCommands...); ok {
			return e.run(ctx, destDir, name, "x", "-y", "-o"+destDir, archivePath)
		}
	}

	if err := e.runner.RequireCommand("unrar"); err != nil {
		return fmt.Errorf("rar archives need unrar or 7z: %w", err)
	}
	return e.run(ctx, destDir, "unrar", "x", "-o+", "-y", archivePath, destDir+string(filepath.Separator))
}

func (e *Extractor) run(ctx context.Context, dir, name string, args ...string) error {
	e.log.Debug().Str("command", name).Strs("args", args).Msg("running external extractor")

	if _, err := e.runner.RunCommandInDir(ctx, dir, name, args...); err != nil {
		return fmt.Errorf("%s exited with code %d: %w", name, e.runner.GetExitCode(err), err)
	}
	return nil
}
