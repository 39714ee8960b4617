package replace

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/freshen/internal/core"
	"github.com/quantmind-br/freshen/internal/fsops"
	"github.com/spf13/afero"
)

const (
	batchName    = "restart.bat"
	launcherName = "invisble.vbs"
	launcherHost = "wscript.exe"

	// runs the batch file given as first argument without a console window
	launcherScript = `CreateObject("Wscript.Shell").Run """" & WScript.Arguments(0) & """", 0, False`
)

// BuildScript renders the batch file that swaps the application once this
// process has exited. Lines end with CRLF.
func BuildScript(plan core.ResolvedPlan) string {
	lines := []string{"@echo off"}

	if plan.OldIsDir {
		lines = append(lines, fmt.Sprintf(`rd /s /q "%s"`, plan.OldItem))
	} else {
		lines = append(lines, fmt.Sprintf(`del /q "%s"`, plan.OldItem))
	}

	if plan.NewIsDir {
		dest := filepath.Join(plan.TargetDir, filepath.Base(plan.NewItem))
		lines = append(lines, fmt.Sprintf(`robocopy "%s" "%s" /e`, plan.NewItem, dest))
	} else {
		lines = append(lines, fmt.Sprintf(`copy /y /b "%s" "%s"`, plan.NewItem, plan.TargetDir))
	}

	lines = append(lines, fmt.Sprintf(`start "" "%s"`, plan.EntryPointAbs))

	return strings.Join(lines, "\r\n") + "\r\n"
}

// deferred never calls release: the helper reads the payload after exit.
// The script directory is removed again if the helper cannot be started.
func (r *Replacer) deferred(plan core.ResolvedPlan) error {
	dir, err := fsops.CreateTempDir(r.fs, "freshen-restart-")
	if err != nil {
		return &core.ReplacementError{Op: "script", Path: dir, Err: err}
	}

	if err := r.launchHelper(dir, plan); err != nil {
		if rmErr := r.fs.RemoveAll(dir); rmErr != nil {
			r.log.Warn().Err(rmErr).Str("dir", dir).Msg("failed to remove restart helper directory")
		}
		return err
	}

	r.exit(0)
	return nil
}

func (r *Replacer) launchHelper(dir string, plan core.ResolvedPlan) error {
	batPath := filepath.Join(dir, batchName)
	vbsPath := filepath.Join(dir, launcherName)

	if err := afero.WriteFile(r.fs, batPath, []byte(BuildScript(plan)), 0o644); err != nil {
		return &core.ReplacementError{Op: "script", Path: batPath, Err: err}
	}
	if err := afero.WriteFile(r.fs, vbsPath, []byte(launcherScript), 0o644); err != nil {
		return &core.ReplacementError{Op: "script", Path: vbsPath, Err: err}
	}

	r.log.Debug().Str("script", batPath).Msg("starting restart helper")

	if err := r.start(launcherHost, vbsPath, batPath); err != nil {
		return &core.ReplacementError{Op: "start", Path: launcherHost, Err: err}
	}
	return nil
}
