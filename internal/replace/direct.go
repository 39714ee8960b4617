package replace

import (
	"os"
	"path/filepath"

	"github.com/quantmind-br/freshen/internal/core"
	"github.com/quantmind-br/freshen/internal/fsops"
)

const execBits = 0o111

func (r *Replacer) direct(plan core.ResolvedPlan, release func() error) error {
	if err := fsops.RemoveItem(r.fs, plan.OldItem); err != nil {
		return &core.ReplacementError{Op: "remove", Path: plan.OldItem, Err: err}
	}

	dest := filepath.Join(plan.TargetDir, filepath.Base(plan.NewItem))
	copyItem := fsops.CopyFile
	if plan.NewIsDir {
		copyItem = fsops.CopyTree
	}
	if err := copyItem(r.fs, plan.NewItem, dest); err != nil {
		return &core.ReplacementError{Op: "copy", Path: dest, Err: err}
	}

	info, err := r.fs.Stat(plan.EntryPointAbs)
	if err != nil {
		return &core.ReplacementError{Op: "stat", Path: plan.EntryPointAbs, Err: err}
	}
	if err := r.fs.Chmod(plan.EntryPointAbs, info.Mode().Perm()|execBits); err != nil {
		return &core.ReplacementError{Op: "chmod", Path: plan.EntryPointAbs, Err: err}
	}

	if release != nil {
		if err := release(); err != nil {
			r.log.Warn().Err(err).Msg("failed to release scoped resources before restart")
		}
	}

	argv := []string{filepath.Base(plan.EntryPointAbs)}
	r.log.Debug().Str("path", plan.EntryPointAbs).Strs("argv", argv).Msg("exec")

	if err := r.exec(plan.EntryPointAbs, argv, os.Environ()); err != nil {
		return &core.ReplacementError{Op: "exec", Path: plan.EntryPointAbs, Err: err}
	}
	return nil
}
