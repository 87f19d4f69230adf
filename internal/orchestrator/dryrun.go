package orchestrator

import (
	"github.com/spf13/afero"
)

// DryRunFs layers an in-memory filesystem over a read-only view of base, so a
// run reads the real inputs and existing outputs but every write stays in
// memory.
func DryRunFs(base afero.Fs) afero.Fs {
	return afero.NewCopyOnWriteFs(afero.NewReadOnlyFs(base), afero.NewMemMapFs())
}
