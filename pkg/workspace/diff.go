package workspace

import (
	"context"
	"sort"

	"github.com/oneconcern/tico/pkg/store"
)

// State of a scanned path compared to a reference map
type State string

const (
	// Tracked paths have the same fingerprint on disk and in the reference
	Tracked State = "Tracked"
	// Untracked paths are absent from the reference or carry another fingerprint
	Untracked State = "Untracked"
)

// Diff of the working directory against a reference map
type Diff struct {
	Live     store.FileMap    `json:"-" yaml:"-"`
	States   map[string]State `json:"states" yaml:"states"`
	Missing  []string         `json:"missing,omitempty" yaml:"missing,omitempty"`
	Failures error            `json:"-" yaml:"-"`
}

// Paths in the given state, sorted
func (d Diff) Paths(st State) []string {
	var res []string
	for p, s := range d.States {
		if s == st {
			res = append(res, p)
		}
	}
	sort.Strings(res)
	return res
}

// HasUntracked is true when at least one path is untracked
func (d Diff) HasUntracked() bool {
	for _, s := range d.States {
		if s == Untracked {
			return true
		}
	}
	return false
}

// DiffAgainst classifies every scanned path against a reference map
func (w *Workspace) DiffAgainst(ctx context.Context, reference store.FileMap) (Diff, error) {
	live, failures, err := w.Snapshot(ctx)
	if err != nil {
		return Diff{}, err
	}

	d := Diff{
		Live:     live,
		States:   make(map[string]State, len(live)),
		Failures: failures,
	}
	for p, fp := range live {
		if ref, ok := reference[p]; ok && ref == fp {
			d.States[p] = Tracked
			continue
		}
		d.States[p] = Untracked
	}
	for _, p := range reference.Paths() {
		if _, ok := live[p]; !ok && !w.excl.Match(p) {
			d.Missing = append(d.Missing, p)
		}
	}
	return d, nil
}
