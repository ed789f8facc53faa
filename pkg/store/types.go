package store

import (
	"sort"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// FileMap associates a relative path to a fingerprint
type FileMap map[string]string

// Clone the map, never returns nil
func (m FileMap) Clone() FileMap {
	res := make(FileMap, len(m))
	for k, v := range m {
		res[k] = v
	}
	return res
}

// Paths in lexical order
func (m FileMap) Paths() []string {
	res := make([]string, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

// Equal when both maps hold the same entries
func (m FileMap) Equal(other FileMap) bool {
	if len(m) != len(other) {
		return false
	}
	for k, v := range m {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// ChangedFrom returns the entries that are absent from prev or carry another fingerprint
func (m FileMap) ChangedFrom(prev FileMap) FileMap {
	res := make(FileMap)
	for k, v := range m {
		if pv, ok := prev[k]; !ok || pv != v {
			res[k] = v
		}
	}
	return res
}

// Union of both maps, entries of other win
func (m FileMap) Union(other FileMap) FileMap {
	res := m.Clone()
	for k, v := range other {
		res[k] = v
	}
	return res
}

// Includes is true when every entry of other is in m
func (m FileMap) Includes(other FileMap) bool {
	for k, v := range other {
		if mv, ok := m[k]; !ok || mv != v {
			return false
		}
	}
	return true
}

// Commit represents a recorded snapshot of the working directory on a branch
type Commit struct {
	ID        string    `json:"id" yaml:"id"`
	Message   string    `json:"message" yaml:"message"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Author    string    `json:"author" yaml:"author"`
	Branch    string    `json:"branch" yaml:"branch"`
	Changed   FileMap   `json:"changed" yaml:"changed"`
	Snapshot  FileMap   `json:"snapshot" yaml:"snapshot"`
}

// the record without its id, as used to compute it
type canonicalCommit struct {
	Message   string  `json:"message"`
	Timestamp string  `json:"timestamp"`
	Author    string  `json:"author"`
	Branch    string  `json:"branch"`
	Changed   FileMap `json:"changed"`
	Snapshot  FileMap `json:"snapshot"`
}

// CanonicalBytes encodes the commit without its id.
//
// Map keys are sorted and the timestamp is rendered in UTC with nanoseconds,
// so that equal records always produce the same bytes.
func (c *Commit) CanonicalBytes() ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(canonicalCommit{
		Message:   c.Message,
		Timestamp: c.Timestamp.UTC().Format(time.RFC3339Nano),
		Author:    c.Author,
		Branch:    c.Branch,
		Changed:   c.Changed.Clone(),
		Snapshot:  c.Snapshot.Clone(),
	})
}

// References every fingerprint the commit points to
func (c *Commit) References() map[string]struct{} {
	res := make(map[string]struct{}, len(c.Snapshot)+len(c.Changed))
	for _, fp := range c.Snapshot {
		res[fp] = struct{}{}
	}
	for _, fp := range c.Changed {
		res[fp] = struct{}{}
	}
	return res
}
