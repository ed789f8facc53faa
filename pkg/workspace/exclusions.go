package workspace

import (
	"path"
	"strings"
)

// Exclusions is a fixed set of path fragments skipped when walking a working directory.
//
// A name matches any path component, a path matches one exact relative path.
type Exclusions struct {
	names map[string]struct{}
	paths map[string]struct{}
}

// NewExclusions builds an exclusion set from path component names
func NewExclusions(names ...string) Exclusions {
	e := Exclusions{
		names: make(map[string]struct{}, len(names)),
		paths: make(map[string]struct{}),
	}
	for _, n := range names {
		if n = strings.Trim(n, "/"); n != "" {
			e.names[n] = struct{}{}
		}
	}
	return e
}

// DefaultExclusions skips the repository metadata directory, caches and other version control files
func DefaultExclusions(metaDir string) Exclusions {
	return NewExclusions(metaDir, "__pycache__", ".git", ".gitignore")
}

// WithPath returns a copy of the set that also excludes one relative path
func (e Exclusions) WithPath(rel string) Exclusions {
	res := Exclusions{
		names: e.names,
		paths: make(map[string]struct{}, len(e.paths)+1),
	}
	for k := range e.paths {
		res.paths[k] = struct{}{}
	}
	res.paths[path.Clean(rel)] = struct{}{}
	return res
}

// Match a slash separated relative path
func (e Exclusions) Match(rel string) bool {
	if _, ok := e.paths[rel]; ok {
		return true
	}
	for _, part := range strings.Split(rel, "/") {
		if _, ok := e.names[part]; ok {
			return true
		}
	}
	return false
}
