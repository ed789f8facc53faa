package localfs

import (
	"path"
	"strings"

	"github.com/oneconcern/tico/pkg/store/status"
)

const (
	branchesDir  = "branches"
	headFile     = "HEAD"
	recordSuffix = '\n'
)

func headPath(branch string) string {
	return path.Join(branchesDir, branch, headFile)
}

func validBranch(name string) error {
	if strings.TrimSpace(name) == "" {
		return status.ErrNameIsRequired
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) || name != strings.TrimSpace(name) {
		return status.ErrNameIsRequired.WrapMessage("invalid branch name " + name)
	}
	return nil
}
