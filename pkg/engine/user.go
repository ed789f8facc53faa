package engine

import (
	"context"
	"os"
	osuser "os/user"
	"strings"

	"github.com/oneconcern/tico/pkg/engine/status"
	"go.uber.org/zap"
)

// UserResolver returns the name of the current user, or an empty string
type UserResolver interface {
	CurrentUser() string
}

// UserFunc adapts a function to a UserResolver
type UserFunc func() string

// CurrentUser name
func (f UserFunc) CurrentUser() string { return f() }

// OSUser resolves the user from the operating system account
func OSUser() UserResolver {
	return UserFunc(func() string {
		if u, err := osuser.Current(); err == nil && u.Username != "" {
			return u.Username
		}
		return os.Getenv("USER")
	})
}

// Whoami returns the current user of the repository
func (r *Repository) Whoami(ctx context.Context) string {
	return r.meta.User
}

// SetUser changes the current user of the repository
func (r *Repository) SetUser(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return status.ErrNameIsRequired.WrapMessage("user")
	}
	previous := r.meta.User
	r.meta.User = name
	if err := r.saveMeta(); err != nil {
		r.meta.User = previous
		return err
	}
	r.l.Info("user changed", zap.String("user", name))
	return nil
}
