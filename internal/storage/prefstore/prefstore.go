// Package prefstore is the durable client storage: one key holding the
// admin token, one key holding the preferred display language.
package prefstore

import (
	"context"
	"errors"
)

const (
	KeyAdminToken = "admin_token"
	KeyLanguage   = "language"
)

var ErrNotFound = errors.New("preference not found")

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
