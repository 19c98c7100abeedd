/*
Package factory builds planner repositories for a session.

PURPOSE:
  The active repository depends on the sign-in state: signed out uses the
  local SQLite store, signed in uses the user's document store. The
  factory owns both backends so callers only say which user (if any).

USAGE:
  f := factory.NewRepositoryFactory(local, docDB)
  repo, err := f.ForUser("uid-123")
  days.SetRepository(repo)
  err = days.LoadAll(ctx)

SEE ALSO:
  - store/sqlite: Local repository
  - store/document: Per-user repository
  - api/session.go: Sign-in / sign-out switching
*/
package factory

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/warp/year-planner/planner"
	"github.com/warp/year-planner/store/document"
)

// ErrRemoteDisabled is returned by ForUser when no document database is
// configured.
var ErrRemoteDisabled = errors.New("per-user storage is not configured")

// ErrMissingUser is returned by ForUser for a blank user id.
var ErrMissingUser = errors.New("user id is required")

// RepositoryFactory hands out the repository matching a sign-in state.
type RepositoryFactory struct {
	local planner.Repository
	docs  *gorm.DB
}

// NewRepositoryFactory creates a factory. docs may be nil to disable
// per-user storage.
func NewRepositoryFactory(local planner.Repository, docs *gorm.DB) *RepositoryFactory {
	return &RepositoryFactory{local: local, docs: docs}
}

// Local returns the signed-out repository.
func (f *RepositoryFactory) Local() planner.Repository {
	return f.local
}

// RemoteEnabled reports whether ForUser can succeed.
func (f *RepositoryFactory) RemoteEnabled() bool {
	return f.docs != nil
}

// ForUser returns the document repository scoped to userID.
func (f *RepositoryFactory) ForUser(userID string) (planner.Repository, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUser
	}
	if f.docs == nil {
		return nil, ErrRemoteDisabled
	}
	return document.New(f.docs, userID), nil
}
