package api

import (
	"context"
	"strings"
	"sync"

	"github.com/warp/year-planner/factory"
	"github.com/warp/year-planner/internal/log"
	"github.com/warp/year-planner/planner"
)

// Session tracks the sign-in state and keeps the Day Store pointed at the
// matching repository. Every switch is followed by a reload.
type Session struct {
	mu     sync.Mutex
	days   *planner.DayStore
	repos  *factory.RepositoryFactory
	userID string
}

func NewSession(days *planner.DayStore, repos *factory.RepositoryFactory) *Session {
	return &Session{days: days, repos: repos}
}

// SignIn switches to the user's repository and loads it. On a failed load
// the previous repository stays active.
func (s *Session) SignIn(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID = strings.TrimSpace(userID)
	repo, err := s.repos.ForUser(userID)
	if err != nil {
		return err
	}
	if err := s.switchTo(ctx, repo); err != nil {
		return err
	}
	s.userID = userID
	log.Info("signed in", "user", userID)
	return nil
}

// SignOut switches back to the local repository.
func (s *Session) SignOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.switchTo(ctx, s.repos.Local()); err != nil {
		return err
	}
	log.Info("signed out", "user", s.userID)
	s.userID = ""
	return nil
}

func (s *Session) switchTo(ctx context.Context, repo planner.Repository) error {
	previous := s.current()
	s.days.SetRepository(repo)
	if err := s.days.LoadAll(ctx); err != nil {
		s.days.SetRepository(previous)
		return err
	}
	return nil
}

func (s *Session) current() planner.Repository {
	if s.userID == "" {
		return s.repos.Local()
	}
	repo, err := s.repos.ForUser(s.userID)
	if err != nil {
		return s.repos.Local()
	}
	return repo
}

func (s *Session) State() SessionDTO {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionDTO{
		UserID:    s.userID,
		SignedIn:  s.userID != "",
		Available: s.repos.RemoteEnabled(),
	}
}
