// Package moderation implements mod submission and the review of pending mods.
package moderation

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/modhub/internal/api/models"
	"github.com/jon4hz/modhub/internal/catalog"
	"github.com/samber/lo"
)

var (
	// ErrInvalidTransition is returned for any status change other than pending to approved or rejected.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrForbidden is returned when the actor may not moderate.
	ErrForbidden = errors.New("moderator access required")
	// ErrUnauthenticated is returned when an anonymous actor tries to submit a mod.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrNotPending is returned when the decided mod is not in the pending queue.
	ErrNotPending = errors.New("mod is not pending")
)

// Images are the emoji a submitter can pick as the mod image.
var Images = []string{"🎨", "🔫", "📜", "⚡", "👤", "💡", "🛡️", "🗡️", "🏹", "🎮"}

// Transition validates a status change. Approved and rejected are terminal.
func Transition(from, to models.ModStatus) error {
	if from == models.ModStatusPending && (to == models.ModStatusApproved || to == models.ModStatusRejected) {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// Actor is the signed in client performing an action.
type Actor interface {
	Token(ctx context.Context) string
	User() *models.User
	Role() models.Role
}

// Client is the part of the marketplace API used for moderation.
type Client interface {
	CreateMod(ctx context.Context, token string, upload models.Upload) (*models.Mod, error)
	UpdateModStatus(ctx context.Context, token string, decision models.Decision) (*models.Mod, error)
}

// Service runs the upload and review workflow.
type Service struct {
	client Client
	store  *catalog.Store
}

// New creates a moderation service.
func New(client Client, store *catalog.Store) *Service {
	return &Service{
		client: client,
		store:  store,
	}
}

// Submit uploads a new mod. The server files it as pending.
func (s *Service) Submit(ctx context.Context, actor Actor, upload models.Upload) (*models.Mod, error) {
	if actor.User() == nil {
		return nil, ErrUnauthenticated
	}
	if err := upload.Validate(); err != nil {
		return nil, err
	}

	mod, err := s.client.CreateMod(ctx, actor.Token(ctx), upload)
	if err != nil {
		return nil, err
	}
	if mod.Author == "" {
		mod.Author = actor.User().Username
		mod.AuthorAvatar = actor.User().Initials()
	}

	s.store.Invalidate(ctx, models.ModStatusPending)
	log.Info("Mod submitted for moderation", "id", mod.ID, "title", mod.Title, "author", mod.Author)
	return mod, nil
}

// Pending returns the moderation queue.
func (s *Service) Pending(ctx context.Context, actor Actor) ([]models.Mod, error) {
	if !actor.Role().AtLeast(models.RoleModerator) {
		return nil, ErrForbidden
	}
	mods, err := s.store.List(ctx, actor.Token(ctx), models.ModStatusPending)
	if err != nil {
		return nil, err
	}
	return lo.Filter(mods, func(m models.Mod, _ int) bool {
		return m.Status == "" || m.Status == models.ModStatusPending
	}), nil
}

// Approve publishes a pending mod.
func (s *Service) Approve(ctx context.Context, actor Actor, id int64) (*models.Mod, error) {
	return s.decide(ctx, actor, models.Decision{ModID: id, Status: models.ModStatusApproved})
}

// Reject declines a pending mod. The reason is optional.
func (s *Service) Reject(ctx context.Context, actor Actor, id int64, reason string) (*models.Mod, error) {
	return s.decide(ctx, actor, models.Decision{ModID: id, Status: models.ModStatusRejected, Reason: reason})
}

func (s *Service) decide(ctx context.Context, actor Actor, decision models.Decision) (*models.Mod, error) {
	if !actor.Role().AtLeast(models.RoleModerator) {
		return nil, ErrForbidden
	}

	pending, err := s.Pending(ctx, actor)
	if err != nil {
		return nil, err
	}
	current, ok := lo.Find(pending, func(m models.Mod) bool { return m.ID == decision.ModID })
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNotPending, decision.ModID)
	}
	if err := Transition(models.ModStatusPending, decision.Status); err != nil {
		return nil, err
	}

	mod, err := s.client.UpdateModStatus(ctx, actor.Token(ctx), decision)
	if err != nil {
		return nil, err
	}
	mod.Title = lo.CoalesceOrEmpty(mod.Title, current.Title)

	// the queue and the public catalog both changed
	s.store.Invalidate(ctx, models.ModStatusPending, models.ModStatusApproved)
	if decision.Status == models.ModStatusApproved {
		s.store.Load(ctx)
	}

	log.Info("Mod moderated", "id", decision.ModID, "status", decision.Status, "moderator", actor.User().Username)
	return mod, nil
}
