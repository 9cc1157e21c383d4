package service

import (
	"context"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type UserService struct {
	base
	repo domain.UserRepository
}

var _ domain.UserService = (*UserService)(nil)

func NewUserService(repo domain.UserRepository, eventBus domain.EventPublisher, logger *zerolog.Logger, opts ...Option) *UserService {
	return &UserService{
		base: newBase(eventBus, logger, opts),
		repo: repo,
	}
}

func (s *UserService) CreateUser(ctx context.Context, in models.UserInput) (*models.User, error) {
	if err := requireText("name", in.Name); err != nil {
		return nil, err
	}
	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}

	user := &models.User{Name: in.Name, Email: in.Email}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user created")
	s.publish(events.EventUserCreated, events.EntityEventPayload{ID: user.ID})
	return user, nil
}

// PatchUser merges the present fields. Email uniqueness is enforced by the
// store, which ignores the user's own row, so keeping the same email passes.
func (s *UserService) PatchUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := requireTextPatch("name", patch.Name); err != nil {
		return nil, err
	}
	if patch.EmailChanges(user) {
		if err := validateEmail(*patch.Email); err != nil {
			return nil, err
		}
	}

	patch.Apply(user)
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.repo.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

// DeleteUser does not check for items or bookings that reference the user.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}
