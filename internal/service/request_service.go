package service

import (
	"context"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type RequestService struct {
	base
	repo domain.Store
}

var _ domain.RequestService = (*RequestService)(nil)

func NewRequestService(repo domain.Store, eventBus domain.EventPublisher, logger *zerolog.Logger, opts ...Option) *RequestService {
	return &RequestService{
		base: newBase(eventBus, logger, opts),
		repo: repo,
	}
}

func (s *RequestService) CreateRequest(ctx context.Context, requestorID int64, in models.ItemRequestInput) (*models.ItemRequest, error) {
	if err := requireText("description", in.Description); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetUserByID(ctx, requestorID); err != nil {
		return nil, err
	}

	req := &models.ItemRequest{
		Description: in.Description,
		RequestorID: requestorID,
		Created:     s.now(),
	}
	if err := s.repo.CreateRequest(ctx, req); err != nil {
		return nil, err
	}

	s.publish(events.EventRequestCreated, events.EntityEventPayload{ID: req.ID, ActorID: requestorID})
	return req, nil
}

func (s *RequestService) ListOwn(ctx context.Context, requestorID int64) ([]*models.RequestView, error) {
	if _, err := s.repo.GetUserByID(ctx, requestorID); err != nil {
		return nil, err
	}
	reqs, err := s.repo.GetRequestsByRequestor(ctx, requestorID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, reqs)
}

func (s *RequestService) ListOthers(ctx context.Context, userID int64, page models.Page) ([]*models.RequestView, error) {
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	reqs, err := s.repo.GetRequestsExcept(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, reqs)
}

func (s *RequestService) GetRequest(ctx context.Context, userID, requestID int64) (*models.RequestView, error) {
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, []*models.ItemRequest{req})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *RequestService) views(ctx context.Context, reqs []*models.ItemRequest) ([]*models.RequestView, error) {
	views := make([]*models.RequestView, 0, len(reqs))
	if len(reqs) == 0 {
		return views, nil
	}

	ids := make([]int64, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ID
	}
	items, err := s.repo.GetItemsByRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byRequest := make(map[int64][]*models.Item)
	for _, item := range items {
		byRequest[*item.RequestID] = append(byRequest[*item.RequestID], item)
	}

	for _, r := range reqs {
		view := &models.RequestView{ItemRequest: *r, Items: byRequest[r.ID]}
		if view.Items == nil {
			view.Items = []*models.Item{}
		}
		views = append(views, view)
	}
	return views, nil
}
