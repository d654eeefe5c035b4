package service

import (
	"context"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type RequestSvc struct {
	repo   domain.Repository
	clock  domain.Clock
	logger *zerolog.Logger
}

func NewRequestService(repo domain.Repository, clock domain.Clock, logger *zerolog.Logger) *RequestSvc {
	if clock == nil {
		clock = SystemClock{}
	}
	return &RequestSvc{repo: repo, clock: clock, logger: logger}
}

func (s *RequestSvc) Create(ctx context.Context, requestorID int64, description string) (*models.ItemRequest, error) {
	if _, err := s.repo.GetUser(ctx, requestorID); err != nil {
		return nil, err
	}

	request := &models.ItemRequest{
		Description: description,
		RequestorID: requestorID,
		CreatedAt:   s.clock.Now(),
		Items:       []*models.Item{},
	}
	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *RequestSvc) Read(ctx context.Context, userID, requestID int64) (*models.ItemRequest, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	request, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, []*models.ItemRequest{request}); err != nil {
		return nil, err
	}
	return request, nil
}

// ListOwn returns the user's requests, newest first, with fulfilling items.
func (s *RequestSvc) ListOwn(ctx context.Context, requestorID int64) ([]*models.ItemRequest, error) {
	if _, err := s.repo.GetUser(ctx, requestorID); err != nil {
		return nil, err
	}

	requests, err := s.repo.GetUserRequests(ctx, requestorID)
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// ListOthers returns other users' requests, newest first, paged.
func (s *RequestSvc) ListOthers(ctx context.Context, userID int64, page models.Page) ([]*models.ItemRequest, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.repo.GetOtherUsersRequests(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// attachItems resolves fulfilling items for a batch of requests in one query.
func (s *RequestSvc) attachItems(ctx context.Context, requests []*models.ItemRequest) error {
	if len(requests) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(requests))
	for _, r := range requests {
		r.Items = []*models.Item{}
		ids = append(ids, r.ID)
	}

	items, err := s.repo.GetItemsByRequestIDs(ctx, ids)
	if err != nil {
		return err
	}

	byRequest := make(map[int64][]*models.Item)
	for _, item := range items {
		byRequest[item.RequestID] = append(byRequest[item.RequestID], item)
	}
	for _, r := range requests {
		if fulfilling, ok := byRequest[r.ID]; ok {
			r.Items = fulfilling
		}
	}
	return nil
}
