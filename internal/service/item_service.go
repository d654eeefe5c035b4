package service

import (
	"context"
	"fmt"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/metrics"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// ItemSvc owns the item read models: comments on every read, the adjacent
// approved bookings for owners, and the comment-eligibility rule.
type ItemSvc struct {
	repo     domain.Repository
	cache    domain.ViewCache
	eventBus domain.EventPublisher
	clock    domain.Clock
	logger   *zerolog.Logger
}

func NewItemService(repo domain.Repository, cache domain.ViewCache, eventBus domain.EventPublisher, clock domain.Clock, logger *zerolog.Logger) *ItemSvc {
	if clock == nil {
		clock = SystemClock{}
	}
	return &ItemSvc{
		repo:     repo,
		cache:    cache,
		eventBus: eventBus,
		clock:    clock,
		logger:   logger,
	}
}

func (s *ItemSvc) Create(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error) {
	if _, err := s.repo.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}
	if item.RequestID != 0 {
		if _, err := s.repo.GetRequest(ctx, item.RequestID); err != nil {
			return nil, err
		}
	}

	item.OwnerID = ownerID
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Read returns the item view. The owner additionally sees the last and next
// approved bookings; everyone else gets the cached plain view.
func (s *ItemSvc) Read(ctx context.Context, userID, itemID int64) (*models.ItemView, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if item.OwnerID != userID {
		return s.readCached(ctx, item)
	}
	return s.buildView(ctx, item, true)
}

// ReadAll returns the owner's items with derived views, ordered by id.
func (s *ItemSvc) ReadAll(ctx context.Context, ownerID int64) ([]*models.ItemView, error) {
	if _, err := s.repo.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.GetOwnerItems(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	views := make([]*models.ItemView, 0, len(items))
	for _, item := range items {
		view, err := s.buildView(ctx, item, true)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Update applies a partial update. Only the owner may edit.
func (s *ItemSvc) Update(ctx context.Context, ownerID, itemID int64, update models.ItemUpdate) (*models.ItemView, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: user %d cannot edit item %d", ErrAccessDenied, ownerID, itemID)
	}

	if update.Name != nil {
		item.Name = *update.Name
	}
	if update.Description != nil {
		item.Description = *update.Description
	}
	if update.Available != nil {
		item.Available = *update.Available
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	s.invalidate(ctx, itemID)

	return s.buildView(ctx, item, true)
}

// Search returns available items matching the text; blank text matches none.
func (s *ItemSvc) Search(ctx context.Context, text string) ([]*models.Item, error) {
	return s.repo.SearchItems(ctx, text)
}

// CreateComment lets a renter leave a comment once an approved booking of
// theirs on the item has begun.
func (s *ItemSvc) CreateComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error) {
	author, err := s.repo.GetUser(ctx, authorID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	total, begun, err := s.repo.ApprovedBookingCounts(ctx, itemID, authorID, now)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: user %d, item %d", ErrNotBooked, authorID, itemID)
	}
	if begun == 0 {
		return nil, fmt.Errorf("%w: user %d, item %d", ErrBookingNotStarted, authorID, itemID)
	}

	if _, err := s.repo.GetItem(ctx, itemID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: author.Name,
		Text:       text,
		CreatedAt:  now,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	s.invalidate(ctx, itemID)

	metrics.IncCommentCreated()
	if s.eventBus != nil {
		payload := events.CommentEventPayload{
			CommentID: comment.ID,
			ItemID:    itemID,
			AuthorID:  authorID,
		}
		if err := s.eventBus.PublishJSON(events.EventCommentCreated, payload); err != nil {
			s.logger.Error().Err(err).Int64("comment_id", comment.ID).Msg("publish event error")
		}
	}
	return comment, nil
}

// readCached serves the non-owner view from cache when possible.
func (s *ItemSvc) readCached(ctx context.Context, item *models.Item) (*models.ItemView, error) {
	if s.cache != nil {
		view, err := s.cache.GetItemView(ctx, item.ID)
		if err != nil {
			s.logger.Warn().Err(err).Int64("item_id", item.ID).Msg("item view cache read failed")
		} else if view != nil {
			return view, nil
		}
	}

	view, err := s.buildView(ctx, item, false)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetItemView(ctx, view); err != nil {
			s.logger.Warn().Err(err).Int64("item_id", item.ID).Msg("item view cache write failed")
		}
	}
	return view, nil
}

func (s *ItemSvc) buildView(ctx context.Context, item *models.Item, owner bool) (*models.ItemView, error) {
	comments, err := s.repo.GetItemComments(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []*models.Comment{}
	}

	view := &models.ItemView{Item: *item, Comments: comments}
	if !owner {
		return view, nil
	}

	now := s.clock.Now()
	last, err := s.repo.LatestApprovedBefore(ctx, item.ID, now)
	if err != nil {
		return nil, err
	}
	next, err := s.repo.EarliestApprovedAfter(ctx, item.ID, now)
	if err != nil {
		return nil, err
	}
	view.LastBooking = last.Summary()
	view.NextBooking = next.Summary()
	return view, nil
}

func (s *ItemSvc) invalidate(ctx context.Context, itemID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateItemView(ctx, itemID); err != nil {
		s.logger.Warn().Err(err).Int64("item_id", itemID).Msg("item view cache invalidation failed")
	}
}
