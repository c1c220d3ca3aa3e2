package service

import (
	"context"
	"time"

	"github.com/sharmalakshay/listky/internal/hooks"
	"github.com/sharmalakshay/listky/internal/models"
	"github.com/sharmalakshay/listky/internal/repository"
	"github.com/sharmalakshay/listky/internal/tracking"
	"github.com/sharmalakshay/listky/pkg/validator"
)

type ListService struct {
	listRepo  *repository.ListRepository
	tracker   *tracking.Tracker
	validator *validator.Validator
	hooks     *hooks.Registry
}

// NewListService creates a new list service
func NewListService(
	listRepo *repository.ListRepository,
	tracker *tracking.Tracker,
	registry *hooks.Registry,
) *ListService {
	return &ListService{
		listRepo:  listRepo,
		tracker:   tracker,
		validator: validator.New(),
		hooks:     registry,
	}
}

// Create creates a new list owned by username
func (s *ListService) Create(ctx context.Context, username string, req *models.CreateListRequest) (*models.List, error) {
	req.Slug = s.validator.SanitizeString(req.Slug)
	req.Title = s.validator.SanitizeString(req.Title)

	if err := s.validator.ValidateSlug(req.Slug); err != nil {
		return nil, err
	}

	if err := s.validator.ValidateTitle(req.Title); err != nil {
		return nil, err
	}

	if err := s.validator.ValidateContent(req.Content); err != nil {
		return nil, err
	}

	list := &models.List{
		Username: username,
		Slug:     req.Slug,
		Title:    req.Title,
		Content:  req.Content,
		IsPublic: req.IsPublic,
	}

	if err := s.listRepo.Create(list); err != nil {
		return nil, err
	}

	s.hooks.Emit(hooks.EventListCreated, map[string]any{
		"username":  list.Username,
		"slug":      list.Slug,
		"title":     list.Title,
		"is_public": list.IsPublic,
	})

	return list, nil
}

// Get fetches a list by owner and slug. "Not found" and "not owned" are
// deliberately the same error: queries are always scoped by the owner's
// namespace.
func (s *ListService) Get(ctx context.Context, username, slug string) (*models.List, error) {
	return s.listRepo.GetBySlug(username, slug)
}

// ListByOwner returns a user's lists, public ones only unless the owner
// is asking
func (s *ListService) ListByOwner(ctx context.Context, username string, includePrivate bool) ([]*models.List, error) {
	return s.listRepo.ListByOwner(username, !includePrivate)
}

// Update applies the non-nil fields of req to an existing list
func (s *ListService) Update(ctx context.Context, username, slug string, req *models.UpdateListRequest) (*models.List, error) {
	list, err := s.listRepo.GetBySlug(username, slug)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		list.Title = s.validator.SanitizeString(*req.Title)
	}
	if req.Content != nil {
		list.Content = *req.Content
	}
	if req.IsPublic != nil {
		list.IsPublic = *req.IsPublic
	}

	if err := s.validator.ValidateTitle(list.Title); err != nil {
		return nil, err
	}

	if err := s.validator.ValidateContent(list.Content); err != nil {
		return nil, err
	}

	if err := s.listRepo.Update(list); err != nil {
		return nil, err
	}

	s.hooks.Emit(hooks.EventListUpdated, map[string]any{
		"username": list.Username,
		"slug":     list.Slug,
		"title":    list.Title,
	})

	return list, nil
}

// Delete removes a list and, via the cascading foreign key, its view rows
func (s *ListService) Delete(ctx context.Context, username, slug string) error {
	if err := s.listRepo.Delete(username, slug); err != nil {
		return err
	}

	s.hooks.Emit(hooks.EventListDeleted, map[string]any{
		"username": username,
		"slug":     slug,
	})

	return nil
}

// RecordView counts a view of a public list. It never fails: private
// lists, missing lists, and storage errors all come back as false, and
// the page-view request proceeds either way.
func (s *ListService) RecordView(ctx context.Context, list *models.List, clientIP string) bool {
	if list == nil || !list.IsPublic {
		return false
	}

	recorded := s.tracker.TrackView(list.ID, clientIP, time.Now())

	s.hooks.Emit(hooks.EventListViewed, map[string]any{
		"username": list.Username,
		"slug":     list.Slug,
		"recorded": recorded,
	})

	return recorded
}

// Trending returns the top public lists by distinct visitors in the window
func (s *ListService) Trending(ctx context.Context, windowDays, limit int) ([]*models.TrendingList, error) {
	return s.tracker.Trending(windowDays, limit)
}
