package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sharmalakshay/listky/internal/middleware"
	"github.com/sharmalakshay/listky/internal/models"
	"github.com/sharmalakshay/listky/internal/service"
)

type ListHandler struct {
	Lists *service.ListService
	Auth  *AuthHandler

	TrendingWindowDays int
	TrendingLimit      int
}

// Trending handles GET /trending
func (h *ListHandler) Trending(w http.ResponseWriter, r *http.Request) {
	trending, err := h.Lists.Trending(r.Context(), h.TrendingWindowDays, h.TrendingLimit)
	if err != nil {
		DomainError(w, err)
		return
	}

	if trending == nil {
		trending = []*models.TrendingList{}
	}

	WriteJSON(w, http.StatusOK, trending)
}

// Profile handles GET /{username}: the user's public profile with their
// public lists. The owner additionally sees private lists.
func (h *ListHandler) Profile(w http.ResponseWriter, r *http.Request) {
	username := strings.ToLower(chi.URLParam(r, "username"))

	user, err := h.Auth.Auth.GetUser(r.Context(), username)
	if err != nil {
		DomainError(w, err)
		return
	}

	isOwner := h.Auth.sessionUser(r) == username

	lists, err := h.Lists.ListByOwner(r.Context(), username, isOwner)
	if err != nil {
		DomainError(w, err)
		return
	}
	if lists == nil {
		lists = []*models.List{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":  user,
		"lists": lists,
	})
}

// View handles GET /{username}/{slug}. Public lists have their view
// tracked; a tracking failure never affects the response. Private lists
// are only served to their owner.
func (h *ListHandler) View(w http.ResponseWriter, r *http.Request) {
	username := strings.ToLower(chi.URLParam(r, "username"))
	slug := chi.URLParam(r, "slug")

	list, err := h.Lists.Get(r.Context(), username, slug)
	if err != nil {
		DomainError(w, err)
		return
	}

	if !list.IsPublic {
		if h.Auth.sessionUser(r) != username {
			JSONError(w, "this list is private", http.StatusForbidden)
			return
		}
		WriteJSON(w, http.StatusOK, list)
		return
	}

	h.Lists.RecordView(r.Context(), list, middleware.ClientIP(r))

	WriteJSON(w, http.StatusOK, list)
}

// Create handles POST /{username}/lists
func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	username, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	var req models.CreateListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, "invalid json", http.StatusBadRequest)
		return
	}

	list, err := h.Lists.Create(r.Context(), username, &req)
	if err != nil {
		DomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, list)
}

// Manage handles GET /{username}/manage: all of the owner's lists,
// private included
func (h *ListHandler) Manage(w http.ResponseWriter, r *http.Request) {
	username, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	lists, err := h.Lists.ListByOwner(r.Context(), username, true)
	if err != nil {
		DomainError(w, err)
		return
	}
	if lists == nil {
		lists = []*models.List{}
	}

	WriteJSON(w, http.StatusOK, lists)
}

// Update handles PUT /{username}/{slug}
func (h *ListHandler) Update(w http.ResponseWriter, r *http.Request) {
	username, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	slug := chi.URLParam(r, "slug")

	var req models.UpdateListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, "invalid json", http.StatusBadRequest)
		return
	}

	list, err := h.Lists.Update(r.Context(), username, slug, &req)
	if err != nil {
		DomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, list)
}

// Delete handles DELETE /{username}/{slug}
func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	slug := chi.URLParam(r, "slug")

	if err := h.Lists.Delete(r.Context(), username, slug); err != nil {
		DomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// requireOwner checks that the session user matches the {username} path
// segment. Routes only ever mutate the authenticated user's own
// namespace, so there is no separate "exists but not owned" outcome.
func (h *ListHandler) requireOwner(w http.ResponseWriter, r *http.Request) (string, bool) {
	username := strings.ToLower(chi.URLParam(r, "username"))

	current := h.Auth.sessionUser(r)
	if current == "" || current != username {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}

	return username, true
}
