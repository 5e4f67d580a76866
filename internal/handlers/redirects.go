package handlers

import (
	"context"
	"errors"
	"sort"

	"github.com/abralabs/redirects/internal/redirect"
	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

// RedirectHandler handles the admin CRUD operations for redirect records.
type RedirectHandler struct {
	repo   redirect.Repository
	logger *zap.Logger
}

// NewRedirectHandler creates a new redirect CRUD handler.
func NewRedirectHandler(repo redirect.Repository, logger *zap.Logger) *RedirectHandler {
	return &RedirectHandler{
		repo:   repo,
		logger: logger,
	}
}

// List returns all redirects together with the permitted status codes.
func (h *RedirectHandler) List(ctx context.Context, _ *struct{}) (*ListRedirectsResponse, error) {
	records, err := h.repo.All(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list redirects")
	}

	resp := &ListRedirectsResponse{}
	resp.Body.Redirects = make([]RedirectView, 0, len(records))

	for _, r := range records {
		resp.Body.Redirects = append(resp.Body.Redirects, toView(r))
	}

	resp.Body.StatusCodes = statusCodeOptions()

	return resp, nil
}

// Create stores a new redirect. Duplicate sources are rejected before
// persistence; the backend unique constraint remains the authority.
func (h *RedirectHandler) Create(ctx context.Context, req *CreateRedirectRequest) (*CreateRedirectResponse, error) {
	if req.Body.StatusCode != 0 && !redirect.ValidStatusCode(req.Body.StatusCode) {
		return nil, huma.Error422UnprocessableEntity("status_code must be one of 301, 302, 307, 308")
	}

	exists, err := h.repo.Exists(ctx, req.Body.Source, "")
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to check redirect source")
	}

	if exists {
		return nil, huma.Error409Conflict("a redirect with this source URL already exists")
	}

	rec, err := h.repo.Store(ctx, redirect.CreateData{
		Source:      req.Body.Source,
		Destination: req.Body.Destination,
		StatusCode:  req.Body.StatusCode,
	})
	if err != nil {
		if errors.Is(err, redirect.ErrDuplicateSource) {
			return nil, huma.Error409Conflict("a redirect with this source URL already exists")
		}

		h.logger.Error("failed to store redirect",
			zap.String("source", req.Body.Source),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to store redirect")
	}

	return &CreateRedirectResponse{Body: toView(*rec)}, nil
}

// Get returns a single redirect by id.
func (h *RedirectHandler) Get(ctx context.Context, req *GetRedirectRequest) (*GetRedirectResponse, error) {
	records, err := h.repo.All(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to load redirect")
	}

	for _, r := range records {
		if r.ID == req.ID {
			return &GetRedirectResponse{Body: toView(r)}, nil
		}
	}

	return nil, huma.Error404NotFound("redirect not found")
}

// Update applies a partial update to an existing redirect.
func (h *RedirectHandler) Update(ctx context.Context, req *UpdateRedirectRequest) (*UpdateRedirectResponse, error) {
	if req.Body.StatusCode != nil && !redirect.ValidStatusCode(*req.Body.StatusCode) {
		return nil, huma.Error422UnprocessableEntity("status_code must be one of 301, 302, 307, 308")
	}

	if req.Body.Source != nil {
		exists, err := h.repo.Exists(ctx, *req.Body.Source, req.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to check redirect source")
		}

		if exists {
			return nil, huma.Error409Conflict("a redirect with this source URL already exists")
		}
	}

	rec, err := h.repo.Update(ctx, req.ID, redirect.UpdateData{
		Source:      req.Body.Source,
		Destination: req.Body.Destination,
		StatusCode:  req.Body.StatusCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, redirect.ErrNotFound):
			return nil, huma.Error404NotFound("redirect not found")
		case errors.Is(err, redirect.ErrDuplicateSource):
			return nil, huma.Error409Conflict("a redirect with this source URL already exists")
		}

		h.logger.Error("failed to update redirect",
			zap.String("id", req.ID),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to update redirect")
	}

	return &UpdateRedirectResponse{Body: toView(*rec)}, nil
}

// Delete removes a redirect. Deleting a missing id succeeds silently.
func (h *RedirectHandler) Delete(ctx context.Context, req *DeleteRedirectRequest) (*struct{}, error) {
	if _, err := h.repo.Delete(ctx, req.ID); err != nil {
		h.logger.Error("failed to delete redirect",
			zap.String("id", req.ID),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to delete redirect")
	}

	return &struct{}{}, nil
}

func toView(r redirect.Record) RedirectView {
	return RedirectView{
		ID:          r.ID,
		Source:      r.Source,
		Destination: r.Destination,
		StatusCode:  r.StatusCode,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func statusCodeOptions() []StatusCodeOption {
	codes := make([]int, 0, len(redirect.StatusCodes))
	for code := range redirect.StatusCodes {
		codes = append(codes, code)
	}

	sort.Ints(codes)

	options := make([]StatusCodeOption, 0, len(codes))
	for _, code := range codes {
		options = append(options, StatusCodeOption{Code: code, Label: redirect.StatusCodes[code]})
	}

	return options
}
