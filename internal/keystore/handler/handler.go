package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"composite/internal/keystore/models"
	"composite/pkg/platform/httputil"
	"composite/pkg/requestcontext"
)

// Service defines the keystore operations the handler needs.
type Service interface {
	PutEntry(ctx context.Context, key, value any) (*models.Entry, bool, error)
	GetEntry(ctx context.Context, key any) (*models.Entry, error)
	DeleteEntry(ctx context.Context, key any) error
	ListEntries(ctx context.Context) ([]*models.Entry, error)
	ClearEntries(ctx context.Context) (int, error)
	AddMember(ctx context.Context, name string, member any) (bool, error)
	HasMember(ctx context.Context, name string, member any) (bool, error)
	RemoveMember(ctx context.Context, name string, member any) error
	Members(ctx context.Context, name string) ([]any, error)
	SetNames(ctx context.Context) ([]string, error)
	DropSet(ctx context.Context, name string) error
}

// Handler wires keystore endpoints to the keystore service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a keystore handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the public keystore endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Put("/v1/entries", h.HandlePutEntry)
	r.Get("/v1/entries", h.HandleListEntries)
	r.Post("/v1/entries/lookup", h.HandleLookupEntry)
	r.Post("/v1/entries/remove", h.HandleRemoveEntry)

	r.Get("/v1/sets", h.HandleListSets)
	r.Get("/v1/sets/{name}", h.HandleSetMembers)
	r.Post("/v1/sets/{name}/members", h.HandleAddMember)
	r.Post("/v1/sets/{name}/contains", h.HandleContains)
	r.Post("/v1/sets/{name}/remove", h.HandleRemoveMember)
}

// RegisterAdmin mounts the destructive endpoints. Callers wrap r with an
// admin guard.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Delete("/v1/entries", h.HandleClearEntries)
	r.Delete("/v1/sets/{name}", h.HandleDropSet)
}

// HandlePutEntry handles PUT /v1/entries.
func (h *Handler) HandlePutEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.PutEntryRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	e, created, err := h.service.PutEntry(ctx, req.Key.Value, req.Value.Value)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to put entry",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httputil.WriteJSON(w, status, models.PutEntryResponse{ID: e.ID.String(), Created: created})
}

// HandleLookupEntry handles POST /v1/entries/lookup.
func (h *Handler) HandleLookupEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.KeyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	e, err := h.service.GetEntry(ctx, req.Key.Value)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToEntryResponse(e))
}

// HandleRemoveEntry handles POST /v1/entries/remove.
func (h *Handler) HandleRemoveEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.KeyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.DeleteEntry(ctx, req.Key.Value); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListEntries handles GET /v1/entries.
func (h *Handler) HandleListEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entries, err := h.service.ListEntries(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list entries",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToListEntriesResponse(entries))
}

// HandleClearEntries handles DELETE /v1/entries.
func (h *Handler) HandleClearEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	n, err := h.service.ClearEntries(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ClearResponse{Removed: n})
}

// HandleListSets handles GET /v1/sets.
func (h *Handler) HandleListSets(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.SetNames(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"sets": names})
}

// HandleSetMembers handles GET /v1/sets/{name}.
func (h *Handler) HandleSetMembers(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	members, err := h.service.Members(r.Context(), name)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToSetMembersResponse(name, members))
}

// HandleAddMember handles POST /v1/sets/{name}/members.
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	name := chi.URLParam(r, "name")

	req, ok := httputil.DecodeAndPrepare[models.MemberRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	added, err := h.service.AddMember(ctx, name, req.Member.Value)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to add set member",
			"request_id", requestID,
			"set", name,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	httputil.WriteJSON(w, status, models.AddMemberResponse{Added: added})
}

// HandleContains handles POST /v1/sets/{name}/contains.
func (h *Handler) HandleContains(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	name := chi.URLParam(r, "name")

	req, ok := httputil.DecodeAndPrepare[models.MemberRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	present, err := h.service.HasMember(ctx, name, req.Member.Value)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ContainsResponse{Present: present})
}

// HandleRemoveMember handles POST /v1/sets/{name}/remove.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	name := chi.URLParam(r, "name")

	req, ok := httputil.DecodeAndPrepare[models.MemberRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.RemoveMember(ctx, name, req.Member.Value); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDropSet handles DELETE /v1/sets/{name}.
func (h *Handler) HandleDropSet(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DropSet(r.Context(), chi.URLParam(r, "name")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
