package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ybenamar/guestlist/internal/metrics"
	"github.com/ybenamar/guestlist/internal/model"
	"github.com/ybenamar/guestlist/internal/service"
)

// AdminHandler exposes the administrative API. The admin-token middleware in
// front of these routes supplies the trusted identity; field validation is
// identical to the guest-facing path.
type AdminHandler struct {
	svc *service.Admin
	m   *metrics.Metrics
}

// NewAdmin constructs the admin handler.
func NewAdmin(svc *service.Admin, m *metrics.Metrics) *AdminHandler {
	return &AdminHandler{svc: svc, m: m}
}

// Routes mounts the admin endpoints.
func (h *AdminHandler) Routes(r chi.Router) {
	r.Post("/groups", h.CreateGroup)
	r.Get("/groups", h.ListGroups)
	r.Get("/groups/{groupID}", h.GetGroup)
	r.Patch("/groups/{groupID}", h.UpdateGroup)
	r.Delete("/groups/{groupID}", h.DeleteGroup)
	r.Post("/groups/{groupID}/invitation-sent", h.MarkInvitationSent)
	r.Get("/groups/{groupID}/guests", h.ListGuests)
	r.Post("/groups/{groupID}/guests", h.CreateGuest)
	r.Put("/guests/{guestID}", h.UpdateGuest)
	r.Delete("/guests/{guestID}", h.DeleteGuest)
	r.Get("/attendees", h.ListGuestsByLocation)
	r.Get("/stats", h.Stats)
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, model.ErrNotFound
	}
	return id, nil
}

// CreateGroup handles POST /api/admin/groups.
func (h *AdminHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req model.CreateGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "", "invalid request body: "+err.Error())
		return
	}
	group, err := h.svc.CreateGroup(r.Context(), req, r.Header.Get("X-Admin-User"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

// ListGroups handles GET /api/admin/groups.
func (h *AdminHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.ListGroups(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if groups == nil {
		groups = []model.GroupWithCount{}
	}
	writeJSON(w, http.StatusOK, groups)
}

// GetGroup handles GET /api/admin/groups/{groupID}.
func (h *AdminHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "groupID")
	if err != nil {
		respondError(w, err)
		return
	}
	group, err := h.svc.GetGroup(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

// UpdateGroup handles PATCH /api/admin/groups/{groupID}.
func (h *AdminHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "groupID")
	if err != nil {
		respondError(w, err)
		return
	}
	var req model.UpdateGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "", "invalid request body: "+err.Error())
		return
	}
	group, err := h.svc.UpdateGroup(r.Context(), id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

// DeleteGroup handles DELETE /api/admin/groups/{groupID}.
func (h *AdminHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "groupID")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.svc.DeleteGroup(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkInvitationSent handles POST /api/admin/groups/{groupID}/invitation-sent.
func (h *AdminHandler) MarkInvitationSent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "groupID")
	if err != nil {
		respondError(w, err)
		return
	}
	group, err := h.svc.MarkInvitationSent(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

// ListGuests handles GET /api/admin/groups/{groupID}/guests.
func (h *AdminHandler) ListGuests(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "groupID")
	if err != nil {
		respondError(w, err)
		return
	}
	guests, err := h.svc.ListGuests(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if guests == nil {
		guests = []model.Guest{}
	}
	writeJSON(w, http.StatusOK, guests)
}

type adminGuestRequest struct {
	Guest model.GuestSubmission `json:"guest"`
}

// CreateGuest handles POST /api/admin/groups/{groupID}/guests.
func (h *AdminHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "groupID")
	if err != nil {
		respondError(w, err)
		return
	}
	var req adminGuestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "", "invalid request body: "+err.Error())
		return
	}
	gst, err := h.svc.CreateGuest(r.Context(), id, req.Guest)
	if err != nil {
		respondError(w, err)
		return
	}
	h.m.GuestsCreated.Inc()
	writeJSON(w, http.StatusCreated, gst)
}

// UpdateGuest handles PUT /api/admin/guests/{guestID}.
func (h *AdminHandler) UpdateGuest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "guestID")
	if err != nil {
		respondError(w, err)
		return
	}
	var req adminGuestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "", "invalid request body: "+err.Error())
		return
	}
	gst, err := h.svc.UpdateGuest(r.Context(), id, req.Guest)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gst)
}

// DeleteGuest handles DELETE /api/admin/guests/{guestID}.
func (h *AdminHandler) DeleteGuest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "guestID")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.svc.DeleteGuest(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListGuestsByLocation handles GET /api/admin/attendees?location=.
func (h *AdminHandler) ListGuestsByLocation(w http.ResponseWriter, r *http.Request) {
	guests, err := h.svc.ListGuestsByLocation(r.Context(), r.URL.Query().Get("location"))
	if err != nil {
		respondError(w, err)
		return
	}
	if guests == nil {
		guests = []model.Guest{}
	}
	writeJSON(w, http.StatusOK, guests)
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
