package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ybenamar/guestlist/internal/metrics"
	"github.com/ybenamar/guestlist/internal/model"
	"github.com/ybenamar/guestlist/internal/service"
)

// RSVPHandler exposes the guest-facing API. Every request carries the
// group id and invitation code; there is no session.
type RSVPHandler struct {
	svc *service.RSVP
	m   *metrics.Metrics
}

// NewRSVP constructs the guest-facing handler.
func NewRSVP(svc *service.RSVP, m *metrics.Metrics) *RSVPHandler {
	return &RSVPHandler{svc: svc, m: m}
}

// Routes mounts the guest-facing endpoints.
func (h *RSVPHandler) Routes(r chi.Router) {
	r.Post("/login", h.Login)
	r.Get("/guests", h.ListGuests)
	r.Post("/guests", h.AddGuest)
	r.Put("/guests/{guestID}", h.UpdateGuest)
	r.Delete("/guests/{guestID}", h.RemoveGuest)
	r.Post("/submit", h.Submit)
	r.Post("/attendance", h.SetAttendance)
	r.Get("/attendees", h.ListAttendees)
	r.Post("/attendance/bulk", h.BulkSetAttendance)
	r.Put("/party-size", h.SetPartySize)
	r.Put("/notes", h.SetNotes)
}

// credentials is the (group id, invitation code) pair present on every
// guest-facing request body.
type credentials struct {
	GroupID uuid.UUID `json:"group_id"`
	Code    string    `json:"code"`
}

// fail records auth failures in the metrics before responding.
func (h *RSVPHandler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, model.ErrAuthFailed) {
		h.m.AuthFailures.Inc()
	}
	respondError(w, err)
}

func queryCredentials(r *http.Request) (credentials, error) {
	id, err := uuid.Parse(r.URL.Query().Get("group_id"))
	if err != nil {
		return credentials{}, model.ErrAuthFailed
	}
	return credentials{GroupID: id, Code: r.URL.Query().Get("code")}, nil
}

func pathGuestID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "guestID"))
	if err != nil {
		return uuid.Nil, model.ErrNotInGroup
	}
	return id, nil
}

// Login handles POST /api/rsvp/login.
func (h *RSVPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "", "invalid request body: "+err.Error())
		return
	}
	group, err := h.svc.Login(r.Context(), req.GroupID, req.Code)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

// ListGuests handles GET /api/rsvp/guests.
func (h *RSVPHandler) ListGuests(w http.ResponseWriter, r *http.Request) {
	creds, err := queryCredentials(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	guests, err := h.svc.ListGuests(r.Context(), creds.GroupID, creds.Code)
	if err != nil {
		h.fail(w, err)
		return
	}
	if guests == nil {
		guests = []model.Guest{}
	}
	writeJSON(w, http.StatusOK, guests)
}

type guestRequest struct {
	credentials
	Guest model.GuestSubmission `json:"guest"`
}

// AddGuest handles POST /api/rsvp/guests.
func (h *RSVPHandler) AddGuest(w http.ResponseWriter, r *http.Request) {
	var req guestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "", "invalid request body: "+err.Error())
		return
	}
	gst, err := h.svc.AddGuest(r.Context(), req.GroupID, req.Code, req.Guest)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.m.GuestsCreated.Inc()
	writeJSON(w, http.StatusCreated, gst)
}

// UpdateGuest handles PUT /api/rsvp/guests/{guestID}.
func (h *RSVPHandler) UpdateGuest(w http.ResponseWriter, r *http.Request) {
	guestID, err := pathGuestID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req guestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "", "invalid request body: "+err.Error())
		return
	}
	gst, err := h.svc.UpdateGuest(r.Context(), guestID, req.GroupID, req.Code, req.Guest)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gst)
}

// RemoveGuest handles DELETE /api/rsvp/guests/{guestID}.
func (h *RSVPHandler) RemoveGuest(w http.ResponseWriter, r *http.Request) {
	guestID, err := pathGuestID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	creds, err := queryCredentials(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	if err := h.svc.RemoveGuest(r.Context(), guestID, creds.GroupID, creds.Code); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type submitRequest struct {
	credentials
	Guests []model.GuestSubmission `json:"guests"`
	Notes  *string                 `json:"notes"`
}

// Submit handles POST /api/rsvp/submit, the bulk reconciliation.
func (h *RSVPHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "", "invalid request body: "+err.Error())
		return
	}
	guests, err := h.svc.SubmitRSVP(r.Context(), req.GroupID, req.Code, req.Guests, req.Notes)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.m.RSVPSubmissions.Inc()
	writeJSON(w, http.StatusOK, guests)
}

type attendanceRequest struct {
	credentials
	GuestID   uuid.UUID `json:"guest_id"`
	Location  string    `json:"location"`
	Attending *bool     `json:"attending"`
}

// SetAttendance handles POST /api/rsvp/attendance.
func (h *RSVPHandler) SetAttendance(w http.ResponseWriter, r *http.Request) {
	var req attendanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "", "invalid request body: "+err.Error())
		return
	}
	if req.Attending == nil {
		writeError(w, http.StatusBadRequest, kindValidation, "attending", "attending is required")
		return
	}
	gst, err := h.svc.SetAttendance(r.Context(), req.GuestID, req.GroupID, req.Code, req.Location, *req.Attending)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gst)
}

// ListAttendees handles GET /api/rsvp/attendees.
func (h *RSVPHandler) ListAttendees(w http.ResponseWriter, r *http.Request) {
	creds, err := queryCredentials(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	attendees, err := h.svc.ListAttendees(r.Context(), creds.GroupID, creds.Code, r.URL.Query().Get("location"))
	if err != nil {
		h.fail(w, err)
		return
	}
	if attendees == nil {
		attendees = []model.Attendee{}
	}
	writeJSON(w, http.StatusOK, attendees)
}

type bulkAttendanceRequest struct {
	credentials
	Location string      `json:"location"`
	GuestIDs []uuid.UUID `json:"guest_ids"`
}

// BulkSetAttendance handles POST /api/rsvp/attendance/bulk.
func (h *RSVPHandler) BulkSetAttendance(w http.ResponseWriter, r *http.Request) {
	var req bulkAttendanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "", "invalid request body: "+err.Error())
		return
	}
	guests, err := h.svc.BulkSetAttendance(r.Context(), req.GroupID, req.Code, req.Location, req.GuestIDs)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, guests)
}

type partySizeRequest struct {
	credentials
	PartySize *int `json:"party_size"`
}

// SetPartySize handles PUT /api/rsvp/party-size.
func (h *RSVPHandler) SetPartySize(w http.ResponseWriter, r *http.Request) {
	var req partySizeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "", "invalid request body: "+err.Error())
		return
	}
	if req.PartySize == nil {
		writeError(w, http.StatusBadRequest, kindValidation, "party_size", "party_size is required")
		return
	}
	group, err := h.svc.SetPartySize(r.Context(), req.GroupID, req.Code, *req.PartySize)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

type notesRequest struct {
	credentials
	Notes *string `json:"notes"`
}

// SetNotes handles PUT /api/rsvp/notes.
func (h *RSVPHandler) SetNotes(w http.ResponseWriter, r *http.Request) {
	var req notesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "", "invalid request body: "+err.Error())
		return
	}
	if req.Notes == nil {
		writeError(w, http.StatusBadRequest, kindValidation, "notes", "notes is required")
		return
	}
	group, err := h.svc.SetNotes(r.Context(), req.GroupID, req.Code, *req.Notes)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}
