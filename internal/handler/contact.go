package handler

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/bigdeal/bigdeal/internal/model"
	"github.com/bigdeal/bigdeal/internal/store"
)

// ContactHandler serves the public contact form and the admin inbox.
type ContactHandler struct {
	store *store.Store
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(st *store.Store) *ContactHandler {
	return &ContactHandler{store: st}
}

type createContactRequest struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Email   *string `json:"email"`
	Message string  `json:"message"`
}

// Create records a public contact submission.
// POST /contact
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createContactRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Message = strings.TrimSpace(req.Message)

	var fields fieldErrors
	if req.Name == "" {
		fields.add("name", "Name is required")
	}
	if req.Phone == "" {
		fields.add("phone", "Phone is required")
	}
	if req.Message == "" {
		fields.add("message", "Message is required")
	}
	if req.Email != nil && *req.Email != "" {
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			fields.add("email", "Email address is invalid")
		}
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	var email *string
	if req.Email != nil && *req.Email != "" {
		email = req.Email
	}

	sub := &model.ContactSubmission{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   email,
		Message: req.Message,
	}
	if err := h.store.CreateContactSubmission(r.Context(), sub); err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusCreated, sub)
}

// List returns all contact submissions, newest first.
// GET /admin/contacts
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.store.ListContactSubmissions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if subs == nil {
		subs = []model.ContactSubmission{}
	}
	writeJSON(w, http.StatusOK, subs)
}
