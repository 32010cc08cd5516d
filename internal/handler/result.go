package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bigdeal/bigdeal/internal/model"
	"github.com/bigdeal/bigdeal/internal/store"
)

// displayDateLayout is the dd/mm/yyyy format results are keyed by.
const displayDateLayout = "02/01/2006"

// ResultHandler serves the public result feeds and the admin result CRUD.
type ResultHandler struct {
	store *store.Store
}

// NewResultHandler creates a new ResultHandler.
func NewResultHandler(st *store.Store) *ResultHandler {
	return &ResultHandler{store: st}
}

// Today returns all results published for today's date, oldest first.
// GET /results/today
func (h *ResultHandler) Today(w http.ResponseWriter, r *http.Request) {
	date := time.Now().Format(displayDateLayout)
	results, err := h.store.GetResultsByDate(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if results == nil {
		results = []model.GameResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

// ByDate returns all results for the given date. The date path segment is
// URL-escaped by clients because it contains slashes.
// GET /results/date/{date}
func (h *ResultHandler) ByDate(w http.ResponseWriter, r *http.Request) {
	date, err := url.PathUnescape(chi.URLParam(r, "date"))
	if err != nil || date == "" {
		writeError(w, http.StatusBadRequest, "Invalid date")
		return
	}

	results, err := h.store.GetResultsByDate(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if results == nil {
		results = []model.GameResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

// All returns the most recent results grouped by date. The limit query
// parameter caps how many results are fetched before grouping (default 30).
// GET /results/all?limit=N
func (h *ResultHandler) All(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 30)
	if limit < 1 || limit > 500 {
		limit = 30
	}

	results, err := h.store.ListGameResults(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	grouped := make(map[string][]model.GameResult)
	for _, res := range results {
		grouped[res.Date] = append(grouped[res.Date], res)
	}
	writeJSON(w, http.StatusOK, grouped)
}

type createResultRequest struct {
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	Number       string  `json:"number"`
	BottomNumber *string `json:"bottomNumber"`
}

// Create publishes a new result.
// POST /admin/results
func (h *ResultHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createResultRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var fields fieldErrors
	if req.Date == "" {
		fields.add("date", "Date is required")
	}
	if req.Time == "" {
		fields.add("time", "Time is required")
	}
	if len(req.Number) < 1 || len(req.Number) > 4 {
		fields.add("number", "Number must be 1 to 4 characters")
	}
	if req.BottomNumber != nil && (len(*req.BottomNumber) < 1 || len(*req.BottomNumber) > 4) {
		fields.add("bottomNumber", "Bottom number must be 1 to 4 characters")
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	res := &model.GameResult{
		Date:         req.Date,
		Time:         req.Time,
		Number:       req.Number,
		BottomNumber: req.BottomNumber,
	}
	if err := h.store.CreateGameResult(r.Context(), res); err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusCreated, res)
}

// Update modifies an existing result. Only the fields present in the body
// are changed.
// PUT /admin/results/{resultID}
func (h *ResultHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "resultID")

	var upd model.GameResultUpdate
	if err := readJSON(r, &upd); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var fields fieldErrors
	if upd.Date != nil && *upd.Date == "" {
		fields.add("date", "Date must not be empty")
	}
	if upd.Time != nil && *upd.Time == "" {
		fields.add("time", "Time must not be empty")
	}
	if upd.Number != nil && (len(*upd.Number) < 1 || len(*upd.Number) > 4) {
		fields.add("number", "Number must be 1 to 4 characters")
	}
	if upd.BottomNumber != nil && len(*upd.BottomNumber) > 4 {
		fields.add("bottomNumber", "Bottom number must be at most 4 characters")
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	res, err := h.store.UpdateGameResult(r.Context(), id, upd)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Result not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// Delete removes a result.
// DELETE /admin/results/{resultID}
func (h *ResultHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "resultID")

	if err := h.store.DeleteGameResult(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Result not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
