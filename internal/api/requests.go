package api

import (
	"net/http"
	"strings"
	"time"

	"shareit/internal/models"
)

type requestCreateRequest struct {
	Description string `json:"description"`
}

func (s *HTTPServer) handleRequestCreate(w http.ResponseWriter, r *http.Request) {
	requestorID, err := userIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body requestCreateRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(body.Description) == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}

	request, err := s.requests.Create(r.Context(), requestorID, strings.TrimSpace(body.Description))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, request)
}

func (s *HTTPServer) handleRequestListOwn(w http.ResponseWriter, r *http.Request) {
	requestorID, err := userIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	requests, err := s.requests.ListOwn(r.Context(), requestorID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if requests == nil {
		requests = []*models.ItemRequest{}
	}
	writeJSON(w, http.StatusOK, requests)
}

func (s *HTTPServer) handleRequestListOthers(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, err := pageFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	requests, err := s.requests.ListOthers(r.Context(), userID, page)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if requests == nil {
		requests = []*models.ItemRequest{}
	}
	writeJSON(w, http.StatusOK, requests)
}

func (s *HTTPServer) handleRequestGet(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	requestID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	request, err := s.requests.Read(r.Context(), userID, requestID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

// handleReportExport queues a booking report covering [from, to]. Dates are
// whole days; the to date is extended to its last second.
func (s *HTTPServer) handleReportExport(w http.ResponseWriter, r *http.Request) {
	if s.reports == nil {
		writeError(w, http.StatusServiceUnavailable, "report export is not configured")
		return
	}

	from, err := time.Parse("2006-01-02", strings.TrimSpace(r.URL.Query().Get("from")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from date; expected YYYY-MM-DD")
		return
	}
	to, err := time.Parse("2006-01-02", strings.TrimSpace(r.URL.Query().Get("to")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to date; expected YYYY-MM-DD")
		return
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "to date is before from date")
		return
	}

	to = to.Add(24*time.Hour - time.Second)
	if err := s.reports.EnqueueExport(r.Context(), from, to); err != nil {
		writeError(w, http.StatusServiceUnavailable, "export queue is full")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
