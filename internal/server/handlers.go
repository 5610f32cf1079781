package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/jmylchreest/contactscrape/internal/logger"
	"github.com/jmylchreest/contactscrape/internal/version"
	"github.com/jmylchreest/contactscrape/pkg/scraper"
)

const msgNoURL = "No URL provided"

// scrapeRequest is the body accepted by both scrape endpoints.
type scrapeRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: version.Short()})
}

// handleScrape returns the full contact record for a URL.
// POST /api/scraper
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	result, ok := s.scrape(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, result.Contact())
}

// handleFindEmail returns only the emails found at a URL.
// POST /api/find_email
func (s *Server) handleFindEmail(w http.ResponseWriter, r *http.Request) {
	result, ok := s.scrape(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, result.Emails())
}

// scrape decodes and validates the request, then runs the scraper under the
// request timeout. It writes the error response itself and reports whether
// the caller should continue.
func (s *Server) scrape(w http.ResponseWriter, r *http.Request) (*scraper.Result, bool) {
	req, status, err := s.decode(w, r)
	if err != nil {
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	result, err := s.scraper.Scrape(ctx, req.URL)
	if err != nil {
		if errors.Is(err, scraper.ErrNoURL) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgNoURL})
			return nil, false
		}
		logger.ErrorContext(ctx, "scrape failed",
			"url", req.URL,
			"error", err,
			"request_id", middleware.GetReqID(r.Context()))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return nil, false
	}

	return result, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (scrapeRequest, int, error) {
	var req scrapeRequest

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return req, http.StatusRequestEntityTooLarge, errors.New("request body too large")
		case errors.Is(err, io.EOF):
			return req, http.StatusBadRequest, errors.New(msgNoURL)
		default:
			return req, http.StatusBadRequest, errors.New("invalid request body")
		}
	}

	if err := s.validate.Struct(req); err != nil {
		return req, http.StatusBadRequest, validationMessage(err)
	}
	return req, 0, nil
}

// validationMessage turns validator errors into a client-facing message.
func validationMessage(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	switch verrs[0].Tag() {
	case "required":
		return errors.New(msgNoURL)
	case "url":
		return fmt.Errorf("invalid URL: %v", verrs[0].Value())
	default:
		return errors.New(verrs[0].Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to write response", "error", err)
	}
}
