package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"fintrack/internal/ingest"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

// errUnsupportedUpload flags a statement upload that is not delimited text.
var errUnsupportedUpload = errors.New("unsupported statement upload")

// handleIngestStatement accepts raw statement text and commits the
// extracted batch. The policy query parameter chooses between appending
// and replacing the stored records.
func (s *Server) handleIngestStatement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := s.readStatementBody(w, r)
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			writeError(w, http.StatusRequestEntityTooLarge, "statement too large")
		case errors.Is(err, errUnsupportedUpload):
			writeError(w, http.StatusUnsupportedMediaType, "statements must be delimited text")
		default:
			writeError(w, http.StatusBadRequest, "read request body")
		}
		return
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, "empty statement")
		return
	}

	policy := services.ParsePolicy(r.URL.Query().Get("policy"))

	out, err := s.ingestSvc.Ingest(r.Context(), string(body), policy)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Batch commit failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store batch")
		return
	}
	if !out.Success() {
		writeJSON(w, http.StatusUnprocessableEntity, out)
		return
	}

	s.metrics.recordBatch(len(out.Transactions), out.Dropped)
	s.invalidateViews()
	writeJSON(w, http.StatusOK, out)
}

// readStatementBody reads the statement text from either a raw text body
// or the file part of a multipart form. Binary uploads are rejected before
// the pipeline ever sees them.
func (s *Server) readStatementBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
			return nil, err
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, err
		}
		defer file.Close()
		if err := ingest.CheckMediaName(header.Filename); err != nil {
			return nil, errUnsupportedUpload
		}
		return io.ReadAll(file)
	}

	if !acceptableStatementType(r.Header.Get("Content-Type")) {
		return nil, errUnsupportedUpload
	}
	return io.ReadAll(r.Body)
}

// handleTransactions lists or clears the stored records.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		records, err := s.querySvc.List(r.Context())
		if err != nil {
			log.FromContext(r.Context()).ErrorContext(r.Context(), "List transactions failed", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to list transactions")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":       "success",
			"transactions": records,
		})
	case http.MethodDelete:
		if err := s.querySvc.Clear(r.Context()); err != nil {
			log.FromContext(r.Context()).ErrorContext(r.Context(), "Clear transactions failed", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to clear transactions")
			return
		}
		s.invalidateViews()
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	default:
		w.Header().Set("Allow", "GET, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if summary, ok := s.summaryCache.Get("summary"); ok {
		writeJSON(w, http.StatusOK, summary)
		return
	}

	summary, err := s.querySvc.Summary(r.Context())
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Summary failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}
	s.summaryCache.Set("summary", summary)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	s.serveCachedView(w, r, "categories", func() (any, error) {
		totals, err := s.querySvc.CategoryBreakdown(r.Context())
		if err != nil {
			return nil, err
		}
		return map[string]any{"status": "success", "categories": totals}, nil
	})
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	s.serveCachedView(w, r, "monthly", func() (any, error) {
		totals, err := s.querySvc.MonthlyBreakdown(r.Context())
		if err != nil {
			return nil, err
		}
		return map[string]any{"status": "success", "months": totals}, nil
	})
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit, err := parseBudgetLimit(r, s.defaultBudget)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	status, err := s.querySvc.BudgetStatus(r.Context(), limit)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Budget status failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute budget status")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// serveCachedView serves a GET endpoint from the view cache, computing and
// caching the marshalled body on miss.
func (s *Server) serveCachedView(w http.ResponseWriter, r *http.Request, key string, compute func() (any, error)) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if body, ok := s.viewCache.Get(key); ok {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
		return
	}

	view, err := compute()
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "View computation failed", "view", key, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute "+key)
		return
	}

	body, err := json.Marshal(view)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode response")
		return
	}
	s.viewCache.Set(key, body)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
