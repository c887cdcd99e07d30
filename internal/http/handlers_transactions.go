package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"financas/internal/core"
	"financas/internal/storage"
)

type transactionRequest struct {
	Kind        core.Kind   `json:"kind"`
	Amount      core.Money  `json:"amount"`
	OccurredAt  time.Time   `json:"occurredAt"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Status      core.Status `json:"status"`
}

type transactionResponse struct {
	ID          int64       `json:"id"`
	Kind        core.Kind   `json:"kind"`
	Amount      core.Money  `json:"amount"`
	OccurredAt  time.Time   `json:"occurredAt"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Status      core.Status `json:"status"`
}

func (req transactionRequest) toRecord() core.Record {
	return core.Record{
		Kind:        req.Kind,
		Amount:      req.Amount,
		OccurredAt:  req.OccurredAt,
		Category:    sanitizeInput(req.Category),
		Description: sanitizeInput(req.Description),
		Status:      req.Status,
	}
}

func toTransactionResponse(rec core.Record) transactionResponse {
	return transactionResponse{
		ID:          rec.ID,
		Kind:        rec.Kind,
		Amount:      rec.Amount,
		OccurredAt:  rec.OccurredAt,
		Category:    rec.Category,
		Description: rec.Description,
		Status:      rec.Status,
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := s.transactions.Create(r.Context(), req.toRecord())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.invalidateAggregates()

	rec, err := s.transactions.Get(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to reload transaction", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "transaction saved but could not be loaded")
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionResponse(rec))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	records, err := s.transactions.Recent(r.Context(), limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list transactions", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list transactions")
		return
	}

	out := make([]transactionResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toTransactionResponse(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := s.transactions.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to get transaction", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load transaction")
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(rec))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec := req.toRecord()
	rec.ID = id
	if err := s.transactions.Update(r.Context(), rec); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.invalidateAggregates()
	writeJSON(w, http.StatusOK, toTransactionResponse(rec))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.transactions.Delete(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to delete transaction", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not delete transaction")
		return
	}

	s.invalidateAggregates()
	w.WriteHeader(http.StatusNoContent)
}
