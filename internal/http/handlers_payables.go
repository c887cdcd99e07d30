package http

import (
	"errors"
	"log/slog"
	"net/http"

	"financas/internal/core"
	"financas/internal/services"
	"financas/internal/storage"
)

type payableRequest struct {
	Description string     `json:"description"`
	Amount      core.Money `json:"amount"`
	DueDate     core.Date  `json:"dueDate"`
}

type payableResponse struct {
	ID          int64      `json:"id"`
	Description string     `json:"description"`
	Amount      core.Money `json:"amount"`
	DueDate     core.Date  `json:"dueDate"`
	Status      string     `json:"status"`
	Overdue     bool       `json:"overdue"`
}

func (s *Server) handleCreatePayable(w http.ResponseWriter, r *http.Request) {
	var req payableRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := s.payables.Create(r.Context(), sanitizeInput(req.Description), req.Amount, req.DueDate)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, payableResponse{
		ID:          id,
		Description: sanitizeInput(req.Description),
		Amount:      req.Amount,
		DueDate:     req.DueDate,
		Status:      string(storage.PayablePending),
	})
}

func (s *Server) handleListPayables(w http.ResponseWriter, r *http.Request) {
	views, err := s.payables.List(r.Context(), s.now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list payables", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list payables")
		return
	}

	out := make([]payableResponse, 0, len(views))
	for _, v := range views {
		out = append(out, payableResponse{
			ID:          v.ID,
			Description: v.Description,
			Amount:      v.Amount,
			DueDate:     v.DueDate,
			Status:      string(v.Status),
			Overdue:     v.Overdue,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePayPayable(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txID, err := s.payables.Pay(r.Context(), id, s.now())
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			writeError(w, http.StatusNotFound, "payable not found")
		case errors.Is(err, services.ErrPayableAlreadyPaid):
			writeError(w, http.StatusConflict, "payable already paid")
		default:
			slog.ErrorContext(r.Context(), "Failed to pay payable", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "could not pay payable")
		}
		return
	}

	s.invalidateAggregates()
	writeJSON(w, http.StatusOK, map[string]int64{"transactionId": txID})
}
