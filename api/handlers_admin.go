package api

import (
	"net/http"

	"bolao/models"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponses(users))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Role == "" {
		req.Role = models.RoleUser
	}

	user, err := s.users.AdminUpdateUser(r.Context(), chi.URLParam(r, "userID"), req.Name, req.Whatsapp, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleSetBalances(w http.ResponseWriter, r *http.Request) {
	var req setBalancesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	err := s.users.AdminSetBalances(r.Context(), userIDFrom(r.Context()),
		chi.URLParam(r, "userID"), req.Balance, req.WithdrawableBalance)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := s.users.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleListPendingTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.ledger.ListPendingTransactions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponses(txs))
}

func (s *Server) handleUserTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.ledger.ListUserTransactions(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponses(txs))
}

func (s *Server) handleApproveTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.ApproveTransaction(r.Context(), chi.URLParam(r, "txID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleRejectTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.RejectTransaction(r.Context(), chi.URLParam(r, "txID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.alerts.ListAlerts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAlertResponses(alerts))
}

func (s *Server) handleDismissAlert(w http.ResponseWriter, r *http.Request) {
	if err := s.alerts.DismissAlert(r.Context(), chi.URLParam(r, "alertID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	var req appConfigRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	cfg := &models.AppConfig{
		PaymentKey: req.PaymentKey,
		QRCodeURL:  req.QRCodeURL,
	}
	if err := s.appConfig.SaveConfig(r.Context(), cfg); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appConfigResponse{
		PaymentKey: cfg.PaymentKey,
		QRCodeURL:  cfg.QRCodeURL,
	})
}
