package api

import (
	"net/http"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user, err := s.users.Register(r.Context(), req.Name, req.Email, req.Password, req.Whatsapp)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user, err := s.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token := uuid.NewString()
	if err := s.sessions.Put(r.Context(), token, user.ID, s.sessionTTL); err != nil {
		writeError(w, err)
		return
	}

	log.WithField("user_id", user.ID).Info("User logged in")

	writeJSON(w, http.StatusOK, loginResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		if err := s.sessions.Delete(r.Context(), token); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetUser(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleMyBets(w http.ResponseWriter, r *http.Request) {
	bets, err := s.pools.ListUserBets(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBetResponses(bets))
}

func (s *Server) handleMyTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.ledger.ListUserTransactions(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponses(txs))
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.appConfig.GetConfig(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appConfigResponse{
		PaymentKey: cfg.PaymentKey,
		QRCodeURL:  cfg.QRCodeURL,
	})
}

func (s *Server) handleAssistant(w http.ResponseWriter, r *http.Request) {
	var req assistantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	userName := ""
	if user, err := s.users.GetUser(r.Context(), userIDFrom(r.Context())); err == nil {
		userName = user.Name
	}

	reply := s.assistant.Reply(r.Context(), userName, req.Message)
	writeJSON(w, http.StatusOK, assistantResponse{Reply: reply})
}
