package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListPools(w http.ResponseWriter, r *http.Request) {
	pools, err := s.pools.ListPools(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]poolResponse, 0, len(pools))
	for _, p := range pools {
		out = append(out, toPoolResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreatePool(w http.ResponseWriter, r *http.Request) {
	var req createPoolRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	pool, err := s.pools.CreatePool(r.Context(), userIDFrom(r.Context()),
		req.Name, req.Modality, req.DateTime, req.EventDateTime, req.BetAmount, req.Options)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPoolResponse(pool))
}

func (s *Server) handleGetPool(w http.ResponseWriter, r *http.Request) {
	pool, err := s.pools.GetPool(r.Context(), chi.URLParam(r, "poolID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPoolResponse(pool))
}

func (s *Server) handleListPoolBets(w http.ResponseWriter, r *http.Request) {
	bets, err := s.pools.ListPoolBets(r.Context(), chi.URLParam(r, "poolID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBetResponses(bets))
}

func (s *Server) handlePlaceBet(w http.ResponseWriter, r *http.Request) {
	var req placeBetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	bet, err := s.pools.PlaceBet(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "poolID"), req.Option)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBetResponse(bet))
}

func (s *Server) handleSettlePool(w http.ResponseWriter, r *http.Request) {
	var req settleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	result, err := s.pools.Settle(r.Context(), chi.URLParam(r, "poolID"), req.WinnerOption, userIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	// Settling an already finished pool changes nothing
	if result == nil {
		writeJSON(w, http.StatusNoContent, nil)
		return
	}

	writeJSON(w, http.StatusOK, settlementResponse{
		Pool:            toPoolResponse(result.Pool),
		WinnerOption:    result.WinnerOption,
		TotalCollected:  result.TotalCollected,
		PrizePool:       result.PrizePool,
		IndividualPrize: result.IndividualPrize,
		WinnerCount:     len(result.Winners),
		PrizePaid:       result.PrizePaid,
	})
}

func (s *Server) handleRequestDeposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	tx, err := s.ledger.RequestDeposit(r.Context(), userIDFrom(r.Context()), req.Amount, req.ReceiptURL)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

func (s *Server) handleRequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req withdrawalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	tx, err := s.ledger.RequestWithdrawal(r.Context(), userIDFrom(r.Context()), req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}
