package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"binfolio/internal/services/balance"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	holdings, err := balance.Holdings(ctx, s.source)
	if err != nil {
		s.logger.Error("failed to load balances", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err, "failed to compute balances")
		return
	}

	valuations := s.engine.Valuate(ctx, holdings)
	if s.wrapTotals {
		writeJSON(w, http.StatusOK, s.engine.Portfolio(valuations))
		return
	}
	writeJSON(w, http.StatusOK, valuations)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	holdings, err := balance.Holdings(ctx, s.source)
	if err != nil {
		s.logger.Error("failed to load balances for transactions", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err, "failed to fetch transactions")
		return
	}

	writeJSON(w, http.StatusOK, s.engine.Transactions(ctx, holdings))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, nil, "snapshot store not available")
		return
	}

	records, err := s.store.SnapshotsAfter(0)
	if err != nil {
		s.logger.Error("failed to read snapshot history", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err, "failed to read history")
		return
	}

	snapshots := make([]any, 0, len(records))
	for _, record := range records {
		snapshots = append(snapshots, record.Snapshot)
	}
	writeJSON(w, http.StatusOK, snapshots)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error, message string) {
	resp := errorResponse{Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, status, resp)
}
