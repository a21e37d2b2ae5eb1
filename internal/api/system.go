package api

import (
	"net/http"
	"strconv"

	"github.com/geosilent/geosilent-core/internal/action"
)

// defaultTriggerLimit bounds trigger history responses when the client
// does not specify a limit.
const defaultTriggerLimit = 50

// handleGetPermissions returns the declared host capability grants.
func (s *Server) handleGetPermissions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.perms.Status())
}

// handleListTriggers returns recent trigger history, newest first.
func (s *Server) handleListTriggers(w http.ResponseWriter, r *http.Request) {
	if s.triggers == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"triggers": []action.TriggerRecord{},
			"count":    0,
		})
		return
	}

	limit := defaultTriggerLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			writeBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	records, err := s.triggers.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("listing triggers", "error", err)
		writeInternalError(w, "failed to list triggers")
		return
	}
	if records == nil {
		records = []action.TriggerRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"triggers": records,
		"count":    len(records),
	})
}
