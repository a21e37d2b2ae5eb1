package api

import (
	"encoding/json"
	"net/http"
)

// preferencesResponse is the full preference surface.
type preferencesResponse struct {
	AutomationEnabled bool   `json:"automation_enabled"`
	DefaultSMSMessage string `json:"default_sms_message"`
	OnboardingSeen    bool   `json:"onboarding_seen"`
}

// preferencesRequest carries partial preference updates. Pointer fields
// distinguish "not present" from zero values.
type preferencesRequest struct {
	AutomationEnabled *bool   `json:"automation_enabled"`
	DefaultSMSMessage *string `json:"default_sms_message"`
	OnboardingSeen    *bool   `json:"onboarding_seen"`
}

// handleGetPreferences returns the current preferences, defaults included.
func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	resp, err := s.readPreferences(r)
	if err != nil {
		s.logger.Error("reading preferences", "error", err)
		writeInternalError(w, "failed to read preferences")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleUpdatePreferences applies a partial preference update.
//
// Flipping the automation toggle drives the boundary monitor: off
// unregisters everything, on re-registers the enabled set. Zone
// configuration is untouched either way.
func (s *Server) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req preferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	ctx := r.Context()

	if req.DefaultSMSMessage != nil {
		if err := s.prefs.SetDefaultSMSMessage(ctx, *req.DefaultSMSMessage); err != nil {
			s.logger.Error("setting default sms message", "error", err)
			writeInternalError(w, "failed to update preferences")
			return
		}
	}

	if req.OnboardingSeen != nil {
		if err := s.prefs.SetOnboardingSeen(ctx, *req.OnboardingSeen); err != nil {
			s.logger.Error("setting onboarding seen", "error", err)
			writeInternalError(w, "failed to update preferences")
			return
		}
	}

	if req.AutomationEnabled != nil {
		if err := s.prefs.SetAutomationEnabled(ctx, *req.AutomationEnabled); err != nil {
			s.logger.Error("setting automation enabled", "error", err)
			writeInternalError(w, "failed to update preferences")
			return
		}

		if *req.AutomationEnabled {
			if err := s.sync.RegisterAll(ctx); err != nil {
				s.logger.Error("registering boundaries after toggle", "error", err)
			}
		} else {
			if err := s.sync.UnregisterAll(ctx); err != nil {
				s.logger.Error("unregistering boundaries after toggle", "error", err)
			}
		}
	}

	resp, err := s.readPreferences(r)
	if err != nil {
		s.logger.Error("reading preferences", "error", err)
		writeInternalError(w, "failed to read preferences")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) readPreferences(r *http.Request) (*preferencesResponse, error) {
	ctx := r.Context()

	enabled, err := s.prefs.AutomationEnabled(ctx)
	if err != nil {
		return nil, err
	}
	message, err := s.prefs.DefaultSMSMessage(ctx)
	if err != nil {
		return nil, err
	}
	seen, err := s.prefs.OnboardingSeen(ctx)
	if err != nil {
		return nil, err
	}

	return &preferencesResponse{
		AutomationEnabled: enabled,
		DefaultSMSMessage: message,
		OnboardingSeen:    seen,
	}, nil
}
