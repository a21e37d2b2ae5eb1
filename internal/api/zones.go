package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/geosilent/geosilent-core/internal/zone"
)

// zoneRequest is the request body for zone create and update.
type zoneRequest struct {
	Name         string  `json:"name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Radius       float64 `json:"radius"`
	Enabled      *bool   `json:"enabled"`
	EnableSilent bool    `json:"enable_silent"`
	EnableDND    bool    `json:"enable_dnd"`
	EnableSMS    bool    `json:"enable_sms"`
	SMSRecipient string  `json:"sms_recipient"`
	SMSMessage   string  `json:"sms_message"`
	EnableLaunch bool    `json:"enable_launch"`
	LaunchTarget string  `json:"launch_target"`
	LaunchName   string  `json:"launch_name"`
}

func (req *zoneRequest) apply(z *zone.Zone) {
	z.Name = req.Name
	z.Latitude = req.Latitude
	z.Longitude = req.Longitude
	z.Radius = req.Radius
	if req.Enabled != nil {
		z.Enabled = *req.Enabled
	}
	z.EnableSilent = req.EnableSilent
	z.EnableDND = req.EnableDND
	z.EnableSMS = req.EnableSMS
	z.SMSRecipient = req.SMSRecipient
	z.SMSMessage = req.SMSMessage
	z.EnableLaunch = req.EnableLaunch
	z.LaunchTarget = req.LaunchTarget
	z.LaunchName = req.LaunchName
}

// handleListZones returns all zones, newest first.
func (s *Server) handleListZones(w http.ResponseWriter, r *http.Request) {
	zones, err := s.zones.List(r.Context())
	if err != nil {
		s.logger.Error("listing zones", "error", err)
		writeInternalError(w, "failed to list zones")
		return
	}
	if zones == nil {
		zones = []zone.Zone{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"zones": zones,
		"count": len(zones),
	})
}

// handleGetZone returns a single zone by ID.
func (s *Server) handleGetZone(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	z, err := s.zones.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, zone.ErrNotFound) {
			writeNotFound(w, "zone not found")
			return
		}
		s.logger.Error("getting zone", "zone_id", id, "error", err)
		writeInternalError(w, "failed to get zone")
		return
	}
	writeJSON(w, http.StatusOK, z)
}

// handleCreateZone creates a new zone and rebuilds boundary
// registrations to include it.
func (s *Server) handleCreateZone(w http.ResponseWriter, r *http.Request) {
	var req zoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	z := &zone.Zone{Enabled: true}
	req.apply(z)

	if err := s.zones.Create(r.Context(), z); err != nil {
		if errors.Is(err, zone.ErrInvalidCoordinates) {
			writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
			return
		}
		if errors.Is(err, zone.ErrExists) {
			writeError(w, http.StatusConflict, ErrCodeConflict, "zone already exists")
			return
		}
		s.logger.Error("creating zone", "error", err)
		writeInternalError(w, "failed to create zone")
		return
	}

	s.refreshBoundaries(r)
	writeJSON(w, http.StatusCreated, z)
}

// handleUpdateZone replaces a zone's editable fields and rebuilds
// boundary registrations with the new geometry.
func (s *Server) handleUpdateZone(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	z, err := s.zones.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, zone.ErrNotFound) {
			writeNotFound(w, "zone not found")
			return
		}
		s.logger.Error("getting zone", "zone_id", id, "error", err)
		writeInternalError(w, "failed to get zone")
		return
	}

	var req zoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	req.apply(z)

	if err := s.zones.Update(r.Context(), z); err != nil {
		if errors.Is(err, zone.ErrInvalidCoordinates) {
			writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
			return
		}
		s.logger.Error("updating zone", "zone_id", id, "error", err)
		writeInternalError(w, "failed to update zone")
		return
	}

	s.refreshBoundaries(r)
	writeJSON(w, http.StatusOK, z)
}

// handleDeleteZone removes a zone. Its boundary is unregistered first;
// an already-absent boundary is fine.
func (s *Server) handleDeleteZone(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.sync.UnregisterOne(r.Context(), id); err != nil {
		s.logger.Error("unregistering boundary", "zone_id", id, "error", err)
	}

	if err := s.zones.Delete(r.Context(), id); err != nil {
		if errors.Is(err, zone.ErrNotFound) {
			writeNotFound(w, "zone not found")
			return
		}
		s.logger.Error("deleting zone", "zone_id", id, "error", err)
		writeInternalError(w, "failed to delete zone")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// handleEnableZone marks a zone enabled and rebuilds registrations.
func (s *Server) handleEnableZone(w http.ResponseWriter, r *http.Request) {
	s.setZoneEnabled(w, r, true)
}

// handleDisableZone marks a zone disabled and removes its boundary.
func (s *Server) handleDisableZone(w http.ResponseWriter, r *http.Request) {
	s.setZoneEnabled(w, r, false)
}

func (s *Server) setZoneEnabled(w http.ResponseWriter, r *http.Request, enabled bool) {
	id := chi.URLParam(r, "id")

	if err := s.zones.SetEnabled(r.Context(), id, enabled); err != nil {
		if errors.Is(err, zone.ErrNotFound) {
			writeNotFound(w, "zone not found")
			return
		}
		s.logger.Error("setting zone enabled", "zone_id", id, "error", err)
		writeInternalError(w, "failed to update zone")
		return
	}

	if enabled {
		s.refreshBoundaries(r)
	} else {
		if err := s.sync.UnregisterOne(r.Context(), id); err != nil {
			s.logger.Error("unregistering boundary", "zone_id", id, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"id": id, "enabled": enabled})
}

// refreshBoundaries rebuilds monitor registrations after a store edit.
// Sync failures are logged, not surfaced: the store is authoritative
// and the next refresh will converge.
func (s *Server) refreshBoundaries(r *http.Request) {
	if err := s.sync.Refresh(r.Context()); err != nil {
		s.logger.Error("refreshing boundaries", "error", err)
	}
}
