package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/neststop/backend/internal/application/services"
	"github.com/neststop/backend/internal/domain/entities"
)

// DeviceHandler handles device registration and navigation starts.
type DeviceHandler struct {
	reminderService *services.ReminderService
}

// NewDeviceHandler creates a new device handler
func NewDeviceHandler(reminderService *services.ReminderService) *DeviceHandler {
	return &DeviceHandler{
		reminderService: reminderService,
	}
}

// RegisterDevice handles POST /api/devices
func (h *DeviceHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	var device entities.Device
	if err := json.NewDecoder(r.Body).Decode(&device); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	registered, err := h.reminderService.RegisterDevice(r.Context(), &device)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, registered)
}

type startNavigationRequest struct {
	DeviceID  string `json:"device_id"`
	StationID string `json:"station_id"`
}

// StartNavigation handles POST /api/navigations
func (h *DeviceHandler) StartNavigation(w http.ResponseWriter, r *http.Request) {
	var payload startNavigationRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	nav, err := h.reminderService.StartNavigation(r.Context(), payload.DeviceID, payload.StationID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, nav)
}
