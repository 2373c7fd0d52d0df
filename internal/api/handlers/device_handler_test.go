package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neststop/backend/internal/adapters/memory"
	"github.com/neststop/backend/internal/api/handlers"
	"github.com/neststop/backend/internal/application/services"
	"github.com/neststop/backend/internal/domain/entities"
)

type deviceHandlerFixture struct {
	stations *memory.StationStore
	navs     *memory.NavigationStore
	handler  *handlers.DeviceHandler
}

func newDeviceHandlerFixture(t *testing.T) *deviceHandlerFixture {
	t.Helper()

	stations := memory.NewStationStore()
	navs := memory.NewNavigationStore()
	reminderService := services.NewReminderService(navs, stations, nil, time.Minute, 45*time.Minute)

	return &deviceHandlerFixture{
		stations: stations,
		navs:     navs,
		handler:  handlers.NewDeviceHandler(reminderService),
	}
}

func TestDeviceHandler_RegisterDevice(t *testing.T) {
	f := newDeviceHandlerFixture(t)

	body := `{"platform": "ios", "push_token": "apns-token-1"}`
	req := httptest.NewRequest("POST", "/api/devices", strings.NewReader(body))
	w := httptest.NewRecorder()

	f.handler.RegisterDevice(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var device entities.Device
	require.NoError(t, json.NewDecoder(w.Body).Decode(&device))
	assert.NotEmpty(t, device.ID)
	assert.Equal(t, "apns-token-1", device.PushToken)
}

func TestDeviceHandler_RegisterDevice_MissingToken(t *testing.T) {
	f := newDeviceHandlerFixture(t)

	req := httptest.NewRequest("POST", "/api/devices", strings.NewReader(`{"platform": "ios"}`))
	w := httptest.NewRecorder()

	f.handler.RegisterDevice(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeviceHandler_StartNavigation(t *testing.T) {
	f := newDeviceHandlerFixture(t)

	station := &entities.ChangingStation{
		ID:       "st_001",
		Name:     "Joe's Diner",
		Location: entities.Location{Latitude: 36.1513, Longitude: -86.8025},
	}
	require.NoError(t, f.stations.Create(context.Background(), station))

	device := &entities.Device{ID: "dev_001", Platform: "ios", PushToken: "apns-token-1"}
	require.NoError(t, f.navs.RegisterDevice(context.Background(), device))

	body := `{"device_id": "dev_001", "station_id": "st_001"}`
	req := httptest.NewRequest("POST", "/api/navigations", strings.NewReader(body))
	w := httptest.NewRecorder()

	f.handler.StartNavigation(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var nav entities.Navigation
	require.NoError(t, json.NewDecoder(w.Body).Decode(&nav))
	assert.NotEmpty(t, nav.ID)
	assert.Equal(t, "dev_001", nav.DeviceID)
	assert.Equal(t, "st_001", nav.StationID)
	assert.True(t, nav.RemindAt.After(nav.StartedAt))
}

func TestDeviceHandler_StartNavigation_UnknownDevice(t *testing.T) {
	f := newDeviceHandlerFixture(t)

	body := `{"device_id": "dev_missing", "station_id": "st_001"}`
	req := httptest.NewRequest("POST", "/api/navigations", strings.NewReader(body))
	w := httptest.NewRecorder()

	f.handler.StartNavigation(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
