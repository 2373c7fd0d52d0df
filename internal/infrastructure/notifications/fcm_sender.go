package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/neststop/backend/internal/domain/providers"
)

const fcmSendURL = "https://fcm.googleapis.com/fcm/send"

// FCMSender delivers push notifications via Firebase Cloud Messaging.
type FCMSender struct {
	serverKey  string
	httpClient *http.Client
	baseURL    string
}

var _ providers.PushProvider = (*FCMSender)(nil)

// NewFCMSender creates a new FCM sender
func NewFCMSender(serverKey string) (*FCMSender, error) {
	if serverKey == "" {
		return nil, fmt.Errorf("FCM server key must be set")
	}
	return NewFCMSenderWithOptions(serverKey, fcmSendURL, nil), nil
}

// NewFCMSenderWithOptions allows overriding base URL and HTTP client (used for tests).
func NewFCMSenderWithOptions(serverKey, baseURL string, httpClient *http.Client) *FCMSender {
	if baseURL == "" {
		baseURL = fcmSendURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &FCMSender{
		serverKey:  serverKey,
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

type fcmMessage struct {
	To           string            `json:"to"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
	Results []struct {
		Error string `json:"error,omitempty"`
	} `json:"results"`
}

// Send delivers a single push notification.
func (s *FCMSender) Send(ctx context.Context, notification *providers.PushNotification) error {
	if notification == nil || notification.RecipientToken == "" {
		return fmt.Errorf("recipient token is required")
	}

	message := fcmMessage{
		To: notification.RecipientToken,
		Notification: fcmNotification{
			Title: notification.Title,
			Body:  notification.Body,
		},
		Data: notification.Data,
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal FCM message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build FCM request: %w", err)
	}
	req.Header.Set("Authorization", "key="+s.serverKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("FCM request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("FCM returned status %d: %s", resp.StatusCode, string(body))
	}

	var result fcmResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode FCM response: %w", err)
	}
	if result.Failure > 0 {
		reason := "unknown"
		if len(result.Results) > 0 && result.Results[0].Error != "" {
			reason = result.Results[0].Error
		}
		return fmt.Errorf("FCM delivery failed: %s", reason)
	}

	return nil
}
