package providers

import "context"

// PushNotification is the payload handed to the push-delivery provider.
type PushNotification struct {
	RecipientToken string            `json:"recipient_token"`
	Title          string            `json:"title"`
	Body           string            `json:"body"`
	Data           map[string]string `json:"data,omitempty"`
}

// PushProvider delivers push notifications fire-and-forget: failures are
// logged by the implementation, never retried synchronously, and never
// block the caller.
type PushProvider interface {
	Send(ctx context.Context, notification *PushNotification) error
}
