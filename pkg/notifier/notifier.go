// Package notifier defines the outbound notification contract. Delivery is
// fire-and-forget: callers log failures but never fail the request over them.
package notifier

import "context"

// Message is a rendered notification bound for one destination (an email
// address or a phone number).
type Message struct {
	Destination string `json:"destination"`
	Subject     string `json:"subject,omitempty"`
	Body        string `json:"body"`
}

// Notifier sends a rendered message to a destination.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
