// Package whatsapp is the boundary to the WhatsApp network. Backend is what
// the operations service calls; Simulator is the in-process implementation
// used until a real gateway is plugged in.
package whatsapp

import (
	"context"
	"errors"

	"whatsapp-dashboard/internal/models"
)

var (
	ErrPairingFailed = errors.New("device pairing failed")
	ErrEmptyMessage  = errors.New("message content is empty")
)

type Backend interface {
	// CheckNumber reports whether phone is valid and registered on WhatsApp
	CheckNumber(ctx context.Context, phone string) (models.NumberCheck, error)
	// CheckNumbers checks every phone, results in input order
	CheckNumbers(ctx context.Context, phones []string) ([]models.NumberCheck, error)

	// RequestQR returns the pairing payload a client device must scan
	RequestQR(ctx context.Context, clientID string) (string, error)
	// AwaitPairing blocks until the device is paired or ErrPairingFailed
	AwaitPairing(ctx context.Context, clientID string) error
	DisconnectClient(ctx context.Context, clientID string) error

	// SendMessage sends content from a client and returns the delivery status
	SendMessage(ctx context.Context, clientID, to, content string) (string, error)
	// DeliverBlast attempts every pending recipient of the campaign and
	// returns it with updated targets and stats
	DeliverBlast(ctx context.Context, c models.Campaign) (models.Campaign, error)

	// GenerateReply produces the assistant's answer to the conversation so far
	GenerateReply(ctx context.Context, settings models.AISettings, history []models.AIMessage) (string, error)
}
