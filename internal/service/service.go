// Package service runs the dashboard's asynchronous operations: each one
// raises the store's loading flag, calls the backend, applies the result to
// the store and clears the flag however it ends.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"whatsapp-dashboard/internal/models"
	"whatsapp-dashboard/internal/store"
	"whatsapp-dashboard/internal/whatsapp"
)

// ErrInvalidTransition is returned when an entity's status does not allow the operation
var ErrInvalidTransition = errors.New("invalid status transition")

type Service struct {
	store   *store.Store
	backend whatsapp.Backend
}

func New(s *store.Store, backend whatsapp.Backend) *Service {
	return &Service{store: s, backend: backend}
}

// NewID returns a fresh entity id
func NewID() string {
	return uuid.NewString()
}

func (s *Service) begin() func() {
	s.store.BeginLoading()
	return s.store.EndLoading
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", store.ErrNotFound, kind, id)
}

// ConnectClient shows a QR code for the client, waits for the device to pair
// and marks the client connected. A failed pairing leaves it in error status.
func (s *Service) ConnectClient(ctx context.Context, id string) (models.Client, error) {
	defer s.begin()()

	c, ok := s.store.Client(id)
	if !ok {
		return models.Client{}, notFound("client", id)
	}
	if c.Status == models.ClientConnected {
		return c, nil
	}

	qr, err := s.backend.RequestQR(ctx, id)
	if err != nil {
		return c, fmt.Errorf("failed to request QR code: %w", err)
	}
	if _, _, err := s.store.UpdateClient(ctx, id, store.Patch{"status": models.ClientScanning, "qrCode": qr}); err != nil {
		return c, err
	}

	pairErr := s.backend.AwaitPairing(ctx, id)
	patch := store.Patch{"qrCode": ""}
	switch {
	case pairErr == nil:
		patch["status"] = models.ClientConnected
		patch["lastSeen"] = s.store.Now()
	case errors.Is(pairErr, whatsapp.ErrPairingFailed):
		patch["status"] = models.ClientError
	default:
		patch["status"] = models.ClientDisconnected
	}

	// The caller's context may be done; the status change must still land.
	updated, found, err := s.store.UpdateClient(context.WithoutCancel(ctx), id, patch)
	if err != nil {
		return updated, err
	}
	if !found {
		return models.Client{}, notFound("client", id)
	}
	if pairErr != nil {
		log.Printf("Pairing client %s failed: %v", id, pairErr)
		return updated, pairErr
	}
	return updated, nil
}

func (s *Service) DisconnectClient(ctx context.Context, id string) (models.Client, error) {
	defer s.begin()()

	if _, ok := s.store.Client(id); !ok {
		return models.Client{}, notFound("client", id)
	}
	if err := s.backend.DisconnectClient(ctx, id); err != nil {
		return models.Client{}, fmt.Errorf("failed to disconnect client: %w", err)
	}
	updated, found, err := s.store.UpdateClient(ctx, id, store.Patch{"status": models.ClientDisconnected, "qrCode": ""})
	if err != nil {
		return updated, err
	}
	if !found {
		return models.Client{}, notFound("client", id)
	}
	return updated, nil
}

// CheckNumber validates one phone number and records the result
func (s *Service) CheckNumber(ctx context.Context, phone string) (models.NumberCheck, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return models.NumberCheck{}, fmt.Errorf("%w: phone number is required", store.ErrInvalid)
	}
	defer s.begin()()

	check, err := s.backend.CheckNumber(ctx, phone)
	if err != nil {
		return models.NumberCheck{}, fmt.Errorf("failed to check number: %w", err)
	}
	return check, s.store.RecordNumberChecks(ctx, check)
}

// CheckNumbers validates a batch; results are recorded newest first in input order
func (s *Service) CheckNumbers(ctx context.Context, phones []string) ([]models.NumberCheck, error) {
	cleaned := make([]string, 0, len(phones))
	for _, p := range phones {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: no phone numbers given", store.ErrInvalid)
	}
	defer s.begin()()

	checks, err := s.backend.CheckNumbers(ctx, cleaned)
	if err != nil {
		return nil, fmt.Errorf("failed to check numbers: %w", err)
	}
	return checks, s.store.RecordNumberChecks(ctx, checks...)
}

// SendMessage sends content in a conversation and makes it the thread's last message
func (s *Service) SendMessage(ctx context.Context, conversationID, content string) (models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return models.Message{}, fmt.Errorf("%w: message is required", store.ErrInvalid)
	}
	defer s.begin()()

	conv, ok := s.store.Conversation(conversationID)
	if !ok {
		return models.Message{}, notFound("conversation", conversationID)
	}

	status, err := s.backend.SendMessage(ctx, conv.ClientID, conv.ContactNumber, content)
	if err != nil {
		return models.Message{}, fmt.Errorf("failed to send message: %w", err)
	}

	now := s.store.Now()
	msg := models.Message{
		ID:             NewID(),
		ConversationID: conversationID,
		Content:        content,
		Type:           "text",
		Direction:      models.Outgoing,
		Timestamp:      now,
		Status:         status,
	}
	_, found, err := s.store.ModifyConversation(ctx, conversationID, func(c models.Conversation) (models.Conversation, error) {
		c.LastMessage = msg
		c.UpdatedAt = now
		return c, nil
	})
	if err != nil {
		return msg, err
	}
	if !found {
		return models.Message{}, notFound("conversation", conversationID)
	}

	// A removed client leaves the conversation orphaned; the counter is skipped.
	if _, _, err := s.store.ModifyClient(ctx, conv.ClientID, func(c models.Client) (models.Client, error) {
		c.SentToday++
		return c, nil
	}); err != nil {
		return msg, err
	}
	return msg, nil
}

// MarkRead clears the conversation's unread counter
func (s *Service) MarkRead(ctx context.Context, conversationID string) (models.Conversation, error) {
	conv, found, err := s.store.UpdateConversation(ctx, conversationID, store.Patch{"unreadCount": 0})
	if err != nil {
		return conv, err
	}
	if !found {
		return conv, notFound("conversation", conversationID)
	}
	return conv, nil
}

// StartCampaign runs a draft, scheduled or stalled running campaign to completion
func (s *Service) StartCampaign(ctx context.Context, id string) (models.Campaign, error) {
	defer s.begin()()

	c, ok := s.store.Campaign(id)
	if !ok {
		return models.Campaign{}, notFound("campaign", id)
	}
	switch c.Status {
	case models.CampaignDraft, models.CampaignScheduled, models.CampaignRunning:
	default:
		return c, fmt.Errorf("%w: campaign %s is %s", ErrInvalidTransition, id, c.Status)
	}

	running, found, err := s.store.UpdateCampaign(ctx, id, store.Patch{"status": models.CampaignRunning})
	if err != nil {
		return c, err
	}
	if !found {
		return models.Campaign{}, notFound("campaign", id)
	}

	done, err := s.backend.DeliverBlast(ctx, running)
	if err != nil {
		running.Status = models.CampaignFailed
		done = running
		log.Printf("Campaign %s delivery failed: %v", id, err)
	}

	// Only the delivery outcome is written back; edits made during delivery stay.
	updated, found, serr := s.store.ModifyCampaign(context.WithoutCancel(ctx), id, func(cur models.Campaign) (models.Campaign, error) {
		cur.Status = done.Status
		cur.Targets = done.Targets
		cur.Stats = done.Stats
		cur.CompletedAt = done.CompletedAt
		return cur, nil
	})
	if serr != nil {
		return updated, serr
	}
	if !found {
		return models.Campaign{}, notFound("campaign", id)
	}
	if err != nil {
		return updated, fmt.Errorf("failed to deliver campaign: %w", err)
	}

	if _, _, err := s.store.UpdateTemplate(ctx, c.Template.ID, store.Patch{"lastUsed": s.store.Now()}); err != nil {
		return updated, err
	}
	return updated, nil
}

// SetWarmerStatus pauses, resumes or stops a session. Completed sessions are final.
func (s *Service) SetWarmerStatus(ctx context.Context, id string, status models.WarmerStatus) (models.WarmerSession, error) {
	if !status.Valid() {
		return models.WarmerSession{}, fmt.Errorf("%w: unknown warmer status %q", store.ErrInvalid, status)
	}
	w, found, err := s.store.ModifyWarmerSession(ctx, id, func(w models.WarmerSession) (models.WarmerSession, error) {
		if w.Status == models.WarmerCompleted && status != models.WarmerCompleted {
			return w, fmt.Errorf("%w: warmer session %s is completed", ErrInvalidTransition, id)
		}
		w.Status = status
		return w, nil
	})
	if err != nil {
		return w, err
	}
	if !found {
		return w, notFound("warmer session", id)
	}
	return w, nil
}

// AskAssistant appends the user's message, generates the assistant reply and
// appends it too. An empty conversationID starts a new conversation.
func (s *Service) AskAssistant(ctx context.Context, conversationID, content string) (models.AIConversation, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.AIConversation{}, fmt.Errorf("%w: message is required", store.ErrInvalid)
	}
	defer s.begin()()

	now := s.store.Now()
	if conversationID == "" {
		conv := models.AIConversation{
			ID:        NewID(),
			Title:     title(content),
			Messages:  []models.AIMessage{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.store.StartAIConversation(ctx, conv); err != nil {
			return models.AIConversation{}, err
		}
		conversationID = conv.ID
	}

	userMsg := models.AIMessage{ID: NewID(), Content: content, Role: models.RoleUser, Timestamp: now, Status: "sent"}
	conv, found, err := s.store.AppendAIMessage(ctx, conversationID, userMsg)
	if err != nil {
		return conv, err
	}
	if !found {
		return conv, notFound("ai conversation", conversationID)
	}

	snap := s.store.Snapshot()
	reply, err := s.backend.GenerateReply(ctx, snap.AISettings, conv.Messages)
	if err != nil {
		return conv, fmt.Errorf("failed to generate reply: %w", err)
	}

	answer := models.AIMessage{ID: NewID(), Content: reply, Role: models.RoleAssistant, Timestamp: s.store.Now()}
	conv, _, err = s.store.AppendAIMessage(ctx, conversationID, answer)
	return conv, err
}

func title(content string) string {
	const maxLen = 50
	if utf8.RuneCountInString(content) <= maxLen {
		return content
	}
	return string([]rune(content)[:maxLen]) + "..."
}
