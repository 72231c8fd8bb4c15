package models

import (
	"errors"
	"fmt"
)

// ErrInvalid marks an entity that violates its field constraints
var ErrInvalid = errors.New("invalid entity")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func (c Client) EntityID() string           { return c.ID }
func (c Campaign) EntityID() string         { return c.ID }
func (t MessageTemplate) EntityID() string  { return t.ID }
func (w WarmerSession) EntityID() string    { return w.ID }
func (a Address) EntityID() string          { return a.ID }
func (c Conversation) EntityID() string     { return c.ID }
func (c AIConversation) EntityID() string   { return c.ID }
func (p AIPromptTemplate) EntityID() string { return p.ID }

func (s ClientStatus) Valid() bool {
	switch s {
	case ClientConnected, ClientDisconnected, ClientScanning, ClientError:
		return true
	}
	return false
}

func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignDraft, CampaignScheduled, CampaignRunning, CampaignCompleted, CampaignFailed:
		return true
	}
	return false
}

func (s TargetStatus) Valid() bool {
	switch s {
	case TargetPending, TargetSent, TargetDelivered, TargetFailed:
		return true
	}
	return false
}

func (s WarmerStatus) Valid() bool {
	switch s {
	case WarmerActive, WarmerPaused, WarmerCompleted:
		return true
	}
	return false
}

func (c PromptCategory) Valid() bool {
	switch c {
	case CategoryMarketing, CategoryCustomerService, CategorySales, CategoryContent, CategoryOther:
		return true
	}
	return false
}

// Validate checks the client's enum and range constraints.
// sentToday above dailyLimit is accepted; projections report it as over limit.
func (c Client) Validate() error {
	if c.ID == "" {
		return invalid("client id is required")
	}
	if !c.Status.Valid() {
		return invalid("client %s: unknown status %q", c.ID, c.Status)
	}
	if c.Rating < 0 || c.Rating > 100 {
		return invalid("client %s: rating %d out of range 0-100", c.ID, c.Rating)
	}
	if c.DailyLimit < 0 || c.SentToday < 0 {
		return invalid("client %s: negative counters", c.ID)
	}
	return nil
}

func (c Campaign) Validate() error {
	if c.ID == "" {
		return invalid("campaign id is required")
	}
	if !c.Status.Valid() {
		return invalid("campaign %s: unknown status %q", c.ID, c.Status)
	}
	s := c.Stats
	if s.Total < 0 || s.Sent < 0 || s.Delivered < 0 || s.Failed < 0 || s.Pending < 0 {
		return invalid("campaign %s: negative stats", c.ID)
	}
	for _, t := range c.Targets {
		if !t.Status.Valid() {
			return invalid("campaign %s: target %s has unknown status %q", c.ID, t.ID, t.Status)
		}
	}
	return nil
}

func (t MessageTemplate) Validate() error {
	if t.ID == "" {
		return invalid("template id is required")
	}
	return nil
}

func (w WarmerSession) Validate() error {
	if w.ID == "" {
		return invalid("warmer session id is required")
	}
	if !w.Status.Valid() {
		return invalid("warmer session %s: unknown status %q", w.ID, w.Status)
	}
	if w.Duration < 0 || w.MessagesSent < 0 {
		return invalid("warmer session %s: negative counters", w.ID)
	}
	return nil
}

func (a Address) Validate() error {
	if a.ID == "" {
		return invalid("address id is required")
	}
	return nil
}

func (c Conversation) Validate() error {
	if c.ID == "" {
		return invalid("conversation id is required")
	}
	if c.UnreadCount < 0 {
		return invalid("conversation %s: negative unread count", c.ID)
	}
	return nil
}

func (c AIConversation) Validate() error {
	if c.ID == "" {
		return invalid("ai conversation id is required")
	}
	return nil
}

func (p AIPromptTemplate) Validate() error {
	if p.ID == "" {
		return invalid("prompt template id is required")
	}
	if !p.Category.Valid() {
		return invalid("prompt template %s: unknown category %q", p.ID, p.Category)
	}
	return nil
}
