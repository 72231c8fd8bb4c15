package store

import (
	"whatsapp-dashboard/internal/models"
)

// Themes accepted by SetTheme
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// State is one immutable snapshot of the store. Slices inside a published
// State are never written to again; mutations build new slices.
type State struct {
	Version          uint64 `json:"version"`
	IsLoading        bool   `json:"isLoading"`
	Theme            string `json:"theme"`
	SidebarCollapsed bool   `json:"sidebarCollapsed"`

	Clients        []models.Client          `json:"clients"`
	Campaigns      []models.Campaign        `json:"campaigns"`
	Templates      []models.MessageTemplate `json:"templates"`
	Conversations  []models.Conversation    `json:"conversations"`
	Addresses      []models.Address         `json:"addresses"`
	WarmerSessions []models.WarmerSession   `json:"warmerSessions"`
	NumberChecks   []models.NumberCheck     `json:"numberChecks"`

	AIConversations []models.AIConversation   `json:"aiConversations"`
	AISettings      models.AISettings         `json:"aiSettings"`
	PromptTemplates []models.AIPromptTemplate `json:"promptTemplates"`
}

// persistedState is the whitelisted subset written to the snapshot slot.
// Conversations, number checks and the AI sub-state are never persisted.
type persistedState struct {
	Theme            string                   `json:"theme"`
	SidebarCollapsed bool                     `json:"sidebarCollapsed"`
	Clients          []models.Client          `json:"clients"`
	Campaigns        []models.Campaign        `json:"campaigns"`
	Templates        []models.MessageTemplate `json:"templates"`
	Addresses        []models.Address         `json:"addresses"`
	WarmerSessions   []models.WarmerSession   `json:"warmerSessions"`
}

func (s *State) persisted() persistedState {
	return persistedState{
		Theme:            s.Theme,
		SidebarCollapsed: s.SidebarCollapsed,
		Clients:          nonNil(s.Clients),
		Campaigns:        nonNil(s.Campaigns),
		Templates:        nonNil(s.Templates),
		Addresses:        nonNil(s.Addresses),
		WarmerSessions:   nonNil(s.WarmerSessions),
	}
}

func validTheme(theme string) bool {
	switch theme {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// normalize replaces nil collections with empty ones so JSON renders [] not null
func (s *State) normalize() {
	if s.Theme == "" {
		s.Theme = ThemeSystem
	}
	s.Clients = nonNil(s.Clients)
	s.Campaigns = nonNil(s.Campaigns)
	s.Templates = nonNil(s.Templates)
	s.Conversations = nonNil(s.Conversations)
	s.Addresses = nonNil(s.Addresses)
	s.WarmerSessions = nonNil(s.WarmerSessions)
	s.NumberChecks = nonNil(s.NumberChecks)
	s.AIConversations = nonNil(s.AIConversations)
	s.PromptTemplates = nonNil(s.PromptTemplates)
}
