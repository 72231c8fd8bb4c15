// Package seed holds the demo fixture the store starts from when nothing has
// been persisted yet.
package seed

import (
	"bytes"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"whatsapp-dashboard/internal/models"
	"whatsapp-dashboard/internal/store"
)

//go:embed seed.yaml
var fixture []byte

type document struct {
	Theme            string                    `yaml:"theme"`
	SidebarCollapsed bool                      `yaml:"sidebarCollapsed"`
	Clients          []models.Client           `yaml:"clients"`
	Campaigns        []models.Campaign         `yaml:"campaigns"`
	Templates        []models.MessageTemplate  `yaml:"templates"`
	Conversations    []models.Conversation     `yaml:"conversations"`
	Addresses        []models.Address          `yaml:"addresses"`
	WarmerSessions   []models.WarmerSession    `yaml:"warmerSessions"`
	NumberChecks     []models.NumberCheck      `yaml:"numberChecks"`
	AIConversations  []models.AIConversation   `yaml:"aiConversations"`
	AISettings       models.AISettings         `yaml:"aiSettings"`
	PromptTemplates  []models.AIPromptTemplate `yaml:"promptTemplates"`
}

// Default returns the embedded demo state
func Default() (store.State, error) {
	return Parse(fixture)
}

// Parse decodes a YAML fixture into a store state. Unknown keys are rejected.
func Parse(data []byte) (store.State, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return store.State{}, fmt.Errorf("failed to parse seed: %w", err)
	}

	return store.State{
		Theme:            doc.Theme,
		SidebarCollapsed: doc.SidebarCollapsed,
		Clients:          doc.Clients,
		Campaigns:        doc.Campaigns,
		Templates:        doc.Templates,
		Conversations:    doc.Conversations,
		Addresses:        doc.Addresses,
		WarmerSessions:   doc.WarmerSessions,
		NumberChecks:     doc.NumberChecks,
		AIConversations:  doc.AIConversations,
		AISettings:       doc.AISettings,
		PromptTemplates:  doc.PromptTemplates,
	}, nil
}
