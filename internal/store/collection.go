package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"whatsapp-dashboard/internal/models"
)

// Patch is a partial entity keyed by JSON field name
type Patch map[string]any

type entity interface {
	EntityID() string
	Validate() error
}

// collection binds one entity slice of State to its persistence policy
type collection[T entity] struct {
	kind      string
	persisted bool
	get       func(*State) []T
	set       func(*State, []T)
}

var (
	clients = collection[models.Client]{
		kind: "clients", persisted: true,
		get: func(s *State) []models.Client { return s.Clients },
		set: func(s *State, v []models.Client) { s.Clients = v },
	}
	campaigns = collection[models.Campaign]{
		kind: "campaigns", persisted: true,
		get: func(s *State) []models.Campaign { return s.Campaigns },
		set: func(s *State, v []models.Campaign) { s.Campaigns = v },
	}
	templates = collection[models.MessageTemplate]{
		kind: "templates", persisted: true,
		get: func(s *State) []models.MessageTemplate { return s.Templates },
		set: func(s *State, v []models.MessageTemplate) { s.Templates = v },
	}
	addresses = collection[models.Address]{
		kind: "addresses", persisted: true,
		get: func(s *State) []models.Address { return s.Addresses },
		set: func(s *State, v []models.Address) { s.Addresses = v },
	}
	warmerSessions = collection[models.WarmerSession]{
		kind: "warmerSessions", persisted: true,
		get: func(s *State) []models.WarmerSession { return s.WarmerSessions },
		set: func(s *State, v []models.WarmerSession) { s.WarmerSessions = v },
	}
	conversations = collection[models.Conversation]{
		kind: "conversations",
		get:  func(s *State) []models.Conversation { return s.Conversations },
		set:  func(s *State, v []models.Conversation) { s.Conversations = v },
	}
	aiConversations = collection[models.AIConversation]{
		kind: "aiConversations",
		get:  func(s *State) []models.AIConversation { return s.AIConversations },
		set:  func(s *State, v []models.AIConversation) { s.AIConversations = v },
	}
	promptTemplates = collection[models.AIPromptTemplate]{
		kind: "promptTemplates",
		get:  func(s *State) []models.AIPromptTemplate { return s.PromptTemplates },
		set:  func(s *State, v []models.AIPromptTemplate) { s.PromptTemplates = v },
	}
)

func indexOf[T entity](items []T, id string) int {
	return slices.IndexFunc(items, func(item T) bool { return item.EntityID() == id })
}

// appendEntity returns a new slice with item appended; items is left untouched
func appendEntity[T entity](items []T, item T) ([]T, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if indexOf(items, item.EntityID()) >= 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, item.EntityID())
	}
	return append(slices.Clip(items), item), nil
}

// replaceAt returns a copy of items with position i set to item
func replaceAt[T any](items []T, i int, item T) []T {
	out := slices.Clone(items)
	out[i] = item
	return out
}

func removeEntity[T entity](items []T, id string) ([]T, bool) {
	if indexOf(items, id) < 0 {
		return items, false
	}
	out := slices.DeleteFunc(slices.Clone(items), func(item T) bool { return item.EntityID() == id })
	return out, true
}

// dedupe keeps the first position of each id with the value of its last occurrence
func dedupe[T entity](items []T) []T {
	seen := make(map[string]int, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if i, ok := seen[item.EntityID()]; ok {
			out[i] = item
			continue
		}
		seen[item.EntityID()] = len(out)
		out = append(out, item)
	}
	return out
}

// mergePatch shallow-merges patch over item: keys present in the patch replace
// the whole top-level field, absent keys are preserved, "id" is ignored.
func mergePatch[T any](item T, patch Patch) (T, error) {
	var zero T

	base, err := json.Marshal(item)
	if err != nil {
		return zero, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &fields); err != nil {
		return zero, err
	}

	for k, v := range patch {
		if strings.EqualFold(k, "id") {
			continue
		}
		if _, exact := fields[k]; !exact {
			for existing := range fields {
				if strings.EqualFold(existing, k) {
					return zero, fmt.Errorf("%w: field %s conflicts with %s", ErrInvalid, k, existing)
				}
			}
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return zero, fmt.Errorf("%w: field %s: %v", ErrInvalid, k, err)
		}
		fields[k] = raw
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return zero, err
	}

	var out T
	dec := json.NewDecoder(bytes.NewReader(merged))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return out, nil
}

// decodeEntities decodes a persisted collection element by element, dropping
// entries that fail to decode or validate.
func decodeEntities[T entity](kind string, raw json.RawMessage, logf func(string, ...any)) ([]T, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, err
	}
	out := make([]T, 0, len(elems))
	for i, elem := range elems {
		var item T
		if err := json.Unmarshal(elem, &item); err != nil {
			logf("Warning: dropping persisted %s[%d]: %v", kind, i, err)
			continue
		}
		if err := item.Validate(); err != nil {
			logf("Warning: dropping persisted %s[%d]: %v", kind, i, err)
			continue
		}
		out = append(out, item)
	}
	return dedupe(out), nil
}
