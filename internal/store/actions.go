package store

import (
	"context"
	"fmt"
	"slices"

	"whatsapp-dashboard/internal/models"
)

func add[T entity](ctx context.Context, s *Store, c collection[T], item T) error {
	return s.apply(ctx, c.kind, c.persisted, func(next *State) error {
		items, err := appendEntity(c.get(next), item)
		if err != nil {
			return err
		}
		c.set(next, items)
		return nil
	})
}

// update merges patch into the entity with id. found is false, with a nil
// error, when no such entity exists.
func update[T entity](ctx context.Context, s *Store, c collection[T], id string, patch Patch) (T, bool, error) {
	return modify(ctx, s, c, id, func(item T) (T, error) {
		return mergePatch(item, patch)
	})
}

// modify replaces the entity with id by fn's result, validated.
func modify[T entity](ctx context.Context, s *Store, c collection[T], id string, fn func(T) (T, error)) (T, bool, error) {
	var (
		result T
		found  bool
	)
	err := s.apply(ctx, c.kind, c.persisted, func(next *State) error {
		items := c.get(next)
		i := indexOf(items, id)
		if i < 0 {
			return errUnchanged
		}
		found = true
		updated, err := fn(items[i])
		if err != nil {
			return err
		}
		if updated.EntityID() != id {
			return fmt.Errorf("%w: id of %s cannot change", ErrInvalid, id)
		}
		if err := updated.Validate(); err != nil {
			return err
		}
		result = updated
		c.set(next, replaceAt(items, i, updated))
		return nil
	})
	if err != nil {
		var zero T
		return zero, found, err
	}
	return result, found, nil
}

func remove[T entity](ctx context.Context, s *Store, c collection[T], id string) (bool, error) {
	var removed bool
	err := s.apply(ctx, c.kind, c.persisted, func(next *State) error {
		items, ok := removeEntity(c.get(next), id)
		if !ok {
			return errUnchanged
		}
		removed = true
		c.set(next, items)
		return nil
	})
	return removed, err
}

func lookup[T entity](s *Store, c collection[T], id string) (T, bool) {
	st := s.state.Load()
	items := c.get(st)
	if i := indexOf(items, id); i >= 0 {
		return items[i], true
	}
	var zero T
	return zero, false
}

// Clients

func (s *Store) AddClient(ctx context.Context, c models.Client) error {
	return add(ctx, s, clients, c)
}

func (s *Store) UpdateClient(ctx context.Context, id string, patch Patch) (models.Client, bool, error) {
	return update(ctx, s, clients, id, patch)
}

func (s *Store) ModifyClient(ctx context.Context, id string, fn func(models.Client) (models.Client, error)) (models.Client, bool, error) {
	return modify(ctx, s, clients, id, fn)
}

func (s *Store) RemoveClient(ctx context.Context, id string) (bool, error) {
	return remove(ctx, s, clients, id)
}

func (s *Store) Client(id string) (models.Client, bool) {
	return lookup(s, clients, id)
}

// Campaigns

func (s *Store) AddCampaign(ctx context.Context, c models.Campaign) error {
	return add(ctx, s, campaigns, c)
}

func (s *Store) UpdateCampaign(ctx context.Context, id string, patch Patch) (models.Campaign, bool, error) {
	return update(ctx, s, campaigns, id, patch)
}

func (s *Store) ModifyCampaign(ctx context.Context, id string, fn func(models.Campaign) (models.Campaign, error)) (models.Campaign, bool, error) {
	return modify(ctx, s, campaigns, id, fn)
}

func (s *Store) RemoveCampaign(ctx context.Context, id string) (bool, error) {
	return remove(ctx, s, campaigns, id)
}

func (s *Store) Campaign(id string) (models.Campaign, bool) {
	return lookup(s, campaigns, id)
}

// Message templates

func (s *Store) AddTemplate(ctx context.Context, t models.MessageTemplate) error {
	return add(ctx, s, templates, t)
}

func (s *Store) UpdateTemplate(ctx context.Context, id string, patch Patch) (models.MessageTemplate, bool, error) {
	return update(ctx, s, templates, id, patch)
}

func (s *Store) ModifyTemplate(ctx context.Context, id string, fn func(models.MessageTemplate) (models.MessageTemplate, error)) (models.MessageTemplate, bool, error) {
	return modify(ctx, s, templates, id, fn)
}

func (s *Store) RemoveTemplate(ctx context.Context, id string) (bool, error) {
	return remove(ctx, s, templates, id)
}

func (s *Store) Template(id string) (models.MessageTemplate, bool) {
	return lookup(s, templates, id)
}

// Addresses

func (s *Store) AddAddress(ctx context.Context, a models.Address) error {
	return add(ctx, s, addresses, a)
}

func (s *Store) UpdateAddress(ctx context.Context, id string, patch Patch) (models.Address, bool, error) {
	return update(ctx, s, addresses, id, patch)
}

func (s *Store) RemoveAddress(ctx context.Context, id string) (bool, error) {
	return remove(ctx, s, addresses, id)
}

func (s *Store) Address(id string) (models.Address, bool) {
	return lookup(s, addresses, id)
}

// Warmer sessions

func (s *Store) AddWarmerSession(ctx context.Context, w models.WarmerSession) error {
	return add(ctx, s, warmerSessions, w)
}

func (s *Store) UpdateWarmerSession(ctx context.Context, id string, patch Patch) (models.WarmerSession, bool, error) {
	return update(ctx, s, warmerSessions, id, patch)
}

func (s *Store) ModifyWarmerSession(ctx context.Context, id string, fn func(models.WarmerSession) (models.WarmerSession, error)) (models.WarmerSession, bool, error) {
	return modify(ctx, s, warmerSessions, id, fn)
}

func (s *Store) RemoveWarmerSession(ctx context.Context, id string) (bool, error) {
	return remove(ctx, s, warmerSessions, id)
}

func (s *Store) WarmerSession(id string) (models.WarmerSession, bool) {
	return lookup(s, warmerSessions, id)
}

// ModifyWarmerSessions replaces every session with fn's result in one mutation.
// fn receives a copy and reports whether anything changed.
func (s *Store) ModifyWarmerSessions(ctx context.Context, fn func([]models.WarmerSession) ([]models.WarmerSession, bool)) error {
	return s.apply(ctx, warmerSessions.kind, true, func(next *State) error {
		updated, changed := fn(slices.Clone(next.WarmerSessions))
		if !changed {
			return errUnchanged
		}
		for _, w := range updated {
			if err := w.Validate(); err != nil {
				return err
			}
		}
		next.WarmerSessions = dedupe(updated)
		return nil
	})
}

// Conversations

func (s *Store) AddConversation(ctx context.Context, c models.Conversation) error {
	return add(ctx, s, conversations, c)
}

func (s *Store) UpdateConversation(ctx context.Context, id string, patch Patch) (models.Conversation, bool, error) {
	return update(ctx, s, conversations, id, patch)
}

func (s *Store) ModifyConversation(ctx context.Context, id string, fn func(models.Conversation) (models.Conversation, error)) (models.Conversation, bool, error) {
	return modify(ctx, s, conversations, id, fn)
}

func (s *Store) RemoveConversation(ctx context.Context, id string) (bool, error) {
	return remove(ctx, s, conversations, id)
}

func (s *Store) Conversation(id string) (models.Conversation, bool) {
	return lookup(s, conversations, id)
}

// AI assistant

func (s *Store) StartAIConversation(ctx context.Context, c models.AIConversation) error {
	return add(ctx, s, aiConversations, c)
}

// AppendAIMessage adds msg to the end of the conversation and bumps its updatedAt
func (s *Store) AppendAIMessage(ctx context.Context, conversationID string, msg models.AIMessage) (models.AIConversation, bool, error) {
	return modify(ctx, s, aiConversations, conversationID, func(c models.AIConversation) (models.AIConversation, error) {
		c.Messages = append(slices.Clip(c.Messages), msg)
		c.UpdatedAt = msg.Timestamp
		return c, nil
	})
}

func (s *Store) RemoveAIConversation(ctx context.Context, id string) (bool, error) {
	return remove(ctx, s, aiConversations, id)
}

func (s *Store) AIConversation(id string) (models.AIConversation, bool) {
	return lookup(s, aiConversations, id)
}

func (s *Store) UpdateAISettings(ctx context.Context, patch Patch) (models.AISettings, error) {
	var result models.AISettings
	err := s.apply(ctx, "aiSettings", false, func(next *State) error {
		merged, err := mergePatch(next.AISettings, patch)
		if err != nil {
			return err
		}
		if merged.Temperature < 0 || merged.Temperature > 2 {
			return fmt.Errorf("%w: temperature %v out of range 0-2", ErrInvalid, merged.Temperature)
		}
		if merged.MaxTokens < 0 {
			return fmt.Errorf("%w: negative maxTokens", ErrInvalid)
		}
		next.AISettings = merged
		result = merged
		return nil
	})
	return result, err
}

func (s *Store) AddPromptTemplate(ctx context.Context, p models.AIPromptTemplate) error {
	return add(ctx, s, promptTemplates, p)
}

func (s *Store) UpdatePromptTemplate(ctx context.Context, id string, patch Patch) (models.AIPromptTemplate, bool, error) {
	return update(ctx, s, promptTemplates, id, patch)
}

func (s *Store) RemovePromptTemplate(ctx context.Context, id string) (bool, error) {
	return remove(ctx, s, promptTemplates, id)
}

func (s *Store) PromptTemplate(id string) (models.AIPromptTemplate, bool) {
	return lookup(s, promptTemplates, id)
}

// Number checks

// RecordNumberChecks prepends results so the newest come first
func (s *Store) RecordNumberChecks(ctx context.Context, checks ...models.NumberCheck) error {
	if len(checks) == 0 {
		return nil
	}
	return s.apply(ctx, "numberChecks", false, func(next *State) error {
		next.NumberChecks = append(slices.Clone(checks), next.NumberChecks...)
		return nil
	})
}

func (s *Store) ClearNumberChecks(ctx context.Context) error {
	return s.apply(ctx, "numberChecks", false, func(next *State) error {
		if len(next.NumberChecks) == 0 {
			return errUnchanged
		}
		next.NumberChecks = []models.NumberCheck{}
		return nil
	})
}

// UI flags

func (s *Store) SetTheme(ctx context.Context, theme string) error {
	if !validTheme(theme) {
		return fmt.Errorf("%w: unknown theme %q", ErrInvalid, theme)
	}
	return s.apply(ctx, "theme", true, func(next *State) error {
		next.Theme = theme
		return nil
	})
}

func (s *Store) ToggleSidebar(ctx context.Context) (bool, error) {
	var collapsed bool
	err := s.apply(ctx, "sidebar", true, func(next *State) error {
		next.SidebarCollapsed = !next.SidebarCollapsed
		collapsed = next.SidebarCollapsed
		return nil
	})
	return collapsed, err
}

func (s *Store) SetSidebarCollapsed(ctx context.Context, collapsed bool) error {
	return s.apply(ctx, "sidebar", true, func(next *State) error {
		if next.SidebarCollapsed == collapsed {
			return errUnchanged
		}
		next.SidebarCollapsed = collapsed
		return nil
	})
}

// BeginLoading marks one operation in flight. Pair every call with EndLoading.
func (s *Store) BeginLoading() {
	s.setLoading(1)
}

func (s *Store) EndLoading() {
	s.setLoading(-1)
}

func (s *Store) setLoading(delta int) {
	_ = s.apply(context.Background(), "loading", false, func(next *State) error {
		s.loading += delta
		if s.loading < 0 {
			s.loading = 0
		}
		if next.IsLoading == (s.loading > 0) {
			return errUnchanged
		}
		return nil
	})
}

func (s *Store) IsLoading() bool {
	return s.state.Load().IsLoading
}
