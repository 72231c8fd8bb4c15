package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"whatsapp-dashboard/internal/models"
	"whatsapp-dashboard/internal/persist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func client(id, name string) models.Client {
	return models.Client{
		ID:          id,
		Name:        name,
		PhoneNumber: "+62812" + id,
		Status:      models.ClientConnected,
		Rating:      90,
		DailyLimit:  1000,
		SentToday:   10,
	}
}

func testSeed() State {
	return State{
		Theme:   ThemeSystem,
		Clients: []models.Client{client("seed-1", "Seed Client")},
		Templates: []models.MessageTemplate{
			{ID: "tpl-1", Name: "Welcome", Content: "Hi {name}", CreatedAt: t0},
		},
		Conversations: []models.Conversation{
			{ID: "conv-1", ClientID: "seed-1", ContactNumber: "+6281", UnreadCount: 2, UpdatedAt: t0},
		},
		AISettings: models.AISettings{ModelID: "gpt-4o-mini", Temperature: 0.7, MaxTokens: 1000},
		PromptTemplates: []models.AIPromptTemplate{
			{ID: "p-1", Name: "Promo", Category: models.CategoryMarketing, CreatedAt: t0},
		},
	}
}

func quiet(string, ...any) {}

func newStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s := New(append([]Option{WithLogf(quiet)}, opts...)...)
	require.NoError(t, s.Init(context.Background()))
	return s
}

func TestNew_IsolatedInstances(t *testing.T) {
	ctx := context.Background()
	a := newStore(t)
	b := newStore(t)

	require.NoError(t, a.AddClient(ctx, client("c1", "A")))

	assert.Len(t, a.Snapshot().Clients, 1)
	assert.Empty(t, b.Snapshot().Clients)
	assert.Equal(t, ThemeSystem, b.Snapshot().Theme)
}

func TestRemoveThenAdd_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.AddClient(ctx, client("c1", "Old")))
	removed, err := s.RemoveClient(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, removed)

	require.NoError(t, s.AddClient(ctx, client("c1", "New")))

	got, ok := s.Client("c1")
	require.True(t, ok)
	assert.Equal(t, "New", got.Name)
	assert.Len(t, s.Snapshot().Clients, 1)
}

func TestAdd_RejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.AddClient(ctx, client("c1", "First")))
	err := s.AddClient(ctx, client("c1", "Second"))
	assert.ErrorIs(t, err, ErrDuplicateID)

	got, _ := s.Client("c1")
	assert.Equal(t, "First", got.Name)
}

func TestAdd_RejectsInvalid(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	bad := client("c1", "Bad")
	bad.Status = "sleeping"
	assert.ErrorIs(t, s.AddClient(ctx, bad), ErrInvalid)

	assert.ErrorIs(t, s.AddClient(ctx, models.Client{Status: models.ClientConnected}), ErrInvalid)
	assert.Empty(t, s.Snapshot().Clients)
}

func TestUpdate_MergesPresentFieldsOnly(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.AddClient(ctx, client("c1", "Toko Maju")))

	updated, found, err := s.UpdateClient(ctx, "c1", Patch{
		"status":    "disconnected",
		"sentToday": 42,
		"id":        "hijacked",
		"ID":        "hijacked-too",
	})
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, "c1", updated.ID)
	assert.Equal(t, models.ClientDisconnected, updated.Status)
	assert.Equal(t, 42, updated.SentToday)
	assert.Equal(t, "Toko Maju", updated.Name)
	assert.Equal(t, 1000, updated.DailyLimit)

	got, ok := s.Client("c1")
	require.True(t, ok)
	assert.Equal(t, updated, got)
	_, ok = s.Client("hijacked")
	assert.False(t, ok)
}

func TestUpdate_MissingIDIsDistinguishableNoOp(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.AddClient(ctx, client("c1", "A")))
	before := s.Snapshot()

	_, found, err := s.UpdateClient(ctx, "nope", Patch{"name": "B"})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, before.Version, s.Snapshot().Version)
}

func TestUpdate_InvalidPatchLeavesEntity(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.AddClient(ctx, client("c1", "A")))

	_, found, err := s.UpdateClient(ctx, "c1", Patch{"rating": 150})
	assert.True(t, found)
	assert.ErrorIs(t, err, ErrInvalid)

	_, _, err = s.UpdateClient(ctx, "c1", Patch{"nickname": "x"})
	assert.ErrorIs(t, err, ErrInvalid)

	_, _, err = s.UpdateClient(ctx, "c1", Patch{"rating": "high"})
	assert.ErrorIs(t, err, ErrInvalid)

	_, _, err = s.UpdateClient(ctx, "c1", Patch{"Name": "B"})
	assert.ErrorIs(t, err, ErrInvalid)

	got, _ := s.Client("c1")
	assert.Equal(t, 90, got.Rating)
	assert.Equal(t, "A", got.Name)
}

func TestRemove_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.AddAddress(ctx, models.Address{ID: "a1", Name: "Budi"}))
	require.NoError(t, s.AddAddress(ctx, models.Address{ID: "a2", Name: "Sari"}))

	removed, err := s.RemoveAddress(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, removed)
	after := s.Snapshot()

	removed, err = s.RemoveAddress(ctx, "a1")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, after.Addresses, s.Snapshot().Addresses)
	assert.Equal(t, after.Version, s.Snapshot().Version)
}

func TestSnapshot_IsImmutable(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.AddClient(ctx, client("c1", "A")))

	old := s.Snapshot()
	require.NoError(t, s.AddClient(ctx, client("c2", "B")))
	_, _, err := s.UpdateClient(ctx, "c1", Patch{"name": "Changed"})
	require.NoError(t, err)

	assert.Len(t, old.Clients, 1)
	assert.Equal(t, "A", old.Clients[0].Name)
	assert.Greater(t, s.Snapshot().Version, old.Version)
}

func TestPersistence_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := persist.NewMemoryStore()

	first := newStore(t, WithPersister(mem), WithSeed(testSeed(), false))
	require.NoError(t, first.SetTheme(ctx, ThemeDark))
	_, err := first.ToggleSidebar(ctx)
	require.NoError(t, err)
	require.NoError(t, first.AddClient(ctx, client("c1", "Persisted")))
	require.NoError(t, first.AddCampaign(ctx, models.Campaign{
		ID: "b1", Name: "Promo", Status: models.CampaignRunning, CreatedAt: t0,
		Stats: models.BlastStats{Total: 500, Sent: 487, Delivered: 445, Failed: 13},
	}))
	require.NoError(t, first.AddTemplate(ctx, models.MessageTemplate{ID: "t1", Name: "T", Content: "{x}", CreatedAt: t0}))
	rating := 4.5
	require.NoError(t, first.AddAddress(ctx, models.Address{ID: "a1", Name: "Budi", Rating: &rating, IsBusiness: true}))
	require.NoError(t, first.AddWarmerSession(ctx, models.WarmerSession{
		ID: "w1", ClientID: "c1", TargetClientID: "c2", Status: models.WarmerActive, StartedAt: t0, Duration: 60,
	}))
	require.NoError(t, first.AddConversation(ctx, models.Conversation{ID: "conv-2", ClientID: "c1", UpdatedAt: t0}))
	require.NoError(t, first.RecordNumberChecks(ctx, models.NumberCheck{PhoneNumber: "+62811", IsValid: true, LastChecked: t0}))
	_, err = first.UpdateAISettings(ctx, Patch{"temperature": 1.5})
	require.NoError(t, err)

	want := first.Snapshot()

	second := newStore(t, WithPersister(mem), WithSeed(testSeed(), false))
	got := second.Snapshot()

	assert.Equal(t, want.Theme, got.Theme)
	assert.Equal(t, want.SidebarCollapsed, got.SidebarCollapsed)
	assert.Equal(t, want.Clients, got.Clients)
	assert.Equal(t, want.Campaigns, got.Campaigns)
	assert.Equal(t, want.Templates, got.Templates)
	assert.Equal(t, want.Addresses, got.Addresses)
	assert.Equal(t, want.WarmerSessions, got.WarmerSessions)

	seed := testSeed()
	assert.Equal(t, seed.Conversations, got.Conversations)
	assert.Empty(t, got.NumberChecks)
	assert.Equal(t, seed.AISettings, got.AISettings)
	assert.Equal(t, seed.PromptTemplates, got.PromptTemplates)
}

func TestPersistence_OnlyWhitelistedMutationsSave(t *testing.T) {
	ctx := context.Background()
	mem := persist.NewMemoryStore()
	s := newStore(t, WithPersister(mem))

	require.NoError(t, s.AddConversation(ctx, models.Conversation{ID: "conv", UpdatedAt: t0}))
	require.NoError(t, s.RecordNumberChecks(ctx, models.NumberCheck{PhoneNumber: "1"}))
	s.BeginLoading()
	s.EndLoading()
	assert.Equal(t, 0, mem.Saves())

	require.NoError(t, s.AddClient(ctx, client("c1", "A")))
	assert.Equal(t, 1, mem.Saves())
}

func TestInit_SeedOnEmpty(t *testing.T) {
	mem := persist.NewMemoryStore()
	s := newStore(t, WithPersister(mem), WithSeed(testSeed(), true))

	snap := s.Snapshot()
	assert.Equal(t, testSeed().Clients, snap.Clients)
	assert.Equal(t, testSeed().Templates, snap.Templates)
	assert.Empty(t, snap.Campaigns)
}

func TestInit_SeedOnEmptyFillsOnlyEmptyCollections(t *testing.T) {
	ctx := context.Background()
	mem := persist.NewMemoryStore()
	payload, err := persist.Encode(map[string]any{
		"theme":   "light",
		"clients": []models.Client{client("p1", "Persisted")},
	})
	require.NoError(t, err)
	require.NoError(t, mem.Save(ctx, payload))

	s := newStore(t, WithPersister(mem), WithSeed(testSeed(), true))
	snap := s.Snapshot()

	assert.Equal(t, ThemeLight, snap.Theme)
	require.Len(t, snap.Clients, 1)
	assert.Equal(t, "p1", snap.Clients[0].ID)
	assert.Equal(t, testSeed().Templates, snap.Templates)
}

func TestInit_WithoutSeedOnEmptyKeepsPersistedEmpty(t *testing.T) {
	ctx := context.Background()
	mem := persist.NewMemoryStore()
	payload, err := persist.Encode(map[string]any{"clients": []models.Client{}})
	require.NoError(t, err)
	require.NoError(t, mem.Save(ctx, payload))

	s := newStore(t, WithPersister(mem), WithSeed(testSeed(), false))
	assert.Empty(t, s.Snapshot().Clients)
	assert.Equal(t, testSeed().Conversations, s.Snapshot().Conversations)
}

func TestInit_MissingSlotKeepsSeed(t *testing.T) {
	s := newStore(t, WithPersister(persist.NewMemoryStore()), WithSeed(testSeed(), false))

	snap := s.Snapshot()
	assert.Equal(t, testSeed().Clients, snap.Clients)
	assert.Equal(t, testSeed().Templates, snap.Templates)
}

func TestInit_PartialSnapshotKeepsSeedForAbsentKeys(t *testing.T) {
	ctx := context.Background()
	mem := persist.NewMemoryStore()
	require.NoError(t, mem.Save(ctx, []byte(`{"version":1,"state":{"theme":"dark","campaigns":[]}}`)))

	s := newStore(t, WithPersister(mem), WithSeed(testSeed(), false))
	snap := s.Snapshot()

	assert.Equal(t, ThemeDark, snap.Theme)
	assert.Equal(t, testSeed().Clients, snap.Clients)
	assert.Equal(t, testSeed().Templates, snap.Templates)
	assert.Empty(t, snap.Campaigns)
}

func TestInit_MalformedFieldsKeepDefaults(t *testing.T) {
	ctx := context.Background()
	mem := persist.NewMemoryStore()
	require.NoError(t, mem.Save(ctx, []byte(`{
		"version": 1,
		"state": {
			"theme": "neon",
			"sidebarCollapsed": "yes",
			"clients": {"not": "a list"},
			"campaigns": [
				{"id": "b1", "name": "ok", "status": "draft", "createdAt": "2024-01-15T10:00:00Z"},
				{"id": "b2", "status": "exploded"},
				{"id": 7},
				{"id": "b1", "name": "dup", "status": "completed", "createdAt": "2024-01-15T10:00:00Z"}
			]
		}
	}`)))

	var warnings []string
	s := New(WithPersister(mem), WithLogf(func(format string, args ...any) {
		warnings = append(warnings, format)
	}))
	require.NoError(t, s.Init(ctx))

	snap := s.Snapshot()
	assert.Equal(t, ThemeSystem, snap.Theme)
	assert.False(t, snap.SidebarCollapsed)
	assert.Empty(t, snap.Clients)
	require.Len(t, snap.Campaigns, 1)
	assert.Equal(t, "dup", snap.Campaigns[0].Name)
	assert.NotEmpty(t, warnings)
}

func TestInit_UnsupportedVersionStartsFromDefaults(t *testing.T) {
	ctx := context.Background()
	mem := persist.NewMemoryStore()
	require.NoError(t, mem.Save(ctx, []byte(`{"version":2,"state":{"theme":"dark"}}`)))

	s := newStore(t, WithPersister(mem), WithSeed(testSeed(), true))
	assert.Equal(t, ThemeSystem, s.Snapshot().Theme)
	assert.Equal(t, testSeed().Clients, s.Snapshot().Clients)
}

func TestInit_LegacyUnversionedSnapshot(t *testing.T) {
	ctx := context.Background()
	mem := persist.NewMemoryStore()
	require.NoError(t, mem.Save(ctx, []byte(`{"state":{"theme":"dark","sidebarCollapsed":true}}`)))

	s := newStore(t, WithPersister(mem))
	assert.Equal(t, ThemeDark, s.Snapshot().Theme)
	assert.True(t, s.Snapshot().SidebarCollapsed)
}

type failingPersister struct {
	loadErr error
}

func (f failingPersister) Load(context.Context) ([]byte, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return nil, persist.ErrNotFound
}

func (failingPersister) Save(context.Context, []byte) error {
	return errors.New("disk full")
}

func TestInit_BackendFailure(t *testing.T) {
	s := New(WithPersister(failingPersister{loadErr: errors.New("connection refused")}), WithLogf(quiet))
	assert.Error(t, s.Init(context.Background()))
}

func TestPersistFailure_StateStillAdvances(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, WithPersister(failingPersister{}))

	err := s.AddClient(ctx, client("c1", "A"))
	assert.ErrorIs(t, err, ErrPersist)

	_, ok := s.Client("c1")
	assert.True(t, ok)
}

func TestPersist_SurvivesCanceledContext(t *testing.T) {
	mem := persist.NewMemoryStore()
	s := newStore(t, WithPersister(mem))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, s.AddClient(ctx, client("c1", "A")))
	assert.Equal(t, 1, mem.Saves())

	reloaded := newStore(t, WithPersister(mem))
	_, ok := reloaded.Client("c1")
	assert.True(t, ok)
}

func TestSubscribe_ReceivesEventsInOrder(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	var kinds []string
	var versions []uint64
	unsubscribe := s.Subscribe(func(ev Event) {
		kinds = append(kinds, ev.Kind)
		versions = append(versions, ev.State.Version)
	})

	require.NoError(t, s.AddClient(ctx, client("c1", "A")))
	require.NoError(t, s.SetTheme(ctx, ThemeDark))
	_, err := s.RemoveClient(ctx, "missing")
	require.NoError(t, err)

	unsubscribe()
	require.NoError(t, s.AddClient(ctx, client("c2", "B")))

	assert.Equal(t, []string{"clients", "theme"}, kinds)
	require.Len(t, versions, 2)
	assert.Less(t, versions[0], versions[1])
}

func TestLoadingCounter(t *testing.T) {
	s := newStore(t)
	assert.False(t, s.IsLoading())

	s.BeginLoading()
	s.BeginLoading()
	assert.True(t, s.IsLoading())

	s.EndLoading()
	assert.True(t, s.IsLoading())

	s.EndLoading()
	assert.False(t, s.IsLoading())

	s.EndLoading()
	assert.False(t, s.IsLoading())
}

func TestSetTheme_RejectsUnknown(t *testing.T) {
	s := newStore(t)
	assert.ErrorIs(t, s.SetTheme(context.Background(), "sepia"), ErrInvalid)
	assert.Equal(t, ThemeSystem, s.Snapshot().Theme)
}

func TestSidebar(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	collapsed, err := s.ToggleSidebar(ctx)
	require.NoError(t, err)
	assert.True(t, collapsed)

	require.NoError(t, s.SetSidebarCollapsed(ctx, false))
	assert.False(t, s.Snapshot().SidebarCollapsed)
}

func TestNumberChecks_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.RecordNumberChecks(ctx, models.NumberCheck{PhoneNumber: "1"}))
	require.NoError(t, s.RecordNumberChecks(ctx,
		models.NumberCheck{PhoneNumber: "2"},
		models.NumberCheck{PhoneNumber: "3"},
	))

	var phones []string
	for _, c := range s.Snapshot().NumberChecks {
		phones = append(phones, c.PhoneNumber)
	}
	assert.Equal(t, []string{"2", "3", "1"}, phones)

	require.NoError(t, s.ClearNumberChecks(ctx))
	assert.Empty(t, s.Snapshot().NumberChecks)
}

func TestAIActions(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, WithSeed(testSeed(), false))

	require.NoError(t, s.StartAIConversation(ctx, models.AIConversation{ID: "ai-1", Title: "Chat", CreatedAt: t0, UpdatedAt: t0}))

	later := t0.Add(time.Minute)
	conv, found, err := s.AppendAIMessage(ctx, "ai-1", models.AIMessage{ID: "m1", Role: models.RoleUser, Content: "hello", Timestamp: later})
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, conv.Messages, 1)
	assert.Equal(t, later, conv.UpdatedAt)

	_, found, err = s.AppendAIMessage(ctx, "missing", models.AIMessage{ID: "m2"})
	require.NoError(t, err)
	assert.False(t, found)

	settings, err := s.UpdateAISettings(ctx, Patch{"autoReply": true})
	require.NoError(t, err)
	assert.True(t, settings.AutoReply)
	assert.Equal(t, "gpt-4o-mini", settings.ModelID)

	_, err = s.UpdateAISettings(ctx, Patch{"temperature": 3})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestPromptTemplates(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	assert.ErrorIs(t, s.AddPromptTemplate(ctx, models.AIPromptTemplate{ID: "p", Category: "poetry"}), ErrInvalid)
	require.NoError(t, s.AddPromptTemplate(ctx, models.AIPromptTemplate{ID: "p", Category: models.CategorySales}))

	p, found, err := s.UpdatePromptTemplate(ctx, "p", Patch{"name": "Follow up"})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, models.CategorySales, p.Category)
}

func TestModifyWarmerSessions(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.AddWarmerSession(ctx, models.WarmerSession{ID: "w1", Status: models.WarmerActive, StartedAt: t0}))
	require.NoError(t, s.AddWarmerSession(ctx, models.WarmerSession{ID: "w2", Status: models.WarmerPaused, StartedAt: t0}))
	v := s.Snapshot().Version

	err := s.ModifyWarmerSessions(ctx, func(sessions []models.WarmerSession) ([]models.WarmerSession, bool) {
		return sessions, false
	})
	require.NoError(t, err)
	assert.Equal(t, v, s.Snapshot().Version)

	err = s.ModifyWarmerSessions(ctx, func(sessions []models.WarmerSession) ([]models.WarmerSession, bool) {
		for i := range sessions {
			if sessions[i].Status == models.WarmerActive {
				sessions[i].MessagesSent++
			}
		}
		return sessions, true
	})
	require.NoError(t, err)

	w1, _ := s.WarmerSession("w1")
	w2, _ := s.WarmerSession("w2")
	assert.Equal(t, 1, w1.MessagesSent)
	assert.Equal(t, 0, w2.MessagesSent)
}

func TestConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, WithPersister(persist.NewMemoryStore()))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := client(string(rune('A'+i%26))+string(rune('a'+i/26)), "n")
			assert.NoError(t, s.AddClient(ctx, c))
			_ = s.Snapshot()
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.Snapshot().Clients, 50)
	assert.Equal(t, uint64(51), s.Snapshot().Version)
}
