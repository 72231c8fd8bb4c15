package projection

import (
	"time"

	"whatsapp-dashboard/internal/models"
	"whatsapp-dashboard/internal/store"
)

// Dashboard summarizes the whole snapshot for the landing screen.
// conversationsToday counts threads updated on now's calendar day.
func Dashboard(st store.State, now time.Time) models.DashboardStats {
	y, m, d := now.Date()
	loc := now.Location()
	return models.DashboardStats{
		TotalClients:     len(st.Clients),
		ConnectedClients: CountWhere(st.Clients, func(c models.Client) bool { return c.Status == models.ClientConnected }),
		TotalBlasts:      len(st.Campaigns),
		ActiveBlasts:     CountWhere(st.Campaigns, func(c models.Campaign) bool { return c.Status == models.CampaignRunning }),
		TotalMessages:    SumInt(st.Campaigns, func(c models.Campaign) int { return c.Stats.Sent }),
		SentToday:        SumInt(st.Clients, func(c models.Client) int { return c.SentToday }),
		ActiveWarmerSessions: CountWhere(st.WarmerSessions, func(w models.WarmerSession) bool {
			return w.Status == models.WarmerActive
		}),
		ConversationsToday: CountWhere(st.Conversations, func(c models.Conversation) bool {
			cy, cm, cd := c.UpdatedAt.In(loc).Date()
			return cy == y && cm == m && cd == d
		}),
		UnreadMessages: SumInt(st.Conversations, func(c models.Conversation) int { return c.UnreadCount }),
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func derefOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
