package projection

import (
	"cmp"

	"whatsapp-dashboard/internal/models"
)

// UnknownClient is shown for references to a removed client
const UnknownClient = "Unknown Client"

type ClientQuery struct {
	Search string
	Status string
	Sort   string
	Desc   bool
}

type ClientStats struct {
	Total         int     `json:"total"`
	Connected     int     `json:"connected"`
	UptimePercent int     `json:"uptimePercent"`
	SentToday     int     `json:"sentToday"`
	DailyLimit    int     `json:"dailyLimit"`
	UsagePercent  float64 `json:"usagePercent"`
}

// ClientUsage is one client's share of its daily limit. Percent is not
// clamped; OverLimit marks sentToday above dailyLimit.
type ClientUsage struct {
	ClientID  string  `json:"clientId"`
	Percent   float64 `json:"percent"`
	OverLimit bool    `json:"overLimit"`
}

var clientSortKeys = SortKeys[models.Client]{
	"name":        func(a, b models.Client) int { return cmp.Compare(a.Name, b.Name) },
	"phoneNumber": func(a, b models.Client) int { return cmp.Compare(a.PhoneNumber, b.PhoneNumber) },
	"status":      func(a, b models.Client) int { return cmp.Compare(a.Status, b.Status) },
	"rating":      func(a, b models.Client) int { return cmp.Compare(a.Rating, b.Rating) },
	"sentToday":   func(a, b models.Client) int { return cmp.Compare(a.SentToday, b.SentToday) },
	"dailyLimit":  func(a, b models.Client) int { return cmp.Compare(a.DailyLimit, b.DailyLimit) },
	"lastSeen": func(a, b models.Client) int {
		return cmp.Compare(timeOrZero(a.LastSeen).UnixNano(), timeOrZero(b.LastSeen).UnixNano())
	},
}

func Clients(items []models.Client, q ClientQuery) []models.Client {
	rows := Filter(items,
		func(c models.Client) bool { return MatchSearch(q.Search, c.Name, c.PhoneNumber) },
		func(c models.Client) bool { return MatchCategory(q.Status, c.Status) },
	)
	return SortBy(rows, clientSortKeys, q.Sort, q.Desc)
}

func ClientSummary(items []models.Client) ClientStats {
	connected := CountWhere(items, func(c models.Client) bool { return c.Status == models.ClientConnected })
	sent := SumInt(items, func(c models.Client) int { return c.SentToday })
	limit := SumInt(items, func(c models.Client) int { return c.DailyLimit })
	return ClientStats{
		Total:         len(items),
		Connected:     connected,
		UptimePercent: RoundPercent(connected, len(items)),
		SentToday:     sent,
		DailyLimit:    limit,
		UsagePercent:  Round2(Percent(float64(sent), float64(limit))),
	}
}

func Usage(c models.Client) ClientUsage {
	return ClientUsage{
		ClientID:  c.ID,
		Percent:   Round2(Percent(float64(c.SentToday), float64(c.DailyLimit))),
		OverLimit: c.SentToday > c.DailyLimit,
	}
}

// ClientName resolves id against clients, UnknownClient when absent
func ClientName(clients []models.Client, id string) string {
	for _, c := range clients {
		if c.ID == id {
			return c.Name
		}
	}
	return UnknownClient
}
