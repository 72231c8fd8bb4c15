package projection

import (
	"cmp"

	"whatsapp-dashboard/internal/models"
)

type CampaignQuery struct {
	Search string
	Status string
	Sort   string
	Desc   bool
}

type CampaignStats struct {
	Total          int     `json:"total"`
	Active         int     `json:"active"`
	TotalSent      int     `json:"totalSent"`
	TotalDelivered int     `json:"totalDelivered"`
	DeliveryRate   float64 `json:"deliveryRate"`
}

// CampaignProgress is the per-campaign row detail
type CampaignProgress struct {
	CampaignID      string   `json:"campaignId"`
	ProgressPercent float64  `json:"progressPercent"`
	DeliveryRate    float64  `json:"deliveryRate"`
	ClientNames     []string `json:"clientNames"`
}

var campaignSortKeys = SortKeys[models.Campaign]{
	"name":      func(a, b models.Campaign) int { return cmp.Compare(a.Name, b.Name) },
	"status":    func(a, b models.Campaign) int { return cmp.Compare(a.Status, b.Status) },
	"createdAt": func(a, b models.Campaign) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"sent":      func(a, b models.Campaign) int { return cmp.Compare(a.Stats.Sent, b.Stats.Sent) },
	"total":     func(a, b models.Campaign) int { return cmp.Compare(a.Stats.Total, b.Stats.Total) },
}

func Campaigns(items []models.Campaign, q CampaignQuery) []models.Campaign {
	rows := Filter(items,
		func(c models.Campaign) bool { return MatchSearch(q.Search, c.Name) },
		func(c models.Campaign) bool { return MatchCategory(q.Status, c.Status) },
	)
	return SortBy(rows, campaignSortKeys, q.Sort, q.Desc)
}

// DeliveryRate is delivered over sent, as a percentage
func DeliveryRate(s models.BlastStats) float64 {
	return Round2(Percent(float64(s.Delivered), float64(s.Sent)))
}

func CampaignSummary(items []models.Campaign) CampaignStats {
	sent := SumInt(items, func(c models.Campaign) int { return c.Stats.Sent })
	delivered := SumInt(items, func(c models.Campaign) int { return c.Stats.Delivered })
	return CampaignStats{
		Total:          len(items),
		Active:         CountWhere(items, func(c models.Campaign) bool { return c.Status == models.CampaignRunning }),
		TotalSent:      sent,
		TotalDelivered: delivered,
		DeliveryRate:   DeliveryRate(models.BlastStats{Sent: sent, Delivered: delivered}),
	}
}

func Progress(c models.Campaign, clients []models.Client) CampaignProgress {
	names := make([]string, 0, len(c.ClientIDs))
	for _, id := range c.ClientIDs {
		names = append(names, ClientName(clients, id))
	}
	return CampaignProgress{
		CampaignID:      c.ID,
		ProgressPercent: Round2(Percent(float64(c.Stats.Sent), float64(c.Stats.Total))),
		DeliveryRate:    DeliveryRate(c.Stats),
		ClientNames:     names,
	}
}

// Templates filters message templates by name or content
func Templates(items []models.MessageTemplate, search string) []models.MessageTemplate {
	return Filter(items, func(t models.MessageTemplate) bool {
		return MatchSearch(search, t.Name, t.Content)
	})
}
