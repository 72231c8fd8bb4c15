package projection

import (
	"slices"

	"whatsapp-dashboard/internal/models"
)

type ConversationQuery struct {
	Search   string
	ClientID string
	Archived *bool
	Pinned   *bool
	// PinnedFirst orders pinned threads first, then most recently updated
	PinnedFirst bool
}

func Conversations(items []models.Conversation, q ConversationQuery) []models.Conversation {
	rows := Filter(items,
		func(c models.Conversation) bool { return MatchSearch(q.Search, c.ContactName, c.ContactNumber) },
		func(c models.Conversation) bool { return MatchCategory(q.ClientID, c.ClientID) },
		func(c models.Conversation) bool { return q.Archived == nil || c.IsArchived == *q.Archived },
		func(c models.Conversation) bool { return q.Pinned == nil || c.IsPinned == *q.Pinned },
	)
	if q.PinnedFirst {
		slices.SortStableFunc(rows, func(a, b models.Conversation) int {
			if a.IsPinned != b.IsPinned {
				if a.IsPinned {
					return -1
				}
				return 1
			}
			return b.UpdatedAt.Compare(a.UpdatedAt)
		})
	}
	return rows
}

type NumberCheckStats struct {
	Total           int `json:"total"`
	Valid           int `json:"valid"`
	WhatsApp        int `json:"whatsApp"`
	Errors          int `json:"errors"`
	ValidPercent    int `json:"validPercent"`
	WhatsAppPercent int `json:"whatsAppPercent"`
	ErrorPercent    int `json:"errorPercent"`
}

// NumberCheckSummary rounds to whole percents; the WhatsApp share is of valid numbers
func NumberCheckSummary(items []models.NumberCheck) NumberCheckStats {
	valid := CountWhere(items, func(n models.NumberCheck) bool { return n.IsValid })
	wa := CountWhere(items, func(n models.NumberCheck) bool { return n.HasWhatsApp })
	errs := CountWhere(items, func(n models.NumberCheck) bool { return n.Error != "" })
	return NumberCheckStats{
		Total:           len(items),
		Valid:           valid,
		WhatsApp:        wa,
		Errors:          errs,
		ValidPercent:    RoundPercent(valid, len(items)),
		WhatsAppPercent: RoundPercent(wa, valid),
		ErrorPercent:    RoundPercent(errs, len(items)),
	}
}

type PromptQuery struct {
	Search   string
	Category string
}

func PromptTemplates(items []models.AIPromptTemplate, q PromptQuery) []models.AIPromptTemplate {
	return Filter(items,
		func(p models.AIPromptTemplate) bool { return MatchSearch(q.Search, p.Name, p.Description) },
		func(p models.AIPromptTemplate) bool { return MatchCategory(q.Category, p.Category) },
	)
}
