package projection

import (
	"math"
	"time"

	"whatsapp-dashboard/internal/models"
)

type WarmerStats struct {
	Total           int     `json:"total"`
	Active          int     `json:"active"`
	TotalMessages   int     `json:"totalMessages"`
	AverageDuration float64 `json:"averageDuration"`
}

type WarmerProgress struct {
	SessionID       string  `json:"sessionId"`
	ClientName      string  `json:"clientName"`
	TargetName      string  `json:"targetName"`
	ElapsedMinutes  int     `json:"elapsedMinutes"`
	ProgressPercent float64 `json:"progressPercent"`
	MessagesPerHour int     `json:"messagesPerHour"`
}

func WarmerSessions(items []models.WarmerSession, status string) []models.WarmerSession {
	return Filter(items, func(w models.WarmerSession) bool { return MatchCategory(status, w.Status) })
}

func WarmerSummary(items []models.WarmerSession) WarmerStats {
	durations := make([]float64, 0, len(items))
	for _, w := range items {
		durations = append(durations, float64(w.Duration))
	}
	return WarmerStats{
		Total:           len(items),
		Active:          CountWhere(items, func(w models.WarmerSession) bool { return w.Status == models.WarmerActive }),
		TotalMessages:   SumInt(items, func(w models.WarmerSession) int { return w.MessagesSent }),
		AverageDuration: Round2(Average(durations)),
	}
}

// ElapsedMinutes is whole minutes since the session started, never negative
func ElapsedMinutes(w models.WarmerSession, now time.Time) int {
	m := int(now.Sub(w.StartedAt) / time.Minute)
	return max(m, 0)
}

// SessionProgress reports elapsed time against the planned duration, capped
// at 100%, and the observed message rate.
func SessionProgress(w models.WarmerSession, clients []models.Client, now time.Time) WarmerProgress {
	elapsed := ElapsedMinutes(w, now)
	perHour := 0
	if elapsed > 0 {
		perHour = int(math.Round(float64(w.MessagesSent) / float64(elapsed) * 60))
	}
	return WarmerProgress{
		SessionID:       w.ID,
		ClientName:      ClientName(clients, w.ClientID),
		TargetName:      ClientName(clients, w.TargetClientID),
		ElapsedMinutes:  elapsed,
		ProgressPercent: Round2(min(Percent(float64(elapsed), float64(w.Duration)), 100)),
		MessagesPerHour: perHour,
	}
}
