package automation

import (
	"context"
	"log"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"whatsapp-dashboard/internal/models"
	"whatsapp-dashboard/internal/projection"
	"whatsapp-dashboard/internal/store"
)

// Chance per tick that an active session exchanges a message
const messageChance = 0.3

var warmerMessages = []string{
	"Hey, how's your day going?",
	"Just checking in! How are things?",
	"Hope you're having a great day! 😊",
	"What's new with you?",
	"Thinking of you! How are you doing?",
	"Good morning! Hope your day starts well!",
	"Any exciting plans for today?",
	"Hope you're doing well! 👋",
	"Just wanted to say hi!",
	"How's everything going on your end?",
	"Halo {{target}}, salam dari {{client}}!",
	"{{client}} here, {{target}} apa kabar?",
}

// WarmerMessage is one simulated exchange between the two clients of a session
type WarmerMessage struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Direction string    `json:"direction"` // sent, received
}

// Engine advances active warmer sessions
type Engine struct {
	store  *store.Store
	notify func(WarmerMessage)

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewEngine returns an engine drawing outcomes from rnd. notify receives every
// generated message after its tick has been applied; it may be nil.
func NewEngine(s *store.Store, rnd *rand.Rand, notify func(WarmerMessage)) *Engine {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Engine{store: s, rnd: rnd, notify: notify}
}

func (e *Engine) float() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rnd.Float64()
}

func (e *Engine) pick(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rnd.IntN(n)
}

// Tick completes sessions that have run their duration and lets the others
// exchange a message by chance. It returns the messages generated.
func (e *Engine) Tick(ctx context.Context, now time.Time) ([]WarmerMessage, error) {
	clients := e.store.Snapshot().Clients

	var messages []WarmerMessage
	err := e.store.ModifyWarmerSessions(ctx, func(sessions []models.WarmerSession) ([]models.WarmerSession, bool) {
		messages = messages[:0]
		changed := false
		for i, w := range sessions {
			if w.Status != models.WarmerActive {
				continue
			}
			if projection.ElapsedMinutes(w, now) >= w.Duration {
				sessions[i].Status = models.WarmerCompleted
				changed = true
				continue
			}
			if e.float() >= messageChance {
				continue
			}
			sessions[i].MessagesSent++
			sessions[i].LastActivity = &now
			messages = append(messages, e.message(w, clients, now))
			changed = true
		}
		return sessions, changed
	})
	if err != nil {
		return nil, err
	}

	if e.notify != nil {
		for _, m := range messages {
			e.notify(m)
		}
	}
	return messages, nil
}

func (e *Engine) message(w models.WarmerSession, clients []models.Client, now time.Time) WarmerMessage {
	client := projection.ClientName(clients, w.ClientID)
	target := projection.ClientName(clients, w.TargetClientID)

	text := warmerMessages[e.pick(len(warmerMessages))]
	text = strings.ReplaceAll(text, "{{client}}", client)
	text = strings.ReplaceAll(text, "{{target}}", target)

	m := WarmerMessage{
		ID:        uuid.NewString(),
		SessionID: w.ID,
		From:      w.ClientID,
		To:        w.TargetClientID,
		Message:   text,
		Timestamp: now,
		Direction: "sent",
	}
	if e.float() < 0.5 {
		m.From, m.To = m.To, m.From
		m.Direction = "received"
	}
	return m
}

// Run ticks every interval until ctx is done
func (e *Engine) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("Warmer engine started, ticking every %s", interval)
	for {
		select {
		case <-ctx.Done():
			log.Println("Warmer engine stopped")
			return
		case t := <-ticker.C:
			if _, err := e.Tick(ctx, t); err != nil {
				log.Printf("Error advancing warmer sessions: %v", err)
			}
		}
	}
}
