package whatsapp

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"whatsapp-dashboard/internal/models"
)

// Delays are the simulated latencies of each operation
type Delays struct {
	Check      time.Duration
	BulkCheck  time.Duration
	Connect    time.Duration
	Disconnect time.Duration
	Send       time.Duration
	Blast      time.Duration
	Reply      time.Duration
}

func DefaultDelays() Delays {
	return Delays{
		Check:      2 * time.Second,
		BulkCheck:  3 * time.Second,
		Connect:    3 * time.Second,
		Disconnect: time.Second,
		Send:       time.Second,
		Blast:      2 * time.Second,
		Reply:      2 * time.Second,
	}
}

// Scale multiplies every delay by f; 0 disables them
func (d Delays) Scale(f float64) Delays {
	s := func(v time.Duration) time.Duration { return time.Duration(float64(v) * f) }
	return Delays{
		Check:      s(d.Check),
		BulkCheck:  s(d.BulkCheck),
		Connect:    s(d.Connect),
		Disconnect: s(d.Disconnect),
		Send:       s(d.Send),
		Blast:      s(d.Blast),
		Reply:      s(d.Reply),
	}
}

// Outcome probabilities
const (
	pValid        = 0.8
	pWhatsApp     = 0.7
	pError        = 0.2
	pAbout        = 0.3
	pPicture      = 0.5
	pPairing      = 0.9
	pBlastFailure = 0.03
	pDelivered    = 0.92

	bulkConcurrency = 8
)

const (
	defaultAbout   = "Hey there! I am using WhatsApp."
	defaultPicture = "https://images.unsplash.com/photo-1494790108755-2616b619639a?w=150"
	assistantReply = "Terima kasih atas pertanyaan Anda! Saya sedang memproses permintaan ini dan akan memberikan respons yang relevan dengan kebutuhan WhatsApp management Anda."
)

type Simulator struct {
	delays Delays
	now    func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

type SimulatorOption func(*Simulator)

func WithDelays(d Delays) SimulatorOption {
	return func(s *Simulator) { s.delays = d }
}

// WithRand makes outcomes reproducible
func WithRand(r *rand.Rand) SimulatorOption {
	return func(s *Simulator) { s.rnd = r }
}

func WithNow(now func() time.Time) SimulatorOption {
	return func(s *Simulator) { s.now = now }
}

func NewSimulator(opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		delays: DefaultDelays(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rnd == nil {
		s.rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

var _ Backend = (*Simulator)(nil)

func (s *Simulator) float() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

func (s *Simulator) seed() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Uint64()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Simulator) CheckNumber(ctx context.Context, phone string) (models.NumberCheck, error) {
	if err := sleep(ctx, s.delays.Check); err != nil {
		return models.NumberCheck{}, err
	}
	return probe(phone, s.float, "Number not in service", s.now()), nil
}

// CheckNumbers probes the numbers concurrently. Each number gets its own
// random stream seeded in input order, so a seeded simulator gives the same
// results regardless of scheduling.
func (s *Simulator) CheckNumbers(ctx context.Context, phones []string) ([]models.NumberCheck, error) {
	seeds := make([]uint64, len(phones))
	for i := range seeds {
		seeds[i] = s.seed()
	}

	results := make([]models.NumberCheck, len(phones))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkConcurrency)
	for i, phone := range phones {
		g.Go(func() error {
			if err := sleep(gctx, s.delays.BulkCheck); err != nil {
				return err
			}
			r := rand.New(rand.NewPCG(seeds[i], uint64(i)))
			results[i] = probe(strings.TrimSpace(phone), r.Float64, "Invalid format", s.now())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func probe(phone string, float func() float64, errMsg string, now time.Time) models.NumberCheck {
	check := models.NumberCheck{
		PhoneNumber: phone,
		IsValid:     float() < pValid,
		HasWhatsApp: float() < pWhatsApp,
		LastChecked: now,
	}
	if float() < pPicture {
		check.ProfilePicture = defaultPicture
	}
	if float() < pAbout {
		check.About = defaultAbout
	}
	if float() < pError {
		check.Error = errMsg
	}
	return check
}

func (s *Simulator) RequestQR(ctx context.Context, clientID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf("whatsapp://pair/%s/%s", clientID, uuid.NewString()), nil
}

func (s *Simulator) AwaitPairing(ctx context.Context, clientID string) error {
	if err := sleep(ctx, s.delays.Connect); err != nil {
		return err
	}
	if s.float() >= pPairing {
		return fmt.Errorf("%w: client %s", ErrPairingFailed, clientID)
	}
	return nil
}

func (s *Simulator) DisconnectClient(ctx context.Context, clientID string) error {
	return sleep(ctx, s.delays.Disconnect)
}

func (s *Simulator) SendMessage(ctx context.Context, clientID, to, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyMessage
	}
	if err := sleep(ctx, s.delays.Send); err != nil {
		return "", err
	}
	return "sent", nil
}

// DeliverBlast sends to every pending target. A campaign without target rows
// is delivered to its pending counter as anonymous recipients.
func (s *Simulator) DeliverBlast(ctx context.Context, c models.Campaign) (models.Campaign, error) {
	if err := sleep(ctx, s.delays.Blast); err != nil {
		return c, err
	}
	now := s.now()

	if len(c.Targets) == 0 {
		for range c.Stats.Pending {
			switch status, _ := s.deliver(); status {
			case models.TargetFailed:
				c.Stats.Failed++
			case models.TargetDelivered:
				c.Stats.Sent++
				c.Stats.Delivered++
			default:
				c.Stats.Sent++
			}
		}
		c.Stats.Pending = 0
	} else {
		targets := make([]models.BlastTarget, len(c.Targets))
		copy(targets, c.Targets)
		for i := range targets {
			if targets[i].Status != models.TargetPending {
				continue
			}
			status, errMsg := s.deliver()
			targets[i].Status = status
			targets[i].Error = errMsg
			if status != models.TargetFailed {
				targets[i].SentAt = &now
			}
		}
		c.Targets = targets
		c.Stats = StatsOf(targets)
	}

	c.Status = models.CampaignCompleted
	if c.Stats.Total > 0 && c.Stats.Failed == c.Stats.Total {
		c.Status = models.CampaignFailed
	}
	c.CompletedAt = &now
	return c, nil
}

func (s *Simulator) deliver() (models.TargetStatus, string) {
	if s.float() < pBlastFailure {
		return models.TargetFailed, "Number not registered on WhatsApp"
	}
	if s.float() < pDelivered {
		return models.TargetDelivered, ""
	}
	return models.TargetSent, ""
}

// StatsOf counts targets by status. Delivered targets also count as sent.
func StatsOf(targets []models.BlastTarget) models.BlastStats {
	st := models.BlastStats{Total: len(targets)}
	for _, t := range targets {
		switch t.Status {
		case models.TargetPending:
			st.Pending++
		case models.TargetSent:
			st.Sent++
		case models.TargetDelivered:
			st.Sent++
			st.Delivered++
		case models.TargetFailed:
			st.Failed++
		}
	}
	return st
}

func (s *Simulator) GenerateReply(ctx context.Context, settings models.AISettings, history []models.AIMessage) (string, error) {
	if err := sleep(ctx, s.delays.Reply); err != nil {
		return "", err
	}
	if len(history) == 0 && settings.WelcomeMessage != "" {
		return settings.WelcomeMessage, nil
	}
	return assistantReply, nil
}
