package sequence

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Cadence/internal/domain"
)

type fakeQueue struct {
	created []*domain.SendQueueItem
	err     error
}

func (f *fakeQueue) Create(ctx context.Context, item *domain.SendQueueItem) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, item)
	return nil
}

type fakeProspects struct {
	updates []domain.ProspectStatus
}

func (f *fakeProspects) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProspectStatus, notes string) error {
	f.updates = append(f.updates, status)
	return nil
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

// Круглосуточное расписание без выходных: проверяем чистые диапазоны
// задержек, без сдвигов policy.
func openSettings() domain.ScheduleSettings {
	return domain.ScheduleSettings{
		WorkingHoursStart: intPtr(0),
		WorkingHoursEnd:   intPtr(24),
		SkipWeekends:      boolPtr(false),
		SkipHolidays:      boolPtr(false),
	}
}

func testFixtures() (*domain.Campaign, *domain.Prospect) {
	campaign := &domain.Campaign{
		ID:        uuid.New(),
		AccountID: "acc-1",
		Settings:  openSettings(),
		Templates: domain.MessageTemplates{
			ConnectionRequest: "Hi {first_name}",
			FollowUps:         []string{"FU1 for {first_name}", "", "FU3"},
			Goodbye:           "Bye {first_name}",
		},
	}
	prospect := &domain.Prospect{
		ID:         uuid.New(),
		CampaignID: campaign.ID,
		FirstName:  "Jane",
		ProfileURL: "https://linkedin.com/in/jane",
		ProviderID: "ACoAAB123",
	}
	return campaign, prospect
}

func newAdvancer(q *fakeQueue, p *fakeProspects) *Advancer {
	return New(Config{
		Queue:     q,
		Prospects: p,
		Rand:      rand.New(rand.NewSource(42)),
	})
}

// Окно 08:00–18:00 не влияет: проверяем только диапазон дней.
var now = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

func TestAdvance_SchedulesFirstFollowUp(t *testing.T) {
	campaign, prospect := testFixtures()
	q := &fakeQueue{}
	a := newAdvancer(q, &fakeProspects{})

	sent := &domain.SendQueueItem{
		ID:          uuid.New(),
		CampaignID:  campaign.ID,
		ProspectID:  prospect.ID,
		MessageType: domain.MessageTypeConnectionRequest,
	}

	if err := a.Advance(context.Background(), campaign, prospect, sent, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.created) != 1 {
		t.Fatalf("expected 1 created item, got %d", len(q.created))
	}

	item := q.created[0]
	if item.MessageType != domain.MessageTypeFollowUp1 {
		t.Errorf("expected follow_up_1, got %s", item.MessageType)
	}
	if item.Status != domain.QueueStatusPending {
		t.Errorf("expected pending, got %s", item.Status)
	}
	if item.Message != "FU1 for Jane" {
		t.Errorf("unexpected rendered message %q", item.Message)
	}
	// Canonical id закэширован — target не URL
	if item.TargetID != "ACoAAB123" {
		t.Errorf("expected canonical target, got %q", item.TargetID)
	}

	// Задержка первого follow-up — 2–4 дня
	min := now.Add(2 * 24 * time.Hour)
	max := now.Add(4 * 24 * time.Hour)
	if item.ScheduledFor.Before(min) || item.ScheduledFor.After(max) {
		t.Errorf("scheduled_for %s outside [%s, %s]", item.ScheduledFor, min, max)
	}
}

func TestAdvance_DelayIsRandomized(t *testing.T) {
	campaign, prospect := testFixtures()
	q := &fakeQueue{}
	a := newAdvancer(q, &fakeProspects{})

	sent := &domain.SendQueueItem{MessageType: domain.MessageTypeConnectionRequest}
	for i := 0; i < 10; i++ {
		if err := a.Advance(context.Background(), campaign, prospect, sent, now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	seen := make(map[time.Time]bool)
	for _, item := range q.created {
		seen[item.ScheduledFor] = true
	}
	if len(seen) < 2 {
		t.Error("expected randomized scheduled_for across prospects, got uniform timing")
	}
}

func TestAdvance_SkipsEmptyTemplates(t *testing.T) {
	campaign, prospect := testFixtures()
	q := &fakeQueue{}
	a := newAdvancer(q, &fakeProspects{})

	// После FU1 идёт FU2 с пустым шаблоном — должен быть пропущен в пользу FU3
	sent := &domain.SendQueueItem{MessageType: domain.MessageTypeFollowUp1}
	if err := a.Advance(context.Background(), campaign, prospect, sent, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.created) != 1 {
		t.Fatalf("expected 1 created item, got %d", len(q.created))
	}
	if got := q.created[0].MessageType; got != domain.MessageTypeFollowUp3 {
		t.Errorf("expected follow_up_3 (skipping empty follow_up_2), got %s", got)
	}
}

func TestAdvance_CompletesAfterLastStep(t *testing.T) {
	campaign, prospect := testFixtures()
	q := &fakeQueue{}
	p := &fakeProspects{}
	a := newAdvancer(q, p)

	sent := &domain.SendQueueItem{MessageType: domain.MessageTypeGoodbye}
	if err := a.Advance(context.Background(), campaign, prospect, sent, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.created) != 0 {
		t.Errorf("expected no new items after goodbye, got %d", len(q.created))
	}
	if len(p.updates) != 1 || p.updates[0] != domain.ProspectStatusCompleted {
		t.Errorf("expected prospect completed, got %v", p.updates)
	}
}

func TestAdvance_WideningDelays(t *testing.T) {
	campaign, prospect := testFixtures()
	campaign.Templates.FollowUps = []string{"FU1", "FU2", "FU3", "FU4"}

	steps := []struct {
		after   domain.MessageType
		minDays int
		maxDays int
	}{
		{domain.MessageTypeConnectionRequest, 2, 4},
		{domain.MessageTypeFollowUp1, 3, 6},
		{domain.MessageTypeFollowUp2, 4, 7},
		{domain.MessageTypeFollowUp3, 5, 8},
		{domain.MessageTypeFollowUp4, 6, 10},
	}

	for _, s := range steps {
		q := &fakeQueue{}
		a := newAdvancer(q, &fakeProspects{})

		sent := &domain.SendQueueItem{MessageType: s.after}
		if err := a.Advance(context.Background(), campaign, prospect, sent, now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(q.created) != 1 {
			t.Fatalf("after %s: expected 1 item, got %d", s.after, len(q.created))
		}

		got := q.created[0].ScheduledFor
		min := now.AddDate(0, 0, s.minDays)
		max := now.AddDate(0, 0, s.maxDays)
		if got.Before(min) || got.After(max) {
			t.Errorf("after %s: scheduled_for %s outside [%s, %s]", s.after, got, min, max)
		}
	}
}

func TestAdvance_ShiftsIntoOpenWindow(t *testing.T) {
	campaign, prospect := testFixtures()
	// Дефолтное расписание: выходные пропускаются
	campaign.Settings = domain.ScheduleSettings{}

	q := &fakeQueue{}
	a := newAdvancer(q, &fakeProspects{})

	// Четверг + 2–4 дня гарантированно задевает выходные хотя бы иногда;
	// проверяем, что итог всегда будний день в рабочие часы
	thursday := time.Date(2025, 6, 5, 10, 0, 0, 0, time.UTC)
	sent := &domain.SendQueueItem{MessageType: domain.MessageTypeConnectionRequest}

	for i := 0; i < 20; i++ {
		if err := a.Advance(context.Background(), campaign, prospect, sent, thursday); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	for _, item := range q.created {
		day := item.ScheduledFor.Weekday()
		if day == time.Saturday || day == time.Sunday {
			t.Errorf("scheduled_for %s falls on weekend", item.ScheduledFor)
		}
		if h := item.ScheduledFor.Hour(); h < 8 || h >= 18 {
			t.Errorf("scheduled_for %s outside working hours", item.ScheduledFor)
		}
	}
}

func TestAdvance_TargetFallsBackToProfileURL(t *testing.T) {
	campaign, prospect := testFixtures()
	prospect.ProviderID = ""

	q := &fakeQueue{}
	a := newAdvancer(q, &fakeProspects{})

	sent := &domain.SendQueueItem{MessageType: domain.MessageTypeConnectionRequest}
	if err := a.Advance(context.Background(), campaign, prospect, sent, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := q.created[0].TargetID; got != prospect.ProfileURL {
		t.Errorf("expected profile URL target, got %q", got)
	}
}
