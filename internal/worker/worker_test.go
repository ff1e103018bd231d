package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Cadence/internal/domain"
	"github.com/shaiso/Cadence/internal/mq"
	"github.com/shaiso/Cadence/internal/provider"
	"github.com/shaiso/Cadence/internal/repo"
)

// fakeQueue — in-memory реализация QueueStore.
type fakeQueue struct {
	mu    sync.Mutex
	items map[uuid.UUID]*domain.SendQueueItem

	released      []uuid.UUID
	retried       []uuid.UUID
	lastRetryTime time.Time
}

func newFakeQueue(items ...*domain.SendQueueItem) *fakeQueue {
	q := &fakeQueue{items: make(map[uuid.UUID]*domain.SendQueueItem)}
	for _, it := range items {
		q.items[it.ID] = it
	}
	return q
}

func (q *fakeQueue) GetByID(_ context.Context, id uuid.UUID) (*domain.SendQueueItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	item, ok := q.items[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (q *fakeQueue) MarkSent(_ context.Context, id uuid.UUID, sentAt time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	item := q.items[id]
	if item.Status != domain.QueueStatusProcessing {
		return repo.ErrInvalidState
	}
	item.MarkSent(sentAt)
	return nil
}

func (q *fakeQueue) MarkFailed(_ context.Context, id uuid.UUID, errMsg string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	item := q.items[id]
	if item.Status != domain.QueueStatusProcessing {
		return repo.ErrInvalidState
	}
	item.MarkFailed(errMsg)
	return nil
}

func (q *fakeQueue) ReleaseForRetry(_ context.Context, id uuid.UUID, errMsg string, nextAttempt time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	item := q.items[id]
	if item.Status != domain.QueueStatusProcessing {
		return repo.ErrInvalidState
	}
	item.Status = domain.QueueStatusPending
	item.Attempts++
	item.ErrorMessage = errMsg
	item.ScheduledFor = nextAttempt
	q.retried = append(q.retried, id)
	q.lastRetryTime = nextAttempt
	return nil
}

func (q *fakeQueue) Release(_ context.Context, id uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	item := q.items[id]
	if item.Status != domain.QueueStatusProcessing {
		return repo.ErrInvalidState
	}
	item.Status = domain.QueueStatusPending
	q.released = append(q.released, id)
	return nil
}

func (q *fakeQueue) ListStaleProcessing(_ context.Context, olderThan time.Time, limit int) ([]domain.SendQueueItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []domain.SendQueueItem
	for _, it := range q.items {
		if it.Status == domain.QueueStatusProcessing && it.UpdatedAt.Before(olderThan) {
			out = append(out, *it)
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// fakeProspects — in-memory реализация ProspectStore.
type fakeProspects struct {
	mu        sync.Mutex
	prospects map[uuid.UUID]*domain.Prospect

	cachedIDs map[uuid.UUID]string
}

func newFakeProspects(prospects ...*domain.Prospect) *fakeProspects {
	p := &fakeProspects{
		prospects: make(map[uuid.UUID]*domain.Prospect),
		cachedIDs: make(map[uuid.UUID]string),
	}
	for _, pr := range prospects {
		p.prospects[pr.ID] = pr
	}
	return p
}

func (p *fakeProspects) GetByID(_ context.Context, id uuid.UUID) (*domain.Prospect, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pr, ok := p.prospects[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *pr
	return &cp, nil
}

func (p *fakeProspects) SetProviderID(_ context.Context, id uuid.UUID, providerID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prospects[id].ProviderID = providerID
	p.cachedIDs[id] = providerID
	return nil
}

func (p *fakeProspects) Advance(_ context.Context, id uuid.UUID, m domain.MessageType, at time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prospects[id].Advance(m, at)
	return nil
}

func (p *fakeProspects) UpdateStatus(_ context.Context, id uuid.UUID, status domain.ProspectStatus, notes string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	pr := p.prospects[id]
	pr.Status = status
	pr.Notes = notes
	return nil
}

// fakeCampaigns — in-memory реализация CampaignStore.
type fakeCampaigns struct {
	campaigns map[uuid.UUID]*domain.Campaign
}

func (c *fakeCampaigns) GetByID(_ context.Context, id uuid.UUID) (*domain.Campaign, error) {
	campaign, ok := c.campaigns[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return campaign, nil
}

// fakeProvider — настраиваемая заглушка провайдера.
type fakeProvider struct {
	mu sync.Mutex

	profiles   map[string]*provider.Profile // по provider id
	vanities   map[string]*provider.Profile // по vanity
	vanityErr  error
	profileErr error
	sendErr    error

	invitations []string
	messages    []string
	vanityCalls int
}

func (f *fakeProvider) GetProfileByProviderID(_ context.Context, _, providerID string) (*provider.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	if p, ok := f.profiles[providerID]; ok {
		return p, nil
	}
	return &provider.Profile{ProviderID: providerID}, nil
}

func (f *fakeProvider) GetProfileByVanity(_ context.Context, _, vanity string) (*provider.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vanityCalls++
	if f.vanityErr != nil {
		return nil, f.vanityErr
	}
	if p, ok := f.vanities[vanity]; ok {
		return p, nil
	}
	return nil, provider.NewError(404, "profile not found")
}

func (f *fakeProvider) SendInvitation(_ context.Context, _, providerID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.invitations = append(f.invitations, providerID)
	return nil
}

func (f *fakeProvider) SendMessage(_ context.Context, _, attendeeProviderID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.messages = append(f.messages, attendeeProviderID)
	return nil
}

func (f *fakeProvider) externalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.invitations) + len(f.messages)
}

// fakeAdvancer — записывает вызовы планирования следующего шага.
type fakeAdvancer struct {
	calls []uuid.UUID
	err   error
}

func (a *fakeAdvancer) Advance(_ context.Context, _ *domain.Campaign, prospect *domain.Prospect, _ *domain.SendQueueItem, _ time.Time) error {
	a.calls = append(a.calls, prospect.ID)
	return a.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testWorker(q *fakeQueue, p *fakeProspects, c *fakeCampaigns, prov *fakeProvider, adv *fakeAdvancer) *Worker {
	cfg := Config{
		Queue:     q,
		Prospects: p,
		Provider:  prov,
		Advancer:  adv,
		Logger:    testLogger(),
	}
	// Не кладём typed-nil *fakeCampaigns в интерфейс, иначе проверка
	// w.campaigns != nil в Worker проходит для отсутствующего стора.
	if c != nil {
		cfg.Campaigns = c
	}
	return New(cfg)
}

func testCampaign() *domain.Campaign {
	return &domain.Campaign{
		ID:        uuid.New(),
		AccountID: "acct-1",
		Status:    domain.CampaignStatusActive,
		Templates: domain.MessageTemplates{
			ConnectionRequest: "Hi {first_name}",
			FollowUps:         []string{"FU1 for {first_name}"},
		},
	}
}

func testProspect(campaignID uuid.UUID, providerID string) *domain.Prospect {
	return &domain.Prospect{
		ID:         uuid.New(),
		CampaignID: campaignID,
		FirstName:  "Jane",
		LastName:   "Doe",
		ProfileURL: "https://linkedin.com/in/jane-doe",
		ProviderID: providerID,
		Status:     domain.ProspectStatusNotContacted,
	}
}

func processingItem(campaign *domain.Campaign, prospect *domain.Prospect, m domain.MessageType) *domain.SendQueueItem {
	target := prospect.ProviderID
	if target == "" {
		target = prospect.ProfileURL
	}
	now := time.Now()
	return &domain.SendQueueItem{
		ID:           uuid.New(),
		CampaignID:   campaign.ID,
		ProspectID:   prospect.ID,
		AccountID:    campaign.AccountID,
		MessageType:  m,
		Message:      "Hi Jane",
		TargetID:     target,
		ScheduledFor: now.Add(-time.Minute),
		Status:       domain.QueueStatusProcessing,
		CreatedAt:    now.Add(-time.Hour),
		UpdatedAt:    now,
	}
}

func payloadFor(item *domain.SendQueueItem) mq.SendTaskPayload {
	return mq.SendTaskPayload{
		QueueItemID: item.ID,
		CampaignID:  item.CampaignID,
		ProspectID:  item.ProspectID,
		AccountID:   item.AccountID,
		MessageType: item.MessageType,
		Message:     item.Message,
		TargetID:    item.TargetID,
	}
}

func TestDeliver_ConnectionRequestSuccess(t *testing.T) {
	campaign := testCampaign()
	prospect := testProspect(campaign.ID, "ACo111")
	item := processingItem(campaign, prospect, domain.MessageTypeConnectionRequest)

	queue := newFakeQueue(item)
	prospects := newFakeProspects(prospect)
	prov := &fakeProvider{}
	adv := &fakeAdvancer{}
	w := testWorker(queue, prospects, &fakeCampaigns{campaigns: map[uuid.UUID]*domain.Campaign{campaign.ID: campaign}}, prov, adv)

	if err := w.Deliver(context.Background(), payloadFor(item)); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}

	if len(prov.invitations) != 1 || prov.invitations[0] != "ACo111" {
		t.Errorf("invitations = %v, want [ACo111]", prov.invitations)
	}
	got, _ := queue.GetByID(context.Background(), item.ID)
	if got.Status != domain.QueueStatusSent {
		t.Errorf("item status = %s, want sent", got.Status)
	}
	if got.SentAt == nil {
		t.Error("item sent_at not set")
	}
	pr, _ := prospects.GetByID(context.Background(), prospect.ID)
	if pr.Status != domain.ProspectStatusConnectionRequested {
		t.Errorf("prospect status = %s, want connection_requested", pr.Status)
	}
	if pr.ContactedAt == nil {
		t.Error("prospect contacted_at not set after connection request")
	}
	if len(adv.calls) != 1 {
		t.Errorf("advancer calls = %d, want 1", len(adv.calls))
	}
}

func TestDeliver_SentItemIsNoOp(t *testing.T) {
	campaign := testCampaign()
	prospect := testProspect(campaign.ID, "ACo111")
	item := processingItem(campaign, prospect, domain.MessageTypeFollowUp1)
	item.Status = domain.QueueStatusSent

	queue := newFakeQueue(item)
	prov := &fakeProvider{}
	w := testWorker(queue, newFakeProspects(prospect), nil, prov, &fakeAdvancer{})

	// Повторная доставка уже отправленного элемента — no-op
	err := w.Deliver(context.Background(), payloadFor(item))
	if !errors.Is(err, ErrItemNotProcessing) {
		t.Fatalf("Deliver() error = %v, want ErrItemNotProcessing", err)
	}
	if prov.externalCalls() != 0 {
		t.Errorf("external calls = %d, want 0", prov.externalCalls())
	}
}

func TestDeliver_MissingItem(t *testing.T) {
	w := testWorker(newFakeQueue(), newFakeProspects(), nil, &fakeProvider{}, &fakeAdvancer{})

	err := w.Deliver(context.Background(), mq.SendTaskPayload{QueueItemID: uuid.New()})
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("Deliver() error = %v, want ErrItemNotFound", err)
	}
}

func TestDeliver_ResolvesVanityAndCachesProviderID(t *testing.T) {
	campaign := testCampaign()
	prospect := testProspect(campaign.ID, "")
	item := processingItem(campaign, prospect, domain.MessageTypeFollowUp1)

	queue := newFakeQueue(item)
	prospects := newFakeProspects(prospect)
	prov := &fakeProvider{
		vanities: map[string]*provider.Profile{
			"jane-doe": {ProviderID: "ACo222", FirstName: "Jane"},
		},
	}
	w := testWorker(queue, prospects, nil, prov, &fakeAdvancer{})

	if err := w.Deliver(context.Background(), payloadFor(item)); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}

	if len(prov.messages) != 1 || prov.messages[0] != "ACo222" {
		t.Errorf("messages = %v, want [ACo222]", prov.messages)
	}
	// canonical id закэширован на prospect'е
	if prospects.cachedIDs[prospect.ID] != "ACo222" {
		t.Errorf("cached provider id = %q, want ACo222", prospects.cachedIDs[prospect.ID])
	}
}

func TestDeliver_CachedProviderIDSkipsResolution(t *testing.T) {
	campaign := testCampaign()
	prospect := testProspect(campaign.ID, "ACo333")
	item := processingItem(campaign, prospect, domain.MessageTypeFollowUp1)
	item.TargetID = prospect.ProfileURL // в элементе остался URL

	queue := newFakeQueue(item)
	prov := &fakeProvider{}
	w := testWorker(queue, newFakeProspects(prospect), nil, prov, &fakeAdvancer{})

	if err := w.Deliver(context.Background(), payloadFor(item)); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}

	if prov.vanityCalls != 0 {
		t.Errorf("vanity lookups = %d, want 0", prov.vanityCalls)
	}
	if len(prov.messages) != 1 || prov.messages[0] != "ACo333" {
		t.Errorf("messages = %v, want [ACo333]", prov.messages)
	}
}

func TestDeliver_ResolutionFailureIsTerminal(t *testing.T) {
	campaign := testCampaign()
	prospect := testProspect(campaign.ID, "")
	item := processingItem(campaign, prospect, domain.MessageTypeConnectionRequest)

	queue := newFakeQueue(item)
	prospects := newFakeProspects(prospect)
	prov := &fakeProvider{} // vanity не найден → 404
	w := testWorker(queue, prospects, nil, prov, &fakeAdvancer{})

	if err := w.Deliver(context.Background(), payloadFor(item)); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}

	got, _ := queue.GetByID(context.Background(), item.ID)
	if got.Status != domain.QueueStatusFailed {
		t.Errorf("item status = %s, want failed", got.Status)
	}
	pr, _ := prospects.GetByID(context.Background(), prospect.ID)
	if pr.Status != domain.ProspectStatusFailed {
		t.Errorf("prospect status = %s, want failed", pr.Status)
	}
	if len(queue.retried) != 0 {
		t.Errorf("retries = %d, want 0: resolution failure is not retried", len(queue.retried))
	}
}

func TestDeliver_WithdrawnInvitationFailsWithoutRetry(t *testing.T) {
	campaign := testCampaign()
	prospect := testProspect(campaign.ID, "ACo444")
	item := processingItem(campaign, prospect, domain.MessageTypeConnectionRequest)

	queue := newFakeQueue(item)
	prospects := newFakeProspects(prospect)
	prov := &fakeProvider{
		profiles: map[string]*provider.Profile{
			"ACo444": {
				ProviderID: "ACo444",
				Invitation: &provider.Invitation{Status: provider.InvitationStatusWithdrawn},
			},
		},
	}
	w := testWorker(queue, prospects, nil, prov, &fakeAdvancer{})

	if err := w.Deliver(context.Background(), payloadFor(item)); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}

	if prov.externalCalls() != 0 {
		t.Errorf("external sends = %d, want 0", prov.externalCalls())
	}
	got, _ := queue.GetByID(context.Background(), item.ID)
	if got.Status != domain.QueueStatusFailed {
		t.Errorf("item status = %s, want failed", got.Status)
	}
	if !strings.Contains(got.ErrorMessage, "withdrawn") {
		t.Errorf("error message = %q, want mention of withdrawn", got.ErrorMessage)
	}
	pr, _ := prospects.GetByID(context.Background(), prospect.ID)
	if pr.Status != domain.ProspectStatusFailed {
		t.Errorf("prospect status = %s, want failed", pr.Status)
	}
}

func TestDeliver_PendingInvitationMarkedSentWithoutCall(t *testing.T) {
	campaign := testCampaign()
	prospect := testProspect(campaign.ID, "ACo555")
	item := processingItem(campaign, prospect, domain.MessageTypeConnectionRequest)

	queue := newFakeQueue(item)
	prospects := newFakeProspects(prospect)
	prov := &fakeProvider{
		profiles: map[string]*provider.Profile{
			"ACo555": {
				ProviderID: "ACo555",
				Invitation: &provider.Invitation{Status: provider.InvitationStatusPending},
			},
		},
	}
	adv := &fakeAdvancer{}
	w := testWorker(queue, prospects, &fakeCampaigns{campaigns: map[uuid.UUID]*domain.Campaign{campaign.ID: campaign}}, prov, adv)

	if err := w.Deliver(context.Background(), payloadFor(item)); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}

	// Приглашение уже висит у провайдера — элемент sent без нового вызова
	if prov.externalCalls() != 0 {
		t.Errorf("external sends = %d, want 0", prov.externalCalls())
	}
	got, _ := queue.GetByID(context.Background(), item.ID)
	if got.Status != domain.QueueStatusSent {
		t.Errorf("item status = %s, want sent", got.Status)
	}
	if len(adv.calls) != 1 {
		t.Errorf("advancer calls = %d, want 1", len(adv.calls))
	}
}

func TestDeliver_FirstDegreeConnectionFails(t *testing.T) {
	campaign := testCampaign()
	prospect := testProspect(campaign.ID, "ACo666")
	item := processingItem(campaign, prospect, domain.MessageTypeConnectionRequest)

	queue := newFakeQueue(item)
	prospects := newFakeProspects(prospect)
	prov := &fakeProvider{
		profiles: map[string]*provider.Profile{
			"ACo666": {ProviderID: "ACo666", NetworkDistance: provider.NetworkDistanceFirstDegree},
		},
	}
	w := testWorker(queue, prospects, nil, prov, &fakeAdvancer{})

	if err := w.Deliver(context.Background(), payloadFor(item)); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}

	got, _ := queue.GetByID(context.Background(), item.ID)
	if got.Status != domain.QueueStatusFailed {
		t.Errorf("item status = %s, want failed", got.Status)
	}
	if prov.externalCalls() != 0 {
		t.Errorf("external sends = %d, want 0", prov.externalCalls())
	}
}

func TestDeliver_TransientErrorSchedulesRetry(t *testing.T) {
	campaign := testCampaign()
	prospect := testProspect(campaign.ID, "ACo777")
	item := processingItem(campaign, prospect, domain.MessageTypeFollowUp1)

	queue := newFakeQueue(item)
	prov := &fakeProvider{sendErr: provider.NewError(500, "internal error")}
	w := testWorker(queue, newFakeProspects(prospect), nil, prov, &fakeAdvancer{})

	if err := w.Deliver(context.Background(), payloadFor(item)); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}

	got, _ := queue.GetByID(context.Background(), item.ID)
	if got.Status != domain.QueueStatusPending {
		t.Errorf("item status = %s, want pending (retry)", got.Status)
	}
	if got.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", got.Attempts)
	}
	if !got.ScheduledFor.After(time.Now()) {
		t.Error("scheduled_for not shifted into the future for retry")
	}
}

func TestDeliver_RetryExhaustedIsTerminal(t *testing.T) {
	campaign := testCampaign()
	prospect := testProspect(campaign.ID, "ACo888")
	item := processingItem(campaign, prospect, domain.MessageTypeFollowUp1)
	item.Attempts = MaxAttempts - 1

	queue := newFakeQueue(item)
	prospects := newFakeProspects(prospect)
	prov := &fakeProvider{sendErr: provider.NewError(429, "rate limited")}
	w := testWorker(queue, prospects, nil, prov, &fakeAdvancer{})

	if err := w.Deliver(context.Background(), payloadFor(item)); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}

	got, _ := queue.GetByID(context.Background(), item.ID)
	if got.Status != domain.QueueStatusFailed {
		t.Errorf("item status = %s, want failed after %d attempts", got.Status, MaxAttempts)
	}
	if !strings.Contains(got.ErrorMessage, "exhausted") {
		t.Errorf("error message = %q, want mention of exhausted attempts", got.ErrorMessage)
	}
	if len(queue.retried) != 0 {
		t.Errorf("retries = %d, want 0", len(queue.retried))
	}
}

func TestDeliver_CadenceStoppedCancelsSend(t *testing.T) {
	campaign := testCampaign()
	prospect := testProspect(campaign.ID, "ACo999")
	prospect.Status = domain.ProspectStatusReplied
	item := processingItem(campaign, prospect, domain.MessageTypeFollowUp1)

	queue := newFakeQueue(item)
	prov := &fakeProvider{}
	w := testWorker(queue, newFakeProspects(prospect), nil, prov, &fakeAdvancer{})

	if err := w.Deliver(context.Background(), payloadFor(item)); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}

	// Prospect ответил — сообщение отменяется без внешнего вызова
	if prov.externalCalls() != 0 {
		t.Errorf("external sends = %d, want 0", prov.externalCalls())
	}
	got, _ := queue.GetByID(context.Background(), item.ID)
	if got.Status != domain.QueueStatusFailed {
		t.Errorf("item status = %s, want failed", got.Status)
	}
}

func TestDeliver_AdvancerErrorDoesNotUndoSend(t *testing.T) {
	campaign := testCampaign()
	prospect := testProspect(campaign.ID, "ACo121")
	item := processingItem(campaign, prospect, domain.MessageTypeFollowUp1)

	queue := newFakeQueue(item)
	prospects := newFakeProspects(prospect)
	adv := &fakeAdvancer{err: errors.New("db unavailable")}
	w := testWorker(queue, prospects, &fakeCampaigns{campaigns: map[uuid.UUID]*domain.Campaign{campaign.ID: campaign}}, &fakeProvider{}, adv)

	if err := w.Deliver(context.Background(), payloadFor(item)); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}

	got, _ := queue.GetByID(context.Background(), item.ID)
	if got.Status != domain.QueueStatusSent {
		t.Errorf("item status = %s, want sent despite advancer error", got.Status)
	}
}

func TestReleaseStale(t *testing.T) {
	campaign := testCampaign()
	prospect := testProspect(campaign.ID, "ACo131")

	stale := processingItem(campaign, prospect, domain.MessageTypeFollowUp1)
	stale.UpdatedAt = time.Now().Add(-time.Hour)
	fresh := processingItem(campaign, prospect, domain.MessageTypeFollowUp2)

	queue := newFakeQueue(stale, fresh)
	w := testWorker(queue, newFakeProspects(prospect), nil, &fakeProvider{}, &fakeAdvancer{})

	w.releaseStale(context.Background())

	got, _ := queue.GetByID(context.Background(), stale.ID)
	if got.Status != domain.QueueStatusPending {
		t.Errorf("stale item status = %s, want pending", got.Status)
	}
	gotFresh, _ := queue.GetByID(context.Background(), fresh.ID)
	if gotFresh.Status != domain.QueueStatusProcessing {
		t.Errorf("fresh item status = %s, want processing", gotFresh.Status)
	}
}
