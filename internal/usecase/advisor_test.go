package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockCast/internal/domain/models"
)

type fakePublisher struct {
	published []*models.Recommendation
	err       error
}

func (p *fakePublisher) PublishRecommendation(_ context.Context, rec *models.Recommendation) error {
	p.published = append(p.published, rec)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

func newTestAdvisor(source *fakeBarSource, pub *fakePublisher, m *fakeMetrics, t *testing.T) *AdvisorUseCase {
	fixed := time.Date(2024, 6, 3, 15, 0, 0, 0, time.UTC)
	return NewAdvisorUseCase(source, pub, nil, m, testLogger(t), func() time.Time { return fixed })
}

func TestRecommendNoDataReturnsNil(t *testing.T) {
	uc := newTestAdvisor(&fakeBarSource{}, &fakePublisher{}, newFakeMetrics(), t)

	rec, err := uc.Recommend(context.Background(), "NOPE")
	if err != nil {
		t.Fatalf("no data must not be an error, got %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil recommendation, got %+v", rec)
	}
}

func TestRecommendShortHistoryReturnsNil(t *testing.T) {
	uc := newTestAdvisor(&fakeBarSource{bars: zigzagBars(40)}, &fakePublisher{}, newFakeMetrics(), t)

	rec, err := uc.Recommend(context.Background(), "TEST")
	if err != nil {
		t.Fatalf("short history must not be an error, got %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil recommendation, got %+v", rec)
	}
}

func TestRecommendPublishesEvent(t *testing.T) {
	pub := &fakePublisher{}
	uc := newTestAdvisor(&fakeBarSource{bars: zigzagBars(60)}, pub, newFakeMetrics(), t)

	rec, err := uc.Recommend(context.Background(), "TEST")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec == nil || rec.Action != models.ActionBuy {
		t.Fatalf("expected BUY recommendation, got %+v", rec)
	}
	if len(pub.published) != 1 || pub.published[0] != rec {
		t.Fatalf("expected the recommendation on the bus")
	}
}

func TestRecommendPublishFailureDoesNotFail(t *testing.T) {
	pub := &fakePublisher{err: errors.New("bus down")}
	uc := newTestAdvisor(&fakeBarSource{bars: zigzagBars(60)}, pub, newFakeMetrics(), t)

	rec, err := uc.Recommend(context.Background(), "TEST")
	if err != nil {
		t.Fatalf("publish failure must not fail the request, got %v", err)
	}
	if rec == nil {
		t.Fatalf("expected recommendation despite bus outage")
	}
}

func TestRecommendProviderFaultPropagates(t *testing.T) {
	boom := errors.New("provider down")
	m := newFakeMetrics()
	uc := newTestAdvisor(&fakeBarSource{err: boom}, &fakePublisher{}, m, t)

	_, err := uc.Recommend(context.Background(), "TEST")
	if !errors.Is(err, boom) {
		t.Fatalf("expected provider fault to propagate, got %v", err)
	}
	if m.errors["provider"] != 1 {
		t.Fatalf("expected provider error recorded")
	}
}
