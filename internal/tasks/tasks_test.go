package tasks

import (
	"context"
	"testing"
	"time"
)

type stubRefresher struct{}

func (stubRefresher) Refresh(context.Context) (bool, error) { return true, nil }

type stubCleaner struct{}

func (stubCleaner) Cleanup(time.Duration) int { return 0 }

func TestScheduler_RegistersJobs(t *testing.T) {
	s := NewScheduler(nil)

	if err := s.AddCatalogRefresh("@every 5m", stubRefresher{}); err != nil {
		t.Fatalf("AddCatalogRefresh: %v", err)
	}
	if err := s.AddVisitorCleanup(stubCleaner{}, 5*time.Minute); err != nil {
		t.Fatalf("AddVisitorCleanup: %v", err)
	}
	if err := s.AddCatalogRefresh("every now and then", stubRefresher{}); err == nil {
		t.Error("expected invalid schedule to be rejected")
	}
	if got := s.Entries(); got != 2 {
		t.Errorf("expected 2 entries, got %d", got)
	}

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
