package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestScoreRecomputationsAggregateAcrossPlayers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetrics(reg)

	ctx := context.Background()
	m.RecordScoreRecomputation(ctx, 1)
	m.RecordScoreRecomputation(ctx, 2)
	m.RecordScoreRecomputation(ctx, 2)

	if got := testutil.ToFloat64(m.scoreRecomputations); got != 3 {
		t.Errorf("counter = %f, want 3", got)
	}

	// Player ids must not leak into label values; one series regardless of
	// how many players were rescored.
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, family := range families {
		if family.GetName() != "demonlist_score_recomputations_total" {
			continue
		}
		if len(family.GetMetric()) != 1 {
			t.Fatalf("series count = %d, want 1", len(family.GetMetric()))
		}
		if labels := family.GetMetric()[0].GetLabel(); len(labels) != 0 {
			t.Errorf("labels = %v, want none", labels)
		}
		return
	}
	t.Fatal("demonlist_score_recomputations_total was not registered")
}
