package services

import (
	"testing"

	"github.com/edutrack/exam-service/internal/models"
)

func TestRankResultsTies(t *testing.T) {
	results := []*models.Result{
		{ID: 1, Score: 90},
		{ID: 2, Score: 85},
		{ID: 3, Score: 85},
		{ID: 4, Score: 70},
	}

	RankResults(results)

	wantRanks := map[uint]int{1: 1, 2: 2, 3: 2, 4: 4}
	for _, r := range results {
		if r.Rank != wantRanks[r.ID] {
			t.Errorf("result %d: rank = %d, want %d", r.ID, r.Rank, wantRanks[r.ID])
		}
		if r.TotalParticipants != 4 {
			t.Errorf("result %d: total participants = %d, want 4", r.ID, r.TotalParticipants)
		}
	}
}

func TestRankResultsAllTied(t *testing.T) {
	results := []*models.Result{
		{ID: 1, Score: 50},
		{ID: 2, Score: 50},
		{ID: 3, Score: 50},
	}

	RankResults(results)

	for _, r := range results {
		if r.Rank != 1 {
			t.Errorf("result %d: rank = %d, want 1", r.ID, r.Rank)
		}
	}
}

func TestRankResultsSingle(t *testing.T) {
	results := []*models.Result{{ID: 7, Score: 0}}

	RankResults(results)

	if results[0].Rank != 1 || results[0].TotalParticipants != 1 {
		t.Errorf("got rank %d of %d, want 1 of 1", results[0].Rank, results[0].TotalParticipants)
	}
}
