package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunStatsRecord(t *testing.T) {
	var stats RunStats

	stats.Record(OutcomeSuccess, 12)
	stats.Record(OutcomeFailed, 0)
	stats.Record(OutcomeNoFolder, 0)
	stats.Record(OutcomeNoURL, 0)
	stats.Record(OutcomeNoPrice, 0)
	stats.Record(OutcomeSuccess, 3)

	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 2, stats.Success)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.NoFolder)
	assert.Equal(t, 1, stats.NoURL)
	assert.Equal(t, 1, stats.NoPrice)
	assert.Equal(t, 15, stats.Images)
	assert.True(t, stats.Consistent())
}

func TestRunStatsUnknownOutcomeCountsAsFailure(t *testing.T) {
	var stats RunStats
	stats.Record(Outcome("weird"), 0)

	assert.Equal(t, 1, stats.Failed)
	assert.True(t, stats.Consistent())
}

func TestStoreLabel(t *testing.T) {
	s := Store{Region: "서울", RegionDetail: " ", Name: "A점"}
	assert.Equal(t, "서울 > unknown > A점", s.Label())
	assert.False(t, s.HasMapURL())

	s.MapURL = "https://naver.me/x"
	assert.True(t, s.HasMapURL())
}

func TestOutcomeNeedsFollowUp(t *testing.T) {
	assert.True(t, OutcomeFailed.NeedsFollowUp())
	assert.True(t, OutcomeNoPrice.NeedsFollowUp())
	assert.False(t, OutcomeSuccess.NeedsFollowUp())
	assert.False(t, OutcomeNoFolder.NeedsFollowUp())
	assert.False(t, OutcomeNoURL.NeedsFollowUp())
}

func TestStoreResultFollowUp(t *testing.T) {
	r := StoreResult{
		Store:     Store{Name: "A점"},
		Outcome:   OutcomeFailed,
		Query:     "서울 강남 A점 세신",
		SearchURL: "https://search.naver.com/search.naver?query=x",
		Detail:    "place card not found",
	}

	f := r.FollowUp()
	assert.Equal(t, "A점", f.Store.Name)
	assert.Equal(t, OutcomeFailed, f.Outcome)
	assert.Equal(t, r.Query, f.Query)
	assert.Equal(t, r.SearchURL, f.SearchURL)
	assert.Equal(t, "place card not found", f.Reason)
}
