package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/dash-indaia/internal/models"
)

func TestUpsertMediaMergesSameDay(t *testing.T) {
	st := NewMemoryStore()
	d := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)

	st.UpsertMedia(models.MediaEntry{Date: d, Platform: "Meta Ads", Campaign: "C1", Investment: 100, Leads: 2})
	st.UpsertMedia(models.MediaEntry{Date: d.Add(3 * time.Hour), Platform: "Meta Ads", Campaign: "C1", Investment: 50, Leads: 1})
	st.UpsertMedia(models.MediaEntry{Date: d, Platform: "Meta Ads", Campaign: "C1", Investment: -10, Leads: -4})

	out := st.Query(d, d)
	require.Len(t, out.Media, 1)
	assert.Equal(t, 150.0, out.Media[0].Investment)
	assert.Equal(t, 3, out.Media[0].Leads)
}

func TestQueryIsInclusiveByDay(t *testing.T) {
	st := NewMemoryStore()
	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		st.AddSale(models.SaleEntry{ID: string(rune('a' + i)), Date: base.AddDate(0, 0, i).Add(23 * time.Hour), Amount: 10})
	}

	out := st.Query(base.AddDate(0, 0, 1), base.AddDate(0, 0, 3))
	require.Len(t, out.Sales, 3)
	assert.Equal(t, "b", out.Sales[0].ID)
	assert.Equal(t, "d", out.Sales[2].ID)
	assert.NotNil(t, out.Media)
	assert.NotNil(t, out.Leads)
}

func TestMarkSeen(t *testing.T) {
	st := NewMemoryStore()
	assert.True(t, st.MarkSeen("k"))
	assert.False(t, st.MarkSeen("k"))
}

func TestSeedIsDeterministicAndIdempotent(t *testing.T) {
	now := time.Date(2025, 12, 15, 12, 0, 0, 0, time.UTC)

	a := NewMemoryStore()
	Seed(a, now, 10, 42)
	b := NewMemoryStore()
	Seed(b, now, 10, 42)

	am, al, as := a.Counts()
	bm, bl, bs := b.Counts()
	assert.Equal(t, len(seedCampaigns)*10, am)
	assert.Equal(t, am, bm)
	assert.Equal(t, al, bl)
	assert.Equal(t, as, bs)
	assert.Greater(t, al, 0)

	// reseeding the same store does not duplicate media rows
	Seed(a, now, 10, 42)
	am2, _, _ := a.Counts()
	assert.Equal(t, am, am2)

	out := a.Query(now, now)
	assert.Len(t, out.Media, len(seedCampaigns))
}

func TestRound2HandlesNegatives(t *testing.T) {
	assert.Equal(t, -1.24, round2(-1.236))
	assert.Equal(t, 1.24, round2(1.236))
}
