package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/dash-indaia/internal/models"
	"github.com/AngelCh415/dash-indaia/internal/store"
)

func sampleSlice(today time.Time) store.Slice {
	yesterday := today.AddDate(0, 0, -1)
	return store.Slice{
		Media: []models.MediaEntry{
			{Date: yesterday, Platform: "Meta Ads", Campaign: "Implante", Investment: 1000, Leads: 20},
			{Date: today, Platform: "Google Ads", Campaign: "Orto", Investment: 500, Leads: 10},
		},
		Leads: []models.LeadEntry{
			{ID: "1", Date: yesterday, Campaign: "Implante", Platform: "Meta Ads", Salesperson: "Ana", Stage: "contrato"},
			{ID: "2", Date: yesterday, Campaign: "Implante", Platform: "Meta Ads", Salesperson: "Ana", Stage: "agendado"},
			{ID: "3", Date: today, Campaign: "Orto", Platform: "Google Ads", Salesperson: "Bruno", Stage: "cadastrado"},
		},
		Sales: []models.SaleEntry{
			{ID: "s1", LeadID: "1", Date: yesterday, Campaign: "Implante", Platform: "Meta Ads", Salesperson: "Ana", Amount: 6000},
		},
	}
}

func TestDeriveOverview(t *testing.T) {
	today := time.Date(2025, 12, 10, 15, 0, 0, 0, time.UTC)
	o := DeriveOverview(sampleSlice(today), today)

	assert.Equal(t, 1, o.LeadsHoje)
	assert.Equal(t, 3, o.LeadsTotal)
	assert.Equal(t, 1, o.ContratosTotal)
	assert.Equal(t, 1500.0, o.InvestimentoTotal)
	assert.Equal(t, 6000.0, o.FaturamentoTotal)
	assert.Equal(t, 500.0, o.CPL)
	assert.Equal(t, 1500.0, o.CPA)
	assert.Equal(t, 4.0, o.ROAS)
	assert.Equal(t, 3.0, o.ROI)
}

func TestDeriveOverviewSafeDiv(t *testing.T) {
	o := DeriveOverview(store.Slice{}, time.Now())
	assert.Zero(t, o.CPL)
	assert.Zero(t, o.CPA)
	assert.Zero(t, o.ROAS)
	assert.Zero(t, o.ROI)
}

func TestDeriveOverviewLossRoundsAwayFromZero(t *testing.T) {
	today := time.Date(2025, 12, 10, 15, 0, 0, 0, time.UTC)
	sl := store.Slice{
		Media: []models.MediaEntry{{Date: today, Campaign: "Orto", Investment: 3, Leads: 1}},
		Sales: []models.SaleEntry{{ID: "s1", Date: today, Campaign: "Orto", Amount: 1}},
	}
	o := DeriveOverview(sl, today)
	assert.Equal(t, -0.67, o.ROI)
	assert.Equal(t, 0.33, o.ROAS)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, -0.13, round2(-0.126))
	assert.Equal(t, 0.13, round2(0.126))
	assert.Equal(t, 12.0, round2(11.999))
}

func TestCampaignSummary(t *testing.T) {
	today := time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC)
	rows := CampaignSummary(sampleSlice(today))
	require.Len(t, rows, 2)

	impl := rows[0]
	assert.Equal(t, "Implante", impl["CAMPANHA"])
	assert.Equal(t, 1000.0, impl["INVESTIMENTO_TOTAL"])
	assert.Equal(t, 50.0, impl["CPL"])
	assert.Equal(t, 2, impl["LEADS_CADASTRADOS"])
	assert.Equal(t, 2, impl["AGENDADOS"])
	assert.Equal(t, 1, impl["COMPARECEU"])
	assert.Equal(t, 1, impl["CONTRATOS"])
	assert.Equal(t, 100.0, impl["TX_AGENDAMENTO"])
	assert.Equal(t, 100.0, impl["TX_FECHAMENTO"])

	orto := rows[1]
	assert.Equal(t, "Orto", orto["CAMPANHA"])
	assert.Equal(t, "", orto["TX_COMPARECIMENTO"])
	assert.Equal(t, 0.0, orto["CUSTO_POR_CONTRATO"])
}

func TestSalespersonSummaryRanksByRevenue(t *testing.T) {
	rows := SalespersonSummary(sampleSlice(time.Now()))
	require.Len(t, rows, 2)
	assert.Equal(t, "Ana", rows[0]["VENDEDOR"])
	assert.Equal(t, 1, rows[0]["POSICAO"])
	assert.Equal(t, 6000.0, rows[0]["TICKET_MEDIO"])
	assert.Equal(t, 50.0, rows[0]["TX_FECHAMENTO"])
	assert.Equal(t, "Bruno", rows[1]["VENDEDOR"])
	assert.Equal(t, 0.0, rows[1]["TX_FECHAMENTO"])
}

func TestCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollectors(reg)

	c.FetchStarted()
	c.FetchStarted()
	c.FetchSettled("remote", "success", 20*time.Millisecond)
	c.StaleDiscarded()
	c.Loading(true)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.inFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.fetches.WithLabelValues("remote", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.discarded))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.loading))
}
