package dashboard

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/dash-indaia/internal/format"
	"github.com/AngelCh415/dash-indaia/internal/models"
)

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func loadedState() models.ViewState {
	s := models.EmptySnapshot()
	s.LeadsToday = 12
	s.LeadsInPeriod = 450
	s.ContractsInPeriod = 25
	s.RevenueInPeriod = decimal.RequireFromString("125000.5")
	s.InvestmentTotal = decimal.NewFromInt(15000)
	s.CostPerLead = decimal.RequireFromString("33.33")
	s.CostPerAcquisition = decimal.NewFromInt(600)
	s.ReturnOnInvestment = decimal.RequireFromString("7.33")
	s.ReturnOnAdSpend = decimal.RequireFromString("8.33")
	s.CampaignSummaryRows = []models.Record{{
		"CAMPANHA": "Implante", "PLATAFORMA": "Meta", "INVESTIMENTO_TOTAL": 1500.0,
		"LEADS_TOTAL": 40, "CPL": 37.5, "AGENDADOS": 10, "CONTRATOS": 3,
		"FATURAMENTO": 12000.0, "CUSTO_POR_CONTRATO": 500.0, "TX_FECHAMENTO": 7.5,
	}}
	s.SalespersonSummaryRows = []models.Record{{
		"POSICAO": 1, "VENDEDOR": "Ana", "LEADS": 40, "CONTRATOS": 3,
		"FATURAMENTO": 12000.0, "TICKET_MEDIO": 4000.0, "TX_FECHAMENTO": "",
	}}
	return models.ViewState{
		Snapshot:       &s,
		SelectedPeriod: models.PeriodLast30Days,
		Filters:        models.Filters{Period: models.PeriodLast30Days},
		UpdatedAt:      time.Date(2025, 12, 1, 9, 30, 0, 0, time.UTC),
	}
}

func card(cards []Card, key string) Card {
	for _, c := range cards {
		if c.Key == key {
			return c
		}
	}
	return Card{}
}

func TestBuildViewFormatsCards(t *testing.T) {
	v := BuildView(loadedState(), format.Default)

	assert.Equal(t, "Atualizado", v.Status)
	assert.True(t, v.HasData)
	assert.Equal(t, "R$ 125.000,50", card(v.Overview, "faturamento").Value)
	assert.Equal(t, "R$ 15.000,00", card(v.Overview, "investimento").Value)
	assert.Equal(t, "7,33x", card(v.Overview, "roi").Value)
	assert.Equal(t, "25", card(v.Overview, "vendas").Value)
	assert.Equal(t, "12", card(v.Funnel, "leads_hoje").Value)
	assert.Equal(t, "450", card(v.Funnel, "leads_periodo").Value)
	assert.Equal(t, "R$ 33,33", card(v.Funnel, "cpl").Value)
	assert.Equal(t, "R$ 600,00", card(v.Funnel, "cpa").Value)
	assert.Equal(t, "8,33x", v.ROAS)
	assert.Equal(t, "2025-12-01T09:30:00Z", v.UpdatedAt)
}

func TestBuildViewTables(t *testing.T) {
	v := BuildView(loadedState(), format.Default)

	require.Len(t, v.Campaigns.Rows, 1)
	assert.Equal(t, len(v.Campaigns.Columns), len(v.Campaigns.Rows[0]))
	assert.Equal(t, []string{
		"Implante", "Meta", "R$ 1.500,00", "40", "R$ 37,50", "10", "3", "R$ 12.000,00", "R$ 500,00", "7,50%",
	}, v.Campaigns.Rows[0])

	require.Len(t, v.Salespeople.Rows, 1)
	row := v.Salespeople.Rows[0]
	assert.Equal(t, "Ana", row[1])
	assert.Equal(t, "R$ 4.000,00", row[5])
	assert.Equal(t, "", row[6], "empty rate stays blank")
}

func TestBuildViewWithoutSnapshot(t *testing.T) {
	v := BuildView(models.ViewState{IsLoading: true}, format.Default)

	assert.Equal(t, "Atualizando...", v.Status)
	assert.False(t, v.HasData)
	assert.Equal(t, "R$ 0,00", card(v.Overview, "faturamento").Value)
	assert.Equal(t, "0", card(v.Funnel, "leads_hoje").Value)
	assert.Equal(t, "0,00x", v.ROAS)
	assert.Empty(t, v.Campaigns.Rows)
	assert.NotNil(t, v.Campaigns.Rows)
	assert.Empty(t, v.UpdatedAt)
}

func TestBuildViewKeepsErrorAndData(t *testing.T) {
	st := loadedState()
	st.ErrorMessage = "quota exceeded"
	v := BuildView(st, format.Default)

	assert.Equal(t, "quota exceeded", v.Error)
	assert.True(t, v.HasData)
	assert.Equal(t, "R$ 125.000,50", card(v.Overview, "faturamento").Value)
}

func TestPeriodOptions(t *testing.T) {
	v := BuildView(loadedState(), format.Default)
	require.Len(t, v.Periods, len(models.KnownPeriods))
	selected := 0
	for _, p := range v.Periods {
		if p.Selected {
			selected++
			assert.Equal(t, models.PeriodLast30Days, p.Value)
		}
		assert.NotEmpty(t, p.Label)
	}
	assert.Equal(t, 1, selected)

	st := loadedState()
	st.SelectedPeriod = models.Period("trimestre")
	v = BuildView(st, format.Default)
	require.Len(t, v.Periods, len(models.KnownPeriods)+1)
	last := v.Periods[len(v.Periods)-1]
	assert.Equal(t, models.Period("trimestre"), last.Value)
	assert.True(t, last.Selected)
	assert.Len(t, models.KnownPeriods, 6, "known periods untouched")
}

func TestBuildViewFlagsClampedValues(t *testing.T) {
	st := loadedState()
	st.Snapshot.ReturnOnInvestment = decimal.Zero
	st.Snapshot.ClampedFields = []string{"returnOnInvestment", "returnOnAdSpend", "unknown"}

	v := BuildView(st, format.Default)
	roi := card(v.Overview, "roi")
	assert.Equal(t, "0,00x", roi.Value)
	assert.Equal(t, "Valor negativo recebido; exibido como 0.", roi.Hint)
	assert.Equal(t, consolidatedHint, card(v.Overview, "faturamento").Hint)
	assert.Equal(t, "Valores negativos recebidos foram exibidos como 0: ROI GLOBAL, ROAS", v.Notice)

	assert.Empty(t, BuildView(loadedState(), format.Default).Notice)
}
