package metrics

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/AngelCh415/dash-indaia/internal/models"
	"github.com/AngelCh415/dash-indaia/internal/store"
)

// Overview mirrors the backend "overview" object.
type Overview struct {
	LeadsHoje         int     `json:"leadsHoje"`
	LeadsTotal        int     `json:"leadsTotal"`
	ContratosTotal    int     `json:"contratosTotal"`
	FaturamentoTotal  float64 `json:"faturamentoTotal"`
	InvestimentoTotal float64 `json:"investimentoTotal"`
	CPL               float64 `json:"cpl"`
	CPA               float64 `json:"cpa"`
	ROI               float64 `json:"roi"`
	ROAS              float64 `json:"roas"`
}

// DeriveOverview aggregates a slice of raw rows. today selects the rows
// counted in LeadsHoje.
func DeriveOverview(sl store.Slice, today time.Time) Overview {
	var o Overview
	for _, m := range sl.Media {
		o.InvestimentoTotal += m.Investment
	}
	o.LeadsTotal = len(sl.Leads)
	for _, l := range sl.Leads {
		if sameDay(l.Date, today) {
			o.LeadsHoje++
		}
	}
	o.ContratosTotal = len(sl.Sales)
	for _, v := range sl.Sales {
		o.FaturamentoTotal += v.Amount
	}
	o.CPL = round2(safeDivF(o.InvestimentoTotal, float64(o.LeadsTotal)))
	o.CPA = round2(safeDivF(o.InvestimentoTotal, float64(o.ContratosTotal)))
	o.ROAS = round2(safeDivF(o.FaturamentoTotal, o.InvestimentoTotal))
	o.ROI = round2(safeDivF(o.FaturamentoTotal-o.InvestimentoTotal, o.InvestimentoTotal))
	o.InvestimentoTotal = round2(o.InvestimentoTotal)
	o.FaturamentoTotal = round2(o.FaturamentoTotal)
	return o
}

type campaignAgg struct {
	campaign, platform, product          string
	investment                           float64
	leads, registered, scheduled, showed int
	contracts                            int
	revenue                              float64
}

// CampaignSummary builds one row per campaign using the backend column
// names (KPI_CAMPANHAS sheet).
func CampaignSummary(sl store.Slice) []models.Record {
	aggs := map[string]*campaignAgg{}
	get := func(name, platform string) *campaignAgg {
		k := norm(name)
		a, ok := aggs[k]
		if !ok {
			a = &campaignAgg{campaign: name, platform: platform}
			aggs[k] = a
		}
		return a
	}
	for _, m := range sl.Media {
		a := get(m.Campaign, m.Platform)
		a.investment += m.Investment
		a.leads += m.Leads
		if a.product == "" {
			a.product = m.Product
		}
	}
	for _, l := range sl.Leads {
		a := get(l.Campaign, l.Platform)
		a.registered++
		// el funil es acumulativo
		switch l.Stage {
		case "contrato", "compareceu":
			a.showed++
			a.scheduled++
		case "agendado":
			a.scheduled++
		}
	}
	for _, v := range sl.Sales {
		a := get(v.Campaign, v.Platform)
		a.contracts++
		a.revenue += v.Amount
	}

	keys := make([]string, 0, len(aggs))
	for k := range aggs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]models.Record, 0, len(keys))
	for _, k := range keys {
		a := aggs[k]
		rows = append(rows, models.Record{
			"CAMPANHA":              a.campaign,
			"PLATAFORMA":            a.platform,
			"PRODUTO":               a.product,
			"INVESTIMENTO_TOTAL":    round2(a.investment),
			"LEADS_TOTAL":           a.leads,
			"CPL":                   round2(safeDivF(a.investment, float64(a.leads))),
			"LEADS_CADASTRADOS":     a.registered,
			"AGENDADOS":             a.scheduled,
			"COMPARECEU":            a.showed,
			"CONTRATOS":             a.contracts,
			"FATURAMENTO":           round2(a.revenue),
			"CUSTO_POR_AGENDAMENTO": round2(safeDivF(a.investment, float64(a.scheduled))),
			"CUSTO_POR_CONTRATO":    round2(safeDivF(a.investment, float64(a.contracts))),
			"TX_AGENDAMENTO":        rate(a.scheduled, a.registered),
			"TX_COMPARECIMENTO":     rate(a.showed, a.scheduled),
			"TX_FECHAMENTO":         rate(a.contracts, a.showed),
		})
	}
	return rows
}

// SalespersonSummary ranks salespeople by revenue (KPI_VENDEDORES sheet).
func SalespersonSummary(sl store.Slice) []models.Record {
	type agg struct {
		name      string
		leads     int
		contracts int
		revenue   float64
	}
	aggs := map[string]*agg{}
	get := func(name string) *agg {
		k := norm(name)
		a, ok := aggs[k]
		if !ok {
			a = &agg{name: name}
			aggs[k] = a
		}
		return a
	}
	for _, l := range sl.Leads {
		get(l.Salesperson).leads++
	}
	for _, v := range sl.Sales {
		a := get(v.Salesperson)
		a.contracts++
		a.revenue += v.Amount
	}

	list := make([]*agg, 0, len(aggs))
	for _, a := range aggs {
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].revenue != list[j].revenue {
			return list[i].revenue > list[j].revenue
		}
		return list[i].name < list[j].name
	})

	rows := make([]models.Record, 0, len(list))
	for i, a := range list {
		rows = append(rows, models.Record{
			"POSICAO":       i + 1,
			"VENDEDOR":      a.name,
			"LEADS":         a.leads,
			"CONTRATOS":     a.contracts,
			"FATURAMENTO":   round2(a.revenue),
			"TICKET_MEDIO":  round2(safeDivF(a.revenue, float64(a.contracts))),
			"TX_FECHAMENTO": rate(a.contracts, a.leads),
		})
	}
	return rows
}

// rate is a percentage, or "" when the denominator is zero, matching what
// the spreadsheet emits for empty cells.
func rate(num, den int) any {
	if den <= 0 {
		return ""
	}
	return round2(100 * float64(num) / float64(den))
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func safeDivF(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
