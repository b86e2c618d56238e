package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/AngelCh415/dash-indaia/internal/format"
	"github.com/AngelCh415/dash-indaia/internal/models"
)

// Card is one KPI tile.
type Card struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Value string `json:"value"`
	Hint  string `json:"hint,omitempty"`
}

type PeriodOption struct {
	Value    models.Period `json:"value"`
	Label    string        `json:"label"`
	Selected bool          `json:"selected"`
}

type Table struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// View is the render-ready projection of a ViewState.
type View struct {
	Status      string         `json:"status"`
	Loading     bool           `json:"loading"`
	Error       string         `json:"error,omitempty"`
	Notice      string         `json:"notice,omitempty"`
	HasData     bool           `json:"hasData"`
	Period      models.Period  `json:"period"`
	Periods     []PeriodOption `json:"periods"`
	Overview    []Card         `json:"overview"`
	Funnel      []Card         `json:"funnel"`
	ROAS        string         `json:"roas"`
	Campaigns   Table          `json:"campaigns"`
	Salespeople Table          `json:"salespeople"`
	UpdatedAt   string         `json:"updatedAt,omitempty"`
}

const (
	consolidatedHint = "Valores consolidados no período selecionado."
	clampedHint      = "Valor negativo recebido; exibido como 0."
)

// cardFields liga cada card al campo del snapshot que muestra
var cardFields = map[string]string{
	"investmentTotal":    "investimento",
	"revenueInPeriod":    "faturamento",
	"returnOnInvestment": "roi",
	"contractsInPeriod":  "vendas",
	"leadsToday":         "leads_hoje",
	"leadsInPeriod":      "leads_periodo",
	"costPerLead":        "cpl",
	"costPerAcquisition": "cpa",
	"returnOnAdSpend":    "roas",
}

type kind int

const (
	text kind = iota
	money
	integer
	percent
)

type column struct {
	key, title string
	kind       kind
}

var campaignColumns = []column{
	{"CAMPANHA", "Campanha", text},
	{"PLATAFORMA", "Plataforma", text},
	{"INVESTIMENTO_TOTAL", "Investimento", money},
	{"LEADS_TOTAL", "Leads", integer},
	{"CPL", "CPL", money},
	{"AGENDADOS", "Agendados", integer},
	{"CONTRATOS", "Contratos", integer},
	{"FATURAMENTO", "Faturamento", money},
	{"CUSTO_POR_CONTRATO", "Custo/contrato", money},
	{"TX_FECHAMENTO", "Tx. fechamento", percent},
}

var salespersonColumns = []column{
	{"POSICAO", "#", integer},
	{"VENDEDOR", "Vendedor", text},
	{"LEADS", "Leads", integer},
	{"CONTRATOS", "Contratos", integer},
	{"FATURAMENTO", "Faturamento", money},
	{"TICKET_MEDIO", "Ticket médio", money},
	{"TX_FECHAMENTO", "Tx. fechamento", percent},
}

// BuildView formats st for display. A missing snapshot renders as zeros.
func BuildView(st models.ViewState, f *format.Formatter) View {
	snap := models.EmptySnapshot()
	if st.Snapshot != nil {
		snap = *st.Snapshot
	}

	v := View{
		Status:  "Atualizado",
		Loading: st.IsLoading,
		Error:   st.ErrorMessage,
		HasData: st.Snapshot != nil,
		Period:  st.SelectedPeriod,
		Overview: []Card{
			{Key: "investimento", Title: "INVESTIMENTO TOTAL", Value: f.Currency(snap.InvestmentTotal), Hint: consolidatedHint},
			{Key: "faturamento", Title: "FATURAMENTO", Value: f.Currency(snap.RevenueInPeriod), Hint: consolidatedHint},
			{Key: "roi", Title: "ROI GLOBAL", Value: f.Ratio(snap.ReturnOnInvestment, "x")},
			{Key: "vendas", Title: "VENDAS TOTAIS", Value: f.Integer(snap.ContractsInPeriod)},
		},
		Funnel: []Card{
			{Key: "leads_hoje", Title: "LEADS HOJE", Value: f.Integer(snap.LeadsToday)},
			{Key: "leads_periodo", Title: "LEADS (PERÍODO)", Value: f.Integer(snap.LeadsInPeriod)},
			{Key: "cpl", Title: "CUSTO POR LEAD (CPL)", Value: f.Currency(snap.CostPerLead), Hint: consolidatedHint},
			{Key: "cpa", Title: "CUSTO P/ VENDA (CPA)", Value: f.Currency(snap.CostPerAcquisition), Hint: consolidatedHint},
		},
		ROAS:        f.Ratio(snap.ReturnOnAdSpend, "x"),
		Campaigns:   buildTable("Performance por Campanha", campaignColumns, snap.CampaignSummaryRows, f),
		Salespeople: buildTable("Ranking Comercial", salespersonColumns, snap.SalespersonSummaryRows, f),
	}
	markClamped(&v, snap.ClampedFields)
	if st.IsLoading {
		v.Status = "Atualizando..."
	}
	if !st.UpdatedAt.IsZero() {
		v.UpdatedAt = st.UpdatedAt.Format(time.RFC3339)
	}

	periods := models.KnownPeriods
	if st.SelectedPeriod != "" && !st.SelectedPeriod.Known() {
		periods = append(append([]models.Period{}, periods...), st.SelectedPeriod)
	}
	for _, p := range periods {
		v.Periods = append(v.Periods, PeriodOption{Value: p, Label: p.Label(), Selected: p == st.SelectedPeriod})
	}
	return v
}

// markClamped flags the cards whose value was negative upstream, so a loss
// shown as 0 is not read as break-even.
func markClamped(v *View, fields []string) {
	if len(fields) == 0 {
		return
	}
	keys := map[string]bool{}
	var titles []string
	for _, fld := range fields {
		k, ok := cardFields[fld]
		if !ok || keys[k] {
			continue
		}
		keys[k] = true
	}
	for _, cards := range [][]Card{v.Overview, v.Funnel} {
		for i := range cards {
			if keys[cards[i].Key] {
				cards[i].Hint = clampedHint
				titles = append(titles, cards[i].Title)
			}
		}
	}
	if keys["roas"] {
		titles = append(titles, "ROAS")
	}
	if len(titles) > 0 {
		v.Notice = "Valores negativos recebidos foram exibidos como 0: " + strings.Join(titles, ", ")
	}
}

func buildTable(title string, cols []column, rows []models.Record, f *format.Formatter) Table {
	t := Table{Title: title, Columns: make([]string, len(cols)), Rows: make([][]string, 0, len(rows))}
	for i, c := range cols {
		t.Columns[i] = c.title
	}
	for _, r := range rows {
		line := make([]string, len(cols))
		for i, c := range cols {
			line[i] = cell(r[c.key], c.kind, f)
		}
		t.Rows = append(t.Rows, line)
	}
	return t
}

func cell(v any, k kind, f *format.Formatter) string {
	switch k {
	case money:
		return f.Currency(v)
	case integer:
		return f.Integer(v)
	case percent:
		return f.Percent(v)
	}
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
