package models

import (
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record is one opaque row as delivered by the spreadsheet backend.
type Record map[string]any

// DashboardSnapshot is the normalized result of one successful fetch.
// Snapshots are never mutated after construction, so they can be shared
// between readers without copying.
type DashboardSnapshot struct {
	LeadsToday         int64           `json:"leadsToday"`
	LeadsInPeriod      int64           `json:"leadsInPeriod"`
	ContractsInPeriod  int64           `json:"contractsInPeriod"`
	RevenueInPeriod    decimal.Decimal `json:"revenueInPeriod"`
	InvestmentTotal    decimal.Decimal `json:"investmentTotal"`
	CostPerLead        decimal.Decimal `json:"costPerLead"`
	CostPerAcquisition decimal.Decimal `json:"costPerAcquisition"`
	ReturnOnInvestment decimal.Decimal `json:"returnOnInvestment"`
	ReturnOnAdSpend    decimal.Decimal `json:"returnOnAdSpend"`

	MediaRows              []Record `json:"mediaRows"`
	LeadRows               []Record `json:"leadRows"`
	SaleRows               []Record `json:"saleRows"`
	CampaignSummaryRows    []Record `json:"campaignSummaryRows"`
	SalespersonSummaryRows []Record `json:"salespersonSummaryRows"`

	// ClampedFields names the overview fields that arrived negative and
	// were stored as zero, using the JSON names above.
	ClampedFields []string `json:"clampedFields,omitempty"`
}

// EmptySnapshot returns a zero snapshot with non-nil row slices.
func EmptySnapshot() DashboardSnapshot {
	return DashboardSnapshot{
		MediaRows:              []Record{},
		LeadRows:               []Record{},
		SaleRows:               []Record{},
		CampaignSummaryRows:    []Record{},
		SalespersonSummaryRows: []Record{},
	}
}

// FetchResult carries either a snapshot or a failure reason, never both.
type FetchResult struct {
	snapshot *DashboardSnapshot
	reason   string
	kind     string
}

func Success(s DashboardSnapshot) FetchResult { return FetchResult{snapshot: &s} }
func Failure(reason string) FetchResult       { return FetchResult{reason: reason} }

// FailureOf is a Failure tagged with a machine-readable kind
// (transport, http_status, parse, application).
func FailureOf(kind, reason string) FetchResult { return FetchResult{reason: reason, kind: kind} }

func (r FetchResult) OK() bool                     { return r.snapshot != nil }
func (r FetchResult) Snapshot() *DashboardSnapshot { return r.snapshot }
func (r FetchResult) Reason() string               { return r.reason }
func (r FetchResult) Kind() string                 { return r.kind }

// Period is the time-range selector sent upstream as "periodo".
type Period string

const (
	PeriodToday         Period = "hoje"
	PeriodYesterday     Period = "ontem"
	PeriodLast7Days     Period = "ultimos_7_dias"
	PeriodLast30Days    Period = "ultimos_30_dias"
	PeriodCurrentMonth  Period = "mes_atual"
	PeriodPreviousMonth Period = "mes_anterior"
)

var periodNames = map[string]Period{
	"today":          PeriodToday,
	"yesterday":      PeriodYesterday,
	"last_7_days":    PeriodLast7Days,
	"last_30_days":   PeriodLast30Days,
	"current_month":  PeriodCurrentMonth,
	"previous_month": PeriodPreviousMonth,
}

// KnownPeriods lists the enumerated periods in display order.
var KnownPeriods = []Period{
	PeriodToday, PeriodYesterday, PeriodLast7Days,
	PeriodLast30Days, PeriodCurrentMonth, PeriodPreviousMonth,
}

// ParsePeriod accepts either the english name or the wire value of a known
// period. Anything else is kept verbatim, upstream accepts free-form values.
func ParsePeriod(s string) Period {
	s = strings.TrimSpace(s)
	if p, ok := periodNames[strings.ToLower(s)]; ok {
		return p
	}
	return Period(s)
}

// Known reports whether p is one of the enumerated periods.
func (p Period) Known() bool {
	for _, k := range KnownPeriods {
		if p == k {
			return true
		}
	}
	return false
}

// Label is the pt-BR caption used by the period selector.
func (p Period) Label() string {
	switch p {
	case PeriodToday:
		return "Hoje"
	case PeriodYesterday:
		return "Ontem"
	case PeriodLast7Days:
		return "Últimos 7 dias"
	case PeriodLast30Days:
		return "Últimos 30 dias"
	case PeriodCurrentMonth:
		return "Mês atual"
	case PeriodPreviousMonth:
		return "Mês anterior"
	}
	return string(p)
}

// Filters is the full parameter set of one fetch. Campaign, Salesperson and
// Platform are forwarded but not interpreted locally.
type Filters struct {
	Period      Period `json:"periodo,omitempty"`
	Start       string `json:"inicio,omitempty"` // 2006-01-02
	End         string `json:"fim,omitempty"`
	Campaign    string `json:"campanha,omitempty"`
	Salesperson string `json:"vendedor,omitempty"`
	Platform    string `json:"plataforma,omitempty"`
}

// Values returns the non-empty filters as query parameters.
func (f Filters) Values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val = strings.TrimSpace(val); val != "" {
			v.Set(k, val)
		}
	}
	set("periodo", string(f.Period))
	set("inicio", f.Start)
	set("fim", f.End)
	set("campanha", f.Campaign)
	set("vendedor", f.Salesperson)
	set("plataforma", f.Platform)
	return v
}

// FiltersFromValues is the inverse of Values.
func FiltersFromValues(v url.Values) Filters {
	return Filters{
		Period:      ParsePeriod(v.Get("periodo")),
		Start:       strings.TrimSpace(v.Get("inicio")),
		End:         strings.TrimSpace(v.Get("fim")),
		Campaign:    strings.TrimSpace(v.Get("campanha")),
		Salesperson: strings.TrimSpace(v.Get("vendedor")),
		Platform:    strings.TrimSpace(v.Get("plataforma")),
	}
}

// ViewState is what the presentation layer reads. ErrorMessage empty means
// no error. SnapshotFilters are the filters the displayed snapshot was
// fetched with, which may differ from Filters while a refresh is pending or
// after an older fetch settled last.
type ViewState struct {
	Snapshot        *DashboardSnapshot `json:"snapshot"`
	IsLoading       bool               `json:"isLoading"`
	ErrorMessage    string             `json:"errorMessage,omitempty"`
	SelectedPeriod  Period             `json:"selectedPeriod"`
	Filters         Filters            `json:"filters"`
	SnapshotFilters Filters            `json:"snapshotFilters"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}
