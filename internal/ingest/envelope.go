package ingest

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/dash-indaia/internal/models"
)

// envelope is the backend wrapper { ok, message?, data? }. Fields stay raw
// so that a wrongly typed "ok" or "message" is an application failure
// rather than a parse failure.
type envelope struct {
	OK      json.RawMessage `json:"ok"`
	Message json.RawMessage `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type payload struct {
	Overview   overview `json:"overview"`
	Midia      rows     `json:"midia"`
	Leads      rows     `json:"leads"`
	Vendas     rows     `json:"vendas"`
	Campanhas  rows     `json:"campanhas"`
	Vendedores rows     `json:"vendedores"`
}

type overview struct {
	LeadsHoje         number `json:"leadsHoje"`
	LeadsTotal        number `json:"leadsTotal"`
	ContratosTotal    number `json:"contratosTotal"`
	FaturamentoTotal  number `json:"faturamentoTotal"`
	InvestimentoTotal number `json:"investimentoTotal"`
	CPL               number `json:"cpl"`
	CPA               number `json:"cpa"`
	ROI               number `json:"roi"`
	ROAS              number `json:"roas"`
}

// number coalesces null, "", and non-numeric values to zero. Numeric strings
// are accepted because spreadsheet cells often arrive quoted.
type number struct{ d decimal.Decimal }

func (n *number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return nil
		}
		s = strings.TrimSpace(str)
	}
	if s == "" || s == "null" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	n.d = d
	return nil
}

// value is never negative.
func (n number) value() decimal.Decimal {
	if n.d.IsNegative() {
		return decimal.Zero
	}
	return n.d
}

// rows keeps every object of a JSON array. Anything that is not an array
// decodes as empty, non-object elements are dropped.
type rows []models.Record

func (r *rows) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	out := rows{}
	if err := json.Unmarshal(b, &raw); err == nil {
		for _, item := range raw {
			dec := json.NewDecoder(bytes.NewReader(item))
			dec.UseNumber()
			var rec models.Record
			if err := dec.Decode(&rec); err != nil || rec == nil {
				continue
			}
			out = append(out, rec)
		}
	}
	*r = out
	return nil
}

func (r rows) records() []models.Record {
	if r == nil {
		return []models.Record{}
	}
	return []models.Record(r)
}

func (p payload) snapshot() models.DashboardSnapshot {
	o := p.Overview
	var clamped []string
	val := func(field string, n number) decimal.Decimal {
		if n.d.IsNegative() {
			clamped = append(clamped, field)
		}
		return n.value()
	}
	cnt := func(field string, n number) int64 { return val(field, n).IntPart() }
	return models.DashboardSnapshot{
		LeadsToday:         cnt("leadsToday", o.LeadsHoje),
		LeadsInPeriod:      cnt("leadsInPeriod", o.LeadsTotal),
		ContractsInPeriod:  cnt("contractsInPeriod", o.ContratosTotal),
		RevenueInPeriod:    val("revenueInPeriod", o.FaturamentoTotal),
		InvestmentTotal:    val("investmentTotal", o.InvestimentoTotal),
		CostPerLead:        val("costPerLead", o.CPL),
		CostPerAcquisition: val("costPerAcquisition", o.CPA),
		ReturnOnInvestment: val("returnOnInvestment", o.ROI),
		ReturnOnAdSpend:    val("returnOnAdSpend", o.ROAS),

		MediaRows:              p.Midia.records(),
		LeadRows:               p.Leads.records(),
		SaleRows:               p.Vendas.records(),
		CampaignSummaryRows:    p.Campanhas.records(),
		SalespersonSummaryRows: p.Vendedores.records(),
		ClampedFields:          clamped,
	}
}

// decodeEnvelope validates a response body and maps it to a snapshot.
// Nothing is returned unless the whole body is acceptable.
func decodeEnvelope(body []byte) (models.DashboardSnapshot, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return models.DashboardSnapshot{}, &ParseError{Err: err}
	}
	if string(bytes.TrimSpace(env.OK)) != "true" || isNull(env.Data) {
		return models.DashboardSnapshot{}, &ApplicationError{Message: messageOf(env.Message)}
	}
	var p payload
	if err := json.Unmarshal(env.Data, &p); err != nil {
		return models.DashboardSnapshot{}, &ParseError{Err: err}
	}
	return p.snapshot(), nil
}

func isNull(raw json.RawMessage) bool {
	s := bytes.TrimSpace(raw)
	return len(s) == 0 || string(s) == "null"
}

func messageOf(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
