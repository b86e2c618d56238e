package ingest

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/AngelCh415/dash-indaia/internal/metrics"
	"github.com/AngelCh415/dash-indaia/internal/models"
	"github.com/AngelCh415/dash-indaia/internal/store"
)

// MockSource serves generated data for local development. Its answers go
// through the same envelope decoding as the remote backend.
type MockSource struct {
	st  *store.MemoryStore
	now func() time.Time
	log *slog.Logger
}

func NewMockSource(st *store.MemoryStore, now func() time.Time, log *slog.Logger) *MockSource {
	if now == nil {
		now = time.Now
	}
	return &MockSource{st: st, now: now, log: log}
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Fetch(ctx context.Context, f models.Filters) models.FetchResult {
	if err := ctx.Err(); err != nil {
		return fail(&TransportError{Err: err})
	}
	body, err := m.respond(f)
	if err != nil {
		return fail(&ParseError{Err: err})
	}
	snap, err := decodeEnvelope(body)
	if err != nil {
		m.log.Warn("fetch failed", slog.String("kind", Kind(err)), slog.String("err", err.Error()))
		return fail(err)
	}
	return models.Success(snap)
}

// respond builds the envelope the spreadsheet web app would send.
func (m *MockSource) respond(f models.Filters) ([]byte, error) {
	now := m.now()
	from, to, err := ResolveRange(f, now)
	if err != nil {
		return json.Marshal(map[string]any{"ok": false, "message": err.Error()})
	}
	sl := m.st.Query(from, to)
	m.log.Debug("mock query",
		slog.String("from", from.Format(dateLayout)),
		slog.String("to", to.Format(dateLayout)),
		slog.Int("midia", len(sl.Media)))

	return json.Marshal(map[string]any{
		"ok": true,
		"data": map[string]any{
			"overview":   metrics.DeriveOverview(sl, now),
			"midia":      mediaRecords(sl.Media),
			"leads":      leadRecords(sl.Leads),
			"vendas":     saleRecords(sl.Sales),
			"campanhas":  metrics.CampaignSummary(sl),
			"vendedores": metrics.SalespersonSummary(sl),
		},
	})
}

func mediaRecords(in []models.MediaEntry) []models.Record {
	out := make([]models.Record, 0, len(in))
	for _, m := range in {
		out = append(out, models.Record{
			"DATA":             m.Date.Format(dateLayout),
			"ANO":              m.Date.Year(),
			"MES":              int(m.Date.Month()),
			"DIA":              m.Date.Day(),
			"PLATAFORMA":       m.Platform,
			"PRODUTO":          m.Product,
			"CAMPANHA":         m.Campaign,
			"CANAL":            m.Channel,
			"INVESTIMENTO_DIA": m.Investment,
			"LEADS_DIA":        m.Leads,
		})
	}
	return out
}

func leadRecords(in []models.LeadEntry) []models.Record {
	out := make([]models.Record, 0, len(in))
	for _, l := range in {
		out = append(out, models.Record{
			"ID":         l.ID,
			"DATA":       l.Date.Format(time.RFC3339),
			"NOME":       l.Name,
			"CAMPANHA":   l.Campaign,
			"PLATAFORMA": l.Platform,
			"VENDEDOR":   l.Salesperson,
			"STATUS":     l.Stage,
		})
	}
	return out
}

func saleRecords(in []models.SaleEntry) []models.Record {
	out := make([]models.Record, 0, len(in))
	for _, v := range in {
		out = append(out, models.Record{
			"ID":         v.ID,
			"LEAD_ID":    v.LeadID,
			"DATA":       v.Date.Format(time.RFC3339),
			"CAMPANHA":   v.Campaign,
			"PLATAFORMA": v.Platform,
			"VENDEDOR":   v.Salesperson,
			"VALOR":      v.Amount,
		})
	}
	return out
}
