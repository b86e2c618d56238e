package ingest

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/AngelCh415/dash-indaia/internal/models"
)

// RemoteSource reads the dashboard from the spreadsheet web app.
type RemoteSource struct {
	c       HTTPClient
	baseURL string
	log     *slog.Logger
}

func NewRemoteSource(c HTTPClient, baseURL string, log *slog.Logger) *RemoteSource {
	return &RemoteSource{c: c, baseURL: baseURL, log: log}
}

func (s *RemoteSource) Name() string { return "remote" }

// Fetch issues one GET with the non-empty filters as query parameters.
func (s *RemoteSource) Fetch(ctx context.Context, f models.Filters) models.FetchResult {
	u, err := BuildURL(s.baseURL, f)
	if err != nil {
		s.log.Warn("fetch failed", slog.String("kind", KindTransport), slog.String("err", err.Error()))
		return fail(&TransportError{Err: err})
	}
	s.log.Debug("fetching dashboard", slog.String("url", u))

	body, err := getBody(ctx, s.c, u)
	if err == nil {
		var snap models.DashboardSnapshot
		if snap, err = decodeEnvelope(body); err == nil {
			s.log.Debug("dashboard fetched",
				slog.Int64("leads", snap.LeadsInPeriod),
				slog.Int("midia_rows", len(snap.MediaRows)))
			return models.Success(snap)
		}
	}
	s.log.Warn("fetch failed", slog.String("kind", Kind(err)), slog.String("err", err.Error()))
	return fail(err)
}

// BuildURL appends the filters to base, keeping any query base already has.
func BuildURL(base string, f models.Filters) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, vs := range f.Values() {
		q[k] = vs
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
