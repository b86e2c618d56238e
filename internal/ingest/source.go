package ingest

import (
	"context"
	"time"

	"github.com/AngelCh415/dash-indaia/internal/models"
)

// Source is the data-fetch capability used by the dashboard. Fetch blocks
// until the fetch settles and never panics or returns partial data.
type Source interface {
	Name() string
	Fetch(ctx context.Context, f models.Filters) models.FetchResult
}

// Observer receives fetch lifecycle events, see metrics.Collectors.
type Observer interface {
	FetchStarted()
	FetchSettled(source, outcome string, d time.Duration)
}

type instrumented struct {
	Source
	obs Observer
}

// Instrument reports every fetch made through src to obs.
func Instrument(src Source, obs Observer) Source {
	if obs == nil {
		return src
	}
	return &instrumented{Source: src, obs: obs}
}

func (i *instrumented) Fetch(ctx context.Context, f models.Filters) models.FetchResult {
	start := time.Now()
	i.obs.FetchStarted()
	res := i.Source.Fetch(ctx, f)
	outcome := "success"
	if !res.OK() {
		outcome = res.Kind()
		if outcome == "" {
			outcome = "failure"
		}
	}
	i.obs.FetchSettled(i.Source.Name(), outcome, time.Since(start))
	return res
}

// fail converts a typed adapter error into the only failure shape that
// leaves this package.
func fail(err error) models.FetchResult {
	return models.FailureOf(Kind(err), Reason(err))
}
