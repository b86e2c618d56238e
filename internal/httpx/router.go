package httpx

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AngelCh415/dash-indaia/internal/dashboard"
	"github.com/AngelCh415/dash-indaia/internal/format"
	"github.com/AngelCh415/dash-indaia/internal/models"
	"github.com/AngelCh415/dash-indaia/internal/utils"
)

//go:embed page.html
var pageFS embed.FS

var page = template.Must(template.ParseFS(pageFS, "page.html"))

type Options struct {
	CORSOrigins      []string
	RefreshRateLimit int // por minuto, 0 = sin límite
	Gatherer         prometheus.Gatherer
}

type router struct {
	log  *slog.Logger
	ctrl *dashboard.Controller
	fmt  *format.Formatter
}

func NewRouter(log *slog.Logger, ctrl *dashboard.Controller, f *format.Formatter, opt Options) http.Handler {
	rt := &router{log: log, ctrl: ctrl, fmt: f}
	if opt.Gatherer == nil {
		opt.Gatherer = prometheus.DefaultGatherer
	}
	if len(opt.CORSOrigins) == 0 {
		opt.CORSOrigins = []string{"*"}
	}

	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))
	mux.Use(middleware.Recoverer)

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if !ctrl.Ready() {
			http.Error(w, "waiting for first fetch", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
		w.Write([]byte("ready"))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(opt.Gatherer, promhttp.HandlerOpts{}))

	refreshLimit := passthrough
	if opt.RefreshRateLimit > 0 {
		refreshLimit = httprate.Limit(opt.RefreshRateLimit, time.Minute,
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				render.Render(w, r, errTooManyRequests)
			}))
	}

	// página HTML
	mux.Get("/", rt.page)
	mux.Post("/period", rt.pagePeriod)
	mux.With(refreshLimit).Post("/refresh", rt.pageRefresh)

	mux.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opt.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/dashboard", rt.dashboard)
		r.Get("/state", rt.state)
		r.Put("/period", rt.setPeriod)
		r.Post("/period", rt.setPeriod)
		r.With(refreshLimit).Post("/refresh", rt.refresh)
	})

	return mux
}

func passthrough(next http.Handler) http.Handler { return next }

func (rt *router) view() dashboard.View { return dashboard.BuildView(rt.ctrl.State(), rt.fmt) }

func (rt *router) dashboard(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, rt.view())
}

func (rt *router) state(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, rt.ctrl.State())
}

func (rt *router) setPeriod(w http.ResponseWriter, r *http.Request) {
	done, started, err := rt.applyFilters(r)
	if err != nil {
		render.Render(w, r, errInvalidRequest(err))
		return
	}
	rt.respond(w, r, done, started)
}

func (rt *router) refresh(w http.ResponseWriter, r *http.Request) {
	rt.respond(w, r, rt.ctrl.Refresh(), true)
}

// respond espera el fetch solo con ?wait=true
func (rt *router) respond(w http.ResponseWriter, r *http.Request, done <-chan struct{}, started bool) {
	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		if err := waitFor(r.Context(), done); err != nil {
			return
		}
		render.JSON(w, r, rt.view())
		return
	}
	if started {
		render.Status(r, http.StatusAccepted)
	}
	render.JSON(w, r, accepted{Started: started, State: rt.ctrl.State()})
}

type accepted struct {
	Started bool             `json:"started"`
	State   models.ViewState `json:"state"`
}

var errNoPeriod = errors.New("periodo is required")

// applyFilters acepta query string o formulario. Solo periodo usa SetPeriod,
// cualquier otro filtro reemplaza el conjunto completo.
func (rt *router) applyFilters(r *http.Request) (<-chan struct{}, bool, error) {
	if err := r.ParseForm(); err != nil {
		return nil, false, err
	}
	f := models.FiltersFromValues(r.Form)
	if f.Period == "" && f.Start == "" && f.End == "" {
		return nil, false, errNoPeriod
	}
	if f == (models.Filters{Period: f.Period}) {
		done, started := rt.ctrl.SetPeriod(f.Period)
		return done, started, nil
	}
	done, started := rt.ctrl.SetFilters(f)
	return done, started, nil
}

func (rt *router) page(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Execute(w, rt.view()); err != nil {
		rt.log.Error("render page", slog.String("err", err.Error()), slog.String("rid", utils.RID(r.Context())))
	}
}

func (rt *router) pagePeriod(w http.ResponseWriter, r *http.Request) {
	done, _, err := rt.applyFilters(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if waitFor(r.Context(), done) == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (rt *router) pageRefresh(w http.ResponseWriter, r *http.Request) {
	if waitFor(r.Context(), rt.ctrl.Refresh()) == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func waitFor(ctx context.Context, done <-chan struct{}) error {
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
