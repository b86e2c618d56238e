package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/AngelCh415/dash-indaia/internal/config"
	"github.com/AngelCh415/dash-indaia/internal/dashboard"
	"github.com/AngelCh415/dash-indaia/internal/format"
	"github.com/AngelCh415/dash-indaia/internal/models"
)

func newFetchCmd() *cobra.Command {
	var (
		f      models.Filters
		period string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the dashboard once and print the KPIs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if period == "" {
				period = cfg.DefaultPeriod
			}
			f.Period = models.ParsePeriod(period)
			return runFetch(cmd, cfg, f, asJSON)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&period, "periodo", "", "period (hoje, ontem, ultimos_7_dias, ultimos_30_dias, mes_atual, mes_anterior)")
	fl.StringVar(&f.Start, "inicio", "", "custom range start, YYYY-MM-DD")
	fl.StringVar(&f.End, "fim", "", "custom range end, YYYY-MM-DD")
	fl.StringVar(&f.Campaign, "campanha", "", "campaign filter")
	fl.StringVar(&f.Salesperson, "vendedor", "", "salesperson filter")
	fl.StringVar(&f.Platform, "plataforma", "", "platform filter")
	fl.BoolVar(&asJSON, "json", false, "print the raw snapshot as JSON")
	return cmd
}

func runFetch(cmd *cobra.Command, cfg *config.Config, f models.Filters, asJSON bool) error {
	// logs a stderr para no ensuciar la salida
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	fm, err := format.New(cfg.Locale, cfg.Currency, cfg.CurrencySymbol)
	if err != nil {
		return fmt.Errorf("formatter: %w", err)
	}
	src, err := buildSource(cfg, logger, time.Now)
	if err != nil {
		return err
	}

	ctrl := dashboard.New(src, dashboard.WithLogger(logger), dashboard.WithContext(cmd.Context()))
	<-ctrl.InitializeFilters(f)
	st := ctrl.State()
	if st.ErrorMessage != "" {
		return errors.New(st.ErrorMessage)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", " ")
		return enc.Encode(st.Snapshot)
	}
	return printView(out, dashboard.BuildView(st, fm))
}

func printView(w io.Writer, v dashboard.View) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "PERÍODO\t%s\n", v.Period)
	for _, c := range append(append([]dashboard.Card{}, v.Overview...), v.Funnel...) {
		fmt.Fprintf(tw, "%s\t%s\n", c.Title, c.Value)
	}
	fmt.Fprintf(tw, "ROAS\t%s\n", v.ROAS)
	if v.Notice != "" {
		fmt.Fprintf(tw, "AVISO\t%s\n", v.Notice)
	}
	return tw.Flush()
}
