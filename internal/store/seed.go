package store

import (
	"math"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/AngelCh415/dash-indaia/internal/models"
)

type campaign struct {
	name, platform, product string
	dailyBudget             float64
}

var seedCampaigns = []campaign{
	{"Implante Premium", "Meta Ads", "Implante", 450},
	{"Lentes de Contato Dental", "Meta Ads", "Estetica", 320},
	{"Ortodontia Invisivel", "Google Ads", "Ortodontia", 380},
	{"Clareamento Verao", "Google Ads", "Estetica", 150},
	{"Check-up Familia", "TikTok Ads", "Clinico", 90},
}

var seedSalespeople = []string{"Ana Souza", "Bruno Lima", "Carla Mendes", "Diego Rocha"}

// Seed fills s with deterministic sample data covering the days days up to
// and including now. The same seed and now always produce the same rows.
func Seed(s *MemoryStore, now time.Time, days int, seed int64) {
	rnd := rand.New(rand.NewSource(seed))
	entropy := ulid.Monotonic(rnd, 0)
	today := day(now)

	for d := days - 1; d >= 0; d-- {
		date := today.AddDate(0, 0, -d)
		for _, c := range seedCampaigns {
			// +-30% sobre el presupuesto diario
			spend := c.dailyBudget * (0.7 + 0.6*rnd.Float64())
			leads := int(spend / (25 + 20*rnd.Float64()))
			if !s.MarkSeen("midia|" + date.Format("2006-01-02") + "|" + c.platform + "|" + c.name) {
				continue
			}
			s.UpsertMedia(models.MediaEntry{
				Date:       date,
				Platform:   c.platform,
				Campaign:   c.name,
				Product:    c.product,
				Channel:    "pago",
				Investment: round2(spend),
				Leads:      leads,
			})
			for i := 0; i < leads; i++ {
				at := date.Add(time.Duration(8+rnd.Intn(12)) * time.Hour)
				id := ulid.MustNew(ulid.Timestamp(at), entropy).String()
				seller := seedSalespeople[rnd.Intn(len(seedSalespeople))]
				stage := pickStage(rnd)
				s.AddLead(models.LeadEntry{
					ID:          id,
					Date:        at,
					Name:        "Lead " + id[len(id)-6:],
					Campaign:    c.name,
					Platform:    c.platform,
					Salesperson: seller,
					Stage:       stage,
				})
				if stage != "contrato" {
					continue
				}
				s.AddSale(models.SaleEntry{
					ID:          ulid.MustNew(ulid.Timestamp(at), entropy).String(),
					LeadID:      id,
					Date:        at,
					Campaign:    c.name,
					Platform:    c.platform,
					Salesperson: seller,
					Amount:      round2(1500 + 6500*rnd.Float64()),
				})
			}
		}
	}
}

func pickStage(rnd *rand.Rand) string {
	switch n := rnd.Intn(100); {
	case n < 8:
		return "contrato"
	case n < 25:
		return "compareceu"
	case n < 50:
		return "agendado"
	default:
		return "cadastrado"
	}
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
