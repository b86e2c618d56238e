package store

import (
	"sort"
	"sync"
	"time"

	"github.com/AngelCh415/dash-indaia/internal/models"
)

// MemoryStore holds the raw rows served by the local data source.
type MemoryStore struct {
	mu    sync.RWMutex
	media []models.MediaEntry
	leads []models.LeadEntry
	sales []models.SaleEntry
	seen  map[string]struct{} // idempotencia por-record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seen: make(map[string]struct{})}
}

// MarkSeen returns false when key was already recorded.
func (s *MemoryStore) MarkSeen(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// UpsertMedia merges spend and leads into the row for the same day,
// platform and campaign.
func (s *MemoryStore) UpsertMedia(m models.MediaEntry) {
	m.Date = day(m.Date)
	m.Investment = maxf(m.Investment)
	m.Leads = max0(m.Leads)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.media {
		cur := &s.media[i]
		if cur.Date.Equal(m.Date) && cur.Platform == m.Platform && cur.Campaign == m.Campaign {
			cur.Investment += m.Investment
			cur.Leads += m.Leads
			return
		}
	}
	s.media = append(s.media, m)
}

func (s *MemoryStore) AddLead(l models.LeadEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = append(s.leads, l)
}

func (s *MemoryStore) AddSale(v models.SaleEntry) {
	v.Amount = maxf(v.Amount)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = append(s.sales, v)
}

// Slice is every row whose date falls inside a closed day range.
type Slice struct {
	Media []models.MediaEntry
	Leads []models.LeadEntry
	Sales []models.SaleEntry
}

// Query returns copies of the rows between from and to (inclusive, by day),
// ordered by date.
func (s *MemoryStore) Query(from, to time.Time) Slice {
	from, to = day(from), day(to)
	in := func(t time.Time) bool {
		d := day(t)
		return !d.Before(from) && !d.After(to)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := Slice{
		Media: []models.MediaEntry{},
		Leads: []models.LeadEntry{},
		Sales: []models.SaleEntry{},
	}
	for _, m := range s.media {
		if in(m.Date) {
			out.Media = append(out.Media, m)
		}
	}
	for _, l := range s.leads {
		if in(l.Date) {
			out.Leads = append(out.Leads, l)
		}
	}
	for _, v := range s.sales {
		if in(v.Date) {
			out.Sales = append(out.Sales, v)
		}
	}
	// orden determinista
	sort.SliceStable(out.Media, func(i, j int) bool { return out.Media[i].Date.Before(out.Media[j].Date) })
	sort.SliceStable(out.Leads, func(i, j int) bool { return out.Leads[i].Date.Before(out.Leads[j].Date) })
	sort.SliceStable(out.Sales, func(i, j int) bool { return out.Sales[i].Date.Before(out.Sales[j].Date) })
	return out
}

// Counts reports how many rows of each kind are stored.
func (s *MemoryStore) Counts() (media, leads, sales int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.media), len(s.leads), len(s.sales)
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
func max0(i int) int {
	if i < 0 {
		return 0
	}
	return i
}
func maxf(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
