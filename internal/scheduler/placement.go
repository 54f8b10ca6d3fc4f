package scheduler

import (
	"math/rand"
	"sync"
)

// Placement is the start cell chosen for one session.
type Placement struct {
	Day    string
	Period int
}

// PlacementRequest describes one session to place.
type PlacementRequest struct {
	SectionID      string
	TeacherID      string
	Days           []string
	PeriodsPerDay  int
	MaxConsecutive int
	SessionLength  int
	Breaks         map[int]bool
	// Preferred holds the teacher's preferred cells keyed by day then period. It is carried for
	// a Ranker; FirstFit without a Ranker ignores it.
	Preferred map[string]map[int]bool
}

// PlacementStrategy picks a start cell for a session or reports that none fits.
// Implementations must not mutate the grids.
type PlacementStrategy interface {
	FindSlot(req PlacementRequest, sections, teachers *Grid) (Placement, bool)
}

// Ranker reorders the valid start cells of a session. The first ranked cell is used.
type Ranker interface {
	Rank(req PlacementRequest, candidates []Placement) []Placement
}

// FirstFit scans a shuffled day order and returns the earliest valid start period.
type FirstFit struct {
	mu     sync.Mutex
	rng    *rand.Rand
	ranker Ranker
}

// FirstFitOption customises a FirstFit strategy.
type FirstFitOption func(*FirstFit)

// WithRand fixes the random source used for the day shuffle.
func WithRand(rng *rand.Rand) FirstFitOption {
	return func(f *FirstFit) { f.rng = rng }
}

// WithRanker collects every valid start cell and lets r choose among them.
func WithRanker(r Ranker) FirstFitOption {
	return func(f *FirstFit) { f.ranker = r }
}

// NewFirstFit builds the default placement strategy.
func NewFirstFit(opts ...FirstFitOption) *FirstFit {
	f := &FirstFit{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FindSlot implements PlacementStrategy.
func (f *FirstFit) FindSlot(req PlacementRequest, sections, teachers *Grid) (Placement, bool) {
	var candidates []Placement
	for _, day := range f.shuffle(req.Days) {
		for start := 1; start <= req.PeriodsPerDay-req.SessionLength+1; start++ {
			if req.Breaks[start] {
				continue
			}
			if !fits(req, sections, teachers, day, start) {
				continue
			}
			if consecutiveRun(sections, req.SectionID, day, start)+req.SessionLength > req.MaxConsecutive {
				continue
			}
			if f.ranker == nil {
				return Placement{Day: day, Period: start}, true
			}
			candidates = append(candidates, Placement{Day: day, Period: start})
		}
	}
	if len(candidates) == 0 {
		return Placement{}, false
	}
	ranked := f.ranker.Rank(req, candidates)
	if len(ranked) == 0 {
		return Placement{}, false
	}
	return ranked[0], true
}

func (f *FirstFit) shuffle(days []string) []string {
	order := append([]string(nil), days...)
	swap := func(i, j int) { order[i], order[j] = order[j], order[i] }
	if f.rng == nil {
		rand.Shuffle(len(order), swap)
		return order
	}
	f.mu.Lock()
	f.rng.Shuffle(len(order), swap)
	f.mu.Unlock()
	return order
}

func fits(req PlacementRequest, sections, teachers *Grid, day string, start int) bool {
	if start+req.SessionLength-1 > req.PeriodsPerDay {
		return false
	}
	for period := start; period < start+req.SessionLength; period++ {
		if req.Breaks[period] {
			return false
		}
		if !teachers.IsFree(req.TeacherID, day, period) || !sections.IsFree(req.SectionID, day, period) {
			return false
		}
	}
	return true
}

// consecutiveRun counts busy section periods immediately before start.
func consecutiveRun(sections *Grid, sectionID, day string, start int) int {
	count := 0
	for period := start - 1; period >= 1; period-- {
		if sections.IsFree(sectionID, day, period) {
			break
		}
		count++
	}
	return count
}
