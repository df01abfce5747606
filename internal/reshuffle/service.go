package reshuffle

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/timeutil"
)

type ResultError string

const (
	ErrSlotNotFound ResultError = "slot_not_found"
	ErrUndoNotFound ResultError = "undo_not_found"
)

// endOfDay is past every possible slot start.
const endOfDay = timeutil.Clock(timeutil.MinutesPerDay + 1)

// Service runs detect, analyze, select and apply for one traveler and
// owns the undo ledger. A Service holds no schedule state of its own;
// callers serialize writes per itinerary.
type Service struct {
	cfg      Config
	detector *Detector
	mutator  *Mutator
	ledger   *Ledger
	newToken func() string
	now      func() time.Time
}

type ServiceOption func(*Service)

func WithDetector(d *Detector) ServiceOption {
	return func(s *Service) { s.detector = d }
}

func WithTokenGenerator(gen func() string) ServiceOption {
	return func(s *Service) { s.newToken = gen }
}

func WithNow(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func NewService(cfg Config, opts ...ServiceOption) *Service {
	s := &Service{
		cfg:      cfg,
		mutator:  NewMutator(cfg),
		ledger:   NewLedger(cfg.MaxUndoHistory),
		newToken: uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.detector == nil {
		s.detector = NewDetector(WithClock(s.now))
	}
	return s
}

func (s *Service) Config() Config      { return s.cfg }
func (s *Service) Detector() *Detector { return s.detector }
func (s *Service) Mutator() *Mutator   { return s.mutator }
func (s *Service) Ledger() *Ledger     { return s.ledger }

// Proposal is what the service would do for a trigger, without doing it.
type Proposal struct {
	Impact   domain.ImpactAnalysis
	Strategy domain.ReshuffleStrategy
}

func (s *Service) Propose(trigger domain.TriggerEvent, day domain.DaySchedule) Proposal {
	impact := Analyze(trigger, day, s.cfg)
	return Proposal{Impact: impact, Strategy: SelectStrategy(trigger, impact, s.cfg)}
}

// Reshuffle analyzes the trigger, picks a strategy and applies it.
func (s *Service) Reshuffle(trigger domain.TriggerEvent, day domain.DaySchedule) domain.ReshuffleResult {
	p := s.Propose(trigger, day)
	return s.Apply(trigger, p.Impact, p.Strategy, day)
}

func (s *Service) ReportMessage(msg string, day domain.DaySchedule, now timeutil.Clock) domain.ReshuffleResult {
	return s.Reshuffle(s.detector.FromMessage(msg, day, now), day)
}

func (s *Service) ReportDelay(minutes int, day domain.DaySchedule, now timeutil.Clock) domain.ReshuffleResult {
	return s.Reshuffle(s.detector.FromDelay(minutes, day, now), day)
}

func (s *Service) ReportState(state domain.UserState, day domain.DaySchedule, now timeutil.Clock) domain.ReshuffleResult {
	return s.Reshuffle(s.detector.FromUserState(state, day, now), day)
}

// repair accumulates the effect of one or more mutations.
type repair struct {
	day         domain.DaySchedule
	changes     []domain.ScheduleChange
	saved       int
	remaining   int
	escalations []domain.ReshuffleStrategy
	notes       []string
	err         ResultError
}

func (r *repair) apply(o Outcome) {
	r.day = o.Day
	r.changes = append(r.changes, o.Changes...)
	r.saved += o.TimeSavedMinutes
}

func (r *repair) note(format string, args ...any) {
	r.notes = append(r.notes, fmt.Sprintf(format, args...))
}

// Apply runs strategy against day. Compression that leaves delay behind
// escalates to shortening, and shortening that leaves delay behind
// escalates to skipping. A result with changes is recorded in the ledger
// under a fresh undo token.
func (s *Service) Apply(trigger domain.TriggerEvent, impact domain.ImpactAnalysis, strategy domain.ReshuffleStrategy, day domain.DaySchedule) domain.ReshuffleResult {
	rep := s.execute(strategy, trigger, impact, day)

	res := domain.ReshuffleResult{
		Success:  rep.err == "",
		Error:    string(rep.err),
		Trigger:  trigger,
		Impact:   impact,
		Strategy: strategy,
		Changes:  rep.changes,
		Schedule: rep.day,
	}
	if res.Changes == nil {
		res.Changes = []domain.ScheduleChange{}
	}
	if !res.Success {
		res.Schedule = day
		res.Changes = []domain.ScheduleChange{}
		res.Explanation = "Could not find the activity this report refers to; nothing was changed."
		return res
	}

	res.Escalations = rep.escalations
	res.TimeSavedMinutes = rep.saved
	res.BookingsProtected = bookingsProtected(impact, rep.day)
	res.Explanation = explain(rep, res.BookingsProtected)

	if len(res.Changes) > 0 {
		res.UndoToken = s.newToken()
		s.ledger.Put(LedgerEntry{
			Token:     res.UndoToken,
			Trigger:   trigger,
			Strategy:  strategy,
			Changes:   res.Changes,
			Previous:  day.Clone(),
			Next:      rep.day.Clone(),
			CreatedAt: s.now(),
		})
	}
	return res
}

func (s *Service) execute(strategy domain.ReshuffleStrategy, trigger domain.TriggerEvent, impact domain.ImpactAnalysis, day domain.DaySchedule) repair {
	now := trigger.Context.CurrentTime
	delay := impact.TotalDelayMinutes
	rep := repair{day: day}

	switch strategy {
	case domain.StrategyNoAction:
	case domain.StrategyCompressBuffer:
		s.compress(&rep, delay, now)
		if rep.remaining > 0 {
			rep.escalations = append(rep.escalations, domain.StrategyShortenActivity)
			s.shorten(&rep, now)
		}
		if rep.remaining > 0 {
			rep.escalations = append(rep.escalations, domain.StrategySkipActivity)
			s.skip(&rep, now, false)
		}
	case domain.StrategyShortenActivity:
		s.compress(&rep, delay, now)
		s.shorten(&rep, now)
		if rep.remaining > 0 {
			rep.escalations = append(rep.escalations, domain.StrategySkipActivity)
			s.skip(&rep, now, false)
		}
	case domain.StrategySkipActivity:
		s.compress(&rep, delay, now)
		s.skip(&rep, now, true)
	case domain.StrategyReplaceActivity:
		target := closureTarget(trigger, day)
		if target == "" {
			rep.err = ErrSlotNotFound
			return rep
		}
		before := day.Slots[day.SlotIndex(target)]
		o := s.mutator.ReplaceActivity(day, target, trigger.Context.Venue)
		rep.apply(o)
		switch {
		case len(o.Changes) == 0:
			rep.note("%s is locked, so it was left for you to sort out", before.Activity.Name)
		case o.Changes[0].Type == domain.ChangeReplaced:
			rep.note("replaced %s with %s", before.Activity.Name, o.Changes[0].After.Activity.Name)
		default:
			rep.note("dropped %s since there is no open alternative", before.Activity.Name)
		}
	case domain.StrategyEmergencyReroute:
		o := s.mutator.EmergencyReroute(day, now)
		rep.apply(o)
		rep.note("cleared %d remaining activities and kept %d finished or booked", len(o.Changes), len(o.Day.Slots))
	}
	return rep
}

func (s *Service) compress(rep *repair, delay int, now timeutil.Clock) {
	o := s.mutator.CompressBuffer(rep.day, delay, now)
	rep.apply(o)
	rep.remaining = o.RemainingDelay
	if o.TimeSavedMinutes > 0 {
		rep.note("absorbed %d of the %d min delay in free time", o.TimeSavedMinutes, delay)
	}
	if len(o.Changes) > 0 {
		rep.note("moved %d activities later", len(o.Changes))
	}
}

// shorten trims the most shortenable slots between now and the next
// locked slot until the remaining delay is recovered.
func (s *Service) shorten(rep *repair, now timeutil.Clock) {
	boundary := nextLockedStart(rep.day, now)
	var candidates []domain.ScheduledActivity
	for _, sl := range rep.day.Slots {
		if sl.ScheduledStart >= now && sl.ScheduledStart < boundary && s.cfg.maxShortenMinutes(sl) > 0 {
			candidates = append(candidates, sl)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return s.cfg.maxShortenMinutes(candidates[i]) > s.cfg.maxShortenMinutes(candidates[j])
	})
	for _, c := range candidates {
		if rep.remaining <= 0 {
			return
		}
		o := s.mutator.ShortenActivity(rep.day, c.ID, rep.remaining)
		if o.TimeSavedMinutes == 0 {
			continue
		}
		rep.apply(o)
		rep.remaining -= o.TimeSavedMinutes
		rep.note("shortened %s by %d min", c.Activity.Name, o.TimeSavedMinutes)
	}
}

// skip drops the most skippable activities until the delay is recovered.
// Activities before the next locked slot are preferred.
func (s *Service) skip(rep *repair, now timeutil.Clock, atLeastOne bool) {
	boundary := nextLockedStart(rep.day, now)
	for i := 0; rep.remaining > 0 || (atLeastOne && i == 0); i++ {
		id, ok := s.mutator.findSkip(rep.day, now, boundary)
		if !ok {
			id, ok = s.mutator.findSkip(rep.day, now, endOfDay)
		}
		if !ok {
			rep.note("nothing else could be skipped")
			return
		}
		name := rep.day.Slots[rep.day.SlotIndex(id)].Activity.Name
		o := s.mutator.SkipActivity(rep.day, id, "to recover time")
		rep.apply(o)
		rep.remaining = max(0, rep.remaining-o.TimeSavedMinutes)
		rep.note("skipped %s to free %d min", name, o.TimeSavedMinutes)
	}
}

func nextLockedStart(day domain.DaySchedule, now timeutil.Clock) timeutil.Clock {
	for _, s := range day.Slots {
		if s.IsLocked && s.ScheduledStart >= now {
			return s.ScheduledStart
		}
	}
	return endOfDay
}

// bookingsProtected counts endangered bookings that can still be reached
// on time in the repaired day.
func bookingsProtected(impact domain.ImpactAnalysis, day domain.DaySchedule) int {
	n := 0
	for _, b := range impact.BookingsAtRisk {
		if !b.Risk.Endangered() {
			continue
		}
		i := day.SlotIndex(b.SlotID)
		if i < 0 {
			continue
		}
		if i == 0 || day.Slots[i-1].ScheduledEnd.Add(day.Slots[i].InboundCommuteMinutes()) <= day.Slots[i].ScheduledStart {
			n++
		}
	}
	return n
}

func explain(rep repair, protected int) string {
	if len(rep.notes) == 0 {
		return "No changes needed."
	}
	text := strings.Join(rep.notes, ", then ")
	text = strings.ToUpper(text[:1]) + text[1:] + "."
	if protected > 0 {
		text += fmt.Sprintf(" %d booking(s) stay on time.", protected)
	}
	return text
}

type UndoResult struct {
	Success  bool
	Error    ResultError
	Schedule domain.DaySchedule
	Entry    LedgerEntry
}

// Undo restores the schedule recorded under token. The entry is consumed.
func (s *Service) Undo(token string) UndoResult {
	e, ok := s.ledger.Take(token)
	if !ok {
		return UndoResult{Error: ErrUndoNotFound}
	}
	at := s.now()
	e.UndoneAt = &at
	return UndoResult{Success: true, Schedule: e.Previous.Clone(), Entry: e}
}
