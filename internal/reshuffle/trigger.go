package reshuffle

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/timeutil"
)

const defaultReportedDelayMin = 15

// Detector turns disruption reports into trigger events.
type Detector struct {
	now   func() time.Time
	newID func() string
}

type DetectorOption func(*Detector)

// WithClock sets the source of DetectedAt timestamps.
func WithClock(now func() time.Time) DetectorOption {
	return func(d *Detector) { d.now = now }
}

// WithIDGenerator sets the source of trigger ids.
func WithIDGenerator(gen func() string) DetectorOption {
	return func(d *Detector) { d.newID = gen }
}

func NewDetector(opts ...DetectorOption) *Detector {
	d := &Detector{now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func phrases(words ...string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(words, "|") + `)\b`)
}

type messageRule struct {
	pattern *regexp.Regexp
	state   domain.UserState
	typ     domain.TriggerType
}

// Evaluated in order; the first match wins.
var messageRules = []messageRule{
	{phrases(`sick`, `ill`, `unwell`, `nauseous`, `fever`, `throwing up`, `food poisoning`), domain.StateSick, domain.TriggerUserState},
	{phrases(`done for (?:the )?day`, `call it a day`, `calling it a day`, `head(?:ing)? back`, `back to the hotel`, `no more today`), domain.StateDoneForDay, domain.TriggerUserState},
	{phrases(`need (?:a )?(?:break|rest|breather)`, `take (?:a )?break`, `sit down`, `recharge`), domain.StateNeedBreak, domain.TriggerUserState},
	{phrases(`very tired`, `really tired`, `so tired`, `exhausted`, `wiped out`, `worn out`), domain.StateVeryTired, domain.TriggerUserState},
	{phrases(`tired`, `a bit slow`, `sluggish`, `getting tired`), domain.StateSlightTired, domain.TriggerUserState},
	{phrases(`closed`, `shut`, `closure`, `not open`, `cancell?ed`), domain.StateNone, domain.TriggerClosure},
	{phrases(`late`, `delayed`, `behind`, `stuck`, `traffic`, `running behind`, `missed (?:the|my) (?:train|bus|metro)`), domain.StateRunningLate, domain.TriggerRunningLate},
	{phrases(`early`, `ahead of schedule`, `finished sooner`), domain.StateEarly, domain.TriggerUserState},
	{phrases(`energi[sz]ed`, `full of energy`, `feeling great`, `keep going`, `up for more`), domain.StateEnergized, domain.TriggerUserState},
}

var (
	minutesPattern = regexp.MustCompile(`(?i)(\d+)\s*(?:minutes|minute|mins|min|m)\b`)
	hoursPattern   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:hours|hour|hrs|hr|h)\b`)
	halfHour       = regexp.MustCompile(`(?i)\bhalf an? hour\b`)
	anHour         = regexp.MustCompile(`(?i)\ban hour\b`)
	venuePattern   = regexp.MustCompile(`(?i)(?:the\s+)?([\p{L}\d'&. -]+?)\s+(?:is|was|are|were|has been)\s+(?:closed|shut|not open|cancell?ed)`)
)

// ExtractDelayMinutes finds a minute count in a free-text report.
func ExtractDelayMinutes(msg string) (int, bool) {
	if m := minutesPattern.FindStringSubmatch(msg); m != nil {
		v, err := strconv.Atoi(m[1])
		if err == nil {
			return v, true
		}
	}
	if m := hoursPattern.FindStringSubmatch(msg); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return int(v * 60), true
		}
	}
	if halfHour.MatchString(msg) {
		return 30, true
	}
	if anHour.MatchString(msg) {
		return 60, true
	}
	return 0, false
}

func extractVenue(msg string) string {
	m := venuePattern.FindStringSubmatch(msg)
	if m == nil {
		return ""
	}
	venue := strings.TrimSpace(m[1])
	if strings.HasPrefix(strings.ToLower(venue), "the ") {
		venue = strings.TrimSpace(venue[4:])
	}
	return venue
}

// MatchesVenue reports whether a closure report names the slot's activity.
func MatchesVenue(s domain.ScheduledActivity, venue string) bool {
	return activityMatchesVenue(s.Activity, venue)
}

func activityMatchesVenue(a domain.ScoredActivity, venue string) bool {
	if venue == "" {
		return false
	}
	v := strings.ToLower(venue)
	name := strings.ToLower(a.Name)
	return strings.Contains(name, v) || (name != "" && strings.Contains(v, name)) || strings.EqualFold(a.ID, venue)
}

// FromMessage classifies a free-text report by keyword matching.
func (d *Detector) FromMessage(msg string, day domain.DaySchedule, now timeutil.Clock) domain.TriggerEvent {
	ctx := domain.TriggerContext{CurrentTime: now, Message: msg}
	typ := domain.TriggerUserRequest
	for _, r := range messageRules {
		if !r.pattern.MatchString(msg) {
			continue
		}
		typ = r.typ
		switch r.typ {
		case domain.TriggerRunningLate:
			ctx.UserState = r.state
			ctx.DelayMinutes = defaultReportedDelayMin
			if v, ok := ExtractDelayMinutes(msg); ok {
				ctx.DelayMinutes = v
			}
		case domain.TriggerClosure:
			ctx.Venue = extractVenue(msg)
		case domain.TriggerUserState, domain.TriggerUserRequest:
			ctx.UserState = r.state
		}
		break
	}

	var severity domain.TriggerSeverity
	switch typ {
	case domain.TriggerRunningLate:
		severity = DelaySeverity(ctx.DelayMinutes)
	case domain.TriggerUserState:
		severity = StateSeverity(ctx.UserState)
	case domain.TriggerClosure:
		severity = domain.TriggerHigh
	case domain.TriggerUserRequest:
		severity = domain.TriggerLow
	}
	return d.event(typ, severity, domain.SourceMessage, ctx, day)
}

// FromDelay records an explicit delay. Negative values count as zero.
func (d *Detector) FromDelay(minutes int, day domain.DaySchedule, now timeutil.Clock) domain.TriggerEvent {
	minutes = max(minutes, 0)
	ctx := domain.TriggerContext{CurrentTime: now, DelayMinutes: minutes, UserState: domain.StateRunningLate}
	return d.event(domain.TriggerRunningLate, DelaySeverity(minutes), domain.SourceDelay, ctx, day)
}

// FromUserState records an explicit traveler state. running_late carries
// the default reported delay.
func (d *Detector) FromUserState(state domain.UserState, day domain.DaySchedule, now timeutil.Clock) domain.TriggerEvent {
	ctx := domain.TriggerContext{CurrentTime: now, UserState: state}
	if state == domain.StateRunningLate {
		ctx.DelayMinutes = defaultReportedDelayMin
	}
	return d.event(domain.TriggerUserState, StateSeverity(state), domain.SourceState, ctx, day)
}

func (d *Detector) event(typ domain.TriggerType, sev domain.TriggerSeverity, src domain.TriggerSource, ctx domain.TriggerContext, day domain.DaySchedule) domain.TriggerEvent {
	return domain.TriggerEvent{
		ID:              d.newID(),
		Type:            typ,
		Severity:        sev,
		DetectedAt:      d.now(),
		Source:          src,
		Context:         ctx,
		AffectedSlotIDs: AffectedSlotIDs(day, ctx.CurrentTime),
	}
}

// AffectedSlotIDs lists every slot starting at or after now, in day order.
func AffectedSlotIDs(day domain.DaySchedule, now timeutil.Clock) []string {
	ids := []string{}
	for _, s := range day.Slots {
		if s.ScheduledStart >= now {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

func DelaySeverity(minutes int) domain.TriggerSeverity {
	switch {
	case minutes <= 10:
		return domain.TriggerLow
	case minutes <= 30:
		return domain.TriggerMedium
	case minutes <= 60:
		return domain.TriggerHigh
	default:
		return domain.TriggerCritical
	}
}

func StateSeverity(state domain.UserState) domain.TriggerSeverity {
	switch state {
	case domain.StateSlightTired, domain.StateRunningLate:
		return domain.TriggerMedium
	case domain.StateVeryTired, domain.StateNeedBreak:
		return domain.TriggerHigh
	case domain.StateDoneForDay, domain.StateSick:
		return domain.TriggerCritical
	case domain.StateEnergized, domain.StateEarly, domain.StateNone:
		return domain.TriggerLow
	}
	return domain.TriggerLow
}
