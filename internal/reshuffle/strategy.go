package reshuffle

import "github.com/alexanderramin/itinera/internal/domain"

// SelectStrategy applies the repair decision table. Rules are checked in
// order and the first match wins.
func SelectStrategy(trigger domain.TriggerEvent, impact domain.ImpactAnalysis, cfg Config) domain.ReshuffleStrategy {
	switch trigger.Context.UserState {
	case domain.StateDoneForDay, domain.StateSick:
		return domain.StrategyEmergencyReroute
	case domain.StateNeedBreak:
		return domain.StrategySkipActivity
	case domain.StateVeryTired:
		return domain.StrategyShortenActivity
	case domain.StateSlightTired:
		return domain.StrategyCompressBuffer
	case domain.StateNone, domain.StateEnergized, domain.StateEarly, domain.StateRunningLate:
	}

	if trigger.Type == domain.TriggerClosure {
		return domain.StrategyReplaceActivity
	}

	delay := impact.TotalDelayMinutes
	if delay <= 0 {
		return domain.StrategyNoAction
	}
	if delay <= cfg.SilentBufferMin {
		return domain.StrategyCompressBuffer
	}
	if impact.HasEndangeredBooking() {
		if delay > 45 {
			return domain.StrategySkipActivity
		}
		return domain.StrategyShortenActivity
	}

	switch {
	case delay <= 15:
		return domain.StrategyCompressBuffer
	case delay <= 30:
		return domain.StrategyShortenActivity
	case delay <= 60:
		return domain.StrategySkipActivity
	case impact.CascadeEffect == domain.CascadeRestOfDay || impact.CascadeEffect == domain.CascadeMultiDay:
		return domain.StrategyEmergencyReroute
	default:
		return domain.StrategySkipActivity
	}
}
