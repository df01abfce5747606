package domain

type PaceMode string

const (
	PaceRelaxed   PaceMode = "relaxed"
	PaceNormal    PaceMode = "normal"
	PaceAmbitious PaceMode = "ambitious"
)

var ValidPaceModes = map[PaceMode]bool{PaceRelaxed: true, PaceNormal: true, PaceAmbitious: true}

type DayType string

const (
	DayFull      DayType = "full"
	DayArrival   DayType = "arrival"
	DayDeparture DayType = "departure"
	DayTravel    DayType = "travel"
)

var ValidDayTypes = map[DayType]bool{DayFull: true, DayArrival: true, DayDeparture: true, DayTravel: true}

type TripMode string

const (
	TripSolo              TripMode = "solo"
	TripCouple            TripMode = "couple"
	TripFamily            TripMode = "family"
	TripMultiGenerational TripMode = "multi_generational"
	TripHoneymoon         TripMode = "honeymoon"
	TripBabymoon          TripMode = "babymoon"
	TripFriends           TripMode = "friends"
	TripBachelor          TripMode = "bachelor"
	TripBusiness          TripMode = "business"
)

var ValidTripModes = map[TripMode]bool{
	TripSolo: true, TripCouple: true, TripFamily: true, TripMultiGenerational: true,
	TripHoneymoon: true, TripBabymoon: true, TripFriends: true, TripBachelor: true,
	TripBusiness: true,
}

// IsFamilyStyle reports whether the trip travels with children or elders.
func (m TripMode) IsFamilyStyle() bool {
	return m == TripFamily || m == TripMultiGenerational
}

// IsRomantic reports whether the trip favours late starts and quiet evenings.
func (m TripMode) IsRomantic() bool {
	return m == TripHoneymoon || m == TripBabymoon
}

type CommutePreference string

const (
	CommuteBalanced CommutePreference = "balanced"
	CommuteShortest CommutePreference = "shortest"
	CommuteScenic   CommutePreference = "scenic"
)

var ValidCommutePreferences = map[CommutePreference]bool{CommuteBalanced: true, CommuteShortest: true, CommuteScenic: true}

type TravelMode string

const (
	ModeWalking TravelMode = "walking"
	ModeTransit TravelMode = "transit"
	ModeTaxi    TravelMode = "taxi"
	ModeMixed   TravelMode = "mixed"
)

type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
	TimeNight     TimeOfDay = "night"
)

type MealType string

const (
	MealNone      MealType = ""
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
)

type WarningType string

const (
	WarnOverlap     WarningType = "overlap"
	WarnRush        WarningType = "rush"
	WarnLongCommute WarningType = "long_commute"
	WarnWeather     WarningType = "weather"
	WarnPace        WarningType = "pace"
	WarnLateNight   WarningType = "late_night"
)

type WarningSeverity string

const (
	SeverityInfo    WarningSeverity = "info"
	SeverityWarning WarningSeverity = "warning"
)

type TriggerType string

const (
	TriggerRunningLate TriggerType = "running_late"
	TriggerUserState   TriggerType = "user_state"
	TriggerClosure     TriggerType = "closure"
	TriggerUserRequest TriggerType = "user_request"
)

type TriggerSeverity string

const (
	TriggerLow      TriggerSeverity = "low"
	TriggerMedium   TriggerSeverity = "medium"
	TriggerHigh     TriggerSeverity = "high"
	TriggerCritical TriggerSeverity = "critical"
)

type TriggerSource string

const (
	SourceMessage TriggerSource = "message"
	SourceDelay   TriggerSource = "delay"
	SourceState   TriggerSource = "user_state"
)

type UserState string

const (
	StateNone        UserState = ""
	StateEnergized   UserState = "energized"
	StateEarly       UserState = "early"
	StateSlightTired UserState = "slight_tired"
	StateRunningLate UserState = "running_late"
	StateVeryTired   UserState = "very_tired"
	StateNeedBreak   UserState = "need_break"
	StateDoneForDay  UserState = "done_for_day"
	StateSick        UserState = "sick"
)

// ValidUserStates is the canonical set of accepted user state strings.
var ValidUserStates = map[UserState]bool{
	StateEnergized: true, StateEarly: true, StateSlightTired: true,
	StateRunningLate: true, StateVeryTired: true, StateNeedBreak: true,
	StateDoneForDay: true, StateSick: true,
}

type ImpactType string

const (
	ImpactDelayed    ImpactType = "delayed"
	ImpactImpossible ImpactType = "impossible"
)

type BookingRisk string

const (
	BookingSafe     BookingRisk = "safe"
	BookingTight    BookingRisk = "tight"
	BookingAtRisk   BookingRisk = "at_risk"
	BookingWillMiss BookingRisk = "will_miss"
)

// Endangered reports whether the booking needs protecting.
func (r BookingRisk) Endangered() bool {
	return r == BookingAtRisk || r == BookingWillMiss
}

type CascadeEffect string

const (
	CascadeIsolated  CascadeEffect = "isolated"
	CascadePartial   CascadeEffect = "partial_day"
	CascadeRestOfDay CascadeEffect = "rest_of_day"
	CascadeMultiDay  CascadeEffect = "multi_day"
)

type Urgency string

const (
	UrgencyImmediate  Urgency = "immediate"
	UrgencyWithinHour Urgency = "within_hour"
	UrgencyToday      Urgency = "today"
)

type ReshuffleStrategy string

const (
	StrategyCompressBuffer   ReshuffleStrategy = "compress_buffer"
	StrategyShortenActivity  ReshuffleStrategy = "shorten_activity"
	StrategySkipActivity     ReshuffleStrategy = "skip_activity"
	StrategyReplaceActivity  ReshuffleStrategy = "replace_activity"
	StrategyEmergencyReroute ReshuffleStrategy = "emergency_reroute"
	StrategyNoAction         ReshuffleStrategy = "no_action"
)

type RecoveryAction string

const (
	RecoveryShorten RecoveryAction = "shorten"
	RecoverySkip    RecoveryAction = "skip"
)

type ChangeType string

const (
	ChangeShifted   ChangeType = "shifted"
	ChangeShortened ChangeType = "shortened"
	ChangeSkipped   ChangeType = "skipped"
	ChangeSwapped   ChangeType = "swapped"
	ChangeReplaced  ChangeType = "replaced"
	ChangeRemoved   ChangeType = "removed"
	ChangeDeferred  ChangeType = "deferred"
)
