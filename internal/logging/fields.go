package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType classifies a log line for filtering ("record_saved", "tick_blocked").
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to try next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldAlert flags warnings or anomalies that should stand out in structured logs.
	FieldAlert = "alert"
	// FieldState is the monitor state reached by a tick.
	FieldState = "state"
	// FieldTick is the monotonically increasing monitor tick number.
	FieldTick = "tick"
	// FieldPlayer is the resolved player name a line refers to.
	FieldPlayer = "player"
	// FieldHash is the content hash of a team record.
	FieldHash = "hash"
	// FieldGenerals holds the resolved general slots of a team.
	FieldGenerals = "generals"
	// FieldDecision records which identity branch produced a name.
	FieldDecision = "decision"
)
