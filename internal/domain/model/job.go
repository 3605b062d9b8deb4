package model

// Outcome is what the dispatcher did with an event.
type Outcome int

// Dispatch outcomes.
const (
	Fired Outcome = iota
	DroppedUnrecognized
	DroppedQuiet
)

func (o Outcome) String() string {
	switch o {
	case Fired:
		return "fired"
	case DroppedUnrecognized:
		return "dropped_unrecognized"
	case DroppedQuiet:
		return "dropped_quiet"
	default:
		return "unknown"
	}
}

// Result reports how a Job ended. Err is set when the animation aborted or
// the job never ran.
type Result struct {
	Type    EventType
	Outcome Outcome
	Err     error
}

// Job is one unit of work for the strip worker.
type Job struct {
	// Raw is classified by the dispatcher unless Type is already known.
	Raw RawEvent
	// Type is set by transports that name the event directly (HTTP).
	Type EventType
	// Source names the transport for logs and metrics.
	Source string
	// Done, when non-nil, receives exactly one Result. It must be buffered.
	Done chan<- Result
}

// Reply delivers r to the job's Done channel, if any.
func (j Job) Reply(r Result) {
	if j.Done != nil {
		select {
		case j.Done <- r:
		default:
		}
	}
}
