package driver

// Stage is the step a file is in.
type Stage uint8

const (
	StageQueued Stage = iota
	StageLoad
	StageLex
	StageParse
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageQueued:
		return "queued"
	case StageLoad:
		return "loading"
	case StageLex:
		return "lexing"
	case StageParse:
		return "parsing"
	case StageDone:
		return "done"
	case StageFailed:
		return "error"
	default:
		return "unknown"
	}
}

// Finished reports whether the stage is terminal.
func (s Stage) Finished() bool { return s == StageDone || s == StageFailed }

// Event describes a file moving to a new stage. Cached is set on StageDone
// when the result came from the disk cache.
type Event struct {
	File   string
	Stage  Stage
	Cached bool
}

// Observer receives progress events. It is called from worker goroutines
// and must be safe for concurrent use.
type Observer func(Event)
