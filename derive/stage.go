package derive

// Stage is a step of the per-type pipeline.
//
//	Extracting -> Synthesizing -> Binding -> Done
//	Extracting -> Rejected
type Stage int

const (
	StageExtracting Stage = iota
	StageSynthesizing
	StageBinding
	StageDone
	StageRejected
)

func (s Stage) String() string {
	switch s {
	case StageExtracting:
		return "extracting"
	case StageSynthesizing:
		return "synthesizing"
	case StageBinding:
		return "binding"
	case StageDone:
		return "done"
	case StageRejected:
		return "rejected"
	}
	return "unknown"
}

// Terminal reports whether no stage follows s.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageRejected
}
