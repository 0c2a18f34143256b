package model

// ComparisonResult is the outcome of comparing one qualifying field
// against the registry records
type ComparisonResult string

const (
	ComparisonMatch        ComparisonResult = "A"
	ComparisonMismatch     ComparisonResult = "B"
	ComparisonNotRequested ComparisonResult = "C"
	ComparisonNotProvided  ComparisonResult = "D"
)

// ParseComparisonResult maps a wire letter to a ComparisonResult.
// Unrecognized letters return false.
func ParseComparisonResult(s string) (ComparisonResult, bool) {
	switch ComparisonResult(s) {
	case ComparisonMatch, ComparisonMismatch, ComparisonNotRequested, ComparisonNotProvided:
		return ComparisonResult(s), true
	default:
		return "", false
	}
}

// Label returns the symbolic name of the outcome
func (c ComparisonResult) Label() string {
	switch c {
	case ComparisonMatch:
		return "MATCH"
	case ComparisonMismatch:
		return "MISMATCH"
	case ComparisonNotRequested:
		return "NOT_REQUESTED"
	case ComparisonNotProvided:
		return "NOT_PROVIDED"
	default:
		return "UNKNOWN"
	}
}

func (c ComparisonResult) String() string {
	return string(c)
}
