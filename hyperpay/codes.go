package hyperpay

import "regexp"

// Outcome classifies a gateway result code.
type Outcome int

const (
	OutcomeFailure Outcome = iota
	OutcomeSuccess
	OutcomePending
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomePending:
		return "pending"
	}
	return "failure"
}

// Result code prefixes documented by the gateway. The two patterns do not
// overlap; anything matching neither is a definite failure.
var (
	successCodePattern = regexp.MustCompile(`^(000\.000\.|000\.100\.1|000\.[36])`)
	pendingCodePattern = regexp.MustCompile(`^(000\.200)`)
)

// IsSuccessCode reports whether the transaction completed successfully.
func IsSuccessCode(code string) bool {
	return successCodePattern.MatchString(code)
}

// IsPendingCode reports whether the transaction is still waiting for an
// asynchronous completion.
func IsPendingCode(code string) bool {
	return pendingCodePattern.MatchString(code)
}

// Classify maps a result code to its outcome.
func Classify(code string) Outcome {
	switch {
	case IsSuccessCode(code):
		return OutcomeSuccess
	case IsPendingCode(code):
		return OutcomePending
	default:
		return OutcomeFailure
	}
}
