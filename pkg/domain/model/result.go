package model

// Target names the outbound call a result belongs to
type Target string

const (
	TargetEvent        Target = "event"
	TargetSubscription Target = "subscription"
)

// String returns the string representation
func (t Target) String() string {
	return string(t)
}

// ForwardStatus is the outcome of a single outbound call
type ForwardStatus string

const (
	ForwardStatusSent    ForwardStatus = "sent"
	ForwardStatusSkipped ForwardStatus = "skipped"
	ForwardStatusFailed  ForwardStatus = "failed"
)

// String returns the string representation
func (s ForwardStatus) String() string {
	return string(s)
}

// ForwardResult reports what happened to one outbound call
type ForwardResult struct {
	Target Target        `json:"target" yaml:"target"`
	Status ForwardStatus `json:"status" yaml:"status"`
	Detail string        `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Sent builds a successful result
func Sent(target Target) ForwardResult {
	return ForwardResult{Target: target, Status: ForwardStatusSent}
}

// Skipped builds a skipped result
func Skipped(target Target, detail string) ForwardResult {
	return ForwardResult{Target: target, Status: ForwardStatusSkipped, Detail: detail}
}

// Failed builds a failed result
func Failed(target Target, detail string) ForwardResult {
	return ForwardResult{Target: target, Status: ForwardStatusFailed, Detail: detail}
}

// ForwardResults is the fixed [event, subscription] outcome pair
type ForwardResults []ForwardResult

// Failures returns only failed results
func (r ForwardResults) Failures() ForwardResults {
	var failed ForwardResults
	for _, res := range r {
		if res.Status == ForwardStatusFailed {
			failed = append(failed, res)
		}
	}
	return failed
}

// HasFailure reports whether any call failed
func (r ForwardResults) HasFailure() bool {
	return len(r.Failures()) > 0
}
