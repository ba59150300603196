package leakguard

// DefaultSpanName is the name of the marker span.
const DefaultSpanName = "TEST_SPAN"

// LeakedSpansMetric counts leaked spans seen at entry.
const LeakedSpansMetric = "leakguard.spans.leaked"

// LeakPolicy decides what happens to a leaked span found at entry.
type LeakPolicy int

const (
	// LeakPolicyEnd ends the leaked span so its data gets exported.
	LeakPolicyEnd LeakPolicy = iota
	// LeakPolicyReport only counts and logs the leak.
	LeakPolicyReport
)

func (p LeakPolicy) String() string {
	switch p {
	case LeakPolicyEnd:
		return "end"
	case LeakPolicyReport:
		return "report"
	default:
		return "unknown"
	}
}

// Option configures a Guard.
type Option func(*Guard)

// WithSpanName overrides the marker span name.
func WithSpanName(name string) Option {
	return func(g *Guard) {
		if name != "" {
			g.spanName = name
		}
	}
}

// WithLeakPolicy sets the leak policy. Default: LeakPolicyEnd.
func WithLeakPolicy(policy LeakPolicy) Option {
	return func(g *Guard) {
		g.policy = policy
	}
}
