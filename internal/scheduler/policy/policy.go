// Package policy implements the closed set of queue ordering rules.
// Each policy maps a job and the current time to a real-valued key;
// smaller keys sort first.
package policy

// Job is the view of a job a policy needs to compute its key.
type Job interface {
	GetSubmitTime() float64
	GetWalltime() float64
	GetNumHosts() uint32
}

type Policy int

const (
	// FCFS orders by submission time, oldest first.
	FCFS Policy = iota
	// LCFS orders by submission time, newest first.
	LCFS
	// SPF orders by walltime, shortest first.
	SPF
	// LPF orders by walltime, longest first.
	LPF
	// SQF orders by requested host count, smallest first.
	SQF
	// LQF orders by requested host count, largest first.
	LQF
	// EXP orders by expansion factor (wait + service) / service,
	// largest first.
	EXP
)

var policyNames = map[Policy]string{
	FCFS: "fcfs",
	LCFS: "lcfs",
	SPF:  "spf",
	LPF:  "lpf",
	SQF:  "sqf",
	LQF:  "lqf",
	EXP:  "exp",
}

var policiesByName = map[string]Policy{
	"fcfs": FCFS,
	"lcfs": LCFS,
	"spf":  SPF,
	"lpf":  LPF,
	"sqf":  SQF,
	"lqf":  LQF,
	"exp":  EXP,
}

func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return "unknown"
}

// FromString maps a lowercase policy token to its Policy. Unknown tokens
// return ok == false; callers keep their default in that case.
func FromString(s string) (Policy, bool) {
	p, ok := policiesByName[s]
	return p, ok
}

// Key computes the sort key for j at time now. The EXP key depends on now,
// so keys must be recomputed on every sort rather than cached.
func (p Policy) Key(j Job, now float64) float64 {
	switch p {
	case FCFS:
		return j.GetSubmitTime()
	case LCFS:
		return -j.GetSubmitTime()
	case SPF:
		return j.GetWalltime()
	case LPF:
		return -j.GetWalltime()
	case SQF:
		return float64(j.GetNumHosts())
	case LQF:
		return -float64(j.GetNumHosts())
	case EXP:
		walltime := j.GetWalltime()
		return -((now - j.GetSubmitTime() + walltime) / walltime)
	}
	return 0
}
