package simulator

import (
	"math"

	commonslices "github.com/easysched-project/easysched/internal/common/slices"
)

// boundedSlowdownFloor keeps very short jobs from dominating the slowdown
// statistic, following the usual bounded-slowdown definition.
const boundedSlowdownFloor = 10.0

// Summary aggregates the per-job outcomes of one run.
type Summary struct {
	NumJobs     int
	NumStarted  int
	NumRejected int
	Makespan    float64
	MeanWait    float64
	MaxWait     float64
	// Mean of max(1, (wait + runtime) / max(runtime, floor)).
	MeanBoundedSlowdown float64
}

// Summarize computes the summary statistics of a simulation result.
func Summarize(result *SimulationResult) Summary {
	summary := Summary{
		NumJobs:  len(result.Jobs),
		Makespan: result.Makespan,
	}
	started := commonslices.Filter(result.Jobs, func(job *JobResult) bool { return job.Started })
	summary.NumStarted = len(started)
	for _, job := range result.Jobs {
		if job.Rejected {
			summary.NumRejected++
		}
	}
	if len(started) == 0 {
		return summary
	}
	waits := commonslices.Map(started, func(job *JobResult) float64 { return job.WaitTime() })
	var waitSum, slowdownSum float64
	for i, job := range started {
		wait := waits[i]
		waitSum += wait
		summary.MaxWait = math.Max(summary.MaxWait, wait)
		runtime := job.EndTime - job.StartTime
		slowdown := (wait + runtime) / math.Max(runtime, boundedSlowdownFloor)
		slowdownSum += math.Max(1, slowdown)
	}
	summary.MeanWait = waitSum / float64(len(started))
	summary.MeanBoundedSlowdown = slowdownSum / float64(len(started))
	return summary
}
