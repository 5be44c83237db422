package simulator

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/easysched-project/easysched/internal/scheduler/configuration"
)

// ClusterSpec describes the simulated platform.
type ClusterSpec struct {
	Name string
	// Number of computation hosts. Hosts are indistinguishable.
	NumHosts uint32
}

// WorkloadSpec describes the jobs submitted over one simulation.
type WorkloadSpec struct {
	Name string
	// Individually specified jobs.
	Jobs []*JobSpec
	// Templates expanded into jobs when the spec is initialised.
	Templates []*JobTemplate
}

// JobSpec is one job of a workload.
type JobSpec struct {
	Id         string
	SubmitTime float64
	NumHosts   uint32
	// Upper bound on runtime communicated to the scheduler, seconds.
	Walltime float64
	// Actual runtime. The job completes at start + min(Duration, Walltime).
	// Zero means the job runs for its full walltime.
	Duration float64
}

// JobTemplate expands into Count jobs submitted at a fixed interval.
type JobTemplate struct {
	IdPrefix        string
	Count           int
	NumHosts        uint32
	Walltime        float64
	Duration        float64
	FirstSubmitTime float64
	SubmitInterval  float64
}

// SchedulerSpec names a scheduling configuration to simulate.
type SchedulerSpec struct {
	Name string
	// Decoded from strings such as "spf,lpf@20" by the configuration hook.
	Config configuration.SchedulingConfig
}

// clone returns a deep copy, so that concurrent runs over the same spec
// cannot observe each other's initialisation.
func (spec *WorkloadSpec) clone() *WorkloadSpec {
	rv := &WorkloadSpec{Name: spec.Name}
	for _, job := range spec.Jobs {
		jobCopy := *job
		rv.Jobs = append(rv.Jobs, &jobCopy)
	}
	for _, template := range spec.Templates {
		templateCopy := *template
		rv.Templates = append(rv.Templates, &templateCopy)
	}
	return rv
}

// initialiseWorkloadSpec expands templates into concrete jobs and fills in
// defaulted durations.
func initialiseWorkloadSpec(spec *WorkloadSpec) {
	for _, template := range spec.Templates {
		for i := 0; i < template.Count; i++ {
			spec.Jobs = append(spec.Jobs, &JobSpec{
				Id:         fmt.Sprintf("%s-%d", template.IdPrefix, i),
				SubmitTime: template.FirstSubmitTime + float64(i)*template.SubmitInterval,
				NumHosts:   template.NumHosts,
				Walltime:   template.Walltime,
				Duration:   template.Duration,
			})
		}
	}
	spec.Templates = nil
	for _, job := range spec.Jobs {
		if job.Duration == 0 {
			job.Duration = job.Walltime
		}
	}
}

func validateClusterSpec(spec *ClusterSpec) error {
	if spec.NumHosts == 0 {
		return fmt.Errorf("cluster %s has no hosts", spec.Name)
	}
	return nil
}

func validateWorkloadSpec(spec *WorkloadSpec) error {
	var result *multierror.Error
	seen := map[string]bool{}
	for _, job := range spec.Jobs {
		if job.Id == "" {
			result = multierror.Append(result, fmt.Errorf("job with empty id"))
			continue
		}
		if seen[job.Id] {
			result = multierror.Append(result, fmt.Errorf("duplicate job id %s", job.Id))
		}
		seen[job.Id] = true
		if job.NumHosts == 0 {
			result = multierror.Append(result, fmt.Errorf("job %s requests no hosts", job.Id))
		}
		if job.Walltime <= 0 {
			result = multierror.Append(result, fmt.Errorf("job %s has non-positive walltime", job.Id))
		}
		if job.SubmitTime < 0 {
			result = multierror.Append(result, fmt.Errorf("job %s has negative submit time", job.Id))
		}
		if job.Duration < 0 {
			result = multierror.Append(result, fmt.Errorf("job %s has negative duration", job.Id))
		}
	}
	return result.ErrorOrNil()
}
