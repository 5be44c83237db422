package simulator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easysched-project/easysched/internal/scheduler/configuration"
)

func runSimulation(t *testing.T, cluster *ClusterSpec, workload *WorkloadSpec, scheduler *SchedulerSpec) *SimulationResult {
	s, err := NewSimulator(cluster, workload, scheduler)
	require.NoError(t, err)
	result, err := s.Run(context.Background())
	require.NoError(t, err)
	return result
}

func resultsById(result *SimulationResult) map[string]*JobResult {
	rv := make(map[string]*JobResult, len(result.Jobs))
	for _, job := range result.Jobs {
		rv[job.Id] = job
	}
	return rv
}

func TestBasicWorkloadRunsToCompletion(t *testing.T) {
	result := runSimulation(t, GetTinyCluster(), GetBasicWorkload(), GetFcfsScheduler())
	require.Len(t, result.Jobs, 3)

	jobs := resultsById(result)
	// job-1 takes the whole platform immediately; the others start together
	// when it completes.
	assert.Equal(t, 0.0, jobs["job-1"].StartTime)
	assert.Equal(t, []uint32{0, 1, 2, 3}, jobs["job-1"].Hosts)
	assert.Equal(t, 100.0, jobs["job-2"].StartTime)
	assert.Equal(t, 100.0, jobs["job-3"].StartTime)
	assert.Equal(t, 1100.0, result.Makespan)
	for _, job := range result.Jobs {
		assert.True(t, job.Started, job.Id)
		assert.False(t, job.Rejected, job.Id)
	}
}

func TestBackfillShortensWaits(t *testing.T) {
	// A narrow short job behind a blocked wide head must run during the
	// drain rather than after it.
	workload := &WorkloadSpec{
		Name: "backfill",
		Jobs: []*JobSpec{
			{Id: "runner", SubmitTime: 0, NumHosts: 2, Walltime: 100},
			{Id: "wide", SubmitTime: 10, NumHosts: 4, Walltime: 50},
			{Id: "short", SubmitTime: 10, NumHosts: 2, Walltime: 90},
		},
	}
	result := runSimulation(t, GetTinyCluster(), workload, GetFcfsScheduler())
	jobs := resultsById(result)

	assert.Equal(t, 10.0, jobs["short"].StartTime)
	assert.Equal(t, 100.0, jobs["wide"].StartTime)
}

func TestOversizedJobIsRejected(t *testing.T) {
	workload := &WorkloadSpec{
		Name: "oversized",
		Jobs: []*JobSpec{
			{Id: "big", SubmitTime: 0, NumHosts: 5, Walltime: 10},
			{Id: "ok", SubmitTime: 0, NumHosts: 1, Walltime: 10},
		},
	}
	result := runSimulation(t, GetTinyCluster(), workload, GetFcfsScheduler())
	jobs := resultsById(result)

	assert.True(t, jobs["big"].Rejected)
	assert.False(t, jobs["big"].Started)
	assert.True(t, jobs["ok"].Started)
}

func TestEarlyCompletionFreesHostsEarly(t *testing.T) {
	// A job finishing well under its walltime hands its hosts back at its
	// actual end time.
	workload := &WorkloadSpec{
		Name: "early",
		Jobs: []*JobSpec{
			{Id: "over-estimated", SubmitTime: 0, NumHosts: 4, Walltime: 1000, Duration: 10},
			{Id: "next", SubmitTime: 5, NumHosts: 4, Walltime: 10},
		},
	}
	result := runSimulation(t, GetTinyCluster(), workload, GetFcfsScheduler())
	jobs := resultsById(result)

	assert.Equal(t, 10.0, jobs["over-estimated"].EndTime)
	assert.Equal(t, 10.0, jobs["next"].StartTime)
}

func TestTemplateExpansion(t *testing.T) {
	workload := WithTemplateWorkload("templated", &JobTemplate{
		IdPrefix:        "batch",
		Count:           3,
		NumHosts:        1,
		Walltime:        10,
		FirstSubmitTime: 0,
		SubmitInterval:  5,
	})
	result := runSimulation(t, GetTinyCluster(), workload, GetFcfsScheduler())
	require.Len(t, result.Jobs, 3)

	jobs := resultsById(result)
	assert.Equal(t, 0.0, jobs["batch-0"].SubmitTime)
	assert.Equal(t, 5.0, jobs["batch-1"].SubmitTime)
	assert.Equal(t, 10.0, jobs["batch-2"].SubmitTime)
	for _, job := range result.Jobs {
		// The platform is never full, so every job starts on submission.
		assert.Equal(t, job.SubmitTime, job.StartTime, job.Id)
	}
}

func TestWorkloadValidation(t *testing.T) {
	tests := map[string]struct {
		jobs []*JobSpec
	}{
		"duplicate ids": {
			jobs: []*JobSpec{
				{Id: "a", NumHosts: 1, Walltime: 1},
				{Id: "a", NumHosts: 1, Walltime: 1},
			},
		},
		"zero hosts": {
			jobs: []*JobSpec{{Id: "a", NumHosts: 0, Walltime: 1}},
		},
		"non-positive walltime": {
			jobs: []*JobSpec{{Id: "a", NumHosts: 1, Walltime: 0}},
		},
		"negative submit time": {
			jobs: []*JobSpec{{Id: "a", NumHosts: 1, Walltime: 1, SubmitTime: -1}},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewSimulator(
				GetTinyCluster(),
				&WorkloadSpec{Name: "bad", Jobs: tc.jobs},
				GetFcfsScheduler(),
			)
			assert.Error(t, err)
		})
	}
}

func TestSummarize(t *testing.T) {
	result := &SimulationResult{
		Makespan: 200,
		Jobs: []*JobResult{
			{Id: "a", SubmitTime: 0, StartTime: 0, EndTime: 100, Started: true},
			{Id: "b", SubmitTime: 0, StartTime: 100, EndTime: 200, Started: true},
			{Id: "c", Rejected: true},
		},
	}
	summary := Summarize(result)
	assert.Equal(t, 3, summary.NumJobs)
	assert.Equal(t, 2, summary.NumStarted)
	assert.Equal(t, 1, summary.NumRejected)
	assert.Equal(t, 200.0, summary.Makespan)
	assert.Equal(t, 50.0, summary.MeanWait)
	assert.Equal(t, 100.0, summary.MaxWait)
	// a: max(1, 100/100) = 1; b: max(1, 200/100) = 2.
	assert.Equal(t, 1.5, summary.MeanBoundedSlowdown)
}

func TestSchedulerSpecConfigOrdersRuns(t *testing.T) {
	// The same workload under SPF starts the short job first.
	workload := &WorkloadSpec{
		Name: "spf",
		Jobs: []*JobSpec{
			{Id: "long", SubmitTime: 0, NumHosts: 4, Walltime: 100},
			{Id: "short", SubmitTime: 0, NumHosts: 4, Walltime: 10},
		},
	}
	config, err := configuration.Parse("spf")
	require.NoError(t, err)
	result := runSimulation(t, GetTinyCluster(), workload, &SchedulerSpec{Name: "spf", Config: config})
	jobs := resultsById(result)

	assert.Equal(t, 0.0, jobs["short"].StartTime)
	assert.Equal(t, 10.0, jobs["long"].StartTime)
}
