package simulator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easysched-project/easysched/internal/scheduler/policy"
)

func TestClusterSpecsFromPattern(t *testing.T) {
	specs, err := ClusterSpecsFromPattern("testdata/clusters/*.yaml")
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "tiny", specs[0].Name)
	assert.Equal(t, uint32(4), specs[0].NumHosts)
}

func TestWorkloadSpecsFromPattern(t *testing.T) {
	specs, err := WorkloadSpecsFromPattern("testdata/workloads/*.yaml")
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "basic", specs[0].Name)
	assert.Len(t, specs[0].Jobs, 2)
	require.Len(t, specs[0].Templates, 1)
	assert.Equal(t, 4, specs[0].Templates[0].Count)
}

func TestSchedulerSpecsFromPattern(t *testing.T) {
	specs, err := SchedulerSpecsFromPattern("testdata/schedulers/easy-spf.yaml")
	require.NoError(t, err)
	require.Len(t, specs, 1)
	// The decode hook turns the config string into a parsed configuration.
	assert.Equal(t, policy.SPF, specs[0].Config.Primary)
	assert.Equal(t, policy.LPF, specs[0].Config.Backfill)
	assert.Equal(t, 3600.0, specs[0].Config.AgeThresholdSeconds)
}

func TestRunSimulations(t *testing.T) {
	results, err := RunSimulations(
		context.Background(),
		"testdata/clusters/*.yaml",
		"testdata/workloads/*.yaml",
		"testdata/schedulers/*.yaml",
	)
	require.NoError(t, err)
	// One cluster, one workload, two schedulers.
	require.Len(t, results, 2)
	for _, result := range results {
		summary := Summarize(result)
		assert.Equal(t, 6, summary.NumJobs)
		assert.Equal(t, 6, summary.NumStarted)
		assert.Zero(t, summary.NumRejected)
		assert.Positive(t, summary.Makespan)
	}
}
