package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testJob struct {
	submitTime float64
	walltime   float64
	numHosts   uint32
}

func (j testJob) GetSubmitTime() float64 { return j.submitTime }
func (j testJob) GetWalltime() float64   { return j.walltime }
func (j testJob) GetNumHosts() uint32    { return j.numHosts }

func TestKey(t *testing.T) {
	job := testJob{submitTime: 100, walltime: 50, numHosts: 8}
	tests := map[string]struct {
		policy      Policy
		now         float64
		expectedKey float64
	}{
		"fcfs is submit time":          {policy: FCFS, now: 200, expectedKey: 100},
		"lcfs is negated submit time":  {policy: LCFS, now: 200, expectedKey: -100},
		"spf is walltime":              {policy: SPF, now: 200, expectedKey: 50},
		"lpf is negated walltime":      {policy: LPF, now: 200, expectedKey: -50},
		"sqf is host count":            {policy: SQF, now: 200, expectedKey: 8},
		"lqf is negated host count":    {policy: LQF, now: 200, expectedKey: -8},
		"exp is negated expansion":     {policy: EXP, now: 200, expectedKey: -(100 + 50) / 50.0},
		"exp at submit time is minus1": {policy: EXP, now: 100, expectedKey: -1},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expectedKey, tc.policy.Key(job, tc.now))
		})
	}
}

func TestExpKeyGrowsWithWait(t *testing.T) {
	// The EXP key depends on now: the same job must sort earlier as it waits.
	job := testJob{submitTime: 0, walltime: 10, numHosts: 1}
	early := EXP.Key(job, 10)
	late := EXP.Key(job, 100)
	assert.Less(t, late, early)
}

func TestFromString(t *testing.T) {
	for _, name := range []string{"fcfs", "lcfs", "spf", "lpf", "sqf", "lqf", "exp"} {
		p, ok := FromString(name)
		require.True(t, ok, name)
		assert.Equal(t, name, p.String())
	}
	_, ok := FromString("sjf")
	assert.False(t, ok)
	_, ok = FromString("FCFS")
	assert.False(t, ok)
}
