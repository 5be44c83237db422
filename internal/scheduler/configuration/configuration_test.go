package configuration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easysched-project/easysched/internal/common/edcerrors"
	"github.com/easysched-project/easysched/internal/scheduler/policy"
)

func TestParse(t *testing.T) {
	tests := map[string]struct {
		arg      string
		expected SchedulingConfig
	}{
		"empty defaults to fcfs": {
			arg:      "",
			expected: Default(),
		},
		"single policy sets both orders": {
			arg: "spf",
			expected: SchedulingConfig{
				Primary: policy.SPF, Backfill: policy.SPF, AgeThresholdSeconds: AgeThresholdDisabled,
			},
		},
		"two policies": {
			arg: "lqf,lpf",
			expected: SchedulingConfig{
				Primary: policy.LQF, Backfill: policy.LPF, AgeThresholdSeconds: AgeThresholdDisabled,
			},
		},
		"threshold in hours": {
			arg: "spf@20",
			expected: SchedulingConfig{
				Primary: policy.SPF, Backfill: policy.SPF, AgeThresholdSeconds: 72000,
			},
		},
		"two policies with threshold": {
			arg: "lqf,lpf@20",
			expected: SchedulingConfig{
				Primary: policy.LQF, Backfill: policy.LPF, AgeThresholdSeconds: 72000,
			},
		},
		"fractional threshold": {
			arg: "fcfs@0.5",
			expected: SchedulingConfig{
				Primary: policy.FCFS, Backfill: policy.FCFS, AgeThresholdSeconds: 1800,
			},
		},
		"zero threshold is enabled": {
			arg: "fcfs@0",
			expected: SchedulingConfig{
				Primary: policy.FCFS, Backfill: policy.FCFS, AgeThresholdSeconds: 0,
			},
		},
		"quotes are stripped": {
			arg: `'spf,lpf@1'`,
			expected: SchedulingConfig{
				Primary: policy.SPF, Backfill: policy.LPF, AgeThresholdSeconds: 3600,
			},
		},
		"double quotes are stripped": {
			arg: `"exp"`,
			expected: SchedulingConfig{
				Primary: policy.EXP, Backfill: policy.EXP, AgeThresholdSeconds: AgeThresholdDisabled,
			},
		},
		"unknown primary token keeps default": {
			arg: "sjf,lpf",
			expected: SchedulingConfig{
				Primary: policy.FCFS, Backfill: policy.LPF, AgeThresholdSeconds: AgeThresholdDisabled,
			},
		},
		"unknown backfill token keeps default": {
			arg: "spf,bogus",
			expected: SchedulingConfig{
				Primary: policy.SPF, Backfill: policy.FCFS, AgeThresholdSeconds: AgeThresholdDisabled,
			},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			config, err := Parse(tc.arg)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, config)
		})
	}
}

func TestParseMalformedThreshold(t *testing.T) {
	for _, arg := range []string{"spf@", "spf@twenty", "spf@1.2.3", "spf@-1"} {
		t.Run(arg, func(t *testing.T) {
			_, err := Parse(arg)
			require.Error(t, err)
			var malformed *edcerrors.ErrMalformedConfig
			assert.ErrorAs(t, err, &malformed)
		})
	}
}

func TestAgeRescueEnabled(t *testing.T) {
	assert.False(t, Default().AgeRescueEnabled())
	config, err := Parse("fcfs@0")
	require.NoError(t, err)
	assert.True(t, config.AgeRescueEnabled())
}
