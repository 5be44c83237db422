// Package configuration holds the scheduling configuration and the parser
// for the single-token configuration string handed to the engine at init.
//
// Grammar:
//
//	config   := policies [ '@' hours ]
//	policies := policy [ ',' policy ]
//	policy   := 'exp' | 'fcfs' | 'lcfs' | 'lpf' | 'lqf' | 'spf' | 'sqf'
//	hours    := real number, converted to seconds by ×3600
//
// A single policy token configures both the primary and the backfill order.
// Unknown policy tokens leave the corresponding field at its default (FCFS);
// a malformed hours part is a fatal configuration error.
package configuration

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/easysched-project/easysched/internal/common/edcerrors"
	"github.com/easysched-project/easysched/internal/scheduler/policy"
)

// AgeThresholdDisabled disables the age rescue rule.
const AgeThresholdDisabled = -1.0

// SchedulingConfig selects the queue orders of the decision loop.
type SchedulingConfig struct {
	// Primary orders the whole queue and selects the head.
	Primary policy.Policy
	// Backfill orders the candidates behind the head.
	Backfill policy.Policy
	// AgeThresholdSeconds promotes jobs waiting longer than this to the
	// front of the primary order. Negative means disabled.
	AgeThresholdSeconds float64
}

func Default() SchedulingConfig {
	return SchedulingConfig{
		Primary:             policy.FCFS,
		Backfill:            policy.FCFS,
		AgeThresholdSeconds: AgeThresholdDisabled,
	}
}

func (c SchedulingConfig) AgeRescueEnabled() bool {
	return c.AgeThresholdSeconds >= 0
}

func (c SchedulingConfig) String() string {
	s := fmt.Sprintf("%s,%s", c.Primary, c.Backfill)
	if c.AgeRescueEnabled() {
		s += fmt.Sprintf("@%gh", c.AgeThresholdSeconds/3600)
	}
	return s
}

// Parse parses the configuration string. Single and double quotes are
// stripped before parsing, matching the framing the simulator applies to
// the argument token.
func Parse(arg string) (SchedulingConfig, error) {
	config := Default()

	s := strings.Map(func(r rune) rune {
		if r == '\'' || r == '"' {
			return -1
		}
		return r
	}, arg)
	if s == "" {
		return config, nil
	}

	queuePart := s
	if at := strings.IndexByte(s, '@'); at >= 0 {
		queuePart = s[:at]
		hours, err := strconv.ParseFloat(s[at+1:], 64)
		if err != nil {
			return config, &edcerrors.ErrMalformedConfig{
				Config:  arg,
				Message: fmt.Sprintf("cannot parse threshold %q as hours", s[at+1:]),
			}
		}
		if hours < 0 {
			return config, &edcerrors.ErrMalformedConfig{
				Config:  arg,
				Message: "threshold must be non-negative",
			}
		}
		config.AgeThresholdSeconds = hours * 3600
	}

	primaryToken := queuePart
	backfillToken := queuePart
	if comma := strings.IndexByte(queuePart, ','); comma >= 0 {
		primaryToken = queuePart[:comma]
		backfillToken = queuePart[comma+1:]
	}
	if p, ok := policy.FromString(primaryToken); ok {
		config.Primary = p
	}
	if p, ok := policy.FromString(backfillToken); ok {
		config.Backfill = p
	}
	return config, nil
}
