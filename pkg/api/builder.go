package api

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// MessageBuilder accumulates the decisions of one wakeup.
// Clear must be called with the wakeup time before any Add.
type MessageBuilder struct {
	now       float64
	decisions []*Decision
}

func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{}
}

// Clear discards any previous decisions and stamps the builder with now.
func (b *MessageBuilder) Clear(now float64) {
	b.now = now
	b.decisions = nil
}

func (b *MessageBuilder) AddEdcHello(name, version string) {
	b.decisions = append(b.decisions, &Decision{
		Type:     DecisionTypeEdcHello,
		EdcHello: &EdcHelloDecision{Name: name, Version: version},
	})
}

func (b *MessageBuilder) AddExecuteJob(jobId string, hosts []uint32) {
	b.decisions = append(b.decisions, &Decision{
		Type:    DecisionTypeExecuteJob,
		Execute: &ExecuteJobDecision{JobId: jobId, HostList: FormatHostList(hosts)},
	})
}

func (b *MessageBuilder) AddRejectJob(jobId string) {
	b.decisions = append(b.decisions, &Decision{
		Type:   DecisionTypeRejectJob,
		Reject: &RejectJobDecision{JobId: jobId},
	})
}

// Message returns the decision set accumulated since the last Clear.
func (b *MessageBuilder) Message() *DecisionSet {
	return &DecisionSet{Now: b.now, Decisions: b.decisions}
}

// FormatHostList renders host ids as the wire host list, e.g. "0,1,3".
// Callers must pass ids in ascending order.
func FormatHostList(hosts []uint32) string {
	var sb strings.Builder
	for i, h := range hosts {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(h), 10))
	}
	return sb.String()
}

// ParseHostList is the inverse of FormatHostList.
func ParseHostList(s string) ([]uint32, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	hosts := make([]uint32, len(parts))
	for i, p := range parts {
		h, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid host list %q", s)
		}
		hosts[i] = uint32(h)
	}
	return hosts, nil
}
