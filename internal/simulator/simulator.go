// Package simulator replays a workload against the decision engine through
// the serialized wire path, advancing a discrete event clock between
// wakeups. It stands in for the real simulator in tests and experiments.
package simulator

import (
	"container/heap"
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/easysched-project/easysched/pkg/api"
	"github.com/easysched-project/easysched/pkg/edc"
)

type eventKind int

const (
	eventSubmit eventKind = iota
	eventComplete
)

type simEvent struct {
	time float64
	// Tie-breaker keeping event order deterministic.
	sequence int
	kind     eventKind
	jobId    string
}

// eventLog is a priority queue ordered by time, then by sequence number.
type eventLog []*simEvent

func (el eventLog) Len() int { return len(el) }

func (el eventLog) Less(i, j int) bool {
	if el[i].time != el[j].time {
		return el[i].time < el[j].time
	}
	return el[i].sequence < el[j].sequence
}

func (el eventLog) Swap(i, j int) { el[i], el[j] = el[j], el[i] }

func (el *eventLog) Push(x any) { *el = append(*el, x.(*simEvent)) }

func (el *eventLog) Pop() any {
	old := *el
	n := len(old)
	event := old[n-1]
	*el = old[:n-1]
	return event
}

// JobResult records the observed lifecycle of one job.
type JobResult struct {
	Id         string
	SubmitTime float64
	StartTime  float64
	EndTime    float64
	NumHosts   uint32
	Walltime   float64
	Hosts      []uint32
	Started    bool
	Rejected   bool
}

// WaitTime returns the time the job spent pending.
func (r *JobResult) WaitTime() float64 {
	if !r.Started {
		return 0
	}
	return r.StartTime - r.SubmitTime
}

// SimulationResult is the outcome of one simulator run.
type SimulationResult struct {
	RunId     string
	Cluster   string
	Workload  string
	Scheduler string
	Jobs      []*JobResult
	// Time of the last completion.
	Makespan float64
}

// Simulator drives one engine over one workload. Events reach the engine as
// serialized batches and decisions come back the same way, so a run covers
// the full wire path.
type Simulator struct {
	clusterSpec   *ClusterSpec
	workloadSpec  *WorkloadSpec
	schedulerSpec *SchedulerSpec

	engine *edc.EDC
	codec  api.Codec

	eventLog eventLog
	sequence int
	time     float64

	jobsById    map[string]*JobSpec
	resultsById map[string]*JobResult
	makespan    float64
}

// NewSimulator validates the specs and sets up an engine. The engine speaks
// the binary wire format.
func NewSimulator(clusterSpec *ClusterSpec, workloadSpec *WorkloadSpec, schedulerSpec *SchedulerSpec) (*Simulator, error) {
	if err := validateClusterSpec(clusterSpec); err != nil {
		return nil, err
	}
	workloadSpec = workloadSpec.clone()
	initialiseWorkloadSpec(workloadSpec)
	if err := validateWorkloadSpec(workloadSpec); err != nil {
		return nil, err
	}
	engine := edc.NewWithConfig(schedulerSpec.Config, edc.FormatBinary)
	s := &Simulator{
		clusterSpec:   clusterSpec,
		workloadSpec:  workloadSpec,
		schedulerSpec: schedulerSpec,
		engine:        engine,
		codec:         api.NewCodec(true),
		jobsById:      map[string]*JobSpec{},
		resultsById:   map[string]*JobResult{},
	}
	for _, job := range workloadSpec.Jobs {
		s.jobsById[job.Id] = job
		s.resultsById[job.Id] = &JobResult{
			Id:         job.Id,
			SubmitTime: job.SubmitTime,
			NumHosts:   job.NumHosts,
			Walltime:   job.Walltime,
		}
		s.pushEvent(job.SubmitTime, eventSubmit, job.Id)
	}
	return s, nil
}

func (s *Simulator) pushEvent(time float64, kind eventKind, jobId string) {
	heap.Push(&s.eventLog, &simEvent{
		time:     time,
		sequence: s.sequence,
		kind:     kind,
		jobId:    jobId,
	})
	s.sequence++
}

// Run replays the workload to completion and returns the per-job results.
func (s *Simulator) Run(ctx context.Context) (*SimulationResult, error) {
	defer s.engine.Close()

	// The first batch carries the handshake and the platform description,
	// stamped at the simulation epoch.
	first := &api.Message{
		Now: 0,
		Events: []*api.Event{
			api.NewHelloEvent(),
			api.NewSimulationBeginsEvent(s.clusterSpec.NumHosts),
		},
	}
	first.Events = append(first.Events, s.drainEventsAt(0)...)
	if err := s.step(first); err != nil {
		return nil, err
	}

	for s.eventLog.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next := s.eventLog[0].time
		msg := &api.Message{Now: next, Events: s.drainEventsAt(next)}
		s.time = next
		if err := s.step(msg); err != nil {
			return nil, err
		}
	}

	results := make([]*JobResult, 0, len(s.workloadSpec.Jobs))
	for _, job := range s.workloadSpec.Jobs {
		results = append(results, s.resultsById[job.Id])
	}
	return &SimulationResult{
		RunId:     uuid.NewString(),
		Cluster:   s.clusterSpec.Name,
		Workload:  s.workloadSpec.Name,
		Scheduler: s.schedulerSpec.Name,
		Jobs:      results,
		Makespan:  s.makespan,
	}, nil
}

// drainEventsAt pops every pending event stamped at time t and renders it as
// a wire event.
func (s *Simulator) drainEventsAt(t float64) []*api.Event {
	var events []*api.Event
	for s.eventLog.Len() > 0 && s.eventLog[0].time == t {
		event := heap.Pop(&s.eventLog).(*simEvent)
		switch event.kind {
		case eventSubmit:
			job := s.jobsById[event.jobId]
			events = append(events, api.NewJobSubmittedEvent(job.Id, job.NumHosts, job.Walltime))
		case eventComplete:
			events = append(events, api.NewJobCompletedEvent(event.jobId))
		}
	}
	return events
}

// step serializes one batch, invokes the engine, and applies its decisions.
func (s *Simulator) step(msg *api.Message) error {
	input, err := s.codec.Marshal(msg)
	if err != nil {
		return err
	}
	output, err := s.engine.TakeDecisions(input)
	if err != nil {
		return err
	}
	var decisions api.DecisionSet
	if err := s.codec.Unmarshal(output, &decisions); err != nil {
		return err
	}
	return s.applyDecisions(&decisions)
}

func (s *Simulator) applyDecisions(decisions *api.DecisionSet) error {
	now := decisions.Now
	for _, decision := range decisions.Decisions {
		switch decision.Type {
		case api.DecisionTypeEdcHello:
			log.Debugf("engine %s version %s connected", decision.EdcHello.Name, decision.EdcHello.Version)
		case api.DecisionTypeExecuteJob:
			if err := s.applyExecute(decision.Execute, now); err != nil {
				return err
			}
		case api.DecisionTypeRejectJob:
			result, ok := s.resultsById[decision.Reject.JobId]
			if !ok {
				return errors.Errorf("engine rejected unknown job %s", decision.Reject.JobId)
			}
			result.Rejected = true
		default:
			return errors.Errorf("engine emitted decision of unknown type %q", decision.Type)
		}
	}
	return nil
}

func (s *Simulator) applyExecute(execute *api.ExecuteJobDecision, now float64) error {
	job, ok := s.jobsById[execute.JobId]
	if !ok {
		return errors.Errorf("engine started unknown job %s", execute.JobId)
	}
	result := s.resultsById[execute.JobId]
	if result.Started {
		return errors.Errorf("engine started job %s twice", execute.JobId)
	}
	if result.Rejected {
		return errors.Errorf("engine started rejected job %s", execute.JobId)
	}
	hosts, err := api.ParseHostList(execute.HostList)
	if err != nil {
		return err
	}
	if uint32(len(hosts)) != job.NumHosts {
		return errors.Errorf(
			"engine gave job %s %d hosts but it requested %d",
			job.Id, len(hosts), job.NumHosts,
		)
	}
	result.Started = true
	result.StartTime = now
	result.Hosts = hosts
	result.EndTime = now + math.Min(job.Duration, job.Walltime)
	s.makespan = math.Max(s.makespan, result.EndTime)
	s.pushEvent(result.EndTime, eventComplete, job.Id)
	return nil
}
