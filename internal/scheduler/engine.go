package scheduler

import (
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"

	"github.com/easysched-project/easysched/internal/common/edcerrors"
	"github.com/easysched-project/easysched/internal/scheduler/configuration"
	"github.com/easysched-project/easysched/pkg/api"
)

// Name and Version are reported in the EdcHello handshake.
const (
	Name    = "easysched"
	Version = "1.2.0"
)

// Engine is the decision engine: an EASY backfilling scheduler with
// configurable queue orders and an optional age rescue rule.
//
// The engine is single-threaded; it runs entirely inside the simulator's
// take_decisions callback and holds no state other than the cluster state,
// the pending queue, and its configuration.
type Engine struct {
	config  configuration.SchedulingConfig
	metrics *Metrics
	// Nil until SimulationBegins is observed.
	cluster *ClusterState
	queue   *JobQueue
}

func NewEngine(config configuration.SchedulingConfig) *Engine {
	return &Engine{
		config:  config,
		metrics: newMetrics(),
		queue:   NewJobQueue(),
	}
}

func (e *Engine) Config() configuration.SchedulingConfig {
	return e.config
}

// Metrics returns the engine's prometheus collector for registration.
func (e *Engine) Metrics() *Metrics {
	return e.metrics
}

// HandleMessage runs one decision cycle: it dispatches the event batch into
// the engine state, then runs the decision loop. Decisions are appended to
// builder, which the caller must have cleared with the batch's timestamp.
// A returned error is fatal; engine state remains safe to discard.
func (e *Engine) HandleMessage(msg *api.Message, builder *api.MessageBuilder) error {
	now := msg.Now
	for _, event := range msg.Events {
		if err := e.dispatch(event, now, builder); err != nil {
			return err
		}
	}
	if err := e.schedule(now, builder); err != nil {
		return err
	}
	if e.cluster != nil {
		e.metrics.freeHosts.Set(float64(e.cluster.FreeCount()))
		e.metrics.runningJobs.Set(float64(e.cluster.NumRunning()))
	}
	e.metrics.queuedJobs.Set(float64(e.queue.Len()))
	return nil
}

func (e *Engine) dispatch(event *api.Event, now float64, builder *api.MessageBuilder) error {
	switch event.Type {
	case api.EventTypeHello:
		builder.AddEdcHello(Name, Version)
	case api.EventTypeSimulationBegins:
		if e.cluster != nil {
			return &edcerrors.ErrProtocolViolation{
				Event:   event.Type,
				Message: "simulation already started",
			}
		}
		if event.SimulationBegins == nil {
			return &edcerrors.ErrProtocolViolation{
				Event:   event.Type,
				Message: "missing payload",
			}
		}
		e.cluster = NewClusterState(event.SimulationBegins.HostCount)
		log.Infof("simulation started with %d hosts, scheduling %s", e.cluster.NumHosts(), e.config)
	case api.EventTypeJobSubmitted:
		if event.JobSubmitted == nil {
			return &edcerrors.ErrProtocolViolation{
				Event:   event.Type,
				Message: "missing payload",
			}
		}
		return e.handleJobSubmitted(event.JobSubmitted, now, builder)
	case api.EventTypeJobCompleted:
		if event.JobCompleted == nil {
			return &edcerrors.ErrProtocolViolation{
				Event:   event.Type,
				Message: "missing payload",
			}
		}
		e.handleJobCompleted(event.JobCompleted)
	default:
		// Unknown event types are ignored for forward compatibility.
		log.Debugf("ignoring event of unknown type %q", event.Type)
	}
	return nil
}

func (e *Engine) handleJobSubmitted(submitted *api.JobSubmittedEvent, now float64, builder *api.MessageBuilder) error {
	if e.cluster == nil {
		return &edcerrors.ErrProtocolViolation{
			Event:   api.EventTypeJobSubmitted,
			Message: "job submitted before simulation start",
		}
	}
	job := &Job{
		Id:         submitted.JobId,
		NumHosts:   submitted.NumHosts,
		Walltime:   submitted.Walltime,
		SubmitTime: now,
	}
	if job.NumHosts > e.cluster.NumHosts() {
		log.Warnf("rejecting job %s: requests %d hosts but the platform has %d",
			job.Id, job.NumHosts, e.cluster.NumHosts())
		builder.AddRejectJob(job.Id)
		e.metrics.jobsRejected.Inc()
		return nil
	}
	e.queue.Push(job)
	return nil
}

func (e *Engine) handleJobCompleted(completed *api.JobCompletedEvent) {
	if e.cluster == nil || !e.cluster.Release(completed.JobId) {
		// The simulator reported a completion for a job we never started.
		log.Debugf("ignoring completion of unknown job %s", completed.JobId)
		return
	}
	e.metrics.jobsCompleted.Inc()
}

// schedule runs the EASY decision loop: sort the queue under the primary
// order, start the head if it fits, otherwise reserve the earliest time the
// head could run and backfill every later job that both fits now and is
// bounded to finish by that reservation. Starting the head consumes hosts
// and can change which later jobs fit, so the loop re-evaluates until a
// pass makes no progress.
func (e *Engine) schedule(now float64, builder *api.MessageBuilder) error {
	if e.cluster == nil {
		return nil
	}
	progress := true
	for progress && !e.queue.Empty() {
		progress = false

		e.queue.SortStable(e.primaryLess(now))
		head := e.queue.Front()

		if e.cluster.FreeCount() >= head.NumHosts {
			if err := e.start(head, now, builder, false); err != nil {
				return err
			}
			progress = true
			continue
		}

		horizon := e.cluster.EarliestAvailability(now, head.NumHosts)

		candidates := e.queue.Tail()
		slices.SortStableFunc(candidates, e.backfillLess(now))
		for _, candidate := range candidates {
			if e.cluster.FreeCount() >= candidate.NumHosts && now+candidate.Walltime <= horizon {
				if err := e.start(candidate, now, builder, true); err != nil {
					return err
				}
				progress = true
			}
		}
	}
	return nil
}

func (e *Engine) start(job *Job, now float64, builder *api.MessageBuilder, backfilled bool) error {
	hosts, err := e.cluster.Allocate(job.Id, job.NumHosts, now+job.Walltime)
	if err != nil {
		return err
	}
	e.queue.Remove(job.Id)
	builder.AddExecuteJob(job.Id, hosts)
	if backfilled {
		e.metrics.jobsStarted.WithLabelValues("backfill").Inc()
	} else {
		e.metrics.jobsStarted.WithLabelValues("head").Inc()
	}
	log.Debugf("starting job %s on hosts %v (backfilled: %v)", job.Id, hosts, backfilled)
	return nil
}

// primaryLess orders the queue for head selection. With the age rescue rule
// enabled, jobs waiting longer than the threshold precede all others; the
// policy key breaks ties within each group.
func (e *Engine) primaryLess(now float64) func(a, b *Job) bool {
	primary := e.config.Primary
	threshold := e.config.AgeThresholdSeconds
	rescue := e.config.AgeRescueEnabled()
	return func(a, b *Job) bool {
		if rescue {
			aOld := now-a.SubmitTime > threshold
			bOld := now-b.SubmitTime > threshold
			if aOld != bOld {
				return aOld
			}
		}
		return primary.Key(a, now) < primary.Key(b, now)
	}
}

// backfillLess orders the candidates behind the head. Age is ignored here.
func (e *Engine) backfillLess(now float64) func(a, b *Job) bool {
	backfill := e.config.Backfill
	return func(a, b *Job) bool {
		return backfill.Key(a, now) < backfill.Key(b, now)
	}
}
