package scheduler

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// allocation records the hosts a running job occupies and the time at which
// they are projected to be released.
type allocation struct {
	// Host ids, ascending.
	hosts []uint32
	// start time + walltime.
	endTime float64
}

// Release is one entry of the projected release schedule.
type Release struct {
	EndTime  float64
	NumHosts uint32
}

// ClusterState tracks the free host set and the running allocations.
//
// Invariants: the free set and the allocations partition [0, numHosts), and
// every allocation holds exactly the host count its job requested. Host
// selection is deterministic: Allocate always picks the numerically smallest
// free hosts, so identical event sequences produce identical traces.
type ClusterState struct {
	numHosts uint32
	// Free host ids, ascending.
	free []uint32
	// Running allocations by job id.
	running map[string]*allocation
}

func NewClusterState(numHosts uint32) *ClusterState {
	free := make([]uint32, numHosts)
	for i := range free {
		free[i] = uint32(i)
	}
	return &ClusterState{
		numHosts: numHosts,
		free:     free,
		running:  map[string]*allocation{},
	}
}

func (c *ClusterState) NumHosts() uint32 {
	return c.numHosts
}

func (c *ClusterState) FreeCount() uint32 {
	return uint32(len(c.free))
}

func (c *ClusterState) NumRunning() int {
	return len(c.running)
}

// FreeHosts returns a copy of the free host ids, ascending.
func (c *ClusterState) FreeHosts() []uint32 {
	return slices.Clone(c.free)
}

// Allocate transfers the n smallest free hosts to jobId and records its
// projected end time. The decision loop only calls this after checking
// FreeCount, so underflow indicates a scheduling bug.
func (c *ClusterState) Allocate(jobId string, n uint32, endTime float64) ([]uint32, error) {
	if n > c.FreeCount() {
		return nil, errors.Errorf(
			"allocation underflow: job %s requested %d hosts but only %d are free",
			jobId, n, c.FreeCount(),
		)
	}
	if _, ok := c.running[jobId]; ok {
		return nil, errors.Errorf("job %s is already running", jobId)
	}
	hosts := slices.Clone(c.free[:n])
	c.free = c.free[n:]
	c.running[jobId] = &allocation{hosts: hosts, endTime: endTime}
	return hosts, nil
}

// Release returns jobId's hosts to the free set. Unknown ids are reported
// via the return value so the caller can ignore spurious completions.
func (c *ClusterState) Release(jobId string) bool {
	alloc, ok := c.running[jobId]
	if !ok {
		return false
	}
	delete(c.running, jobId)
	c.free = append(c.free, alloc.hosts...)
	slices.Sort(c.free)
	return true
}

// ProjectedReleases returns the release schedule of all running jobs,
// ascending by end time.
func (c *ClusterState) ProjectedReleases() []Release {
	releases := make([]Release, 0, len(c.running))
	for _, alloc := range c.running {
		releases = append(releases, Release{
			EndTime:  alloc.endTime,
			NumHosts: uint32(len(alloc.hosts)),
		})
	}
	slices.SortFunc(releases, func(a, b Release) bool {
		return a.EndTime < b.EndTime
	})
	return releases
}

// EarliestAvailability returns the earliest time at or after now at which
// need hosts are projected to be free, assuming every running job completes
// exactly at its walltime. Jobs sharing an end time count as a single
// release: the returned time is the first at which the cumulative freed
// count suffices. If the full drain never frees enough hosts the latest end
// time is returned.
func (c *ClusterState) EarliestAvailability(now float64, need uint32) float64 {
	free := c.FreeCount()
	if free >= need {
		return now
	}
	releases := c.ProjectedReleases()
	for _, release := range releases {
		free += release.NumHosts
		if free >= need {
			return release.EndTime
		}
	}
	if len(releases) == 0 {
		return now
	}
	return releases[len(releases)-1].EndTime
}
