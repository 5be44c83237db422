package scheduler

// Job is the scheduler-internal representation of a job.
type Job struct {
	// Opaque id, unique within one simulation.
	Id string
	// Number of hosts requested.
	NumHosts uint32
	// User-supplied upper bound on runtime, in seconds.
	// Treated as exact when projecting releases.
	Walltime float64
	// Time at which the submission was observed.
	SubmitTime float64
}

func (j *Job) GetSubmitTime() float64 {
	return j.SubmitTime
}

func (j *Job) GetWalltime() float64 {
	return j.Walltime
}

func (j *Job) GetNumHosts() uint32 {
	return j.NumHosts
}
