package simulator

import (
	"github.com/easysched-project/easysched/internal/scheduler/configuration"
)

func GetTinyCluster() *ClusterSpec {
	return &ClusterSpec{Name: "tiny", NumHosts: 4}
}

func GetBasicWorkload() *WorkloadSpec {
	return &WorkloadSpec{
		Name: "basic",
		Jobs: []*JobSpec{
			{Id: "job-1", SubmitTime: 0, NumHosts: 4, Walltime: 100},
			{Id: "job-2", SubmitTime: 0, NumHosts: 2, Walltime: 10},
			{Id: "job-3", SubmitTime: 0, NumHosts: 1, Walltime: 1000},
		},
	}
}

func GetFcfsScheduler() *SchedulerSpec {
	return &SchedulerSpec{Name: "fcfs", Config: configuration.Default()}
}

func WithTemplateWorkload(name string, template *JobTemplate) *WorkloadSpec {
	return &WorkloadSpec{Name: name, Templates: []*JobTemplate{template}}
}
