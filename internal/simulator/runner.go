package simulator

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/mattn/go-zglob"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/easysched-project/easysched/internal/scheduler/configuration"
)

// RunSimulations loads every spec matching the given glob patterns and runs
// the cartesian product of clusters, workloads and schedulers concurrently.
// Results are returned in run order: clusters outermost, then workloads,
// then schedulers, each in the order their files were matched.
func RunSimulations(ctx context.Context, clusterPattern, workloadPattern, schedulerPattern string) ([]*SimulationResult, error) {
	clusterSpecs, err := ClusterSpecsFromPattern(clusterPattern)
	if err != nil {
		return nil, err
	}
	workloadSpecs, err := WorkloadSpecsFromPattern(workloadPattern)
	if err != nil {
		return nil, err
	}
	schedulerSpecs, err := SchedulerSpecsFromPattern(schedulerPattern)
	if err != nil {
		return nil, err
	}

	type run struct {
		cluster   *ClusterSpec
		workload  *WorkloadSpec
		scheduler *SchedulerSpec
	}
	runs := make([]run, 0, len(clusterSpecs)*len(workloadSpecs)*len(schedulerSpecs))
	for _, clusterSpec := range clusterSpecs {
		for _, workloadSpec := range workloadSpecs {
			for _, schedulerSpec := range schedulerSpecs {
				runs = append(runs, run{clusterSpec, workloadSpec, schedulerSpec})
			}
		}
	}

	results := make([]*SimulationResult, len(runs))
	g, ctx := errgroup.WithContext(ctx)
	for i, r := range runs {
		i, r := i, r
		g.Go(func() error {
			s, err := NewSimulator(r.cluster, r.workload, r.scheduler)
			if err != nil {
				return err
			}
			result, err := s.Run(ctx)
			if err != nil {
				return errors.WithMessagef(err, "simulation %s/%s/%s failed",
					r.cluster.Name, r.workload.Name, r.scheduler.Name)
			}
			log.Infof("run %s finished: cluster %s, workload %s, scheduler %s",
				result.RunId, result.Cluster, result.Workload, result.Scheduler)
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func ClusterSpecsFromPattern(pattern string) ([]*ClusterSpec, error) {
	filePaths, err := zglob.Glob(pattern)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	rv := make([]*ClusterSpec, len(filePaths))
	for i, filePath := range filePaths {
		spec := &ClusterSpec{}
		if err := unmarshalSpecFile(filePath, spec); err != nil {
			return nil, err
		}
		if spec.Name == "" {
			spec.Name = specNameFromFilePath(filePath)
		}
		rv[i] = spec
	}
	return rv, nil
}

func WorkloadSpecsFromPattern(pattern string) ([]*WorkloadSpec, error) {
	filePaths, err := zglob.Glob(pattern)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	rv := make([]*WorkloadSpec, len(filePaths))
	for i, filePath := range filePaths {
		spec := &WorkloadSpec{}
		if err := unmarshalSpecFile(filePath, spec); err != nil {
			return nil, err
		}
		if spec.Name == "" {
			spec.Name = specNameFromFilePath(filePath)
		}
		rv[i] = spec
	}
	return rv, nil
}

func SchedulerSpecsFromPattern(pattern string) ([]*SchedulerSpec, error) {
	filePaths, err := zglob.Glob(pattern)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	rv := make([]*SchedulerSpec, len(filePaths))
	for i, filePath := range filePaths {
		spec := &SchedulerSpec{}
		if err := unmarshalSpecFile(filePath, spec); err != nil {
			return nil, err
		}
		if spec.Name == "" {
			spec.Name = specNameFromFilePath(filePath)
		}
		rv[i] = spec
	}
	return rv, nil
}

func unmarshalSpecFile(filePath string, spec interface{}) error {
	v := viper.New()
	v.SetConfigFile(filePath)
	if err := v.ReadInConfig(); err != nil {
		return errors.WithMessagef(err, "failed to read in spec %s", filePath)
	}
	if err := v.Unmarshal(spec, configuration.CustomHooks...); err != nil {
		return errors.WithMessagef(err, "failed to unmarshal spec %s", filePath)
	}
	return nil
}

func specNameFromFilePath(filePath string) string {
	fileName := filepath.Base(filePath)
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}
