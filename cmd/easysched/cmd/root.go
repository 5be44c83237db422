package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	commonslices "github.com/easysched-project/easysched/internal/common/slices"
	"github.com/easysched-project/easysched/internal/simulator"
)

func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "easysched",
		Short: "Replay HPC workloads against the EASY backfilling engine.",
		RunE:  runSimulations,
	}
	cmd.Flags().String("clusters", "", "Glob pattern specifying cluster specs to simulate.")
	cmd.Flags().String("workloads", "", "Glob pattern specifying workload specs to simulate.")
	cmd.Flags().String("schedulers", "", "Glob pattern specifying scheduler specs to simulate.")
	cmd.Flags().Bool("verbose", false, "Log engine decisions.")
	return cmd
}

func runSimulations(cmd *cobra.Command, args []string) error {
	clusterPattern, err := cmd.Flags().GetString("clusters")
	if err != nil {
		return err
	}
	workloadPattern, err := cmd.Flags().GetString("workloads")
	if err != nil {
		return err
	}
	schedulerPattern, err := cmd.Flags().GetString("schedulers")
	if err != nil {
		return err
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}
	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	results, err := simulator.RunSimulations(cmd.Context(), clusterPattern, workloadPattern, schedulerPattern)
	if err != nil {
		return err
	}

	log.Infof("finished %d runs: %v", len(results),
		commonslices.Map(results, func(r *simulator.SimulationResult) string { return r.RunId }))
	for _, result := range results {
		summary := simulator.Summarize(result)
		log.Infof(
			"%s/%s/%s: %d jobs (%d started, %d rejected), makespan %.1fs, mean wait %.1fs, max wait %.1fs, mean bounded slowdown %.2f",
			result.Cluster, result.Workload, result.Scheduler,
			summary.NumJobs, summary.NumStarted, summary.NumRejected,
			summary.Makespan, summary.MeanWait, summary.MaxWait, summary.MeanBoundedSlowdown,
		)
	}
	return nil
}
