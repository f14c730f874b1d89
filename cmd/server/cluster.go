package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/jengzang/riskzones-backend-go/internal/models"
	"github.com/jengzang/riskzones-backend-go/internal/observability"
	"github.com/jengzang/riskzones-backend-go/internal/repository"
	"github.com/jengzang/riskzones-backend-go/internal/service"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// cluster flags
var (
	clusterLimit    int
	clusterRegion   string
	clusterCategory string
	clusterSeed     int64
)

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Run one clustering pass and print the result as JSON",
	Long: `Run the same clustering the /api/v1/clusters endpoint runs, against the
configured store, and write the payload to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		rt, err := loadApp(ctx)
		if err != nil {
			return err
		}
		defer rt.db.Close()

		seed := rt.cfg.ClusterSeed
		if cmd.Flags().Changed("seed") {
			seed = clusterSeed
		}

		svc := service.NewClusterService(
			repository.NewIncidentRepository(rt.db, rt.clustering.Tags.Ignored...),
			rt.clustering,
			seed,
			clockwork.NewRealClock(),
			rt.logger,
			observability.NewMetrics(prometheus.NewRegistry()), // one-shot run, nothing scrapes it
		)

		result, err := svc.Cluster(ctx, models.ClusterQuery{
			Limit:    clusterLimit,
			Region:   clusterRegion,
			Category: clusterCategory,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	clusterCmd.Flags().IntVar(&clusterLimit, "limit", service.DefaultClusterLimit, "working-set size (clamped to [500, 10000])")
	clusterCmd.Flags().StringVar(&clusterRegion, "region", "", "only incidents in this region")
	clusterCmd.Flags().StringVar(&clusterCategory, "category", "", "only incidents of this category")
	clusterCmd.Flags().Int64Var(&clusterSeed, "seed", 0, "random seed (overrides CLUSTER_SEED)")
}
