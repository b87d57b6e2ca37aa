package cli

import (
	"encoding/json"
	"time"

	"anyFeatures/config"
	"anyFeatures/features"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func planFor(r config.Resource) features.Plan {
	return features.Plan{
		SearchFields:  r.SearchFields,
		AllowedFields: r.AllowedFields,
		DefaultSort:   r.DefaultSort,
		DefaultLimit:  r.DefaultLimit,
	}
}

func newQueryCmd() *cobra.Command {
	var rawParams string

	cmd := &cobra.Command{
		Use:   "query <resource> [key=value ...]",
		Short: "Run a query and print {data, pagination} as JSON",
		Example: `  anyfeatures query deliveries client_id=7 page=2 limit=10
  anyfeatures query deliveries --params 'q=abc&sort=-price,name'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := cfg.Resource(args[0])
			if err != nil {
				return err
			}
			req, err := parseParams(rawParams, args[1:])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			eng, err := openEngine(ctx, cfg)
			if err != nil {
				return err
			}
			defer eng.Close()

			log := logger.With("run_id", uuid.NewString(), "resource", args[0])
			start := time.Now()
			out, err := features.Run(ctx, eng.builder(res), req, planFor(res), features.WithLogger(log))
			if err != nil {
				log.Error("query failed", "error", err)
				return err
			}
			log.Info("query complete", "rows", len(out.Data), "duration", time.Since(start))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVar(&rawParams, "params", "", "Raw query string, e.g. 'q=abc&page=2'")
	return cmd
}
