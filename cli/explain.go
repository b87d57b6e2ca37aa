package cli

import (
	"fmt"

	"anyFeatures/anylize"
	"anyFeatures/config"
	"anyFeatures/features"

	"github.com/spf13/cobra"
)

func newExplainCmd() *cobra.Command {
	var rawParams string

	cmd := &cobra.Command{
		Use:   "explain <resource> [key=value ...]",
		Short: "Print the EXPLAIN ANALYZE plan of the row query (postgres only)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Engine != config.EnginePostgres {
				return fmt.Errorf("explain requires the %s engine, configured: %s", config.EnginePostgres, cfg.Engine)
			}
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

			b := eng.builder(res)
			p := features.New(b, req, features.WithLogger(logger)).
				Search(res.SearchFields...).
				Filter(res.AllowedFields...).
				Sort(res.DefaultSort)
			if res.DefaultLimit > 0 {
				if _, err := p.Paginate(ctx, res.DefaultLimit); err != nil {
					return err
				}
			}

			r, ok := b.(anylize.Renderer)
			if !ok {
				return fmt.Errorf("builder %T cannot render SQL", b)
			}
			plan, ms, err := anylize.ExplainBuilder(ctx, eng.pool, r)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), plan)
			fmt.Fprintf(cmd.OutOrStdout(), "execution time: %.3f ms\n", ms)
			return nil
		},
	}

	cmd.Flags().StringVar(&rawParams, "params", "", "Raw query string, e.g. 'q=abc&page=2'")
	return cmd
}
