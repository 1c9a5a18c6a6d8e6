package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nmarchais/selekt/config"
	"github.com/nmarchais/selekt/core/codec"
	"github.com/nmarchais/selekt/core/sink"
	"github.com/nmarchais/selekt/infra/logger"

	// register built-in decoders and sinks
	_ "github.com/nmarchais/selekt/infra/codec"
	_ "github.com/nmarchais/selekt/infra/sink"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Dry-run decoder and sink selection for the configured streams",
	RunE:  showRoutes,
}

func init() {
	rootCmd.AddCommand(routesCmd)
}

// showRoutes reports, for every stream, which decoder wins first-match
// selection and how many sinks each route constructs. Sinks built during
// the dry run are closed immediately.
func showRoutes(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.NopLogger{}
	out := cmd.OutOrStdout()
	for _, sc := range cfg.Streams {
		spec := codec.StreamSpec{Stream: sc.Name, Topic: sc.Topic, ContentType: sc.ContentType}
		decs := codec.SelectAll(spec, codec.Options{Stream: sc.Name, Conf: sc.Decoder, Log: log})
		if len(decs) == 0 {
			fmt.Fprintf(out, "stream %s: no decoder matches\n", sc.Name)
			continue
		}
		names := make([]string, 0, len(decs))
		for _, d := range decs {
			names = append(names, d.Name())
		}
		fmt.Fprintf(out, "stream %s: decoder %s (candidates %v)\n", sc.Name, names[0], names)

		for i, rc := range sc.Routes {
			built := sink.Build(
				sink.RouteSpec{Stream: sc.Name, Kind: rc.Kind, Labels: rc.Labels},
				sink.Params{Stream: sc.Name, Conf: rc.Conf, Log: log},
			)
			kinds := make([]string, 0, len(built))
			for _, s := range built {
				kinds = append(kinds, s.Name())
				if err := s.Close(); err != nil {
					return fmt.Errorf("stream %s: close %s: %w", sc.Name, s.Name(), err)
				}
			}
			fmt.Fprintf(out, "  route %d (%s): %d sink(s) %v\n", i, rc.Kind, len(built), kinds)
		}
	}
	return nil
}
