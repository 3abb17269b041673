package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hepplot/pythiaplotter/pkg/buildinfo"
)

// Execute runs the pythiaplotter CLI.
//
// The logger is attached to the context and accessible to all commands
// via loggerFromContext. Default level is info; --verbose (-v) raises
// it to debug.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "pythiaplotter",
		Short:        "PythiaPlotter draws Monte Carlo event records as particle graphs",
		Long:         `PythiaPlotter converts the event listings printed by Monte Carlo generators (Pythia 8, HepMC, LHE, CMSSW, Heppy ntuples) into directed particle graphs and renders them with Graphviz.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newPlotCmd())
	root.AddCommand(newFormatsCmd())
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}
