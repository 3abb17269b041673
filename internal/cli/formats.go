package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hepplot/pythiaplotter/pkg/parsers"
	"github.com/hepplot/pythiaplotter/pkg/parsers/cmssw"
	"github.com/hepplot/pythiaplotter/pkg/parsers/hepmc"
	"github.com/hepplot/pythiaplotter/pkg/parsers/heppy"
	"github.com/hepplot/pythiaplotter/pkg/parsers/lhe"
	"github.com/hepplot/pythiaplotter/pkg/parsers/pythia8"
)

// allFormats lists every input format the binary knows about, in the
// order they are shown to the user.
func allFormats() []*parsers.Format {
	return []*parsers.Format{
		pythia8.Format,
		hepmc.Format,
		lhe.Format,
		cmssw.Format,
		heppy.Format,
	}
}

// newFormatsCmd creates the formats command, which lists the supported
// input formats and probes whether each one is usable on this machine.
func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported input formats",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printFormats()
		},
	}
}

func printFormats() {
	fmt.Println(StyleTitle.Render("Input formats"))
	for _, f := range allFormats() {
		status := styleAvailable.Render("available")
		usable, err := f.Usable()
		if !usable {
			status = styleUnavailable.Render("unavailable") + " " + StyleDim.Render(err.Error())
		}
		printKeyValue(f.Name, f.Description)
		printKeyValue("", strings.Join([]string{
			"extensions: " + strings.Join(f.Extensions, ", "),
			"default mode: " + f.DefaultMode.String(),
			status,
		}, StyleDim.Render(" · ")))
	}
}
