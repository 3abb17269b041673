package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	perrors "github.com/hepplot/pythiaplotter/pkg/errors"
	"github.com/hepplot/pythiaplotter/pkg/graph"
	"github.com/hepplot/pythiaplotter/pkg/graph/transform"
	"github.com/hepplot/pythiaplotter/pkg/parsers"
	"github.com/hepplot/pythiaplotter/pkg/render"
)

// plotOpts holds the command-line flags for the plot command.
type plotOpts struct {
	inputFormat     string   // input format tag, empty for extension detection
	eventNumber     int      // which event to read from multi-event files
	mode            string   // graph representation: "node" or "edge"
	output          string   // output base path, defaults to the input path
	outputFormat    string   // image format passed to Graphviz
	renderer        string   // renderer selection: auto, embedded, external
	noRender        bool     // stop after writing DOT
	open            bool     // open the rendered image in a viewer
	highlights      []string // particle names to highlight
	keepRedundants  bool     // skip straight-chain simplification
	hardProcess     bool     // prefer the hard process listing (Pythia 8)
	branchPrefix    string   // ntuple branch prefix (Heppy)
	stylesPath      string   // TOML style sheet, empty for the built-in look
	writeJSON       bool     // also dump the graph as JSON
	stats           bool     // print graph statistics
	removePDGIDs    []int    // PDG IDs to strip from the graph
	removeFinalOnly bool     // restrict stripping to final-state particles
}

// newPlotCmd creates the plot command, the main entry point of the
// tool: parse one event, build and transform its graph, write DOT and
// optionally a rendered image.
func newPlotCmd() *cobra.Command {
	var opts plotOpts

	cmd := &cobra.Command{
		Use:   "plot [file]",
		Short: "Convert an event listing into a particle graph diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.inputFormat, "input-format", "f", "", "input format: pythia8, hepmc, lhe, cmssw, heppy (default: detect by extension)")
	cmd.Flags().IntVarP(&opts.eventNumber, "event-number", "n", 0, "event to read from multi-event files (default: first)")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "graph representation: node, edge (default: format's natural mode)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (default: input path without extension)")
	cmd.Flags().StringVarP(&opts.outputFormat, "output-format", "T", "pdf", "image format: pdf, svg, png, ...")
	cmd.Flags().StringVar(&opts.renderer, "renderer", "auto", "renderer: auto, embedded, external")
	cmd.Flags().BoolVar(&opts.noRender, "no-render", false, "write DOT only, skip image rendering")
	cmd.Flags().BoolVar(&opts.open, "open", false, "open the rendered image in the default viewer")
	cmd.Flags().StringSliceVar(&opts.highlights, "highlight", nil, "particle name to highlight (repeatable)")
	cmd.Flags().BoolVar(&opts.keepRedundants, "keep-redundants", false, "keep same-particle straight chains instead of collapsing them")
	cmd.Flags().BoolVar(&opts.hardProcess, "hard-process", false, "use the hard process listing instead of the full event (pythia8)")
	cmd.Flags().StringVar(&opts.branchPrefix, "branch-prefix", "", "generator particle branch prefix (heppy, default GenPart_)")
	cmd.Flags().StringVar(&opts.stylesPath, "styles", "", "TOML style sheet overriding the built-in look")
	cmd.Flags().BoolVar(&opts.writeJSON, "json", false, "also write the graph as JSON")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "print particle and graph counts")
	cmd.Flags().IntSliceVar(&opts.removePDGIDs, "remove-pdgid", nil, "strip particles with this |PDG ID| from the graph (repeatable)")
	cmd.Flags().BoolVar(&opts.removeFinalOnly, "remove-final-only", false, "restrict --remove-pdgid to final-state particles")

	return cmd
}

func runPlot(ctx context.Context, input string, opts *plotOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	format, err := resolveFormat(input, opts.inputFormat)
	if err != nil {
		return err
	}
	if usable, err := format.Usable(); !usable {
		return err
	}

	ev, err := format.Parse(input, parsers.Options{
		EventNumber:  opts.eventNumber,
		HardProcess:  opts.hardProcess,
		BranchPrefix: opts.branchPrefix,
	})
	if err != nil {
		return err
	}
	logger.Debugf("parsed %d particles from %s (%s)", len(ev.Particles), input, format.Name)
	if opts.eventNumber != 0 && ev.Number != opts.eventNumber {
		logger.Warnf("event %d not found, using event %d", opts.eventNumber, ev.Number)
	}

	mode := format.DefaultMode
	if opts.mode != "" {
		mode, err = graph.ParseMode(opts.mode)
		if err != nil {
			return perrors.Wrap(perrors.ErrCodeInvalidMode, err, "bad --mode value %q", opts.mode)
		}
	}

	g, err := graph.Build(ev, mode)
	if err != nil {
		switch {
		case errors.Is(err, graph.ErrDanglingParent):
			return perrors.Wrap(perrors.ErrCodeDanglingParent, err, "malformed event record in %s", input)
		case errors.Is(err, graph.ErrGraphHasCycle):
			return perrors.Wrap(perrors.ErrCodeGraphCycle, err, "event record in %s is not a tree", input)
		}
		return err
	}
	logger.Debugf("built %s graph: %d nodes, %d edges", mode, g.NodeCount(), g.EdgeCount())

	if !opts.keepRedundants {
		if n := transform.RemoveRedundants(g); n > 0 {
			logger.Debugf("collapsed %d redundant particles", n)
		}
	}
	for _, pdgid := range opts.removePDGIDs {
		if n := transform.RemoveByPDGID(g, pdgid, opts.removeFinalOnly); n > 0 {
			logger.Debugf("removed %d particles with |pdgid| %d", n, pdgid)
		}
	}
	if len(opts.highlights) > 0 {
		set := transform.NewHighlightSet(opts.highlights...)
		if n := transform.Highlight(g, set); n == 0 {
			logger.Warnf("no particles matched %s", strings.Join(opts.highlights, ", "))
		}
	}

	sheet := render.DefaultSheet()
	if opts.stylesPath != "" {
		if sheet, err = render.LoadSheet(opts.stylesPath); err != nil {
			return err
		}
	}

	base := outputBase(input, opts.output)
	gvPath := base + ".gv"
	if err := render.WriteDOTFile(gvPath, g, ev, sheet); err != nil {
		return err
	}
	printFile(gvPath)

	if opts.writeJSON {
		jsonPath := base + ".json"
		if err := graph.WriteJSONFile(g, jsonPath); err != nil {
			return err
		}
		printFile(jsonPath)
	}

	if !opts.noRender {
		if err := rasterize(ctx, gvPath, base, opts); err != nil {
			return err
		}
	}

	prog.done(fmt.Sprintf("plotted %s", filepath.Base(input)))
	if opts.stats {
		printStats(len(ev.Particles), g.NodeCount(), g.EdgeCount())
	}
	return nil
}

// rasterize renders the written DOT file to an image. A missing
// rendering backend degrades to a warning so the DOT output survives.
func rasterize(ctx context.Context, gvPath, base string, opts *plotOpts) error {
	engine, err := render.ParseEngine(opts.renderer)
	if err != nil {
		return err
	}
	dot, err := os.ReadFile(gvPath)
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeInternal, err, "cannot read back %s", gvPath)
	}

	imgPath := base + "." + strings.TrimPrefix(opts.outputFormat, ".")
	spinner := newSpinner(ctx, fmt.Sprintf("rendering %s", filepath.Base(imgPath)))
	spinner.Start()
	err = render.Raster(ctx, dot, imgPath, opts.outputFormat, engine)
	if spinner.Cancelled() {
		spinner.Stop()
		return ctx.Err()
	}

	if err != nil {
		if perrors.Is(err, perrors.ErrCodeRenderUnavailable) {
			spinner.Stop()
			printWarning("%s", perrors.UserMessage(err))
			printWarning("kept %s; render it manually with: dot -T%s %s", gvPath, opts.outputFormat, gvPath)
			return nil
		}
		spinner.StopWithError(fmt.Sprintf("rendering %s failed", filepath.Base(imgPath)))
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("rendered %s", filepath.Base(imgPath)))
	printFile(imgPath)

	if opts.open {
		if err := render.OpenInViewer(imgPath); err != nil {
			printWarning("%s", perrors.UserMessage(err))
		}
	}
	return nil
}

func resolveFormat(input, tag string) (*parsers.Format, error) {
	formats := allFormats()
	if tag != "" {
		return parsers.Lookup(tag, formats...)
	}
	return parsers.Detect(input, formats...)
}

// outputBase derives the shared base path for all outputs. An explicit
// --output keeps its directory and name but sheds a trailing extension.
func outputBase(input, output string) string {
	path := input
	if output != "" {
		path = output
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}
