package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pathprobe/pathprobe/pkg/lsdb"
	"github.com/pathprobe/pathprobe/pkg/pipeline"
)

// runCommand creates the run command, which parses a dump and renders the
// topology in one step.
func (c *CLI) runCommand() *cobra.Command {
	var (
		formatsStr string
		popts      parseOpts
		ropts      renderOpts
	)

	cmd := &cobra.Command{
		Use:   "run <db-file>",
		Short: "Parse a dump and render the topology in one step",
		Long: `Parse an OSPF link-state database dump and render the topology in one
step. Equivalent to parse followed by render, with both stages cached.

Examples:
  pathprobe run lsdb.txt                    # lsdb.html
  pathprobe run lsdb.txt -f html,dot,json   # multiple formats
  pathprobe run lsdb.txt --interactive      # decide per malformed record`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ropts.formats = parseFormats(formatsStr)
			if ropts.html != "" {
				ropts.formats = []string{pipeline.FormatHTML}
				ropts.output = ropts.html
			}
			if err := pipeline.ValidateFormats(ropts.formats); err != nil {
				return err
			}
			if !cmd.Flags().Changed("physics") {
				ropts.physics = c.Config.Render.Physics
			}
			if ropts.height == "" {
				ropts.height = c.Config.Render.Height
			}
			if ropts.width == "" {
				ropts.width = c.Config.Render.Width
			}
			return c.runPipeline(cmd, args[0], popts, ropts)
		},
	}

	cmd.Flags().BoolVar(&popts.showSkipped, "show-skipped", false, "print skipped malformed LSA blocks")
	cmd.Flags().BoolVar(&popts.interactive, "interactive", false, "prompt skip/abort on each malformed LSA")
	cmd.Flags().BoolVar(&popts.noCache, "no-cache", false, "bypass the pipeline cache")
	cmd.Flags().StringVarP(&ropts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&ropts.html, "html", "", "HTML output path (shorthand for -f html -o <path>)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): html (default), dot, svg, png, json (comma-separated)")
	cmd.Flags().StringVar(&ropts.title, "title", "", "HTML page title")
	cmd.Flags().StringVar(&ropts.height, "height", "", "HTML canvas height (default 750px)")
	cmd.Flags().StringVar(&ropts.width, "width", "", "HTML canvas width (default 100%)")
	cmd.Flags().BoolVar(&ropts.physics, "physics", false, "enable the force layout")
	cmd.Flags().StringVar(&ropts.template, "template", "", "custom HTML template path")

	return cmd
}

func (c *CLI) runPipeline(cmd *cobra.Command, input string, popts parseOpts, ropts renderOpts) error {
	runner := c.newRunner(cmd, popts.noCache)
	defer runner.Close()

	opts := c.pipelineOptions()
	opts.Source = input
	opts.KeepSkippedLines = popts.showSkipped || popts.interactive
	opts.Formats = ropts.formats
	opts.Title = ropts.title
	opts.Height = ropts.height
	opts.Width = ropts.width
	opts.Physics = ropts.physics
	opts.TemplatePath = ropts.template
	if popts.interactive {
		opts.Refresh = true
		opts.OnSkip = func(rec lsdb.SkippedLSA) lsdb.SkipDecision {
			return promptSkip(rec)
		}
	}

	var spin *Spinner
	if !popts.interactive {
		spin = newSpinner(cmd.Context(), "Building topology from "+input)
		spin.Start()
	}

	result, err := runner.Execute(cmd.Context(), opts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	stats := result.Database.Stats()
	if stats.Skipped > 0 {
		printWarning("Skipped %d malformed LSA record(s)", stats.Skipped)
		if popts.showSkipped {
			reportSkipped(result.Database.SkippedLSAs)
		}
	}

	printSuccess("Built topology from %s", input)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.GhostCount,
		result.CacheInfo.ParseHit && result.CacheInfo.RenderHit)
	printDetail("run %s · parse %s · build %s · render %s",
		result.RunID,
		result.Stats.ParseTime.Round(timeResolution),
		result.Stats.BuildTime.Round(timeResolution),
		result.Stats.RenderTime.Round(timeResolution))

	if err := writeArtifacts(result.Artifacts, ropts.formats, ropts.output, input); err != nil {
		return err
	}

	printNextStep("Preview it", fmt.Sprintf("%s serve %s", appName, input))
	return nil
}
