package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	pperrors "github.com/pathprobe/pathprobe/pkg/errors"
	"github.com/pathprobe/pathprobe/pkg/lsdb"
)

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	output      string // output file path (stdout if empty)
	showSkipped bool   // print malformed LSA blocks with line numbers
	interactive bool   // prompt skip/abort on each malformed LSA
	noCache     bool   // bypass the parse cache
}

// parseCommand creates the parse command.
func (c *CLI) parseCommand() *cobra.Command {
	var opts parseOpts

	cmd := &cobra.Command{
		Use:   "parse <db-file>",
		Short: "Parse an OSPF link-state database dump into JSON",
		Long: `Parse an OSPF link-state database text dump into structured JSON.

Router, network, and summary LSAs are extracted with a line-oriented block
scanner. Malformed records are skipped and counted rather than failing the
run; use --show-skipped to inspect them or --interactive to decide per
record.

Examples:
  pathprobe parse lsdb.txt                    # JSON to stdout
  pathprobe parse lsdb.txt -o lsdb.json       # JSON to file
  pathprobe parse lsdb.txt --show-skipped     # report malformed blocks
  pathprobe parse lsdb.txt --interactive      # skip/abort prompt per block`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runParse(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.showSkipped, "show-skipped", false, "print skipped malformed LSA blocks")
	cmd.Flags().BoolVar(&opts.interactive, "interactive", false, "prompt skip/abort on each malformed LSA")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the parse cache")

	return cmd
}

func (c *CLI) runParse(cmd *cobra.Command, input string, opts parseOpts) error {
	runner := c.newRunner(cmd, opts.noCache)
	defer runner.Close()

	popts := c.pipelineOptions()
	popts.Source = input
	popts.KeepSkippedLines = opts.showSkipped || opts.interactive
	if opts.interactive {
		// Prompting must see fresh records, not a cached database.
		popts.Refresh = true
		popts.OnSkip = func(rec lsdb.SkippedLSA) lsdb.SkipDecision {
			return promptSkip(rec)
		}
	}

	var spin *Spinner
	if !opts.interactive {
		spin = newSpinner(cmd.Context(), "Parsing "+input)
		spin.Start()
	}

	prog := newProgress(c.Logger)
	db, hit, err := runner.ParseWithCacheInfo(cmd.Context(), popts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	stats := db.Stats()
	prog.done(fmt.Sprintf("Parsed %d routers, %d networks, %d summaries",
		stats.Routers, stats.Networks, stats.Summaries))

	if stats.Skipped > 0 {
		printWarning("Skipped %d malformed LSA record(s)", stats.Skipped)
		if opts.showSkipped {
			reportSkipped(db.SkippedLSAs)
		} else {
			printDetail("Run with --show-skipped for details")
		}
	}
	if db.Empty() {
		printWarning("No LSA records found in %s", input)
	}

	if err := writeDatabase(db, opts.output); err != nil {
		return err
	}
	if opts.output != "" {
		printSuccess("Wrote database")
		printFile(opts.output)
		printStatus(hit)
		printNextStep("Render it", fmt.Sprintf("%s render %s", appName, opts.output))
	}
	return nil
}

// reportSkipped prints each skipped record with its source location.
func reportSkipped(skipped []lsdb.SkippedLSA) {
	for _, rec := range skipped {
		printDetail("%s LSA at lines %d-%d: %s", rec.Type, rec.StartLine, rec.EndLine, rec.Reason)
		for _, line := range rec.Lines {
			printDetail("    %s", line)
		}
	}
}

// printStatus prints a cached/fresh marker.
func printStatus(cached bool) {
	if cached {
		printDetail("%s", styleCached.Render(iconCached))
	} else {
		printDetail("%s", styleComputed.Render(iconFresh))
	}
}

// writeDatabase serializes db as JSON to path (or stdout if empty).
func writeDatabase(db *lsdb.Database, path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return lsdb.WriteJSON(db, out)
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	if err := pperrors.ValidateOutputPath(path); err != nil {
		return nil, err
	}
	return os.Create(path)
}
