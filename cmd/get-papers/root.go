// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/get-papers/internal/logger"
	"github.com/pdiddy/get-papers/internal/output"
	"github.com/pdiddy/get-papers/internal/pubmed"
	"github.com/pdiddy/get-papers/internal/store"
	"github.com/pdiddy/get-papers/pkg/types"
)

// options holds flags that are not part of the persisted config.
type options struct {
	file       string
	debug      bool
	db         string
	configFile string
	secretsDir string
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var opts options

	cmd := &cobra.Command{
		Use:   "get-papers <query>",
		Short: "Fetch PubMed papers with pharmaceutical or biotech authors",
		Long: `get-papers searches PubMed for the query, fetches up to 100 matching
articles, and reports for each one the authors whose affiliation names a
pharmaceutical or biotech company, together with their affiliations and the
last author email found.

Results are written as CSV with --file, or printed to the terminal as a
table, JSON, or YAML. Use --db to also export them to a SQLite database.`,
		Args:         cobra.ExactArgs(1),
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Setup(logger.Config{Debug: opts.debug, Out: cmd.ErrOrStderr()})

			cfg, err := loadConfig(v, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], cfg, opts)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "output filename for CSV")
	f.BoolVarP(&opts.debug, "debug", "d", false, "print debug information")
	f.StringVar(&opts.db, "db", "", "also export results to this SQLite database")
	f.StringVar(&opts.configFile, "config", "", "config file (default: ./get-papers.yaml or ~/.config/get-papers/config.yaml)")
	f.StringVar(&opts.secretsDir, "secrets-dir", ".secrets", "directory holding ncbi-api-key and ncbi-email files")

	f.String("format", string(types.FormatTable), "terminal output format: table, json, or yaml")
	f.Int("max-results", defaultMaxResults, fmt.Sprintf("maximum number of PubMed results (at most %d)", pubmed.MaxResultsLimit))
	f.String("keywords", "", "comma-separated affiliation keywords (default pharmaceutical,biotech)")
	f.Duration("timeout", 0, "HTTP request timeout (default none)")
	f.String("base-url", pubmed.DefaultBaseURL, "E-utilities base URL")
	f.Bool("lenient-dates", false, "format partial publication dates instead of failing")
	f.Bool("email-from-affiliation", false, "take author emails from affiliation text when no Email element exists")

	bindFlags(v, cmd)
	return cmd
}

// run is the single error boundary around fetch, parse, and save. Failures
// are printed as "Error: <message>" and do not change the exit status.
func run(ctx context.Context, stdout, stderr io.Writer, query string, cfg types.Config, opts options) {
	if opts.debug {
		fmt.Fprintf(stdout, "Debug: Fetching papers for query: %s\n", query)
	}

	if err := fetchAndSave(ctx, stdout, query, cfg, opts); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
}

func fetchAndSave(ctx context.Context, stdout io.Writer, query string, cfg types.Config, opts options) error {
	client := pubmed.NewClient(cfg.Fetch)
	data, err := client.FetchPapers(ctx, query)
	if err != nil {
		return err
	}

	papers, err := pubmed.Parse(data, pubmed.OptionsFromConfig(cfg.Parse))
	if err != nil {
		return err
	}

	if opts.debug {
		fmt.Fprintf(stdout, "Debug: Found %d papers\n", len(papers))
	}

	if opts.file != "" {
		if err := output.SaveCSV(opts.file, papers); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Results saved to %s\n", opts.file)
	} else if err := output.Print(stdout, cfg.Format, papers); err != nil {
		return err
	}

	if opts.db != "" {
		return exportDB(ctx, stdout, opts.db, query, papers)
	}
	return nil
}

func exportDB(ctx context.Context, stdout io.Writer, path, query string, papers []types.PaperRecord) error {
	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := s.Save(ctx, query, papers)
	if err != nil {
		return fmt.Errorf("exporting to %s: %w", path, err)
	}
	logger.L().Debug("db.exported", "path", path, "search_id", id, "papers", len(papers))
	fmt.Fprintf(stdout, "Exported %d papers to %s\n", len(papers), path)
	return nil
}
