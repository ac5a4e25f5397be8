package commands

import (
	"iter"

	"github.com/spf13/cobra"

	"github.com/teranos/neocad/display"
	"github.com/teranos/neocad/filters"
	"github.com/teranos/neocad/logger"
	"github.com/teranos/neocad/models"
)

type listOptions struct {
	limit int
	named bool
	json  bool
}

// NewListCmd builds the command that lists NEOs in catalogue order.
func NewListCmd(s *Session) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List near-Earth objects in catalogue order",
		Long: `List the loaded near-Earth objects in the order of the NEO file.

Without --limit, query.default_limit caps the listing (0 lists everything).

Examples:
  neocad list --limit 20
  neocad list --named --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, s, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "l", 0, "Maximum number of NEOs to list (default query.default_limit)")
	cmd.Flags().BoolVar(&opts.named, "named", false, "Only list NEOs with an IAU name")
	cmd.Flags().BoolVarP(&opts.json, "json", "j", false, "Output as JSON")
	return cmd
}

func runList(cmd *cobra.Command, s *Session, opts *listOptions) error {
	db, err := s.Database(cmd.Context())
	if err != nil {
		return err
	}

	limit := s.Config.Query.DefaultLimit
	if cmd.Flags().Changed("limit") {
		limit = opts.limit
	}

	neos := db.NEOs()
	if opts.named {
		neos = namedOnly(neos)
	}

	out := cmd.OutOrStdout()
	listed := 0
	if opts.json {
		docs := []display.NEODetail{}
		for neo := range filters.LimitSeq(neos, limit) {
			docs = append(docs, display.Detail(neo, false))
		}
		listed = len(docs)
		if err := display.OutputJSON(out, docs); err != nil {
			return err
		}
	} else {
		for neo := range filters.LimitSeq(neos, limit) {
			display.RenderNEO(out, neo, false)
			listed++
		}
	}

	logger.LoggerFromContext(cmd.Context()).Debugw("Listed NEOs",
		logger.FieldNEOCount, listed, "limit", limit, "named_only", opts.named)
	return nil
}

func namedOnly(neos iter.Seq[*models.NearEarthObject]) iter.Seq[*models.NearEarthObject] {
	return func(yield func(*models.NearEarthObject) bool) {
		for neo := range neos {
			if neo.HasName() && !yield(neo) {
				return
			}
		}
	}
}
