package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/neocad/display"
	"github.com/teranos/neocad/errors"
	"github.com/teranos/neocad/logger"
	"github.com/teranos/neocad/models"
)

type inspectOptions struct {
	designation string
	name        string
	verbose     bool
	json        bool
}

// NewInspectCmd builds the inspect command bound to s.
func NewInspectCmd(s *Session) *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect (--pdes DESIGNATION | --name NAME)",
		Short: "Inspect one near-Earth object",
		Long: `Look up a near-Earth object by primary designation or by IAU name.

Examples:
  neocad inspect --pdes 433
  neocad inspect --name Halley
  neocad inspect --name Eros --verbose   # include every close approach`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, s, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.designation, "pdes", "p", "", "Primary designation of the NEO")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "IAU name of the NEO")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "List the NEO's close approaches")
	cmd.Flags().BoolVarP(&opts.json, "json", "j", false, "Output as JSON")
	cmd.MarkFlagsMutuallyExclusive("pdes", "name")
	cmd.MarkFlagsOneRequired("pdes", "name")

	return cmd
}

func runInspect(cmd *cobra.Command, s *Session, opts *inspectOptions) error {
	db, err := s.Database(cmd.Context())
	if err != nil {
		return err
	}

	var neo *models.NearEarthObject
	if opts.designation != "" {
		neo = db.GetNEOByDesignation(opts.designation)
	} else {
		neo = db.GetNEOByName(opts.name)
	}

	if neo == nil {
		logger.LoggerFromContext(cmd.Context()).Debugw("NEO lookup missed",
			logger.FieldDesignation, opts.designation, logger.FieldName, opts.name)
		return errors.NewNotFoundError("no matching NEOs exist in the database")
	}

	out := cmd.OutOrStdout()
	if opts.json {
		return display.OutputJSON(out, display.Detail(neo, opts.verbose))
	}
	display.RenderNEO(out, neo, opts.verbose)
	return nil
}
