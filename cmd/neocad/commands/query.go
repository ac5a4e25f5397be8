package commands

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/teranos/neocad/database"
	"github.com/teranos/neocad/display"
	"github.com/teranos/neocad/errors"
	"github.com/teranos/neocad/filters"
	"github.com/teranos/neocad/logger"
	"github.com/teranos/neocad/models"
	"github.com/teranos/neocad/write"
)

type queryOptions struct {
	date      string
	startDate string
	endDate   string

	minDistance float64
	maxDistance float64
	minVelocity float64
	maxVelocity float64
	minDiameter float64
	maxDiameter float64

	hazardous    bool
	notHazardous bool

	where   []string
	limit   int
	outfile string
	format  string
}

// NewQueryCmd builds the query command bound to s.
func NewQueryCmd(s *Session) *cobra.Command {
	cmd, _ := newQueryCmd(s)
	return cmd
}

func newQueryCmd(s *Session) (*cobra.Command, *queryOptions) {
	opts := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "query [flags]",
		Short: "Query close approaches",
		Long: `Find close approaches matching every given criterion.

Dates use YYYY-MM-DD, distances are in au, velocities in km/s and
diameters in km. Bounds are inclusive.

Without --outfile, results print to the terminal and are capped at
query.default_limit. With --outfile they are written in the format the
extension selects (.csv, .json, .yaml, .db) and are uncapped unless
--limit is given.

Examples:
  neocad query --date 2020-01-01
  neocad query --start-date 2020-01-01 --end-date 2020-12-31 --max-distance 0.025
  neocad query --hazardous --min-diameter 1 --limit 5
  neocad query --where "velocity ge 30" --outfile fast.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, s, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.date, "date", "d", "", "Only approaches on this date (YYYY-MM-DD)")
	f.StringVarP(&opts.startDate, "start-date", "s", "", "Only approaches on or after this date")
	f.StringVarP(&opts.endDate, "end-date", "e", "", "Only approaches on or before this date")
	f.Float64Var(&opts.minDistance, "min-distance", 0, "Minimum approach distance in au")
	f.Float64Var(&opts.maxDistance, "max-distance", 0, "Maximum approach distance in au")
	f.Float64Var(&opts.minVelocity, "min-velocity", 0, "Minimum relative velocity in km/s")
	f.Float64Var(&opts.maxVelocity, "max-velocity", 0, "Maximum relative velocity in km/s")
	f.Float64Var(&opts.minDiameter, "min-diameter", 0, "Minimum NEO diameter in km")
	f.Float64Var(&opts.maxDiameter, "max-diameter", 0, "Maximum NEO diameter in km")
	f.BoolVar(&opts.hazardous, "hazardous", false, "Only potentially hazardous NEOs")
	f.BoolVar(&opts.notHazardous, "not-hazardous", false, "Only NEOs that are not potentially hazardous")
	f.StringArrayVarP(&opts.where, "where", "w", nil, `Extra filter "attribute op value", repeatable (e.g. "velocity ge 30")`)
	f.IntVarP(&opts.limit, "limit", "l", 0, "Maximum number of results (0 = unlimited)")
	f.StringVarP(&opts.outfile, "outfile", "o", "", "Write results to a .csv, .json, .yaml or .db file")
	f.StringVarP(&opts.format, "format", "f", "", "Terminal output format: table, plain, json")
	cmd.MarkFlagsMutuallyExclusive("hazardous", "not-hazardous")
	cmd.MarkFlagsMutuallyExclusive("outfile", "format")

	return cmd, opts
}

// criteria maps the flags the user actually set onto query criteria.
func (o *queryOptions) criteria(cmd *cobra.Command) (filters.Criteria, error) {
	var c filters.Criteria
	flags := cmd.Flags()

	dates := []struct {
		name  string
		raw   string
		field **time.Time
	}{
		{"date", o.date, &c.Date},
		{"start-date", o.startDate, &c.StartDate},
		{"end-date", o.endDate, &c.EndDate},
	}
	for _, d := range dates {
		if !flags.Changed(d.name) {
			continue
		}
		t, err := models.ParseDate(d.raw)
		if err != nil {
			return c, errors.WithHint(
				errors.NewInvalidRequestError("--%s %q is not a date", d.name, d.raw),
				"dates use the form YYYY-MM-DD")
		}
		*d.field = &t
	}

	numbers := []struct {
		name  string
		value float64
		field **float64
	}{
		{"min-distance", o.minDistance, &c.DistanceMin},
		{"max-distance", o.maxDistance, &c.DistanceMax},
		{"min-velocity", o.minVelocity, &c.VelocityMin},
		{"max-velocity", o.maxVelocity, &c.VelocityMax},
		{"min-diameter", o.minDiameter, &c.DiameterMin},
		{"max-diameter", o.maxDiameter, &c.DiameterMax},
	}
	for _, n := range numbers {
		if flags.Changed(n.name) {
			v := n.value
			*n.field = &v
		}
	}

	switch {
	case o.hazardous:
		c.Hazardous = ptr(true)
	case o.notHazardous:
		c.Hazardous = ptr(false)
	}

	return c, nil
}

// predicates combines the criteria filters with any --where expressions.
func (o *queryOptions) predicates(cmd *cobra.Command) ([]filters.Filter, error) {
	c, err := o.criteria(cmd)
	if err != nil {
		return nil, err
	}
	fs := filters.CreateFilters(c)
	for _, expr := range o.where {
		f, err := filters.ParseFilter(expr)
		if err != nil {
			return nil, errors.WithHint(err, "attributes: date, distance, velocity, diameter, hazardous; operators: eq, ne, lt, le, gt, ge")
		}
		fs = append(fs, f)
	}
	return fs, nil
}

func runQuery(cmd *cobra.Command, s *Session, opts *queryOptions) error {
	ctx := logger.WithRequestID(cmd.Context(), uuid.NewString())
	ctx = logger.WithComponent(ctx, "query")
	log := logger.LoggerFromContext(ctx)

	fs, err := opts.predicates(cmd)
	if err != nil {
		return err
	}

	db, err := s.Database(ctx)
	if err != nil {
		return err
	}

	for _, f := range fs {
		log.Debugw("Filter", logger.FieldFilter, f.String())
	}

	limit := opts.limit
	if !cmd.Flags().Changed("limit") && opts.outfile == "" {
		limit = s.Config.Query.DefaultLimit
	}
	results := filters.Limit(db.Query(database.Predicates(fs)...), limit)

	start := time.Now()
	var n int
	if opts.outfile != "" {
		n, err = write.ToFile(ctx, opts.outfile, results)
	} else {
		format := opts.format
		if format == "" {
			format = s.Config.Query.OutputFormat
		}
		style, perr := display.ParseStyle(format)
		if perr != nil {
			return perr
		}
		n, err = display.RenderApproaches(cmd.OutOrStdout(), style, results)
	}
	if err != nil {
		return err
	}

	log.Infow("Query complete",
		logger.FieldCount, n,
		logger.FieldLimit, limit,
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return nil
}

func ptr[T any](v T) *T { return &v }
