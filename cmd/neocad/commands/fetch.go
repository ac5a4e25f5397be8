package commands

import (
	"os"
	"path/filepath"

	"github.com/hashicorp/go-getter"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/neocad/am"
	"github.com/teranos/neocad/errors"
	"github.com/teranos/neocad/logger"
)

type fetchOptions struct {
	neoURL string
	cadURL string
}

// NewFetchCmd builds the command that downloads the data files.
func NewFetchCmd(s *Session) *cobra.Command {
	opts := &fetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the NEO and close approach data files",
		Long: `Download the data files into the configured paths (data.neo_path and
data.cad_path, or --neofile and --cadfile).

Sources come from data.neo_url and data.cad_url unless overridden. Any
source go-getter understands works: http(s), s3, gcs, or a local path.
A file without a source is left untouched.

Examples:
  neocad fetch
  neocad fetch --neos-url https://example.org/neos.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, s, opts)
		},
	}

	cmd.Flags().StringVar(&opts.neoURL, "neos-url", "", "Source of the NEO CSV file (default data.neo_url)")
	cmd.Flags().StringVar(&opts.cadURL, "cad-url", "", "Source of the close approach JSON file (default data.cad_url)")
	return cmd
}

func runFetch(cmd *cobra.Command, s *Session, opts *fetchOptions) error {
	downloads := []struct {
		label string
		src   string
		dst   string
	}{
		{"NEO catalogue", firstNonEmpty(opts.neoURL, s.Config.Data.NEOURL), s.NEOPath},
		{"close approaches", firstNonEmpty(opts.cadURL, s.Config.Data.CADURL), s.CADPath},
	}

	out := cmd.OutOrStdout()
	fetched := 0
	for _, d := range downloads {
		if d.src == "" {
			pterm.Fprintln(out, pterm.Warning.Sprintf("No source configured for the %s, keeping %s", d.label, d.dst))
			continue
		}
		if err := download(cmd, d.src, d.dst); err != nil {
			return errors.Wrapf(err, "failed to fetch %s", d.label)
		}
		pterm.Fprintln(out, pterm.Success.Sprintf("Fetched %s into %s", d.label, d.dst))
		fetched++
	}

	if fetched == 0 {
		return errors.WithHint(
			errors.NewInvalidRequestError("nothing to fetch"),
			"set data.neo_url and data.cad_url with 'neocad am set' or pass --neos-url and --cad-url")
	}
	return nil
}

func download(cmd *cobra.Command, src, dst string) error {
	log := logger.LoggerFromContext(cmd.Context())

	if err := os.MkdirAll(filepath.Dir(dst), am.DefaultDirPermissions); err != nil {
		return errors.Wrap(err, "failed to create data directory")
	}

	pwd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "failed to resolve working directory")
	}
	client := &getter.Client{
		Ctx:     cmd.Context(),
		Src:     src,
		Dst:     dst,
		Pwd:     pwd,
		Mode:    getter.ClientModeFile,
		Getters: getter.Getters,
	}

	log.Infow("Fetching with go-getter", logger.FieldURL, src, logger.FieldFile, dst)
	if err := client.Get(); err != nil {
		return err
	}
	log.Infow("Fetch completed", logger.FieldFile, dst)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
