// Package commands implements the gviz command line.
package commands

import (
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/reoring/gviz/datasource"
	"github.com/reoring/gviz/i18n"
	"github.com/reoring/gviz/internal/config"
	"github.com/reoring/gviz/logger"
	"github.com/reoring/gviz/store"
)

// app carries state shared by the commands of one invocation.
type app struct {
	configPath string
	jsonLog    bool
	logLevel   string
	cfg        config.Config
}

// NewRootCmd builds the gviz command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "gviz",
		Short: "Build, convert, store and serve chart specifications",
		Long: `gviz works with chart wrapper specifications: a chart type, options,
an inline data table or a data source URL, and optional views.

Spec files are JSON, YAML (.yaml/.yml) or TOML, picked by extension.

Examples:
  gviz get sales.json vAxis.title
  gviz set sales.yaml legend.position bottom
  gviz render sales.json -o sales.html
  gviz convert sales.json --to toml
  gviz serve --dir ./charts --watch`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default: ./gviz.* or ~/.config/gviz/gviz.*)")
	pf.BoolVar(&a.jsonLog, "json-log", false, "log as JSON")
	pf.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		a.getCmd(),
		a.setCmd(),
		a.renderCmd(),
		a.convertCmd(),
		a.importCmd(),
		a.serveCmd(),
		a.saveCmd(),
		a.loadCmd(),
		a.listCmd(),
		a.deleteCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("json-log") {
		cfg.Log.JSON = a.jsonLog
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg
	if err := logger.Initialize(cfg.Log.JSON, cfg.Log.Level); err != nil {
		return errors.Wrap(err, "initialize logger")
	}
	i18n.SetLanguage(cfg.Language)
	return nil
}

func (a *app) client() *datasource.Client {
	ds := a.cfg.DataSource
	return datasource.NewClient(
		datasource.WithTimeout(ds.Timeout),
		datasource.WithUserAgent(ds.UserAgent),
		datasource.WithMinInterval(ds.MinInterval))
}

func (a *app) openStore(cmd *cobra.Command) (*store.Store, error) {
	path := a.cfg.Store.Path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(err, "create store directory")
		}
	}
	return store.Open(cmd.Context(), path)
}

// output returns stdout, or the named file.
func output(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "create output")
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
