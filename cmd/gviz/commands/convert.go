package commands

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/reoring/gviz/chart"
	"github.com/reoring/gviz/datatable"
)

func (a *app) convertCmd() *cobra.Command {
	var to, out string
	cmd := &cobra.Command{
		Use:   "convert SPEC",
		Short: "Convert a spec between JSON, YAML and TOML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := chart.ReadSpecFile(args[0])
			if err != nil {
				return err
			}
			f, ok := chart.FindFormatByName(to)
			if !ok && to == "" && out != "" {
				f, ok = chart.FormatFromPath(out)
			}
			if !ok {
				return errors.WithHint(errors.Newf("unknown format %q", to), "use --to json, yaml or toml")
			}
			return writeSpec(cmd, spec, f, out)
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "json, yaml or toml (default: from --output extension)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	return cmd
}

func writeSpec(cmd *cobra.Command, spec chart.Spec, f chart.Format, out string) error {
	data, err := chart.EncodeSpec(spec, f)
	if err != nil {
		return err
	}
	w, err := output(cmd, out)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return errors.Wrap(err, "write spec")
	}
	return w.Close()
}

func (a *app) importCmd() *cobra.Command {
	var sheet, chartType, to, out string
	var firstRowIsData bool
	cmd := &cobra.Command{
		Use:   "import XLSX",
		Short: "Build a spec from an Excel sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dt, err := datatable.FromExcel(args[0], sheet, firstRowIsData)
			if err != nil {
				return err
			}
			w := chart.New()
			w.SetChartType(chartType)
			w.SetDataTable(dt)
			f, ok := chart.FindFormatByName(to)
			if !ok && out != "" {
				f, ok = chart.FormatFromPath(out)
			}
			if !ok {
				f = chart.FormatJSON
			}
			return writeSpec(cmd, w.Spec(), f, out)
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", "", "sheet name (default: first sheet)")
	cmd.Flags().StringVar(&chartType, "chart-type", "Table", "chart type of the new spec")
	cmd.Flags().BoolVar(&firstRowIsData, "no-header", false, "the first row holds data, not labels")
	cmd.Flags().StringVar(&to, "to", "", "json, yaml or toml")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	return cmd
}
