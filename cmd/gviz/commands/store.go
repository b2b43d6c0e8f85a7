package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/reoring/gviz/chart"
)

func (a *app) saveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save NAME SPEC",
		Short: "Store a spec under NAME",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := chart.ReadSpecFile(args[1])
			if err != nil {
				return err
			}
			st, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()
			return st.Save(cmd.Context(), args[0], chart.NewFromSpec(spec))
		},
	}
}

func (a *app) loadCmd() *cobra.Command {
	var to, out string
	cmd := &cobra.Command{
		Use:   "load NAME",
		Short: "Print a stored spec",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()
			w, err := st.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
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
	cmd.Flags().StringVar(&to, "to", "", "json, yaml or toml (default json)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored specs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()
			entries, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTYPE\tUPDATED")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, e.ChartType, e.UpdatedAt.Local().Format(time.DateTime))
			}
			return tw.Flush()
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Remove a stored spec",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()
			return st.Delete(cmd.Context(), args[0])
		},
	}
}
