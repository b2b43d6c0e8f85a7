package commands

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/reoring/gviz/chart"
	"github.com/reoring/gviz/render"
)

func (a *app) renderConfig(title string) render.Config {
	rc := a.cfg.Render
	return render.Config{
		Title:     title,
		LoaderURL: rc.LoaderURL,
		Packages:  rc.Packages,
		Language:  rc.Language,
	}
}

func (a *app) renderCmd() *cobra.Command {
	var out, title string
	cmd := &cobra.Command{
		Use:   "render SPEC...",
		Short: "Render one or more specs into a standalone HTML page",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				title = args[0]
			}
			page := render.NewPage(a.renderConfig(title))
			client := a.client()
			for _, path := range args {
				spec, err := chart.ReadSpecFile(path)
				if err != nil {
					return err
				}
				w := chart.NewFromSpec(spec, chart.WithEngine(page), chart.WithClient(client))
				var failure error
				w.AddErrorHandler(func(e chart.ErrorEvent) {
					failure = errors.Newf("%s: %s", path, e.Message)
				})
				w.Draw(cmd.Context())
				w.Close()
				if failure != nil {
					return failure
				}
			}
			f, err := output(cmd, out)
			if err != nil {
				return err
			}
			if _, err := page.WriteTo(f); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&title, "title", "", "page title")
	return cmd
}
