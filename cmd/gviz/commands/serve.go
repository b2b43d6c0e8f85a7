package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/reoring/gviz/logger"
	"github.com/reoring/gviz/server"
	"github.com/reoring/gviz/store"
)

func (a *app) serveCmd() *cobra.Command {
	var addr, dir string
	var watch, noStore bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve charts from a spec directory and the chart store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := a.cfg.Server
			if cmd.Flags().Changed("addr") {
				sc.Addr = addr
			}
			if cmd.Flags().Changed("dir") {
				sc.SpecDir = dir
			}
			if cmd.Flags().Changed("watch") {
				sc.Watch = watch
			}

			var st *store.Store
			if !noStore {
				var err error
				if st, err = a.openStore(cmd); err != nil {
					return err
				}
				defer st.Close()
			}

			rc := a.renderConfig("")
			srv, err := server.New(server.Options{
				Addr:           sc.Addr,
				SpecDir:        sc.SpecDir,
				Watch:          sc.Watch,
				AllowedOrigins: sc.AllowedOrigins,
				Render:         rc,
				Bridge:         a.cfg.Render.Bridge,
				Store:          st,
				Client:         a.client(),
			})
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			err = srv.ListenAndServe(ctx)
			logger.Infow("server stopped")
			return err
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&dir, "dir", "", "spec directory")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload spec files when they change")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "do not open the chart store")
	return cmd
}
