package cmd

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/immodash/immodash/internal/server"
	"github.com/immodash/immodash/internal/utils"
	"github.com/immodash/immodash/pkg/ai"
	"github.com/immodash/immodash/pkg/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the immodash web dashboard and API",
	Long: `Start a web server exposing the dashboard, the JSON API and the AI proxy endpoint.
The AI key stays on the server: browsers call /api/proxy/generate instead of the provider.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		ctrl, db, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		cfg, err := aiConfig(cmd)
		if err != nil {
			return err
		}
		var proxy ai.ProxyBackend
		if cfg.APIKey != "" {
			if proxy, err = ai.NewProxyBackend(ctx, cfg); err != nil {
				return err
			}
		} else {
			utils.Log.Warn("No ai.api_key configured: the proxy endpoint will answer with an error")
		}

		unsubscribe := ctrl.Subscribe(func(st app.State) {
			utils.Log.Debugf("State saved: %d entries, %d archives, %d ideas", len(st.Prospection), len(st.Archives), len(st.Ideas))
		})
		defer unsubscribe()
		go ctrl.WatchMonth(ctx, time.Hour, utils.Log)

		srv := server.New(ctrl, proxy, viper.GetString("server.username"), viper.GetString("server.password"))
		return srv.Start(ctx, viper.GetString("server.bind"))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("bind", "b", ":9999", "Address to bind the server to")
	serveCmd.Flags().StringP("username", "u", "", "Username for basic auth (optional)")
	serveCmd.Flags().StringP("password", "p", "", "Password for basic auth (optional)")
	viper.BindPFlag("server.bind", serveCmd.Flags().Lookup("bind"))
	viper.BindPFlag("server.username", serveCmd.Flags().Lookup("username"))
	viper.BindPFlag("server.password", serveCmd.Flags().Lookup("password"))
}
