package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/whoAngeel/proshooter-backend-sub000/internal/server"
	"github.com/whoAngeel/proshooter-backend-sub000/internal/utils"
	"github.com/whoAngeel/proshooter-backend-sub000/pkg/reconcile"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the proshooter JSON API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr, _ := cmd.Flags().GetString("listen")

		db, cleanup, err := openDB(cmd, true)
		if err != nil {
			return err
		}
		defer cleanup()

		consolidator := reconcile.New(db, utils.Log)
		srv := server.New(db, consolidator,
			viper.GetString("server.username"),
			viper.GetString("server.password"))
		return srv.Start(listenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
}
