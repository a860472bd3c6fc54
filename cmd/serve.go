// Package cmd implements the command-line interface for dramasan.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dramasan-cli/dramasan/icon"
	"github.com/dramasan-cli/dramasan/key"
	"github.com/dramasan-cli/dramasan/log"
	"github.com/dramasan-cli/dramasan/relay"
	"github.com/dramasan-cli/dramasan/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("address", "a", "", "Listen address, overrides the configured one")
	lo.Must0(viper.BindPFlag(key.RelayAddress, serveCmd.Flags().Lookup("address")))
}

// serveCmd runs the standalone media relay server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the media relay server",
	Long: `Run the HTTP media relay as a standalone server.

The relay forwards ranged media requests to their origin and streams the
response back, so browser-based players can seek inside progressive files
without tripping over CORS.`,
	Run: func(cmd *cobra.Command, args []string) {
		address := viper.GetString(key.RelayAddress)
		server := relay.NewServer(address)

		errs := make(chan error, 1)
		go func() {
			if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				errs <- err
			}
		}()

		fmt.Printf("%s Relay listening on %s\n", icon.Get(icon.Success), style.Bold(address))

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errs:
			handleErr(err)
		case sig := <-interrupt:
			log.Infof("received %s, shutting down", sig)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		handleErr(server.Shutdown(ctx))
	},
}
