package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/thurmanmarka/prayerglide/internal/announce"
	"github.com/thurmanmarka/prayerglide/internal/api"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and, if enabled, the MQTT announcer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := opts.load(cmd)
			if err != nil {
				return err
			}
			r, err := opts.resolveSettings(cmd, settings)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				settings.Server.Address = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if settings.MQTT.Enabled {
				pub, err := announce.NewMQTTPublisher(announce.MQTTConfig{
					Broker:   settings.MQTT.Broker,
					ClientID: settings.MQTT.ClientID,
					Username: settings.MQTT.Username,
					Password: settings.MQTT.Password,
				}, opts.logger)
				if err != nil {
					opts.logger.Warn().Err(err).Msg("MQTT unavailable, announcer disabled")
				} else {
					defer pub.Close()
					a := announce.New(announce.Config{
						Publisher:   pub,
						TopicPrefix: settings.MQTT.TopicPrefix,
						Location:    r.Location,
						Method:      r.Method,
						Asr:         r.Asr,
						Interval:    settings.MQTT.Interval,
						Logger:      opts.logger,
					})
					go func() {
						if err := a.Run(ctx); err != nil {
							opts.logger.Error().Err(err).Msg("announcer error")
						}
					}()
				}
			}

			server := api.NewServer(api.ServerConfig{
				Address:  settings.Server.Address,
				Defaults: r,
				Logger:   opts.logger,
			})

			errc := make(chan error, 1)
			go func() {
				errc <- server.Start()
			}()

			opts.logger.Info().Msg("prayerglide started, press Ctrl+C to stop")

			select {
			case err := <-errc:
				if err != nil {
					return fmt.Errorf("API server error: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			opts.logger.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.address)")
	return cmd
}
