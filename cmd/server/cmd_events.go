package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/infralens/api/internal/config"
	"github.com/infralens/api/internal/eventbus"
)

func newEventsCommand() *cobra.Command {
	var (
		limit  int
		client bool
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print recent analytics events from the event stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			logger, err := newCLILogger()
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			b, closeBackends := connectBackends(cfg, backendSet{nats: true}, logger)
			defer closeBackends()
			if b.events == nil {
				return errors.New("event stream is not reachable")
			}

			subject := eventbus.RecommendationSubject
			if client {
				subject = eventbus.ClientEventSubject
			}
			events, err := b.events.Read(eventbus.AnalyticsStream, subject, limit)
			if err != nil {
				return fmt.Errorf("read %s: %w", subject, err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, ev := range events {
				if err := enc.Encode(ev); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of most recent events to print")
	cmd.Flags().BoolVar(&client, "client", false, "Show client-reported events instead of served recommendations")

	return cmd
}
