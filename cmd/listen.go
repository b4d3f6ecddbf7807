package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/formcheck/internal/pipeline"
	"github.com/abhisek/formcheck/internal/pose"
	"github.com/abhisek/formcheck/internal/stream"
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Classify pose frames from MQTT and publish verdicts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateMQTT(); err != nil {
			return err
		}
		buffer, _ := cmd.Flags().GetInt("buffer")

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		client, err := stream.NewClient(stream.ClientConfig{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
		})
		if err != nil {
			return err
		}
		defer client.Close()

		frames := make(chan pose.Frame, buffer)
		sub := stream.NewSubscriber(client.Native(), cfg.MQTT.PoseTopic, frames)
		if err := sub.Subscribe(); err != nil {
			return err
		}
		defer sub.Unsubscribe()

		var pub *stream.Publisher
		if cfg.MQTT.VerdictTopic != "" {
			pub = stream.NewPublisher(client.Native(), cfg.MQTT.VerdictTopic)
		}

		log.Printf("listening: exercise=%s model=%s session=%s", cfg.Exercise, cfg.Model, s.ID)
		return serve(ctx, s.ID, pipeline.Run(ctx, s.Classifier, frames), pub)
	},
}

// serve publishes every verdict until the pipeline stops.
func serve(ctx context.Context, sessionID string, verdicts <-chan pipeline.Verdict, pub *stream.Publisher) error {
	for v := range verdicts {
		if v.Err != nil {
			log.Printf("classify frame %d from %s: %v", v.Frame.Seq, v.Frame.Device, v.Err)
		}
		if pub == nil {
			continue
		}
		session := v.Frame.Session
		if session == "" {
			session = sessionID
		}
		msg := stream.NewVerdictMessage(session, v.Frame.Device, v.Frame.Seq, v.Result, v.Err)
		if err := pub.PublishVerdict(msg); err != nil {
			log.Printf("%v", err)
		}
	}
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("listen: %w", err)
	}
	log.Println("listen: stopped")
	return nil
}

func init() {
	listenCmd.Flags().Int("buffer", 64, "Frames queued before new frames are dropped")
}
