// reads export events from kafka and logs them
package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ds124wfegd/WB_L3/memestudio/config"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/entity"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/pkg/kafka"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := kafka.ConsumeExports(ctx,
		strings.Split(config.GetEnv("KAFKA_BROKERS", "localhost:9094"), ","),
		config.GetEnv("KAFKA_TOPIC", "meme-exports"),
		config.GetEnv("KAFKA_GROUP_ID", "meme-export-log"),
		logExport,
	)
	if err != nil {
		logrus.Fatalf("Export consumer failed: %v", err)
	}
}

func logExport(_ context.Context, event entity.ExportEvent) error {
	logrus.WithFields(logrus.Fields{
		"session_id": event.SessionID,
		"kind":       event.Kind,
		"platform":   event.Platform,
		"filename":   event.Filename,
		"bytes":      event.Bytes,
	}).Info("Meme exported")
	return nil
}
