package eventbus

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

var (
	NATSClient *nats.Conn
	JetStream  nats.JetStreamContext
)

// InitNATSClient connects to natsURL and opens a JetStream context. The
// connection is returned even when JetStream is unavailable.
func InitNATSClient(natsURL string, logger *zap.Logger) (*nats.Conn, error) {
	if natsURL == "" {
		natsURL = nats.DefaultURL
	}
	nc, err := nats.Connect(natsURL,
		nats.Name("infralens-api"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(3),
	)
	if err != nil {
		logger.Warn("error connecting to nats", zap.String("url", natsURL), zap.Error(err))
		return nil, err
	}

	NATSClient = nc

	js, err := nc.JetStream()
	if err != nil {
		logger.Warn("error creating JetStream context", zap.Error(err))
		return nc, err
	}
	JetStream = js

	logger.Info("NATS and JetStream initialized", zap.String("url", natsURL))
	return nc, nil
}

func CloseNATSClient() {
	if NATSClient != nil {
		NATSClient.Drain()
		NATSClient = nil
		JetStream = nil
	}
}

// Publish sends data on subject over core NATS.
func Publish(subject string, data []byte) error {
	if NATSClient == nil {
		return nats.ErrConnectionClosed
	}
	return NATSClient.Publish(subject, data)
}

// HubBreakerSubject carries hub circuit breaker transitions.
const HubBreakerSubject = "ops.hub.breaker"

// Ping round-trips to the server.
func Ping(ctx context.Context) error {
	if NATSClient == nil {
		return nats.ErrConnectionClosed
	}
	return NATSClient.FlushWithContext(ctx)
}
