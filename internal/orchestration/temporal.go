package orchestration

import (
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"
)

var TemporalClient client.Client

// InitTemporalClient dials address and routes the SDK's logs through logger.
func InitTemporalClient(address string, logger *zap.Logger) (client.Client, error) {
	c, err := client.Dial(client.Options{
		HostPort: address,
		Identity: "infralens-api",
		Logger:   temporalLogger{s: logger.Named("temporal").Sugar()},
	})
	if err != nil {
		logger.Warn("unable to create Temporal client", zap.String("address", address), zap.Error(err))
		return nil, err
	}

	TemporalClient = c
	return c, nil
}

func CloseTemporalClient() {
	if TemporalClient != nil {
		TemporalClient.Close()
		TemporalClient = nil
	}
}

// temporalLogger adapts zap to the SDK's key/value logger.
type temporalLogger struct {
	s *zap.SugaredLogger
}

func (l temporalLogger) Debug(msg string, keyvals ...interface{}) { l.s.Debugw(msg, keyvals...) }
func (l temporalLogger) Info(msg string, keyvals ...interface{})  { l.s.Infow(msg, keyvals...) }
func (l temporalLogger) Warn(msg string, keyvals ...interface{})  { l.s.Warnw(msg, keyvals...) }
func (l temporalLogger) Error(msg string, keyvals ...interface{}) { l.s.Errorw(msg, keyvals...) }
