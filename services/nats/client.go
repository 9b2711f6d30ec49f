package nats

import (
	"Tombola/config"
	"Tombola/utils/logger"
	"time"

	"github.com/nats-io/nats.go"
)

// Connect opens the connection used by the event feed.
func Connect(cfg config.NATSConfig) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("tombola"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warnf("[NATS] disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Infof("[NATS] reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("[NATS] connection closed")
		}),
		nats.Timeout(10 * time.Second),
	}
	return nats.Connect(cfg.URL, opts...)
}
