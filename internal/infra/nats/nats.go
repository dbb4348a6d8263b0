package natsclient

import (
	"fmt"
	"time"

	"github.com/keremkk/kisalink/config"
	"github.com/nats-io/nats.go"
)

// Connect opens the NATS connection carrying the click event stream and
// returns its JetStream context. The click pipeline tolerates broker
// restarts, so reconnection is left to the client with a generous cap.
func Connect(cfg config.NATSConfig) (*nats.Conn, nats.JetStreamContext, error) {
	host, port := cfg.Host, cfg.Port
	if host == "" {
		host = "localhost"
	}
	if port == 0 {
		port = 4222
	}

	opts := []nats.Option{
		nats.Name("kisalink"),
		nats.Timeout(5 * time.Second),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
	}
	if cfg.User != "" {
		opts = append(opts, nats.UserInfo(cfg.User, cfg.Password))
	}

	conn, err := nats.Connect(fmt.Sprintf("nats://%s:%d", host, port), opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("nats: connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("nats: init jetstream: %w", err)
	}
	return conn, js, nil
}
