package publish

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
)

type natsPublisher struct {
	nc *nats.Conn
}

func NewNATSPublisher(ctx context.Context, url string) (Publisher, error) {
	_ = ctx
	if url == "" {
		url = nats.DefaultURL
	}

	nc, err := nats.Connect(url, nats.Name("capture-resolver"))
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}

	return &natsPublisher{nc: nc}, nil
}

func (p *natsPublisher) Publish(ctx context.Context, subject string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.nc.Publish(subject, payload)
}

func (p *natsPublisher) Close() error {
	if p.nc != nil {
		return p.nc.Drain()
	}
	return nil
}
