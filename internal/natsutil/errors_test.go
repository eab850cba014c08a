package natsutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
)

func TestIsConnectivityError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "nats timeout", err: nats.ErrTimeout, want: true},
		{name: "no servers", err: nats.ErrNoServers, want: true},
		{name: "disconnected", err: nats.ErrDisconnected, want: true},
		{name: "connection closed", err: nats.ErrConnectionClosed, want: true},
		{name: "reconnect buffer exceeded", err: nats.ErrReconnectBufExceeded, want: true},
		{name: "wrapped connection closed", err: fmt.Errorf("publishing report: %w", nats.ErrConnectionClosed), want: true},
		{name: "connection refused string", err: errors.New("dial tcp 127.0.0.1:4222: connect: connection refused"), want: true},
		{name: "io timeout string", err: errors.New("read tcp: i/o timeout"), want: true},
		{name: "payload too large", err: nats.ErrMaxPayload, want: false},
		{name: "unrelated error", err: errors.New("invalid subject"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsConnectivityError(tt.err))
		})
	}
}
