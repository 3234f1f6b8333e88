// Package events publishes disbursement results for downstream
// consumers (audit trails, notification services). Emission is always
// best-effort; a failed publish never fails a submission.
package events

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/fystack/multisend/pkg/common/logger"
)

const DefaultSubject = "multisend.disbursement"

type DisbursementEvent struct {
	AttemptID   string `json:"attempt_id"`
	ChainID     string `json:"chain_id"`
	Asset       string `json:"asset"`
	TxHash      string `json:"tx_hash,omitempty"`
	ExplorerURL string `json:"explorer_url,omitempty"`
	Total       string `json:"total"`
	Recipients  int    `json:"recipients"`
	Succeeded   bool   `json:"succeeded"`
	Error       string `json:"error,omitempty"`
	Timestamp   int64  `json:"timestamp"`
}

type Emitter interface {
	EmitResult(event DisbursementEvent) error
	Close()
}

// NewEmitter selects the emitter from configuration: a NATS emitter
// when url is set, the no-op emitter otherwise.
func NewEmitter(url, subject string) (Emitter, error) {
	if url == "" {
		return NewNopEmitter(), nil
	}
	return NewNATSEmitter(url, subject)
}

type natsEmitter struct {
	nc      *nats.Conn
	subject string
}

func NewNATSEmitter(url, subject string) (Emitter, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	if subject == "" {
		subject = DefaultSubject
	}

	opts := []nats.Option{
		nats.MaxReconnects(-1), // retry forever
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectHandler(func(nc *nats.Conn) {
			logger.Warn("Disconnected from NATS")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}
	return &natsEmitter{nc: nc, subject: subject}, nil
}

func (e *natsEmitter) EmitResult(event DisbursementEvent) error {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UTC().Unix()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return e.nc.Publish(e.subject, data)
}

func (e *natsEmitter) Close() {
	if e.nc != nil {
		e.nc.Close()
	}
}

type nopEmitter struct{}

// NewNopEmitter returns an emitter that discards every event, for
// setups without a message queue.
func NewNopEmitter() Emitter { return nopEmitter{} }

func (nopEmitter) EmitResult(DisbursementEvent) error { return nil }
func (nopEmitter) Close()                             {}
