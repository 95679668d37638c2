package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl"
	"github.com/twmb/franz-go/pkg/sasl/scram"

	"github.com/u1i/crewai-debate/pkg/config"
	"github.com/u1i/crewai-debate/pkg/types"
)

// Event is one debate event on the wire. Kind is "turn", "result" or
// "anomaly"; the remaining fields are populated per kind.
type Event struct {
	SessionID string         `json:"session_id"`
	Kind      string         `json:"kind"`
	Round     int            `json:"round,omitempty"`
	Role      types.Role     `json:"role,omitempty"`
	Text      string         `json:"text,omitempty"`
	Decision  types.Decision `json:"decision,omitempty"`
	Rounds    int            `json:"rounds,omitempty"`
	Summary   string         `json:"summary,omitempty"`
	Message   string         `json:"message,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Sink publishes debate events to a Kafka topic as JSON records keyed by
// session id. Implements debate.Sink. Publishing is best-effort: produce
// failures are logged, never surfaced to the debate loop.
type Sink struct {
	client    *kgo.Client
	topic     string
	sessionID string
}

// NewSink creates a Kafka producer for the configured brokers.
func NewSink(cfg config.StreamConfig, sessionID string) (*Sink, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.SeedBrokers...),
		kgo.RetryTimeout(time.Minute * 2),
		kgo.RetryBackoffFn(func(attempt int) time.Duration {
			return time.Second * time.Duration(attempt)
		}),
	}

	// Add SASL if configured
	if cfg.SASL.Mechanism != "" {
		var mechanism sasl.Mechanism

		switch cfg.SASL.Mechanism {
		case "SCRAM-SHA-256":
			mechanism = scram.Sha256(func(ctx context.Context) (scram.Auth, error) {
				return scram.Auth{
					User: cfg.SASL.Username,
					Pass: cfg.SASL.Password,
				}, nil
			})
		case "SCRAM-SHA-512":
			mechanism = scram.Sha512(func(ctx context.Context) (scram.Auth, error) {
				return scram.Auth{
					User: cfg.SASL.Username,
					Pass: cfg.SASL.Password,
				}, nil
			})
		default:
			return nil, fmt.Errorf("unsupported SASL mechanism: %s", cfg.SASL.Mechanism)
		}

		opts = append(opts, kgo.SASL(mechanism))
	}

	if cfg.TLSEnabled {
		opts = append(opts, kgo.DialTLS())
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka client: %w", err)
	}

	return &Sink{
		client:    client,
		topic:     cfg.Topic,
		sessionID: sessionID,
	}, nil
}

// RecordTurn publishes one turn event.
func (s *Sink) RecordTurn(turn types.Turn, promptSummary string) {
	s.publish(Event{
		SessionID: s.sessionID,
		Kind:      "turn",
		Round:     turn.Round,
		Role:      turn.Role,
		Text:      turn.Text,
		Decision:  turn.Decision,
		Timestamp: turn.Timestamp,
	})
}

// RecordResult publishes the final result event.
func (s *Sink) RecordResult(result *types.DebateResult) {
	s.publish(Event{
		SessionID: s.sessionID,
		Kind:      "result",
		Rounds:    result.Rounds,
		Summary:   result.Summary,
		Timestamp: time.Now(),
	})
}

// RecordAnomaly publishes a recoverable-anomaly event.
func (s *Sink) RecordAnomaly(round int, message string) {
	s.publish(Event{
		SessionID: s.sessionID,
		Kind:      "anomaly",
		Round:     round,
		Message:   message,
		Timestamp: time.Now(),
	})
}

func (s *Sink) publish(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling debate event: %v", err)
		return
	}

	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(s.sessionID),
		Value: payload,
	}

	// Produce with retry logic
	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		err := s.client.ProduceSync(context.Background(), record).FirstErr()
		if err == nil {
			return
		}

		log.Printf("Failed to publish debate event (attempt %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(time.Duration(i+1) * 500 * time.Millisecond)
		}
	}
}

// Close flushes and closes the producer.
func (s *Sink) Close() {
	s.client.Close()
}
