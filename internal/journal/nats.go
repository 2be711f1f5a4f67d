package journal

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"live-auction/utils"

	"github.com/jonboulle/clockwork"
	"github.com/nats-io/nats.go"
)

// Config holds the NATS connection settings for the event journal
type Config struct {
	URL           string
	SubjectPrefix string
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultConfig returns the journal defaults
func DefaultConfig() Config {
	return Config{
		URL:           nats.DefaultURL,
		SubjectPrefix: "auction.events",
		MaxReconnects: -1, // Infinite
		ReconnectWait: 2 * time.Second,
	}
}

// Entry is the JSON document published for every broadcast
type Entry struct {
	ID         string    `json:"id"`
	AuctionID  string    `json:"auctionId"`
	Event      string    `json:"event"`
	Data       any       `json:"data"`
	RecordedAt time.Time `json:"recordedAt"`
}

// publisher is the subset of *nats.Conn the journal needs
type publisher interface {
	Publish(subject string, data []byte) error
}

// NATSJournal mirrors room broadcasts onto NATS subjects <prefix>.<auctionID>
type NATSJournal struct {
	nc     *nats.Conn
	pub    publisher
	prefix string
	clock  clockwork.Clock
}

// Connect dials NATS and returns a journal publishing on it
func Connect(cfg Config) (*NATSJournal, error) {
	opts := []nats.Option{
		nats.Name("live-auction"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				utils.Warn("journal: NATS disconnected", map[string]any{"error": err.Error()})
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			utils.Info("journal: NATS reconnected", map[string]any{"url": nc.ConnectedUrl()})
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			utils.Error("journal: NATS error", map[string]any{"error": err.Error()})
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	j := newJournal(nc, cfg.SubjectPrefix, clockwork.NewRealClock())
	j.nc = nc
	return j, nil
}

func newJournal(pub publisher, prefix string, clock clockwork.Clock) *NATSJournal {
	if prefix == "" {
		prefix = DefaultConfig().SubjectPrefix
	}
	return &NATSJournal{pub: pub, prefix: prefix, clock: clock}
}

// Record publishes one broadcast message
func (j *NATSJournal) Record(auctionID, event string, data any) error {
	entry := Entry{
		ID:         utils.GenerateID(),
		AuctionID:  auctionID,
		Event:      event,
		Data:       data,
		RecordedAt: j.clock.Now().UTC(),
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("journal: marshal %s for auction %s: %w", event, auctionID, err)
	}

	if err := j.pub.Publish(j.Subject(auctionID), payload); err != nil {
		return fmt.Errorf("journal: publish %s for auction %s: %w", event, auctionID, err)
	}
	return nil
}

// Subject returns the NATS subject for an auction. Characters with meaning in
// NATS subjects are replaced so an opaque id always maps to a single token.
func (j *NATSJournal) Subject(auctionID string) string {
	token := subjectReplacer.Replace(auctionID)
	if token == "" {
		token = "_"
	}
	return j.prefix + "." + token
}

var subjectReplacer = strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_", "\t", "_", "\n", "_")

// Close drains pending messages and closes the connection
func (j *NATSJournal) Close() error {
	if j.nc == nil {
		return nil
	}
	return j.nc.Drain()
}

// Nop discards every entry. It is used when no NATS URL is configured.
type Nop struct{}

// Record implements the journal contract without doing anything
func (Nop) Record(string, string, any) error { return nil }
