package logger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

const (
	defaultDigestInterval  = 30 * time.Second
	defaultDigestThreshold = 100
	publishTimeout         = 30 * time.Second
)

// Publisher ships error digests, e.g. to the run's Kafka log topic.
type Publisher interface {
	PublishMessage(ctx context.Context, topic string, payload interface{}) error
}

// CollectionConfig tunes how often a batch run's error digest is published.
type CollectionConfig struct {
	TimeInterval   time.Duration // publish at least this often
	CountThreshold int           // distinct errors that force an early publish
	Topic          string
	Publisher      Publisher
}

// AggregatedLogEntry is one distinct error with the number of times it was
// logged in the current digest. A rate limit hit by every symbol of a run
// shows up once with its count.
type AggregatedLogEntry struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields"`
	Caller    string                 `json:"caller"`
	Count     int                    `json:"count"`
	FirstSeen time.Time              `json:"first_seen"`
	LastSeen  time.Time              `json:"last_seen"`
}

// LogCollector folds repeated error logs of a report run into a digest and
// publishes it on a timer, when it grows past CountThreshold, and on Close.
type LogCollector struct {
	config  *CollectionConfig
	entries map[string]*AggregatedLogEntry
	mu      sync.Mutex
	stop    context.CancelFunc
	done    chan struct{}
	pending sync.WaitGroup
}

func NewLogCollector(config *CollectionConfig) *LogCollector {
	if config.TimeInterval <= 0 {
		config.TimeInterval = defaultDigestInterval
	}
	if config.CountThreshold <= 0 {
		config.CountThreshold = defaultDigestThreshold
	}
	ctx, stop := context.WithCancel(context.Background())

	c := &LogCollector{
		config:  config,
		entries: make(map[string]*AggregatedLogEntry),
		stop:    stop,
		done:    make(chan struct{}),
	}
	go c.run(ctx)
	return c
}

// AddLog counts one occurrence of an error. Entries match on level, message,
// fields and caller, so the same failure for two symbols stays two entries.
func (c *LogCollector) AddLog(level, message string, fields map[string]interface{}, caller string) {
	now := time.Now()
	key := digestKey(level, message, fields, caller)

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.Count++
		e.LastSeen = now
	} else {
		c.entries[key] = &AggregatedLogEntry{
			Level:     level,
			Message:   message,
			Fields:    fields,
			Caller:    caller,
			Count:     1,
			FirstSeen: now,
			LastSeen:  now,
		}
	}

	if len(c.entries) >= c.config.CountThreshold {
		c.publishLocked()
	}
}

// Len returns the number of distinct errors waiting for the next publish.
func (c *LogCollector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func digestKey(level, message string, fields map[string]interface{}, caller string) string {
	raw, _ := json.Marshal(struct {
		Level   string                 `json:"level"`
		Message string                 `json:"message"`
		Fields  map[string]interface{} `json:"fields"`
		Caller  string                 `json:"caller"`
	}{level, message, fields, caller})
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func (c *LogCollector) run(ctx context.Context) {
	defer close(c.done)

	ticker := time.NewTicker(c.config.TimeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
		case <-ctx.Done():
			c.mu.Lock()
			c.publishLocked()
			c.mu.Unlock()
			return
		}
		c.mu.Lock()
		c.publishLocked()
		c.mu.Unlock()
	}
}

// publishLocked swaps out the digest and sends it in the background.
// c.mu must be held.
func (c *LogCollector) publishLocked() {
	if len(c.entries) == 0 {
		return
	}

	digest := make([]AggregatedLogEntry, 0, len(c.entries))
	for _, e := range c.entries {
		digest = append(digest, *e)
	}
	c.entries = make(map[string]*AggregatedLogEntry)

	if c.config.Publisher == nil {
		return
	}

	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := c.config.Publisher.PublishMessage(ctx, c.config.Topic, digest); err != nil {
			// the logger cannot log its own publish failure
			fmt.Fprintf(os.Stderr, "publish error digest to %s: %v\n", c.config.Topic, err)
		}
	}()
}

// Close publishes what is left and waits for in-flight publishes, so a
// finished batch run does not lose its last digest.
func (c *LogCollector) Close() {
	c.stop()
	<-c.done
	c.pending.Wait()
}
