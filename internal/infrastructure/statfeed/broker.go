package statfeed

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/riskibarqy/courtstats/internal/domain/boxscore"
	"github.com/riskibarqy/courtstats/internal/platform/logging"
)

const defaultSubscriptionBuffer = 64

// AllGames subscribes to every change, including season-level ones that carry no game id.
const AllGames = ""

// Subscription receives changes for one game, or for every game when subscribed with AllGames.
type Subscription struct {
	id        uint64
	gameID    string
	ch        chan boxscore.Change
	broker    *Broker
	closeOnce sync.Once
}

func (s *Subscription) C() <-chan boxscore.Change {
	return s.ch
}

func (s *Subscription) GameID() string {
	return s.gameID
}

// Close unsubscribes. It is safe to call more than once and after the broker dropped the subscriber.
func (s *Subscription) Close() {
	s.broker.remove(s)
}

func (s *Subscription) closeChannel() {
	s.closeOnce.Do(func() { close(s.ch) })
}

// Broker fans committed changes out to in-process subscribers. A subscriber whose buffer is
// full is dropped and its channel closed; the publisher never blocks.
type Broker struct {
	mu     sync.RWMutex
	subs   map[string]map[uint64]*Subscription
	nextID atomic.Uint64
	buffer int
	logger *logging.Logger

	published atomic.Int64
	dropped   atomic.Int64
}

func NewBroker(buffer int, logger *logging.Logger) *Broker {
	if buffer < 1 {
		buffer = defaultSubscriptionBuffer
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Broker{
		subs:   make(map[string]map[uint64]*Subscription),
		buffer: buffer,
		logger: logger,
	}
}

func (b *Broker) Subscribe(gameID string) *Subscription {
	gameID = strings.TrimSpace(gameID)
	sub := &Subscription{
		id:     b.nextID.Add(1),
		gameID: gameID,
		ch:     make(chan boxscore.Change, b.buffer),
		broker: b,
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	group, ok := b.subs[gameID]
	if !ok {
		group = make(map[uint64]*Subscription)
		b.subs[gameID] = group
	}
	group[sub.id] = sub
	return sub
}

// Publish implements boxscore.ChangePublisher.
func (b *Broker) Publish(ctx context.Context, change boxscore.Change) error {
	b.published.Add(1)

	// Sends happen under the read lock so remove cannot close a channel mid-send.
	var slow []*Subscription
	b.mu.RLock()
	for _, sub := range b.subs[AllGames] {
		if !trySend(sub, change) {
			slow = append(slow, sub)
		}
	}
	if change.GameID != AllGames {
		for _, sub := range b.subs[change.GameID] {
			if !trySend(sub, change) {
				slow = append(slow, sub)
			}
		}
	}
	b.mu.RUnlock()

	for _, sub := range slow {
		b.dropped.Add(1)
		b.logger.WarnContext(ctx, "stat feed subscriber too slow, dropping", "game_id", sub.gameID, "kind", change.Kind)
		b.remove(sub)
	}
	return nil
}

func trySend(sub *Subscription, change boxscore.Change) bool {
	select {
	case sub.ch <- change:
		return true
	default:
		return false
	}
}

func (b *Broker) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if group, ok := b.subs[sub.gameID]; ok {
		delete(group, sub.id)
		if len(group) == 0 {
			delete(b.subs, sub.gameID)
		}
	}
	sub.closeChannel()
}

// SubscriberCount reports active subscribers of one game, not counting AllGames subscribers.
func (b *Broker) SubscriberCount(gameID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[strings.TrimSpace(gameID)])
}

type BrokerStats struct {
	Subscribers int   `json:"subscribers"`
	Published   int64 `json:"published"`
	Dropped     int64 `json:"dropped"`
}

func (b *Broker) Stats() BrokerStats {
	b.mu.RLock()
	total := 0
	for _, group := range b.subs {
		total += len(group)
	}
	b.mu.RUnlock()
	return BrokerStats{
		Subscribers: total,
		Published:   b.published.Load(),
		Dropped:     b.dropped.Load(),
	}
}

// Shutdown closes every subscription.
func (b *Broker) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()
	all := b.subs
	b.subs = make(map[string]map[uint64]*Subscription)

	for _, group := range all {
		for _, sub := range group {
			sub.closeChannel()
		}
	}
}
