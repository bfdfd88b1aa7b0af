package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/courtstats/internal/domain/gameevent"
)

// EventRepository keeps events per game and stamps a process-wide insertion sequence.
type EventRepository struct {
	mu     sync.RWMutex
	byID   map[string]gameevent.Event
	byGame map[string][]string
	seq    int64
	now    func() time.Time
}

func NewEventRepository() *EventRepository {
	return &EventRepository{
		byID:   make(map[string]gameevent.Event),
		byGame: make(map[string][]string),
		now:    time.Now,
	}
}

func (r *EventRepository) Append(_ context.Context, evt gameevent.Event) (gameevent.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byID[evt.ID]; ok {
		return existing, nil
	}

	r.seq++
	evt.Sequence = r.seq
	if evt.RecordedAt.IsZero() {
		evt.RecordedAt = r.now().UTC()
	}
	r.byID[evt.ID] = evt
	r.byGame[evt.GameID] = append(r.byGame[evt.GameID], evt.ID)
	return evt, nil
}

func (r *EventRepository) GetByID(_ context.Context, eventID string) (gameevent.Event, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	evt, ok := r.byID[eventID]
	return evt, ok, nil
}

func (r *EventRepository) ListByGame(_ context.Context, gameID string) ([]gameevent.Event, error) {
	r.mu.RLock()
	ids := r.byGame[gameID]
	out := make([]gameevent.Event, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.byID[id])
	}
	r.mu.RUnlock()

	gameevent.SortCanonical(out)
	return out, nil
}

func (r *EventRepository) LastByGame(_ context.Context, gameID string) (gameevent.Event, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byGame[gameID]
	if len(ids) == 0 {
		return gameevent.Event{}, false, nil
	}
	return r.byID[ids[len(ids)-1]], true, nil
}

func (r *EventRepository) Delete(_ context.Context, eventID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	evt, ok := r.byID[eventID]
	if !ok {
		return false, nil
	}
	delete(r.byID, eventID)

	ids := r.byGame[evt.GameID]
	for i, id := range ids {
		if id == eventID {
			r.byGame[evt.GameID] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return true, nil
}
