package track

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/LerianStudio/lib-sharedref/sharedref"
	"github.com/LerianStudio/lib-sharedref/sharedref/log"
)

// Group is the registry's record of one live shared ownership group.
type Group struct {
	ID          string
	PayloadType string
	CreatedAt   time.Time
}

// Registry keeps every live group until its last handle is released. It is
// safe for concurrent use; install it with Install or sharedref.SetTracker.
type Registry struct {
	mu      sync.Mutex
	live    map[string]Group
	capture bool
	logger  log.Logger
	metrics *Metrics
}

var _ sharedref.Tracker = (*Registry)(nil)

// NewRegistry creates a registry without installing it, for callers that
// manage the tracker seam themselves.
func NewRegistry(cfg Config) *Registry {
	cfg.normalize()

	return &Registry{
		live:    make(map[string]Group),
		capture: cfg.CapturePayloadType,
		logger:  cfg.Logger,
		metrics: NewMetrics(cfg.MeterProvider, cfg.Logger),
	}
}

// TrackConstruct implements sharedref.Tracker. It assigns the group a fresh
// id and records it as live.
func (r *Registry) TrackConstruct(payloadType string) string {
	if !r.capture {
		payloadType = ""
	}

	group := Group{
		ID:          uuid.NewString(),
		PayloadType: payloadType,
		CreatedAt:   time.Now(),
	}

	r.mu.Lock()
	r.live[group.ID] = group
	r.mu.Unlock()

	r.metrics.RecordConstructed(context.Background(), payloadType)

	return group.ID
}

// TrackFinalize implements sharedref.Tracker. Ids minted by an earlier
// registry generation are ignored.
func (r *Registry) TrackFinalize(id string) {
	r.mu.Lock()
	_, known := r.live[id]
	delete(r.live, id)
	r.mu.Unlock()

	if !known {
		return
	}

	r.metrics.RecordFinalized(context.Background())
}

// Live returns the number of groups currently alive.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.live)
}

// Snapshot returns the live groups ordered by creation time, oldest first.
func (r *Registry) Snapshot() []Group {
	r.mu.Lock()
	groups := make([]Group, 0, len(r.live))

	for _, group := range r.live {
		groups = append(groups, group)
	}
	r.mu.Unlock()

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].CreatedAt.Equal(groups[j].CreatedAt) {
			return groups[i].ID < groups[j].ID
		}

		return groups[i].CreatedAt.Before(groups[j].CreatedAt)
	})

	return groups
}

// Report logs every group still alive and returns how many there were.
// Call it where all groups should be gone, typically at shutdown or at the
// end of a test, and treat a non-zero return as a leak.
func (r *Registry) Report(ctx context.Context) int {
	snapshot := r.Snapshot()

	for _, group := range snapshot {
		r.logger.Log(ctx, log.LevelWarn, "shared group still alive",
			log.String("group_id", group.ID),
			log.String("payload_type", group.PayloadType),
			log.Any("age", time.Since(group.CreatedAt)),
		)
	}

	return len(snapshot)
}
