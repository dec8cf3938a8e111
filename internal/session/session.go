// Package session owns the process-wide "latest known state" shared by every
// request: the current shaking magnitude and the detections from the most
// recent successful analysis.
package session

import (
	"context"
	"sync"
	"time"

	"ProjectQuake/internal/entity"
)

const DefaultMagnitude = 5.0

// Snapshot is the externally visible shape of the session state. Advice is
// kept in the shape for forward compatibility even though it is currently
// computed per call rather than stored.
type Snapshot struct {
	Magnitude  float64            `json:"magnitude"`
	Detections []entity.Detection `json:"detections"`
	Advice     string             `json:"advice"`
}

// Mirror persists snapshots outside the process, best effort. Implementations
// log their own failures; the session never treats a mirror error as fatal.
type Mirror interface {
	SaveSnapshot(ctx context.Context, snap Snapshot) error
	LoadSnapshot(ctx context.Context) (Snapshot, bool, error)
}

// State is a cache of the latest observations, not a record of history.
// The lock makes individual reads and writes consistent, but cross-request
// semantics stay last-write-wins: two concurrent analysis calls race and the
// later writer's detections replace the earlier one's. No read-your-writes
// guarantee is made across a burst of concurrent calls.
type State struct {
	mu         sync.RWMutex
	magnitude  float64
	detections []entity.Detection
	advice     string
	mirror     Mirror
}

type Option func(*State)

// WithMirror attaches an external snapshot store. The magnitude from the last
// persisted snapshot is restored at construction so a restart does not reset
// the simulated shaking level.
func WithMirror(m Mirror) Option {
	return func(s *State) {
		s.mirror = m
	}
}

func New(opts ...Option) *State {
	s := &State{
		magnitude:  DefaultMagnitude,
		detections: []entity.Detection{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.mirror != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if snap, ok, err := s.mirror.LoadSnapshot(ctx); err == nil && ok {
			s.magnitude = snap.Magnitude
		}
	}

	return s
}

// Snapshot returns a copy of the current state. The detections slice is
// copied so callers cannot mutate the shared state behind the lock.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	detections := make([]entity.Detection, len(s.detections))
	copy(detections, s.detections)

	return Snapshot{
		Magnitude:  s.magnitude,
		Detections: detections,
		Advice:     s.advice,
	}
}

func (s *State) Magnitude() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.magnitude
}

func (s *State) SetMagnitude(magnitude float64) {
	s.mu.Lock()
	s.magnitude = magnitude
	s.mu.Unlock()
	s.persist()
}

// SetDetections overwrites the stored detections wholesale. Nothing is ever
// merged or deleted, only replaced.
func (s *State) SetDetections(detections []entity.Detection) {
	if detections == nil {
		detections = []entity.Detection{}
	}
	s.mu.Lock()
	s.detections = detections
	s.mu.Unlock()
	s.persist()
}

func (s *State) persist() {
	if s.mirror == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.mirror.SaveSnapshot(ctx, s.Snapshot())
}
