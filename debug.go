package backdrop

import (
	"time"

	"go.uber.org/zap"
)

// frameStats holds per-frame timing and draw metrics.
// Only populated when Surface.debug is true.
type frameStats struct {
	updateTime time.Duration
	drawTime   time.Duration
}

// debugLog writes timing and draw stats at debug level.
func (s *Surface) debugLog() {
	if !s.debug {
		return
	}
	particles, segments := s.counts()
	s.log.Debug("frame",
		zap.Duration("update", s.stats.updateTime),
		zap.Duration("draw", s.stats.drawTime),
		zap.Int("fields", len(s.fields)),
		zap.Int("particles", particles),
		zap.Int("segments", segments),
		zap.Int("handlers", s.handlers.count()))
}

// counts returns the total particle and connection segment counts over all
// mounted fields.
func (s *Surface) counts() (particles, segments int) {
	for _, f := range s.fields {
		particles += len(f.sim.Particles())
		segments += len(f.segs)
	}
	return particles, segments
}
