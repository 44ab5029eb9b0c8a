package engine

import (
	"slices"
	"sync"
	"time"
)

const (
	defaultTraceSamples = 240
	defaultFrameBudget  = time.Second / 60
)

// FrameCounts is the workload of one frame: the nodes queued for layout and
// render when it started and the size of the tree when it ended.
type FrameCounts struct {
	DirtyLayout int `json:"dirtyLayout"`
	DirtyRender int `json:"dirtyRender"`
	NodeCount   int `json:"nodeCount"`
}

// FrameSample describes one flushed frame.
type FrameSample struct {
	Frame     uint64      `json:"frame"`
	Timestamp int64       `json:"ts"`
	FrameMs   float64     `json:"frameMs"`
	Slow      bool        `json:"slow,omitempty"`
	Counts    FrameCounts `json:"counts"`
}

// FrameTimeline is the retained samples, oldest first, with totals over
// every recorded frame.
type FrameTimeline struct {
	Samples     []FrameSample `json:"samples"`
	SlowFrames  int           `json:"slowFrames"`
	MaxMs       float64       `json:"maxMs"`
	ThresholdMs float64       `json:"thresholdMs"`
}

// FrameTrace keeps the most recent frame samples. Frames longer than the
// budget count as slow, including ones that have since been evicted.
type FrameTrace struct {
	budget time.Duration

	mu   sync.Mutex
	ring []FrameSample
	next int
	full bool
	slow int
	max  time.Duration
}

// NewFrameTrace keeps capacity samples. Non-positive arguments select 240
// samples and a 60Hz budget.
func NewFrameTrace(capacity int, budget time.Duration) *FrameTrace {
	if capacity <= 0 {
		capacity = defaultTraceSamples
	}
	if budget <= 0 {
		budget = defaultFrameBudget
	}
	return &FrameTrace{budget: budget, ring: make([]FrameSample, capacity)}
}

// Budget returns the duration above which a frame is slow.
func (t *FrameTrace) Budget() time.Duration { return t.budget }

// Cap returns how many samples are retained.
func (t *FrameTrace) Cap() int { return len(t.ring) }

// Record stores a sample for the frame that started at start and ran for
// elapsed. It reports whether the frame was slow.
func (t *FrameTrace) Record(frame uint64, start time.Time, elapsed time.Duration, counts FrameCounts) bool {
	sample := FrameSample{
		Frame:     frame,
		Timestamp: start.UnixMilli(),
		FrameMs:   millis(elapsed),
		Slow:      elapsed > t.budget,
		Counts:    counts,
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.ring[t.next] = sample
	if t.next++; t.next == len(t.ring) {
		t.next = 0
		t.full = true
	}
	if sample.Slow {
		t.slow++
	}
	t.max = max(t.max, elapsed)
	return sample.Slow
}

// Timeline copies out the retained samples.
func (t *FrameTrace) Timeline() FrameTimeline {
	t.mu.Lock()
	defer t.mu.Unlock()
	tl := FrameTimeline{SlowFrames: t.slow, MaxMs: millis(t.max), ThresholdMs: millis(t.budget)}
	switch {
	case t.full:
		tl.Samples = append(slices.Clone(t.ring[t.next:]), t.ring[:t.next]...)
	case t.next > 0:
		tl.Samples = slices.Clone(t.ring[:t.next])
	}
	return tl
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
