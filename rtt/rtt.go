// File: rtt/rtt.go
// Author: momentics <momentics@gmail.com>
//
// Round-trip-time tracking: a bounded circular map from outbound ping id
// to send timestamp, plus a rolling window of completed samples with their
// mean and variance. Grounded on pool.RingBuffer's mask-indexed circular
// storage (pool/ring.go), generalized here from a FIFO queue to a
// keyed slot array for the outbound map and reused as-is for the sample
// window.

package rtt

import (
	"sync"
	"time"

	"github.com/nimbusnet/gameclient/api"
	"github.com/nimbusnet/gameclient/pool"
)

type pingSlot struct {
	id    uint16
	sent  time.Time
	valid bool
}

// Tracker records outbound/inbound ping correlations and reports smoothed
// latency. Safe for concurrent use from the send path and the receive path
// simultaneously, per spec §5.
type Tracker struct {
	mu      sync.Mutex
	slots   []pingSlot
	samples *pool.RingBuffer[time.Duration]

	last time.Duration
}

// New builds a Tracker with the given in-flight outbound-ping capacity and
// rolling-average sample window. window is rounded up to the next power of
// two, matching pool.RingBuffer's storage requirement.
func New(capacity, window int) *Tracker {
	if capacity < 1 {
		capacity = 1
	}
	return &Tracker{
		slots:   make([]pingSlot, capacity),
		samples: pool.NewRingBuffer[time.Duration](nextPow2(window)),
	}
}

func nextPow2(n int) uint64 {
	if n < 1 {
		n = 1
	}
	size := uint64(1)
	for size < uint64(n) {
		size <<= 1
	}
	return size
}

// RecordOutbound stores (id, now) into the circular slot map, evicting
// whatever occupied that slot if full.
func (t *Tracker) RecordOutbound(id uint16, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := int(id) % len(t.slots)
	t.slots[idx] = pingSlot{id: id, sent: now, valid: true}
}

// RecordInbound looks up id; if present, computes now-sent, folds it into
// the rolling mean/variance, and removes the entry. If id was never
// recorded outbound (a stale or spoofed ack), it is a non-fatal no-op
// reported via api.ErrUnknownPingID.
func (t *Tracker) RecordInbound(id uint16, now time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := int(id) % len(t.slots)
	slot := t.slots[idx]
	if !slot.valid || slot.id != id {
		return api.ErrUnknownPingID
	}
	t.slots[idx].valid = false
	sample := now.Sub(slot.sent)
	t.samples.PushOverwrite(sample)
	t.last = sample
	return nil
}

// SmoothedRTT returns the arithmetic mean of the current sample window.
func (t *Tracker) SmoothedRTT() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return mean(t.samples.Snapshot())
}

// Variance returns the population variance (mean squared deviation, divided
// by n) of the current sample window. The value is in squared nanoseconds
// carried in a time.Duration.
func (t *Tracker) Variance() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	samples := t.samples.Snapshot()
	m := mean(samples)
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		d := float64(s - m)
		sum += d * d
	}
	return time.Duration(sum / float64(len(samples)))
}

// LastSample returns the most recently completed RTT sample.
func (t *Tracker) LastSample() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// SampleCount reports how many samples are currently in the window.
func (t *Tracker) SampleCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.samples.Len()
}

func mean(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	var sum time.Duration
	for _, s := range samples {
		sum += s
	}
	return sum / time.Duration(len(samples))
}
