package plate

// DefaultThreshold is how many raw readings are collected before a
// consensus is emitted.
const DefaultThreshold = 3

// ConsensusBuffer turns a noisy sequence of candidate readings into one
// trusted plate string by majority vote over a short window. A single
// OCR-grade reading is unreliable; three readings trade a little latency
// for no false positives by construction.
//
// Not safe for concurrent use — each lane loop owns exactly one buffer.
type ConsensusBuffer struct {
	threshold int
	readings  []string
}

func NewConsensusBuffer(threshold int) *ConsensusBuffer {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &ConsensusBuffer{
		threshold: threshold,
		readings:  make([]string, 0, threshold),
	}
}

// Observe appends a candidate reading. When the buffer reaches the
// threshold it returns the most frequent reading (ties broken by first
// occurrence) and clears itself; otherwise ok is false.
func (b *ConsensusBuffer) Observe(candidate string) (consensus string, ok bool) {
	b.readings = append(b.readings, candidate)
	if len(b.readings) < b.threshold {
		return "", false
	}

	counts := make(map[string]int, len(b.readings))
	best, bestCount := "", 0
	for _, r := range b.readings {
		counts[r]++
		if counts[r] > bestCount {
			best, bestCount = r, counts[r]
		}
	}

	b.readings = b.readings[:0]
	return best, true
}

// Len reports how many readings are pending in the buffer.
func (b *ConsensusBuffer) Len() int { return len(b.readings) }
