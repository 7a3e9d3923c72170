package idgen

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Layout of an id, most significant bit first:
//
//	1 unused | 41 ms since epoch | 10 worker id | 12 sequence
const (
	epoch          = int64(1704067200000) // 2024-01-01T00:00:00Z
	workerIDBits   = 10
	sequenceBits   = 12
	maxWorkerID    = -1 ^ (-1 << workerIDBits)
	maxSequence    = -1 ^ (-1 << sequenceBits)
	workerIDShift  = sequenceBits
	timestampShift = sequenceBits + workerIDBits
)

var ErrInvalidWorkerID = fmt.Errorf("worker id must be within 0-%d", maxWorkerID)

// Prefixes of the readable ids handed out to entities.
const (
	PrefixSpinLog = "SPN"
	PrefixOrder   = "ORD"
	PrefixLedger  = "DCK"
)

type Snowflake struct {
	mu        sync.Mutex
	timestamp int64
	workerID  int64
	sequence  int64
	now       func() time.Time
}

func NewSnowflake(workerID int64) (*Snowflake, error) {
	if workerID < 0 || workerID > maxWorkerID {
		return nil, ErrInvalidWorkerID
	}
	return &Snowflake{workerID: workerID, now: time.Now}, nil
}

var (
	mu               sync.RWMutex
	defaultGenerator = &Snowflake{workerID: 1, now: time.Now}
)

// Init replaces the process-wide generator used by the Generate* helpers.
func Init(workerID int64) error {
	s, err := NewSnowflake(workerID)
	if err != nil {
		return err
	}
	mu.Lock()
	defaultGenerator = s
	mu.Unlock()
	return nil
}

func NextID() int64 {
	mu.RLock()
	g := defaultGenerator
	mu.RUnlock()
	return g.Generate()
}

func (s *Snowflake) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UnixMilli()
	if now < s.timestamp {
		// Clock moved backwards; keep issuing from the last seen millisecond.
		now = s.timestamp
	}

	if now == s.timestamp {
		s.sequence = (s.sequence + 1) & maxSequence
		if s.sequence == 0 {
			for now <= s.timestamp {
				now = s.now().UnixMilli()
			}
		}
	} else {
		s.sequence = 0
	}
	s.timestamp = now

	return ((now - epoch) << timestampShift) |
		(s.workerID << workerIDShift) |
		s.sequence
}

// parse splits an id back into its creation time, worker and sequence.
func parse(id int64) (time.Time, int64, int64, error) {
	if id < 0 {
		return time.Time{}, 0, 0, errors.New("negative id")
	}
	ms := (id >> timestampShift) + epoch
	worker := (id >> workerIDShift) & maxWorkerID
	seq := id & maxSequence
	return time.UnixMilli(ms).UTC(), worker, seq, nil
}

func withPrefix(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, NextID())
}

// GenerateSpinLogID, GenerateOrderID and GenerateLedgerID produce ids such as
// ORD75913834526720001. The numeric part sorts by creation time.
func GenerateSpinLogID() string { return withPrefix(PrefixSpinLog) }

func GenerateOrderID() string { return withPrefix(PrefixOrder) }

func GenerateLedgerID() string { return withPrefix(PrefixLedger) }
