package pattern

import (
	"context"
	"sync"
	"time"
)

// InMemoryStore implements Store for tests and redis-less deployments.
// Expiry is checked lazily on access, mirroring how the Redis keys age out.
type InMemoryStore struct {
	mu         sync.RWMutex
	now        func() time.Time
	fpIPs      map[string]*expiringSet // (match, fingerprint) -> ip hashes
	ipFps      map[string]*expiringSet // (match, ip) -> fingerprint hashes
	voteTimes  map[string]*expiringList
	coordCount map[string]*expiringHash // match -> coord key -> count
}

type expiringSet struct {
	members   map[string]struct{}
	expiresAt time.Time
}

type expiringList struct {
	items     []time.Time
	expiresAt time.Time
}

type expiringHash struct {
	counts    map[string]int
	expiresAt time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		now:        time.Now,
		fpIPs:      make(map[string]*expiringSet),
		ipFps:      make(map[string]*expiringSet),
		voteTimes:  make(map[string]*expiringList),
		coordCount: make(map[string]*expiringHash),
	}
}

func (s *InMemoryStore) TrackIPForFingerprint(_ context.Context, matchID, fingerprintHash, ipHash string) error {
	s.addToSet(s.fpIPs, matchID+":"+fingerprintHash, ipHash)
	return nil
}

func (s *InMemoryStore) TrackFingerprintForIP(_ context.Context, matchID, ipHash, fingerprintHash string) error {
	s.addToSet(s.ipFps, matchID+":"+ipHash, fingerprintHash)
	return nil
}

func (s *InMemoryStore) TrackVoteTime(_ context.Context, fingerprintHash string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	l := s.voteTimes[fingerprintHash]
	if l == nil || now.After(l.expiresAt) {
		l = &expiringList{}
		s.voteTimes[fingerprintHash] = l
	}
	l.items = append(l.items, at)
	if len(l.items) > timestampHistoryLimit {
		l.items = l.items[len(l.items)-timestampHistoryLimit:]
	}
	l.expiresAt = now.Add(TrackTTL)
	return nil
}

func (s *InMemoryStore) TrackCoordinates(_ context.Context, matchID, exactCoordKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	h := s.coordCount[matchID]
	if h == nil || now.After(h.expiresAt) {
		h = &expiringHash{counts: make(map[string]int)}
		s.coordCount[matchID] = h
	}
	h.counts[exactCoordKey]++
	h.expiresAt = now.Add(TrackTTL)
	return nil
}

func (s *InMemoryStore) UniqueIPCount(_ context.Context, matchID, fingerprintHash string) (int, error) {
	return s.setSize(s.fpIPs, matchID+":"+fingerprintHash), nil
}

func (s *InMemoryStore) UniqueFingerprintCount(_ context.Context, matchID, ipHash string) (int, error) {
	return s.setSize(s.ipFps, matchID+":"+ipHash), nil
}

func (s *InMemoryStore) VoteTimestamps(_ context.Context, fingerprintHash string, limit int) ([]time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l := s.voteTimes[fingerprintHash]
	if l == nil || s.now().After(l.expiresAt) || limit <= 0 {
		return nil, nil
	}
	items := l.items
	if len(items) > limit {
		items = items[len(items)-limit:]
	}
	return append([]time.Time{}, items...), nil
}

func (s *InMemoryStore) CoordinateCount(_ context.Context, matchID, exactCoordKey string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h := s.coordCount[matchID]
	if h == nil || s.now().After(h.expiresAt) {
		return 0, nil
	}
	return h.counts[exactCoordKey], nil
}

func (s *InMemoryStore) addToSet(sets map[string]*expiringSet, key, member string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	set := sets[key]
	if set == nil || now.After(set.expiresAt) {
		set = &expiringSet{members: make(map[string]struct{})}
		sets[key] = set
	}
	set.members[member] = struct{}{}
	set.expiresAt = now.Add(TrackTTL)
}

func (s *InMemoryStore) setSize(sets map[string]*expiringSet, key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := sets[key]
	if set == nil || s.now().After(set.expiresAt) {
		return 0
	}
	return len(set.members)
}
