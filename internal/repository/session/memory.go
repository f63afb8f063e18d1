package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xpanvictor/voxrelay/internal/domains/session"
	"github.com/xpanvictor/voxrelay/internal/types"
)

type memoryRecord struct {
	msgs      []types.Message
	updatedAt time.Time
}

// MemoryStore keeps histories in process. The map lock only guards map
// access and is never held across I/O.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]memoryRecord),
		now:     time.Now,
	}
}

// LoadHistory implements session.Store.
func (m *MemoryStore) LoadHistory(_ context.Context, sessionKey string) ([]types.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[sessionKey]
	if !ok {
		return []types.Message{}, nil
	}
	return types.CloneMessages(rec.msgs), nil
}

// SaveHistory implements session.Store.
func (m *MemoryStore) SaveHistory(_ context.Context, sessionKey string, msgs []types.Message) error {
	rec := memoryRecord{msgs: types.CloneMessages(msgs), updatedAt: m.now()}
	m.mu.Lock()
	m.records[sessionKey] = rec
	m.mu.Unlock()
	return nil
}

// Delete implements session.Store.
func (m *MemoryStore) Delete(_ context.Context, sessionKey string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[sessionKey]; !ok {
		return 0, nil
	}
	delete(m.records, sessionKey)
	return 1, nil
}

// Stats implements session.Store.
func (m *MemoryStore) Stats(_ context.Context, recent int) (*session.Stats, error) {
	m.mu.RLock()
	summaries := make([]session.Summary, 0, len(m.records))
	for key, rec := range m.records {
		summaries = append(summaries, session.Summary{
			SessionKey:   key,
			MessageCount: len(rec.msgs),
			UpdatedAt:    rec.updatedAt,
		})
	}
	m.mu.RUnlock()

	return summarize(summaries, recent), nil
}

// summarize folds summaries into Stats, newest first.
func summarize(summaries []session.Summary, recent int) *session.Stats {
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})

	st := &session.Stats{TotalSessions: int64(len(summaries)), Recent: []session.Summary{}}
	for _, s := range summaries {
		st.TotalMessages += int64(s.MessageCount)
	}
	if len(summaries) > 0 {
		st.AvgHistoryLength = float64(st.TotalMessages) / float64(len(summaries))
		last := summaries[0].UpdatedAt
		st.LastActivity = &last
	}
	if recent > len(summaries) {
		recent = len(summaries)
	}
	if recent > 0 {
		st.Recent = append(st.Recent, summaries[:recent]...)
	}
	return st
}
