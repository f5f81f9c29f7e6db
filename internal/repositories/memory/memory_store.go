// Package memory holds drafts and sessions in process, for development and tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/SAP-F-2025/survey-portal/internal/models"
	"github.com/SAP-F-2025/survey-portal/internal/repositories"
)

type draftEntry struct {
	data      []byte
	expiresAt time.Time
}

// DraftStore keeps encoded drafts so callers never share maps with the store
type DraftStore struct {
	mu     sync.RWMutex
	drafts map[string]draftEntry
	ttl    time.Duration
	now    func() time.Time
}

func NewDraftStore(ttl time.Duration) *DraftStore {
	return &DraftStore{
		drafts: make(map[string]draftEntry),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *DraftStore) Get(ctx context.Context, surveyID uint, token string) (*models.Draft, error) {
	key := repositories.DraftKey(surveyID, token)

	s.mu.RLock()
	entry, ok := s.drafts[key]
	s.mu.RUnlock()
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if s.ttl > 0 && !s.now().Before(entry.expiresAt) {
		s.mu.Lock()
		delete(s.drafts, key)
		s.mu.Unlock()
		return nil, repositories.ErrNotFound
	}

	var draft models.Draft
	if err := json.Unmarshal(entry.data, &draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	if draft.Answers == nil {
		draft.Answers = make(map[uint]models.Answer)
	}
	return &draft, nil
}

func (s *DraftStore) Save(ctx context.Context, draft *models.Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[repositories.DraftKey(draft.SurveyID, draft.Token)] = draftEntry{
		data:      data,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

func (s *DraftStore) PutAnswer(ctx context.Context, surveyID uint, token string, answer models.Answer) error {
	return s.update(surveyID, token, func(draft *models.Draft) {
		draft.Answers[answer.QuestionID] = answer
	})
}

func (s *DraftStore) RemoveAnswer(ctx context.Context, surveyID uint, token string, questionID uint) error {
	return s.update(surveyID, token, func(draft *models.Draft) {
		delete(draft.Answers, questionID)
	})
}

// update applies change to the stored draft under the write lock, starting from
// an empty draft when none is live
func (s *DraftStore) update(surveyID uint, token string, change func(*models.Draft)) error {
	key := repositories.DraftKey(surveyID, token)

	s.mu.Lock()
	defer s.mu.Unlock()

	draft := models.NewDraft(surveyID, token)
	if entry, ok := s.drafts[key]; ok && (s.ttl <= 0 || s.now().Before(entry.expiresAt)) {
		if err := json.Unmarshal(entry.data, draft); err != nil {
			return fmt.Errorf("failed to decode draft: %w", err)
		}
		if draft.Answers == nil {
			draft.Answers = make(map[uint]models.Answer)
		}
	}
	change(draft)
	draft.UpdatedAt = s.now().UTC()

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	s.drafts[key] = draftEntry{data: data, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *DraftStore) Delete(ctx context.Context, surveyID uint, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, repositories.DraftKey(surveyID, token))
	return nil
}

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]models.Session),
		now:      time.Now,
	}
}

func (s *SessionStore) Create(ctx context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if session.Expired(s.now()) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, repositories.ErrNotFound
	}
	return &session, nil
}

func (s *SessionStore) Update(ctx context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.sessions[session.ID] = *session
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
