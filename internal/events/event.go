package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	EventSource  = "survey-portal"
	EventVersion = "1.0"
)

// Event types double as topic names
const (
	TypeSurveyPublished   = "survey.published"
	TypeResponseSubmitted = "response.submitted"
	TypeSessionExpired    = "session.expired"
)

// Event is the envelope of everything published on the bus
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Source    string          `json:"source"`
	Version   string          `json:"version"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// NewEvent wraps data into an event with a fresh id
func NewEvent(eventType string, data interface{}) (*Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      payload,
	}, nil
}

// Decode unmarshals the event data into dest
func (e *Event) Decode(dest interface{}) error {
	return json.Unmarshal(e.Data, dest)
}

type SurveyPublishedData struct {
	SurveyID      uint   `json:"survey_id"`
	Title         string `json:"title"`
	QuestionCount int    `json:"question_count"`
}

type ResponseSubmittedData struct {
	SurveyID    uint `json:"survey_id"`
	AnswerCount int  `json:"answer_count"`
}

type SessionExpiredData struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}
