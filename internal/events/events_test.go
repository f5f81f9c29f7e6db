package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewEvent_Structure(t *testing.T) {
	event, err := NewEvent(TypeResponseSubmitted, ResponseSubmittedData{SurveyID: 9, AnswerCount: 3})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if event.ID == "" {
		t.Error("Event ID should not be empty")
	}
	if event.Source != "survey-portal" {
		t.Errorf("Expected source 'survey-portal', got '%s'", event.Source)
	}
	if event.Version != "1.0" {
		t.Errorf("Expected version '1.0', got '%s'", event.Version)
	}
	if event.Timestamp.IsZero() {
		t.Error("Event timestamp should not be zero")
	}

	var data ResponseSubmittedData
	if err := event.Decode(&data); err != nil {
		t.Fatalf("Unexpected decode error: %v", err)
	}
	if data.SurveyID != 9 || data.AnswerCount != 3 {
		t.Errorf("Unexpected data %+v", data)
	}
}

func TestGoChannelBus_PublishConsume(t *testing.T) {
	logger := testLogger()
	bus, err := NewBus(BusConfig{}, logger)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *Event, 1)
	err = Consume(ctx, bus.Subscriber, TypeSurveyPublished, func(ctx context.Context, event *Event) error {
		received <- event
		return nil
	}, logger)
	if err != nil {
		t.Fatalf("Unexpected subscribe error: %v", err)
	}

	publisher := NewWatermillPublisher(bus.Publisher, logger)
	event, _ := NewEvent(TypeSurveyPublished, SurveyPublishedData{SurveyID: 4, Title: "Feedback", QuestionCount: 2})
	if err := publisher.Publish(ctx, event); err != nil {
		t.Fatalf("Unexpected publish error: %v", err)
	}

	select {
	case got := <-received:
		if got.ID != event.ID || got.Type != TypeSurveyPublished {
			t.Fatalf("Unexpected event %+v", got)
		}
		var data SurveyPublishedData
		if err := got.Decode(&data); err != nil || data.SurveyID != 4 {
			t.Fatalf("Unexpected data %+v (%v)", data, err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for event")
	}
}

func TestMockEventPublisher(t *testing.T) {
	mock := NewMockEventPublisher(testLogger())
	ctx := context.Background()

	event, _ := NewEvent(TypeSessionExpired, SessionExpiredData{UserID: 1})
	if err := mock.Publish(ctx, event); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := mock.GetPublishedEvents(); len(got) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(got))
	}

	mock.ClearEvents()
	if got := mock.GetPublishedEvents(); len(got) != 0 {
		t.Fatalf("Expected no events after clear, got %d", len(got))
	}

	mock.FailWith(errors.New("broker down"))
	if err := mock.Publish(ctx, event); err == nil {
		t.Fatal("Expected publish error")
	}
}
