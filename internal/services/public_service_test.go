package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/survey-portal/internal/backend"
	"github.com/SAP-F-2025/survey-portal/internal/cache"
	"github.com/SAP-F-2025/survey-portal/internal/events"
	"github.com/SAP-F-2025/survey-portal/internal/models"
	"github.com/SAP-F-2025/survey-portal/internal/repositories/memory"
	"github.com/SAP-F-2025/survey-portal/internal/table"
	"github.com/SAP-F-2025/survey-portal/internal/validator"
)

const testToken = "share-token"

func publicFixture() *models.PublicSurvey {
	return &models.PublicSurvey{
		ID:    1,
		Title: "Onboarding",
		Questions: []models.Question{
			{ID: 13, Type: models.QuestionTable, Title: "Devices", Order: 3, Config: models.QuestionConfig{
				Columns: []models.TableColumn{
					{ID: "c1", Type: models.ColumnText, Label: "Device"},
					{ID: "c2", Type: models.ColumnNumber, Label: "Count"},
				},
				MinRows: intPtr(1),
				MaxRows: intPtr(2),
			}},
			{ID: 10, Type: models.QuestionText, Title: "Name", Order: 0, Required: true, PrefillKey: "name"},
			{ID: 11, Type: models.QuestionSingle, Title: "Team", Order: 1, Required: true, Config: models.QuestionConfig{Options: []string{"A", "B"}}},
			{ID: 12, Type: models.QuestionMultiple, Title: "Tools", Order: 2, PrefillKey: "tool", Config: models.QuestionConfig{Options: []string{"git", "go"}}},
		},
		PrefillData: map[string]string{"name": "Ann", "tool": "go"},
	}
}

type publicSetup struct {
	svc       PublicSurveyService
	backend   *fakeBackend
	drafts    *memory.DraftStore
	publisher *events.MockEventPublisher
}

func newPublicSetup(t *testing.T) *publicSetup {
	t.Helper()
	fb := newFakeBackend()
	fb.public[1] = publicFixture()
	drafts := memory.NewDraftStore(0)
	publisher := events.NewMockEventPublisher(discardLogger())
	svc := NewPublicSurveyService(fb, drafts, cache.NewCacheManager(nil), publisher, discardLogger(), 0)
	return &publicSetup{svc: svc, backend: fb, drafts: drafts, publisher: publisher}
}

func TestPublicLoad_PrefillAndLocks(t *testing.T) {
	s := newPublicSetup(t)
	ctx := context.Background()

	view, err := s.svc.Load(ctx, 1, testToken)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if ids := view.Survey.Questions; ids[0].ID != 10 || ids[3].ID != 13 {
		t.Errorf("Expected questions sorted by order, got %v, %v", ids[0].ID, ids[3].ID)
	}
	if text, _ := view.Answers[10].Text(); text != "Ann" {
		t.Errorf("Expected prefilled name Ann, got %q", text)
	}
	if list, _ := view.Answers[12].List(); len(list) != 1 || list[0] != "go" {
		t.Errorf("Expected prefilled tools [go], got %v", list)
	}
	if len(view.LockedQuestions) != 2 || view.LockedQuestions[0] != 10 || view.LockedQuestions[1] != 12 {
		t.Errorf("Expected locked questions [10 12], got %v", view.LockedQuestions)
	}
	if view.Progress != 50 {
		t.Errorf("Expected progress 50, got %d", view.Progress)
	}

	state, ok := view.Tables[13]
	if !ok {
		t.Fatal("Expected table state for question 13")
	}
	if len(state.Rows) != 1 || len(state.Rows[0]) != 2 || !state.CanAdd || state.CanDelete {
		t.Errorf("Unexpected initial table state %+v", state)
	}
}

func TestPublicLoad_DraftWinsOverPrefill(t *testing.T) {
	s := newPublicSetup(t)
	ctx := context.Background()

	draft := models.NewDraft(1, testToken)
	draft.Answers[10] = models.Answer{QuestionID: 10, Value: models.TextValue("Bob")}
	draft.Answers[11] = models.Answer{QuestionID: 11, Value: models.TextValue("B")}
	draft.Answers[99] = models.Answer{QuestionID: 99, Value: models.TextValue("stale")}
	if err := s.drafts.Save(ctx, draft); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	view, err := s.svc.Load(ctx, 1, testToken)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if text, _ := view.Answers[10].Text(); text != "Bob" {
		t.Errorf("Expected draft answer Bob, got %q", text)
	}
	if _, ok := view.Answers[99]; ok {
		t.Error("Expected answers to unknown questions to be dropped")
	}
	if view.Progress != 75 {
		t.Errorf("Expected progress 75, got %d", view.Progress)
	}
}

func TestPublicLoad_Errors(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		publicErr error
		want      error
	}{
		{name: "missing token", token: "", want: ErrTokenMissing},
		{name: "expired by code", token: testToken, publicErr: &backend.APIError{Status: http.StatusGone, Code: "LINK_EXPIRED"}, want: ErrLinkExpired},
		{name: "used by message", token: testToken, publicErr: &backend.APIError{Status: http.StatusBadRequest, Code: "HTTP_400", Message: "link already used"}, want: ErrLinkUsed},
		{name: "not found", token: testToken, publicErr: notFoundErr(), want: ErrSurveyNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newPublicSetup(t)
			s.backend.publicErr = tt.publicErr

			_, err := s.svc.Load(context.Background(), 1, tt.token)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestPublicSaveAnswer(t *testing.T) {
	s := newPublicSetup(t)
	ctx := context.Background()

	if _, err := s.svc.SaveAnswer(ctx, 1, testToken, 10, models.TextValue("Eve")); !errors.Is(err, ErrAnswerLocked) {
		t.Fatalf("Expected ErrAnswerLocked, got %v", err)
	}
	if _, err := s.svc.SaveAnswer(ctx, 1, testToken, 42, models.TextValue("x")); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("Expected ErrQuestionNotFound, got %v", err)
	}

	_, err := s.svc.SaveAnswer(ctx, 1, testToken, 11, models.ListValue([]string{"A"}))
	var invalid *AnswersInvalidError
	if !errors.As(err, &invalid) {
		t.Fatalf("Expected AnswersInvalidError for wrong shape, got %v", err)
	}
	if answerErr, ok := invalid.AnswerErrorFor(11); !ok || answerErr.Code != validator.CodeInvalidFormat {
		t.Errorf("Expected INVALID_FORMAT on question 11, got %v", invalid.Failures)
	}

	view, err := s.svc.SaveAnswer(ctx, 1, testToken, 11, models.TextValue("A"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if text, _ := view.Answers[11].Text(); text != "A" {
		t.Errorf("Expected saved answer A, got %q", text)
	}

	draft, err := s.drafts.Get(ctx, 1, testToken)
	if err != nil {
		t.Fatalf("Expected a stored draft, got %v", err)
	}
	if _, ok := draft.Answers[11]; !ok {
		t.Error("Expected answer 11 in the draft")
	}

	// clearing an answer removes it from the draft
	if _, err := s.svc.SaveAnswer(ctx, 1, testToken, 11, models.TextValue("")); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	draft, _ = s.drafts.Get(ctx, 1, testToken)
	if _, ok := draft.Answers[11]; ok {
		t.Error("Expected cleared answer to leave the draft")
	}
}

func TestPublicTableEditing(t *testing.T) {
	s := newPublicSetup(t)
	ctx := context.Background()

	state, err := s.svc.AddTableRow(ctx, 1, testToken, 13)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(state.Rows) != 2 || state.CanAdd {
		t.Fatalf("Expected 2 rows at the limit, got %+v", state)
	}

	if _, err := s.svc.AddTableRow(ctx, 1, testToken, 13); !errors.Is(err, table.ErrRowLimit) {
		t.Fatalf("Expected ErrRowLimit, got %v", err)
	}

	if _, err := s.svc.SetTableCell(ctx, 1, testToken, 13, 1, 1, "abc"); !errors.Is(err, table.ErrInvalidCell) {
		t.Fatalf("Expected ErrInvalidCell for a non numeric count, got %v", err)
	}
	state, err = s.svc.SetTableCell(ctx, 1, testToken, 13, 1, 1, "3")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if state.Rows[1][1] != "3" {
		t.Errorf("Expected cell value 3, got %q", state.Rows[1][1])
	}

	state, err = s.svc.DeleteTableRow(ctx, 1, testToken, 13, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(state.Rows) != 1 || state.Rows[0][1] != "3" {
		t.Fatalf("Expected the edited row to remain, got %v", state.Rows)
	}
	if _, err := s.svc.DeleteTableRow(ctx, 1, testToken, 13, 0); !errors.Is(err, table.ErrMinRows) {
		t.Fatalf("Expected ErrMinRows, got %v", err)
	}

	if _, err := s.svc.AddTableRow(ctx, 1, testToken, 11); !errors.Is(err, table.ErrNotTableType) {
		t.Fatalf("Expected ErrNotTableType, got %v", err)
	}

	view, err := s.svc.Load(ctx, 1, testToken)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if rows, _ := view.Answers[13].Grid(); len(rows) != 1 || rows[0][1] != "3" {
		t.Errorf("Expected table answer to survive reload, got %v", rows)
	}
}

// interleavedDrafts runs another writer right before the next draft write
type interleavedDrafts struct {
	*memory.DraftStore
	before func()
}

func (d *interleavedDrafts) interleave() {
	if d.before != nil {
		before := d.before
		d.before = nil
		before()
	}
}

func (d *interleavedDrafts) Save(ctx context.Context, draft *models.Draft) error {
	d.interleave()
	return d.DraftStore.Save(ctx, draft)
}

func (d *interleavedDrafts) PutAnswer(ctx context.Context, surveyID uint, token string, answer models.Answer) error {
	d.interleave()
	return d.DraftStore.PutAnswer(ctx, surveyID, token, answer)
}

func TestPublicTableEditing_KeepsConcurrentAnswer(t *testing.T) {
	fb := newFakeBackend()
	fb.public[1] = publicFixture()
	drafts := &interleavedDrafts{DraftStore: memory.NewDraftStore(0)}
	svc := NewPublicSurveyService(fb, drafts, cache.NewCacheManager(nil), events.NewMockEventPublisher(discardLogger()), discardLogger(), 0)
	ctx := context.Background()

	// a second tab answers question 11 after the table edit has read the draft
	drafts.before = func() {
		if err := drafts.DraftStore.PutAnswer(ctx, 1, testToken, models.Answer{QuestionID: 11, Value: models.TextValue("B")}); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
	}
	if _, err := svc.AddTableRow(ctx, 1, testToken, 13); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	draft, err := drafts.Get(ctx, 1, testToken)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if text, _ := draft.Answers[11].Value.Text(); text != "B" {
		t.Errorf("Expected the other tab's answer B to survive, got %q", text)
	}
	if rows, _ := draft.Answers[13].Value.Grid(); len(rows) != 2 {
		t.Errorf("Expected 2 table rows, got %v", rows)
	}
}

func TestPublicSubmit_InvalidAnswersStayLocal(t *testing.T) {
	s := newPublicSetup(t)
	ctx := context.Background()

	err := s.svc.Submit(ctx, 1, testToken)
	var invalid *AnswersInvalidError
	if !errors.As(err, &invalid) {
		t.Fatalf("Expected AnswersInvalidError, got %v", err)
	}
	if ids := invalid.QuestionIDs(); len(ids) != 1 || ids[0] != 11 {
		t.Errorf("Expected only question 11 to fail, got %v", ids)
	}
	if answerErr, _ := invalid.AnswerErrorFor(11); answerErr.Code != validator.CodeRequired {
		t.Errorf("Expected REQUIRED, got %s", answerErr.Code)
	}
	if n := s.backend.count("submit"); n != 0 {
		t.Errorf("Expected no submission call, got %d", n)
	}
}

func TestPublicSubmit_Success(t *testing.T) {
	s := newPublicSetup(t)
	ctx := context.Background()

	if _, err := s.svc.SaveAnswer(ctx, 1, testToken, 11, models.TextValue("B")); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := s.svc.Submit(ctx, 1, testToken); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got := s.backend.submitted
	if len(got) != 3 || got[0].QuestionID != 10 || got[1].QuestionID != 11 || got[2].QuestionID != 12 {
		t.Fatalf("Expected answers for 10, 11, 12 in order, got %+v", got)
	}
	if _, err := s.drafts.Get(ctx, 1, testToken); err == nil {
		t.Error("Expected the draft to be cleared after submission")
	}

	published := s.publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.TypeResponseSubmitted {
		t.Fatalf("Expected one response.submitted event, got %v", published)
	}
	var data events.ResponseSubmittedData
	if err := published[0].Decode(&data); err != nil || data.SurveyID != 1 || data.AnswerCount != 3 {
		t.Errorf("Unexpected event data %+v (%v)", data, err)
	}
}

func TestPublicSubmit_UsedLinkKeepsDraft(t *testing.T) {
	s := newPublicSetup(t)
	ctx := context.Background()
	s.backend.submitErr = &backend.APIError{Status: http.StatusConflict, Code: "LINK_USED", Message: "already used"}

	if _, err := s.svc.SaveAnswer(ctx, 1, testToken, 11, models.TextValue("A")); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := s.svc.Submit(ctx, 1, testToken); !errors.Is(err, ErrLinkUsed) {
		t.Fatalf("Expected ErrLinkUsed, got %v", err)
	}
	if _, err := s.drafts.Get(ctx, 1, testToken); err != nil {
		t.Errorf("Expected the draft to survive a failed submission, got %v", err)
	}
	if len(s.publisher.GetPublishedEvents()) != 0 {
		t.Error("Expected no event for a failed submission")
	}
}

func TestPublicDiscard(t *testing.T) {
	s := newPublicSetup(t)
	ctx := context.Background()

	if _, err := s.svc.SaveAnswer(ctx, 1, testToken, 11, models.TextValue("A")); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := s.svc.Discard(ctx, 1, testToken); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := s.drafts.Get(ctx, 1, testToken); err == nil {
		t.Error("Expected no draft after discard")
	}
	if err := s.svc.Discard(ctx, 1, ""); !errors.Is(err, ErrTokenMissing) {
		t.Errorf("Expected ErrTokenMissing, got %v", err)
	}
}

func TestLinkCacheTTL(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		v := now.Add(d)
		return &v
	}

	tests := []struct {
		name      string
		expiresAt *time.Time
		want      time.Duration
	}{
		{name: "no expiry", expiresAt: nil, want: 2 * time.Minute},
		{name: "expires later", expiresAt: at(time.Hour), want: 2 * time.Minute},
		{name: "expires sooner", expiresAt: at(30 * time.Second), want: 30 * time.Second},
		{name: "already expired", expiresAt: at(-time.Second), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := linkCacheTTL(tt.expiresAt, 2*time.Minute, now); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPublicLoad_CacheEndsWithLink(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	fb := newFakeBackend()
	survey := publicFixture()
	expiresAt := time.Now().Add(30 * time.Second)
	survey.ExpiresAt = &expiresAt
	fb.public[1] = survey
	svc := NewPublicSurveyService(fb, memory.NewDraftStore(0), cache.NewCacheManager(client), events.NewMockEventPublisher(discardLogger()), discardLogger(), time.Hour)
	ctx := context.Background()

	if _, err := svc.Load(ctx, 1, testToken); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	key := "public_survey:1:" + testToken
	if ttl := mr.TTL(key); ttl <= 0 || ttl > 30*time.Second {
		t.Fatalf("Expected cache entry capped at the link expiry, got %v", ttl)
	}

	// once the link has expired the backend decides again
	mr.FastForward(31 * time.Second)
	fb.publicErr = &backend.APIError{Status: http.StatusGone, Code: "LINK_EXPIRED"}
	if _, err := svc.Load(ctx, 1, testToken); !errors.Is(err, ErrLinkExpired) {
		t.Fatalf("Expected ErrLinkExpired, got %v", err)
	}
	if n := fb.count("get_public_survey"); n != 2 {
		t.Errorf("Expected 2 backend fetches, got %d", n)
	}
}
