package services

import (
	"errors"
	"fmt"
	"sort"

	"github.com/SAP-F-2025/survey-portal/internal/backend"
	"github.com/SAP-F-2025/survey-portal/internal/validator"
)

// Domain errors. Handlers map each of them to a status and an error code.
var (
	ErrTokenMissing     = errors.New("share token is missing")
	ErrLinkExpired      = errors.New("share link has expired")
	ErrLinkUsed         = errors.New("share link has already been used")
	ErrLinkInvalid      = errors.New("share link is invalid")
	ErrSurveyNotFound   = errors.New("survey not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrAnswerLocked     = errors.New("answer is prefilled and locked")
	ErrSurveyEmpty      = errors.New("survey has no questions")
	ErrAlreadyPublished = errors.New("survey is already published")
	ErrNotPublished     = errors.New("survey is not published")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrLoginFailed      = errors.New("invalid username or password")
)

// AnswersInvalidError carries the per question failures of a rejected submission
type AnswersInvalidError struct {
	Failures map[uint]error
}

func (e *AnswersInvalidError) Error() string {
	return fmt.Sprintf("%d answers are invalid", len(e.Failures))
}

// QuestionIDs returns the failing question ids in ascending order
func (e *AnswersInvalidError) QuestionIDs() []uint {
	ids := make([]uint, 0, len(e.Failures))
	for id := range e.Failures {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// AnswerErrorFor returns the structured failure of one question, if any
func (e *AnswersInvalidError) AnswerErrorFor(questionID uint) (*validator.AnswerError, bool) {
	var answerErr *validator.AnswerError
	if errors.As(e.Failures[questionID], &answerErr) {
		return answerErr, true
	}
	return nil, false
}

// linkError turns a failed public call into the matching link error, leaving
// anything unrelated to the link untouched
func linkError(err error) error {
	switch backend.ClassifyLinkError(err) {
	case backend.LinkExpired:
		return fmt.Errorf("%w: %w", ErrLinkExpired, err)
	case backend.LinkUsed:
		return fmt.Errorf("%w: %w", ErrLinkUsed, err)
	case backend.LinkInvalid:
		return fmt.Errorf("%w: %w", ErrLinkInvalid, err)
	}
	return err
}

// notFound maps a backend 404 onto the given domain error
func notFound(err error, domainErr error) error {
	if backend.IsNotFound(err) {
		return fmt.Errorf("%w: %w", domainErr, err)
	}
	return err
}
