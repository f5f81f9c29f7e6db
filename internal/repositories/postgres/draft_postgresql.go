package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/survey-portal/internal/models"
	"github.com/SAP-F-2025/survey-portal/internal/repositories"
)

// DraftRecord is the durable row of a respondent draft
type DraftRecord struct {
	Key       string         `gorm:"column:draft_key;primaryKey;size:255"`
	SurveyID  uint           `gorm:"not null;index"`
	Token     string         `gorm:"not null;size:255"`
	Answers   datatypes.JSON `gorm:"type:jsonb"`
	UpdatedAt time.Time
	ExpiresAt time.Time `gorm:"not null;index"`
}

func (DraftRecord) TableName() string {
	return "survey_drafts"
}

type DraftPostgreSQL struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewDraftPostgreSQL(db *gorm.DB, ttl time.Duration) *DraftPostgreSQL {
	return &DraftPostgreSQL{db: db, ttl: ttl, now: time.Now}
}

// Migrate creates or updates the drafts table
func (r *DraftPostgreSQL) Migrate() error {
	return r.db.AutoMigrate(&DraftRecord{})
}

func (r *DraftPostgreSQL) Get(ctx context.Context, surveyID uint, token string) (*models.Draft, error) {
	var record DraftRecord
	err := r.db.WithContext(ctx).
		Where("draft_key = ? AND expires_at > ?", repositories.DraftKey(surveyID, token), r.now()).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return fromRecord(record)
}

func (r *DraftPostgreSQL) Save(ctx context.Context, draft *models.Draft) error {
	record, err := r.toRecord(draft)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "draft_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"answers", "updated_at", "expires_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// PutAnswer merges one answer into the stored jsonb so writers of different
// questions never overwrite each other. An expired row starts over.
func (r *DraftPostgreSQL) PutAnswer(ctx context.Context, surveyID uint, token string, answer models.Answer) error {
	patch, err := json.Marshal(map[uint]models.Answer{answer.QuestionID: answer})
	if err != nil {
		return fmt.Errorf("failed to encode draft answer: %w", err)
	}
	now := r.now()
	record := DraftRecord{
		Key:       repositories.DraftKey(surveyID, token),
		SurveyID:  surveyID,
		Token:     token,
		Answers:   datatypes.JSON(patch),
		UpdatedAt: now,
		ExpiresAt: now.Add(r.ttl),
	}
	if err := r.mergeAnswer(r.db.WithContext(ctx), record).Error; err != nil {
		return fmt.Errorf("failed to save draft answer: %w", err)
	}
	return nil
}

func (r *DraftPostgreSQL) mergeAnswer(tx *gorm.DB, record DraftRecord) *gorm.DB {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "draft_key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"answers": gorm.Expr(
				"CASE WHEN survey_drafts.expires_at > ? AND jsonb_typeof(survey_drafts.answers) = 'object' "+
					"THEN survey_drafts.answers || EXCLUDED.answers ELSE EXCLUDED.answers END",
				record.UpdatedAt),
			"updated_at": record.UpdatedAt,
			"expires_at": record.ExpiresAt,
		}),
	}).Create(&record)
}

func (r *DraftPostgreSQL) RemoveAnswer(ctx context.Context, surveyID uint, token string, questionID uint) error {
	if err := r.dropAnswer(r.db.WithContext(ctx), repositories.DraftKey(surveyID, token), questionID).Error; err != nil {
		return fmt.Errorf("failed to remove draft answer: %w", err)
	}
	return nil
}

func (r *DraftPostgreSQL) dropAnswer(tx *gorm.DB, key string, questionID uint) *gorm.DB {
	now := r.now()
	return tx.Model(&DraftRecord{}).
		Where("draft_key = ? AND expires_at > ?", key, now).
		Updates(map[string]interface{}{
			"answers":    gorm.Expr("answers - ?::text", strconv.FormatUint(uint64(questionID), 10)),
			"updated_at": now,
			"expires_at": now.Add(r.ttl),
		})
}

func (r *DraftPostgreSQL) Delete(ctx context.Context, surveyID uint, token string) error {
	err := r.db.WithContext(ctx).
		Where("draft_key = ?", repositories.DraftKey(surveyID, token)).
		Delete(&DraftRecord{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// PurgeExpired removes drafts whose lifetime ended and returns how many went
func (r *DraftPostgreSQL) PurgeExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", r.now()).Delete(&DraftRecord{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge drafts: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *DraftPostgreSQL) toRecord(draft *models.Draft) (DraftRecord, error) {
	answers, err := json.Marshal(draft.Answers)
	if err != nil {
		return DraftRecord{}, fmt.Errorf("failed to encode draft answers: %w", err)
	}
	now := r.now()
	return DraftRecord{
		Key:       repositories.DraftKey(draft.SurveyID, draft.Token),
		SurveyID:  draft.SurveyID,
		Token:     draft.Token,
		Answers:   datatypes.JSON(answers),
		UpdatedAt: now,
		ExpiresAt: now.Add(r.ttl),
	}, nil
}

func fromRecord(record DraftRecord) (*models.Draft, error) {
	draft := models.NewDraft(record.SurveyID, record.Token)
	draft.UpdatedAt = record.UpdatedAt
	if len(record.Answers) > 0 {
		if err := json.Unmarshal(record.Answers, &draft.Answers); err != nil {
			return nil, fmt.Errorf("failed to decode draft answers: %w", err)
		}
	}
	return draft, nil
}
