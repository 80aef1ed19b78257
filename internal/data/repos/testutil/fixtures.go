package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/pearl-backend/internal/domain"
)

func SeedVocab(tb testing.TB, ctx context.Context, tx *gorm.DB, learnerID uuid.UUID, wordID string, encounters int, mastery float64) *types.VocabProgress {
	tb.Helper()
	row := &types.VocabProgress{
		ID:         uuid.New(),
		LearnerID:  learnerID,
		WordID:     wordID,
		Encounters: encounters,
		Mastery:    mastery,
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed vocab progress: %v", err)
	}
	return row
}

func CountRows(tb testing.TB, ctx context.Context, tx *gorm.DB, model any) int64 {
	tb.Helper()
	var n int64
	if err := tx.WithContext(ctx).Model(model).Count(&n).Error; err != nil {
		tb.Fatalf("count rows: %v", err)
	}
	return n
}
