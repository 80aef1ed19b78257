package evaluation

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/pearl-backend/internal/data/repos/testutil"
	types "github.com/yungbote/pearl-backend/internal/domain"
	"github.com/yungbote/pearl-backend/internal/platform/dbctx"
)

func TestVocabProgressRecordEncounterIncrements(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewVocabProgressRepo(db, testutil.Logger(t))
	learnerID := uuid.New()

	for _, w := range []string{"Compliance", "compliance ", "COMPLIANCE"} {
		if err := repo.RecordEncounter(dbc, learnerID, w); err != nil {
			t.Fatalf("RecordEncounter(%q): %v", w, err)
		}
	}

	if n := testutil.CountRows(t, ctx, tx, &types.VocabProgress{}); n != 1 {
		t.Fatalf("rows=%d want 1", n)
	}
	got, err := repo.Get(dbc, learnerID, "compliance")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatalf("expected row")
	}
	if got.Encounters != 3 {
		t.Fatalf("encounters=%d want 3", got.Encounters)
	}
	if math.Abs(got.Mastery-0.3) > 1e-9 {
		t.Fatalf("mastery=%v want 0.3", got.Mastery)
	}
}

func TestVocabProgressMasteryCapsAtOne(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewVocabProgressRepo(db, testutil.Logger(t))
	learnerID := uuid.New()
	for i := 0; i < 15; i++ {
		if err := repo.RecordEncounter(dbc, learnerID, "directive"); err != nil {
			t.Fatalf("RecordEncounter %d: %v", i, err)
		}
	}
	got, err := repo.Get(dbc, learnerID, "directive")
	if err != nil || got == nil {
		t.Fatalf("Get: row=%v err=%v", got, err)
	}
	if got.Encounters != 15 {
		t.Fatalf("encounters=%d want 15", got.Encounters)
	}
	if got.Mastery != types.MasteryMax {
		t.Fatalf("mastery=%v want %v", got.Mastery, types.MasteryMax)
	}
}

func TestVocabProgressReachesMaxOnTenthEncounter(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewVocabProgressRepo(db, testutil.Logger(t))
	learnerID := uuid.New()
	for i := 0; i < 10; i++ {
		if err := repo.RecordEncounter(dbc, learnerID, "ministry"); err != nil {
			t.Fatalf("RecordEncounter %d: %v", i, err)
		}
	}
	got, err := repo.Get(dbc, learnerID, "ministry")
	if err != nil || got == nil {
		t.Fatalf("Get: row=%v err=%v", got, err)
	}
	if got.Encounters != 10 || got.Mastery != types.MasteryMax {
		t.Fatalf("encounters=%d mastery=%v want 10 and %v", got.Encounters, got.Mastery, types.MasteryMax)
	}
}

func TestVocabProgressContinuesFromSeed(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	learnerID := uuid.New()
	testutil.SeedVocab(t, ctx, tx, learnerID, "citizen", 4, 0.95)

	repo := NewVocabProgressRepo(db, testutil.Logger(t))
	if err := repo.RecordEncounter(dbc, learnerID, "Citizen"); err != nil {
		t.Fatalf("RecordEncounter: %v", err)
	}
	got, err := repo.Get(dbc, learnerID, "citizen")
	if err != nil || got == nil {
		t.Fatalf("Get: row=%v err=%v", got, err)
	}
	if got.Encounters != 5 || got.Mastery != 1 {
		t.Fatalf("got encounters=%d mastery=%v", got.Encounters, got.Mastery)
	}
}

func TestVocabProgressSkipsBlankWords(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewVocabProgressRepo(db, testutil.Logger(t))
	if err := repo.RecordEncounter(dbc, uuid.New(), "   "); err != nil {
		t.Fatalf("RecordEncounter: %v", err)
	}
	if n := testutil.CountRows(t, ctx, tx, &types.VocabProgress{}); n != 0 {
		t.Fatalf("rows=%d want 0", n)
	}
}
