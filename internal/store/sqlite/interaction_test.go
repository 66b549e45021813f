package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/aicrm/internal/domain"
	"github.com/gosuda/aicrm/internal/store/sqlite"
)

func strPtr(s string) *string { return &s }

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "crm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// ---------------------------------------------------------------------------
// Create / GetByID
// ---------------------------------------------------------------------------

func TestInteractionRepo_CreateRoundTripsNulls(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestStore(t).Interactions()

	created, err := repo.Create(ctx, &domain.InteractionFields{
		HCPName:         "Dr. Smith",
		InteractionType: strPtr("Phone Call"),
		InteractionDate: strPtr("2025-05-01"),
		InteractionTime: strPtr("14:30"),
		Attendees:       strPtr(""),
	})
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, "Dr. Smith", got.HCPName)
	assert.Equal(t, "Phone Call", *got.InteractionType)
	assert.Equal(t, "2025-05-01", *got.InteractionDate)
	assert.Equal(t, "14:30", *got.InteractionTime)
	require.NotNil(t, got.Attendees, "empty string must not collapse to null")
	assert.Empty(t, *got.Attendees)
	assert.Nil(t, got.TopicsDiscussed)
	assert.Nil(t, got.MaterialsShared)
	assert.Nil(t, got.ObservedSentiment)
	assert.Nil(t, got.Outcomes)
	assert.Nil(t, got.FollowUpActions)
	assert.WithinDuration(t, created.CreatedAt, got.CreatedAt, time.Millisecond)
}

func TestInteractionRepo_IDsIncrease(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestStore(t).Interactions()

	first, err := repo.Create(ctx, &domain.InteractionFields{HCPName: "Dr. A"})
	require.NoError(t, err)
	second, err := repo.Create(ctx, &domain.InteractionFields{HCPName: "Dr. A"})
	require.NoError(t, err)

	assert.Greater(t, second.ID, first.ID)
}

func TestInteractionRepo_GetByIDNotFound(t *testing.T) {
	t.Parallel()

	_, err := newTestStore(t).Interactions().GetByID(context.Background(), 999)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestInteractionRepo_List(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestStore(t).Interactions()

	for _, name := range []string{"Dr. Smith", "Dr. Jones", "Dr. Smithers", "Nurse 50%"} {
		_, err := repo.Create(ctx, &domain.InteractionFields{HCPName: name})
		require.NoError(t, err)
	}

	t.Run("all newest first", func(t *testing.T) {
		all, err := repo.List(ctx, domain.InteractionFilter{})
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, "Nurse 50%", all[0].HCPName)
		assert.Equal(t, "Dr. Smith", all[3].HCPName)
	})

	t.Run("case insensitive substring", func(t *testing.T) {
		got, err := repo.List(ctx, domain.InteractionFilter{HCPName: "smith"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Dr. Smithers", got[0].HCPName)
		assert.Equal(t, "Dr. Smith", got[1].HCPName)
	})

	t.Run("wildcards are literal", func(t *testing.T) {
		got, err := repo.List(ctx, domain.InteractionFilter{HCPName: "%"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Nurse 50%", got[0].HCPName)
	})

	t.Run("limit and offset", func(t *testing.T) {
		got, err := repo.List(ctx, domain.InteractionFilter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Dr. Smithers", got[0].HCPName)
		assert.Equal(t, "Dr. Jones", got[1].HCPName)
	})

	t.Run("offset only", func(t *testing.T) {
		got, err := repo.List(ctx, domain.InteractionFilter{Offset: 3})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Dr. Smith", got[0].HCPName)
	})

	t.Run("no match", func(t *testing.T) {
		got, err := repo.List(ctx, domain.InteractionFilter{HCPName: "Dr. Who"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestInteractionRepo_ListFoldsUnicodeCase(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestStore(t).Interactions()

	for _, name := range []string{"Dr. Müller", "Dr. Øster", "Dr. Miller"} {
		_, err := repo.Create(ctx, &domain.InteractionFields{HCPName: name})
		require.NoError(t, err)
	}

	tests := []struct {
		term string
		want []string
	}{
		{"müller", []string{"Dr. Müller"}},
		{"Müller", []string{"Dr. Müller"}},
		{"MÜLLER", []string{"Dr. Müller"}},
		{"øster", []string{"Dr. Øster"}},
		{"MILLER", []string{"Dr. Miller"}},
		{"ller", []string{"Dr. Miller", "Dr. Müller"}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got, err := repo.List(ctx, domain.InteractionFilter{HCPName: tt.term})
			require.NoError(t, err)

			names := make([]string, len(got))
			for i, it := range got {
				names[i] = it.HCPName
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestInteractionRepo_Update(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestStore(t).Interactions()

	created, err := repo.Create(ctx, &domain.InteractionFields{
		HCPName:  "Dr. Smith",
		Outcomes: strPtr("agreed to trial"),
	})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, domain.InteractionPatch{
		domain.FieldObservedSentiment: strPtr("Negative"),
		domain.FieldOutcomes:          nil,
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Dr. Smith", updated.HCPName)
	assert.Equal(t, "Negative", *updated.ObservedSentiment)
	assert.Nil(t, updated.Outcomes)
	assert.WithinDuration(t, created.CreatedAt, updated.CreatedAt, time.Millisecond)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestInteractionRepo_UpdateNotFound(t *testing.T) {
	t.Parallel()

	_, err := newTestStore(t).Interactions().Update(context.Background(), 42, domain.InteractionPatch{
		domain.FieldOutcomes: strPtr("x"),
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInteractionRepo_UpdateRejectsUnknownColumn(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestStore(t).Interactions()

	created, err := repo.Create(ctx, &domain.InteractionFields{HCPName: "Dr. Smith"})
	require.NoError(t, err)

	_, err = repo.Update(ctx, created.ID, domain.InteractionPatch{"id": strPtr("7")})
	require.ErrorIs(t, err, domain.ErrInvalidFormat)
}

func TestInteractionRepo_EmptyPatchReturnsCurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestStore(t).Interactions()

	created, err := repo.Create(ctx, &domain.InteractionFields{HCPName: "Dr. Smith"})
	require.NoError(t, err)

	got, err := repo.Update(ctx, created.ID, domain.InteractionPatch{})
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestOpen_Memory(t *testing.T) {
	t.Parallel()

	s, err := sqlite.New(context.Background(), sqlite.MemoryPath)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Ping(context.Background()))
	_, err = s.Interactions().Create(context.Background(), &domain.InteractionFields{HCPName: "Dr. Mem"})
	require.NoError(t, err)
}
