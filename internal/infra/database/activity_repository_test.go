package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/sdr-dashboard/internal/entity"
)

func TestActivityRepository(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping postgres test")
	}

	db, err := NewDBConnection(dsn)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	repo := NewActivityRepository(db)
	require.NoError(t, repo.Migrate(ctx))

	leadID := "test_" + ulid.Make().String()
	evt := entity.LeadEvent{
		ID:      ulid.Make().String(),
		Type:    entity.EventLeadStageAdvance,
		LeadID:  leadID,
		Company: "NimbusOps",
		Stage:   entity.StageContacted,
		Score:   58,
		Interaction: entity.Interaction{
			ID:      "ix_1",
			Type:    entity.InteractionSystem,
			Content: entity.StageNote(entity.StageContacted),
		},
		At: time.Now().UTC().Truncate(time.Microsecond),
	}

	require.NoError(t, repo.Record(ctx, evt))
	require.NoError(t, repo.PublishLeadEvent(ctx, evt), "replays are ignored")

	got, err := repo.Recent(ctx, leadID, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, evt.ID, got[0].ID)
	assert.Equal(t, "Stage → Contacted", got[0].Interaction.Content)
	assert.True(t, evt.At.Equal(got[0].At))
}
