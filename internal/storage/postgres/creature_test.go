package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/tetracube/internal/ability"
	"github.com/cory-johannsen/tetracube/internal/importer"
	"github.com/cory-johannsen/tetracube/internal/statblock"
	"github.com/cory-johannsen/tetracube/internal/storage/postgres"
	"github.com/cory-johannsen/tetracube/internal/testutil"
)

func convertFixture(t *testing.T) *importer.Result {
	t.Helper()
	sb, err := statblock.Parse(testutil.Statblock(t, testutil.YoungGreenDragon))
	require.NoError(t, err)
	res, err := importer.Convert(sb, nil)
	require.NoError(t, err)
	return res
}

func TestCreatureRepository_CreateAndGet(t *testing.T) {
	repo := postgres.NewCreatureRepository(testutil.NewPool(t))
	ctx := context.Background()
	res := convertFixture(t)

	ref, err := repo.CreateCreature(ctx, res.Actor)
	require.NoError(t, err)
	require.NoError(t, repo.CreateFeatureItems(ctx, ref, res.Features))

	got, err := repo.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "young_green_dragon", got.Slug)
	assert.Equal(t, res.Actor.Name, got.Actor.Name)
	assert.Equal(t, res.Actor.Abilities, got.Actor.Abilities)
	assert.Equal(t, res.Actor.HitPoints, got.Actor.HitPoints)
	assert.WithinDuration(t, time.Now(), got.CreatedAt, time.Minute)
	require.Len(t, got.Features, len(res.Features))
	for i := range res.Features {
		assert.Equal(t, res.Features[i].Name, got.Features[i].Name)
		assert.Equal(t, res.Features[i].DamageParts, got.Features[i].DamageParts)
	}
}

func TestCreatureRepository_FeaturesAppend(t *testing.T) {
	repo := postgres.NewCreatureRepository(testutil.NewPool(t))
	ctx := context.Background()
	res := convertFixture(t)

	ref, err := repo.CreateCreature(ctx, res.Actor)
	require.NoError(t, err)
	require.NoError(t, repo.CreateFeatureItems(ctx, ref, res.Features[:2]))
	require.NoError(t, repo.CreateFeatureItems(ctx, ref, res.Features[2:]))
	require.NoError(t, repo.CreateFeatureItems(ctx, ref, nil))

	got, err := repo.Get(ctx, ref)
	require.NoError(t, err)
	require.Len(t, got.Features, len(res.Features))
	assert.Equal(t, res.Features[2].Name, got.Features[2].Name)
}

func TestCreatureRepository_DeleteCascades(t *testing.T) {
	pool := testutil.NewPool(t)
	repo := postgres.NewCreatureRepository(pool)
	ctx := context.Background()
	res := convertFixture(t)

	ref, err := repo.CreateCreature(ctx, res.Actor)
	require.NoError(t, err)
	require.NoError(t, repo.CreateFeatureItems(ctx, ref, res.Features))
	require.NoError(t, repo.DeleteCreature(ctx, ref))

	var n int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM creature_features`).Scan(&n))
	assert.Zero(t, n)

	_, err = repo.Get(ctx, ref)
	assert.ErrorIs(t, err, postgres.ErrCreatureNotFound)
	assert.ErrorIs(t, repo.DeleteCreature(ctx, ref), postgres.ErrCreatureNotFound)
}

func TestCreatureRepository_UnknownRef(t *testing.T) {
	repo := postgres.NewCreatureRepository(testutil.NewPool(t))
	ctx := context.Background()

	assert.ErrorIs(t, repo.CreateFeatureItems(ctx, "999999", []ability.Feature{{Name: "x"}}), postgres.ErrCreatureNotFound)
	assert.ErrorIs(t, repo.CreateFeatureItems(ctx, "not-a-number", nil), postgres.ErrCreatureNotFound)
	_, err := repo.Get(ctx, "0")
	assert.ErrorIs(t, err, postgres.ErrCreatureNotFound)
}

func TestImporter_WithCreatureRepository(t *testing.T) {
	pool := testutil.NewPool(t)
	repo := postgres.NewCreatureRepository(pool)
	ctx := context.Background()
	imp := importer.New(repo, noopReporter{}, zaptest.NewLogger(t))

	out, err := imp.ImportBytes(ctx, testutil.Statblock(t, testutil.YoungGreenDragon))
	require.NoError(t, err)
	assert.Equal(t, 9, out.Features)

	var n int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM creatures WHERE slug = $1`, "young_green_dragon").Scan(&n))
	assert.Equal(t, 1, n)

	got, err := repo.Get(ctx, out.Ref)
	require.NoError(t, err)
	assert.Len(t, got.Features, 9)
}

// TestCreatureRepository_PropertyFeatureOrder checks that any split of the
// feature list into successive batches is stored in the original order.
func TestCreatureRepository_PropertyFeatureOrder(t *testing.T) {
	repo := postgres.NewCreatureRepository(testutil.NewPool(t))
	res := convertFixture(t)

	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		cut := rapid.IntRange(0, len(res.Features)).Draw(rt, "cut")

		ref, err := repo.CreateCreature(ctx, res.Actor)
		if err != nil {
			rt.Fatal(err)
		}
		if err := repo.CreateFeatureItems(ctx, ref, res.Features[:cut]); err != nil {
			rt.Fatal(err)
		}
		if err := repo.CreateFeatureItems(ctx, ref, res.Features[cut:]); err != nil {
			rt.Fatal(err)
		}
		got, err := repo.Get(ctx, ref)
		if err != nil {
			rt.Fatal(err)
		}
		for i := range res.Features {
			assert.Equal(rt, res.Features[i].Name, got.Features[i].Name)
		}
	})
}

type noopReporter struct{}

func (noopReporter) ReportError(context.Context, string) {}
