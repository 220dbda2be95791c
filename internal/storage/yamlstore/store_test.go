package yamlstore_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/tetracube/internal/ability"
	"github.com/cory-johannsen/tetracube/internal/damage"
	"github.com/cory-johannsen/tetracube/internal/importer"
	"github.com/cory-johannsen/tetracube/internal/statblock"
	"github.com/cory-johannsen/tetracube/internal/storage/yamlstore"
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

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := yamlstore.New(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	res := convertFixture(t)

	ref, err := store.CreateCreature(ctx, res.Actor)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "young_green_dragon_"), ref)

	require.NoError(t, store.CreateFeatureItems(ctx, ref, res.Features[:4]))
	require.NoError(t, store.CreateFeatureItems(ctx, ref, res.Features[4:]))

	doc, err := store.Get(ref)
	require.NoError(t, err)
	assert.Equal(t, ref, doc.Ref)
	assert.Equal(t, "Young Green Dragon", doc.Actor.Name)
	assert.Equal(t, res.Actor.HitPoints, doc.Actor.HitPoints)
	assert.Equal(t, res.Actor.Abilities, doc.Actor.Abilities)
	require.Len(t, doc.Features, len(res.Features))
	for i := range res.Features {
		assert.Equal(t, res.Features[i].Name, doc.Features[i].Name, "features keep insertion order")
	}

	var bite ability.Feature
	for _, f := range doc.Features {
		if f.Name == "Bite" {
			bite = f
		}
	}
	assert.Equal(t, []damage.Part{{Dice: "2d10 + 4", Type: "piercing"}, {Dice: "2d6", Type: "poison"}}, bite.DamageParts)

	refs, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{ref}, refs)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	store, err := yamlstore.New(t.TempDir())
	require.NoError(t, err)

	ref, err := store.CreateCreature(ctx, convertFixture(t).Actor)
	require.NoError(t, err)
	require.NoError(t, store.DeleteCreature(ctx, ref))

	_, err = store.Get(ref)
	assert.ErrorIs(t, err, yamlstore.ErrCreatureNotFound)
	assert.ErrorIs(t, store.DeleteCreature(ctx, ref), yamlstore.ErrCreatureNotFound)
	assert.ErrorIs(t, store.CreateFeatureItems(ctx, ref, nil), yamlstore.ErrCreatureNotFound)
}

func TestStore_RejectsEscapingRefs(t *testing.T) {
	store, err := yamlstore.New(t.TempDir())
	require.NoError(t, err)
	for _, ref := range []string{"", ".", "..", "../etc/passwd", "a/b", `a\b`} {
		t.Run(ref, func(t *testing.T) {
			_, err := store.Get(ref)
			assert.ErrorIs(t, err, yamlstore.ErrCreatureNotFound)
		})
	}
}

func TestNew_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "creatures")
	store, err := yamlstore.New(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())
	assert.DirExists(t, dir)
}

func TestNew_EmptyDir(t *testing.T) {
	_, err := yamlstore.New("")
	assert.Error(t, err)
}

func TestStore_ConcurrentImports(t *testing.T) {
	store, err := yamlstore.New(t.TempDir())
	require.NoError(t, err)
	imp := importer.New(store, discard{}, zaptest.NewLogger(t))
	data := testutil.Statblock(t, testutil.YoungGreenDragon)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := imp.ImportBytes(context.Background(), data)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	refs, err := store.List()
	require.NoError(t, err)
	assert.Len(t, refs, 8)
	for _, ref := range refs {
		doc, err := store.Get(ref)
		require.NoError(t, err)
		assert.Len(t, doc.Features, 9)
	}
}

func TestImporter_RollbackRemovesDocument(t *testing.T) {
	dir := t.TempDir()
	store, err := yamlstore.New(dir)
	require.NoError(t, err)
	failing := &failingFeatures{Store: store}
	imp := importer.New(failing, discard{}, nil)

	_, err = imp.ImportBytes(context.Background(), testutil.Statblock(t, testutil.YoungGreenDragon))
	require.ErrorIs(t, err, importer.ErrPersistence)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "rolled-back creature must not remain on disk")
}

type discard struct{}

func (discard) ReportError(context.Context, string) {}

// failingFeatures delegates to a real store but rejects every feature write.
type failingFeatures struct {
	*yamlstore.Store
}

func (f *failingFeatures) CreateFeatureItems(context.Context, string, []ability.Feature) error {
	return os.ErrPermission
}
