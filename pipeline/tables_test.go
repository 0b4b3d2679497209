package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucidtrace/tabula/errors"
	"github.com/lucidtrace/tabula/source"
	"github.com/lucidtrace/tabula/table"
)

func builtView(t *testing.T) *table.TableView {
	t.Helper()
	view, err := table.NewBuilder(table.NewRangeSelector(2), source.NewDataset()).Build()
	require.NoError(t, err)
	return view
}

func TestTableRegistryLifecycle(t *testing.T) {
	r := NewTableRegistry()

	require.NoError(t, r.Create("trials", "Trials", "per-trial stats"))
	assert.True(t, r.Has("trials"))

	info, ok := r.Info("trials")
	require.True(t, ok)
	assert.Equal(t, "Trials", info.Name)

	err := r.Create("trials", "Again", "")
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))

	require.NoError(t, r.UpdateInfo("trials", "Trials v2", "updated"))
	info, _ = r.Info("trials")
	assert.Equal(t, "Trials v2", info.Name)
	assert.Equal(t, "updated", info.Description)

	// Metadata exists but nothing is built yet.
	_, ok = r.Get("trials")
	assert.False(t, ok)

	view := builtView(t)
	require.NoError(t, r.StoreBuilt("trials", view))
	got, ok := r.Get("trials")
	require.True(t, ok)
	assert.Same(t, view, got)

	assert.Error(t, r.StoreBuilt("missing", view))
	assert.Error(t, r.UpdateInfo("missing", "", ""))
}

func TestTableRegistryUniqueIDs(t *testing.T) {
	r := NewTableRegistry()
	require.NoError(t, r.Create("base_0", "taken", ""))

	first := r.GenerateUniqueID("base")
	second := r.GenerateUniqueID("base")
	assert.Equal(t, "base_1", first, "skips the already registered candidate")
	assert.Equal(t, "base_2", second)

	assert.Equal(t, []string{"base_0"}, r.IDs())
}
