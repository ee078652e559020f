package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ziadkadry99/solution-finder/internal/audit"
	"github.com/ziadkadry99/solution-finder/internal/catalog/catalogtest"
	"github.com/ziadkadry99/solution-finder/internal/config"
	"github.com/ziadkadry99/solution-finder/internal/db"
	"github.com/ziadkadry99/solution-finder/internal/loader"
	"github.com/ziadkadry99/solution-finder/internal/preview"
	"github.com/ziadkadry99/solution-finder/internal/wizard"
)

func pick(t *testing.T, items []menuItem, label string) menuItem {
	t.Helper()
	for _, it := range items {
		if it.Label == label {
			return it
		}
	}
	t.Fatalf("no menu item %q in %v", label, labels(items))
	return menuItem{}
}

func currentMenu(b *browser) []menuItem {
	return b.menu(wizard.Render(b.machine.Catalog(), b.machine.State()))
}

func TestBrowserGuidedFlow(t *testing.T) {
	b, err := newBrowser(catalogtest.Retail())
	require.NoError(t, err)

	items := currentMenu(b)
	assert.Equal(t, []string{"Retail", "Restaurant", "Search all solutions", "Quit"}, labels(items))

	require.NoError(t, pick(t, items, "Retail").run())
	require.NoError(t, pick(t, currentMenu(b), "[ ] Inventory").run())
	items = currentMenu(b)
	pick(t, items, "[x] Inventory")
	pick(t, items, "< Back")

	require.NoError(t, pick(t, items, "See matches").run())
	items = currentMenu(b)
	assert.Equal(t, "Shelf Keeper (100% match)", items[0].Label)
	assert.Equal(t, "Counter Pro (0% match)", items[1].Label)

	require.NoError(t, pick(t, items, "< Back").run())
	s := b.machine.State()
	assert.Equal(t, wizard.StepFeatures, s.Step)
	assert.Equal(t, "Retail", s.Category)

	require.NoError(t, pick(t, currentMenu(b), "> Forward").run())
	assert.Equal(t, wizard.StepResults, b.machine.State().Step)

	require.NoError(t, pick(t, currentMenu(b), "Start over").run())
	assert.Equal(t, wizard.Initial(), b.machine.State())
	assert.Equal(t, 1, b.stack.Len())
}

func TestBrowserBackAfterDetails(t *testing.T) {
	b, err := newBrowser(catalogtest.Retail())
	require.NoError(t, err)

	require.NoError(t, pick(t, currentMenu(b), "Retail").run())
	require.NoError(t, pick(t, currentMenu(b), "See matches").run())
	require.NoError(t, currentMenu(b)[0].run())
	require.NotEmpty(t, b.machine.State().ModalOpenID)

	_, err = b.machine.Dispatch(wizard.CloseModal())
	require.NoError(t, err)
	assert.Equal(t, wizard.StepResults, b.machine.State().Step)

	require.NoError(t, pick(t, currentMenu(b), "< Back").run())
	assert.Equal(t, wizard.StepFeatures, b.machine.State().Step, "a single back leaves the results")
}

func TestBrowserSearch(t *testing.T) {
	b, err := newBrowser(catalogtest.Retail())
	require.NoError(t, err)
	b.ask = func(label, def string) (string, error) { return "pos", nil }

	require.NoError(t, pick(t, currentMenu(b), "Search all solutions").run())
	s := b.machine.State()
	require.True(t, s.SearchMode)
	assert.Equal(t, "pos", s.SearchQuery)

	items := currentMenu(b)
	assert.Equal(t, "Counter Pro (3 mentions)", items[0].Label)

	require.NoError(t, items[0].run())
	assert.Equal(t, "counter", string(b.machine.State().ModalOpenID))

	_, err = b.machine.Dispatch(wizard.CloseModal())
	require.NoError(t, err)
	require.NoError(t, pick(t, currentMenu(b), "Exit search").run())
	s = b.machine.State()
	assert.False(t, s.SearchMode)
	assert.Empty(t, s.SearchQuery)
	assert.Equal(t, wizard.StepCategory, s.Step)
}

func TestBrowserQuit(t *testing.T) {
	b, err := newBrowser(catalogtest.Retail())
	require.NoError(t, err)
	assert.ErrorIs(t, pick(t, currentMenu(b), "Quit").run(), errQuit)
}

func newTestApp(t *testing.T) *app {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return &app{
		cfg:     config.DefaultConfig(),
		logger:  zap.NewNop(),
		db:      database,
		audit:   audit.NewStore(database),
		preview: preview.NewStore(database),
	}
}

func actions(t *testing.T, a *app) []audit.Action {
	t.Helper()
	entries, err := a.audit.Query(context.Background(), audit.QueryFilter{})
	require.NoError(t, err)
	var out []audit.Action
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, entries[i].Action)
	}
	return out
}

func TestCheckVersion(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	require.NoError(t, a.preview.Enable(ctx, []byte(`{"categories":[]}`)))
	require.NoError(t, a.checkVersion(ctx))
	assert.Equal(t, []audit.Action{audit.ActionPreviewDiscarded}, actions(t, a))
	enabled, err := a.preview.Enabled(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, a.checkVersion(ctx))
	assert.Len(t, actions(t, a), 1, "same version records nothing")

	require.NoError(t, a.preview.Enable(ctx, []byte(`{"categories":[]}`)))
	a.cfg.AppVersion = "2.0.0"
	require.NoError(t, a.checkVersion(ctx))
	assert.Equal(t, []audit.Action{
		audit.ActionPreviewDiscarded,
		audit.ActionVersionChanged,
		audit.ActionPreviewDiscarded,
	}, actions(t, a))
}

func TestCatalogSource(t *testing.T) {
	cfg := config.DefaultConfig()
	src := catalogSource(cfg)
	assert.Equal(t, loader.FileSource{Path: cfg.Catalog.Path}, src)

	cfg.Catalog.URL = "https://cdn.example.com/solutions.json"
	httpSrc, ok := catalogSource(cfg).(*loader.HTTPSource)
	require.True(t, ok)
	assert.Equal(t, cfg.Catalog.URL, httpSrc.URL)
	assert.Equal(t, cfg.AppVersion, httpSrc.Version)
}
