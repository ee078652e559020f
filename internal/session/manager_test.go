package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/solution-finder/internal/catalog"
	"github.com/ziadkadry99/solution-finder/internal/catalog/catalogtest"
	"github.com/ziadkadry99/solution-finder/internal/wizard"
)

// swapProvider lets a test replace the catalog mid-session.
type swapProvider struct {
	mu sync.Mutex
	c  *catalog.Catalog
}

func (p *swapProvider) Current() (*catalog.Catalog, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.c == nil {
		return nil, catalog.ErrNotLoaded
	}
	return p.c, nil
}

func (p *swapProvider) set(c *catalog.Catalog) {
	p.mu.Lock()
	p.c = c
	p.mu.Unlock()
}

func newManager(t *testing.T) (*Manager, *swapProvider) {
	t.Helper()
	p := &swapProvider{c: catalogtest.Retail()}
	return NewManager(NewMemoryStore(time.Hour), p, NewHub(nil, nil), nil), p
}

func TestCreate(t *testing.T) {
	m, _ := newManager(t)
	res, err := m.Create(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, res.Session.ID)
	assert.Equal(t, wizard.Initial(), res.Session.State)
	assert.Equal(t, []*wizard.Snapshot{nil}, res.Session.History)
	assert.Equal(t, DirectiveNone, res.Directive.Op)
	assert.Equal(t, []string{"Retail", "Restaurant"}, res.View.Categories)
}

func TestCreateWithoutCatalog(t *testing.T) {
	m, p := newManager(t)
	p.set(nil)
	_, err := m.Create(context.Background())
	assert.ErrorIs(t, err, catalog.ErrNotLoaded)
}

func TestDispatchDirectives(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)
	created, err := m.Create(ctx)
	require.NoError(t, err)
	id := created.Session.ID

	res, err := m.Dispatch(ctx, id, wizard.ChooseCategory("Retail"))
	require.NoError(t, err)
	assert.Equal(t, Directive{Op: DirectivePush, Entry: &wizard.Snapshot{Step: wizard.StepFeatures}}, res.Directive)
	assert.Len(t, res.Session.History, 2)
	assert.Equal(t, 1, res.Session.Cursor)

	res, err = m.Dispatch(ctx, id, wizard.ToggleFeature("POS"))
	require.NoError(t, err)
	assert.Equal(t, DirectiveNone, res.Directive.Op, "toggles do not add history")
	require.Len(t, res.View.Features, 3)
	assert.True(t, res.View.Features[0].Selected)

	res, err = m.Dispatch(ctx, id, wizard.ToStep3())
	require.NoError(t, err)
	assert.Equal(t, DirectivePush, res.Directive.Op)
	require.Len(t, res.View.Ranked, 2)
	assert.Equal(t, "Counter Pro", res.View.Ranked[0].Solution.Name)
	assert.Equal(t, 100, res.View.Ranked[0].Score)

	res, err = m.Dispatch(ctx, id, wizard.Reset())
	require.NoError(t, err)
	assert.Equal(t, DirectiveReset, res.Directive.Op)
	assert.Len(t, res.Session.History, 1)
	assert.Equal(t, wizard.StepCategory, res.Session.State.Step)
}

func TestCloseModalRewindsHistory(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)
	created, err := m.Create(ctx)
	require.NoError(t, err)
	id := created.Session.ID

	for _, ev := range []wizard.Event{wizard.ChooseCategory("Retail"), wizard.ToStep3()} {
		_, err := m.Dispatch(ctx, id, ev)
		require.NoError(t, err)
	}

	res, err := m.Dispatch(ctx, id, wizard.OpenModal("counter"))
	require.NoError(t, err)
	assert.Equal(t, DirectivePush, res.Directive.Op)
	assert.Equal(t, 3, res.Session.Cursor)

	res, err = m.Dispatch(ctx, id, wizard.CloseModal())
	require.NoError(t, err)
	assert.Equal(t, Directive{Op: DirectiveBack, Entry: &wizard.Snapshot{Step: wizard.StepResults}}, res.Directive)
	assert.Equal(t, 2, res.Session.Cursor)
	assert.Empty(t, res.Session.State.ModalOpenID)

	res, err = m.Navigate(ctx, id, NavigateRequest{Direction: Back})
	require.NoError(t, err)
	assert.Equal(t, wizard.StepFeatures, res.Session.State.Step, "one back leaves the results step")
}

func TestDispatchInvalidLeavesSession(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)
	created, err := m.Create(ctx)
	require.NoError(t, err)
	id := created.Session.ID

	_, err = m.Dispatch(ctx, id, wizard.ToStep3())
	assert.ErrorIs(t, err, wizard.ErrInvalidTransition)

	got, err := m.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, wizard.Initial(), got.Session.State)
}

func TestDispatchUnknownSession(t *testing.T) {
	m, _ := newManager(t)
	_, err := m.Dispatch(context.Background(), "nope", wizard.Reset())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNavigateBackForward(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)
	created, err := m.Create(ctx)
	require.NoError(t, err)
	id := created.Session.ID

	for _, ev := range []wizard.Event{wizard.ChooseCategory("Retail"), wizard.ToStep3()} {
		_, err := m.Dispatch(ctx, id, ev)
		require.NoError(t, err)
	}

	res, err := m.Navigate(ctx, id, NavigateRequest{Direction: Back})
	require.NoError(t, err)
	assert.Equal(t, wizard.StepFeatures, res.Session.State.Step)
	assert.Equal(t, DirectiveNone, res.Directive.Op)
	assert.Len(t, res.Session.History, 3, "navigation never pushes")

	res, err = m.Navigate(ctx, id, NavigateRequest{Direction: Forward})
	require.NoError(t, err)
	assert.Equal(t, wizard.StepResults, res.Session.State.Step)

	_, err = m.Navigate(ctx, id, NavigateRequest{Direction: Forward})
	assert.ErrorIs(t, err, ErrNoHistory)

	_, err = m.Navigate(ctx, id, NavigateRequest{Direction: "sideways"})
	assert.ErrorIs(t, err, ErrUnknownDirection)
}

func TestNavigateToBrowserEntry(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)
	created, err := m.Create(ctx)
	require.NoError(t, err)
	id := created.Session.ID

	_, err = m.Dispatch(ctx, id, wizard.ChooseCategory("Retail"))
	require.NoError(t, err)

	res, err := m.Navigate(ctx, id, NavigateRequest{})
	require.NoError(t, err)
	assert.Equal(t, wizard.StepCategory, res.Session.State.Step, "a nil entry is the category page")
	assert.Equal(t, "Retail", res.Session.State.Category)

	entry := &wizard.Snapshot{Step: wizard.StepResults, SearchMode: true}
	first, err := m.Navigate(ctx, id, NavigateRequest{Entry: entry})
	require.NoError(t, err)
	second, err := m.Navigate(ctx, id, NavigateRequest{Entry: entry})
	require.NoError(t, err)
	assert.Equal(t, first.Session.State, second.Session.State)
	assert.True(t, second.Session.State.SearchMode)
}

func TestConcurrentDispatchIsSerialized(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)
	created, err := m.Create(ctx)
	require.NoError(t, err)
	id := created.Session.ID
	_, err = m.Dispatch(ctx, id, wizard.ChooseCategory("Retail"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Dispatch(ctx, id, wizard.ToggleFeature("POS"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := m.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got.Session.State.Selection, "an even number of toggles cancels out")
}

func TestStaleSessionRestartsOnCatalogChange(t *testing.T) {
	ctx := context.Background()
	m, p := newManager(t)
	created, err := m.Create(ctx)
	require.NoError(t, err)
	id := created.Session.ID

	for _, ev := range []wizard.Event{wizard.ChooseCategory("Retail"), wizard.ToStep3(), wizard.OpenModal("counter")} {
		_, err := m.Dispatch(ctx, id, ev)
		require.NoError(t, err)
	}

	p.set(catalog.New([]string{"Retail"}, nil, nil))

	res, err := m.Dispatch(ctx, id, wizard.ChooseCategory("Retail"))
	require.NoError(t, err)
	assert.Equal(t, wizard.StepFeatures, res.Session.State.Step)
	assert.Empty(t, res.Session.State.ModalOpenID)
	assert.Len(t, res.Session.History, 2)
}

func TestHubReceivesViews(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)
	created, err := m.Create(ctx)
	require.NoError(t, err)
	id := created.Session.ID

	updates, cancel := m.Hub().Subscribe(id)
	defer cancel()

	_, err = m.Dispatch(ctx, id, wizard.ChooseCategory("Restaurant"))
	require.NoError(t, err)

	select {
	case data := <-updates:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, "view", msg.Type)
		require.NotNil(t, msg.View)
		assert.Equal(t, "Restaurant", msg.View.State.Category)
	case <-time.After(time.Second):
		t.Fatal("no view published")
	}

	require.NoError(t, m.Delete(ctx, id))
	select {
	case data := <-updates:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, "closed", msg.Type)
	case <-time.After(time.Second):
		t.Fatal("no close published")
	}
}

// flakyStore fails every Put once broken is set.
type flakyStore struct {
	*MemoryStore
	broken bool
}

func (s *flakyStore) Put(ctx context.Context, sess *Session) error {
	if s.broken {
		return errors.New("store down")
	}
	return s.MemoryStore.Put(ctx, sess)
}

func TestFailedPutPublishesNothing(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{MemoryStore: NewMemoryStore(time.Hour)}
	m := NewManager(store, &swapProvider{c: catalogtest.Retail()}, NewHub(nil, nil), nil)
	created, err := m.Create(ctx)
	require.NoError(t, err)
	id := created.Session.ID

	updates, cancel := m.Hub().Subscribe(id)
	defer cancel()

	store.broken = true
	_, err = m.Dispatch(ctx, id, wizard.ChooseCategory("Retail"))
	require.Error(t, err)

	select {
	case data := <-updates:
		t.Fatalf("unexpected update after failed write: %s", data)
	case <-time.After(50 * time.Millisecond):
	}

	got, err := m.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, wizard.Initial(), got.Session.State)
}

func TestDeleteUnknown(t *testing.T) {
	m, _ := newManager(t)
	assert.ErrorIs(t, m.Delete(context.Background(), "nope"), ErrNotFound)
}
