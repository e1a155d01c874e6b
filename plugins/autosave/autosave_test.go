package autosave

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/bethropolis/composer/internal/event"
	"github.com/bethropolis/composer/internal/plugin"
	"github.com/bethropolis/composer/internal/store"
	"github.com/bethropolis/composer/internal/theme"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	store    store.Store
	modified bool
	html     string
	commands map[string]plugin.CommandFunc
	status   string
}

var _ plugin.EditorAPI = (*fakeAPI)(nil)

func (f *fakeAPI) BodyHTML() string        { return f.html }
func (f *fakeAPI) Text() string            { return f.html }
func (f *fakeAPI) IsModified() bool        { return f.modified }
func (f *fakeAPI) DocumentName() string    { return "test" }
func (f *fakeAPI) DraftStore() store.Store { return f.store }
func (f *fakeAPI) SaveDraft() (*store.Draft, error) {
	d := &store.Draft{Subject: "s", HTML: f.html}
	if err := f.store.SaveDraft(context.Background(), d); err != nil {
		return nil, err
	}
	f.modified = false
	return d, nil
}
func (f *fakeAPI) DispatchEvent(event.Type, interface{})    {}
func (f *fakeAPI) SubscribeEvent(event.Type, event.Handler) {}
func (f *fakeAPI) Post(fn func())                           { fn() }
func (f *fakeAPI) GetThemeStyle(string) tcell.Style         { return tcell.StyleDefault }
func (f *fakeAPI) SetTheme(string) error                    { return nil }
func (f *fakeAPI) GetTheme() *theme.Theme                   { return theme.GetCurrentTheme() }
func (f *fakeAPI) ListThemes() []string                     { return nil }
func (f *fakeAPI) SetStatusMessage(format string, args ...interface{}) {
	f.status = fmt.Sprintf(format, args...)
}
func (f *fakeAPI) RegisterCommand(name string, fn plugin.CommandFunc) error {
	f.commands[name] = fn
	return nil
}

func newAPI(t *testing.T) *fakeAPI {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "drafts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return &fakeAPI{store: s, commands: map[string]plugin.CommandFunc{}}
}

func TestSaveIfModified(t *testing.T) {
	api := newAPI(t)
	p := New(0)
	require.NoError(t, p.Initialize(api))
	p.enabled = true

	p.saveIfModified()
	drafts, err := api.store.ListDrafts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, drafts, "unmodified documents are not saved")

	api.modified = true
	api.html = "<p>hi</p>"
	p.saveIfModified()
	drafts, err = api.store.ListDrafts(context.Background())
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "<p>hi</p>", drafts[0].HTML)
	assert.False(t, api.modified)
}

func TestDraftsCommand(t *testing.T) {
	api := newAPI(t)
	p := New(0)
	require.NoError(t, p.Initialize(api))

	require.NoError(t, api.commands["drafts"](nil))
	assert.Equal(t, "No drafts", api.status)

	_, err := api.SaveDraft()
	require.NoError(t, err)
	require.NoError(t, api.commands["drafts"](nil))
	assert.Contains(t, api.status, "1 drafts")
}

func TestToggleWithoutInterval(t *testing.T) {
	api := newAPI(t)
	p := New(0)
	require.NoError(t, p.Initialize(api))

	assert.Error(t, api.commands["autosave"]([]string{"on"}))
	assert.False(t, p.enabled)
	require.NoError(t, p.Shutdown())
}
