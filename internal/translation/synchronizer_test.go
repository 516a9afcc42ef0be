package translation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mccastellazzob/motoclub/internal/store"
	"github.com/mccastellazzob/motoclub/internal/testutil"
)

// fakeTranslator prefixes text with the target code, e.g. "[en] Eventi".
type fakeTranslator struct {
	mu     sync.Mutex
	calls  int
	suffix string
	err    error
}

func (f *fakeTranslator) Translate(_ context.Context, text, _, target string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("[%s] %s%s", target, text, f.suffix), nil
}

type fixture struct {
	db      *sql.DB
	q       *store.Queries
	tree    testutil.Tree
	events  store.Page
	raduno  store.Page
	fake    *fakeTranslator
	sync    *Synchronizer
	locales map[string]store.Locale
}

// newFixture builds it/en/fr homes plus an Italian "eventi" page with a
// child event "raduno".
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.TestDB(t)
	tree := testutil.HomeTree(t, db)
	it := tree.Homes["it"]

	events := testutil.AddPage(t, db, &it, store.NewPageParams{
		LocaleID:          it.LocaleID,
		Slug:              "eventi",
		Title:             "Eventi",
		PageType:          "events",
		Intro:             "<p>I nostri <strong>eventi</strong> in moto</p>",
		SearchDescription: "Calendario eventi del club",
		Live:              true,
	})
	raduno := testutil.AddPage(t, db, &events, store.NewPageParams{
		LocaleID:     it.LocaleID,
		Slug:         "raduno",
		Title:        "Raduno di primavera",
		PageType:     "event_detail",
		LocationName: "Piazza Vittorio",
		Live:         true,
	})

	fake := &fakeTranslator{}
	f := &fixture{
		db:      db,
		q:       store.New(db),
		tree:    tree,
		events:  events,
		raduno:  raduno,
		fake:    fake,
		sync:    NewSynchronizer(Config{DB: db, Translator: fake, Logger: testutil.TestLogger()}),
		locales: map[string]store.Locale{},
	}
	for _, code := range []string{"it", "en", "fr"} {
		f.locales[code] = testutil.Locale(t, db, code)
	}
	return f
}

func (f *fixture) counterpart(t *testing.T, p store.Page, code string) store.Page {
	t.Helper()
	got, err := f.q.GetPageByTranslationKey(context.Background(), store.GetPageByTranslationKeyParams{
		TranslationKey: p.TranslationKey,
		LocaleID:       f.locales[code].ID,
	})
	require.NoError(t, err)
	return got
}

func (f *fixture) counts(t *testing.T) (sources, translations, strs int64) {
	t.Helper()
	ctx := context.Background()
	var err error
	sources, err = f.q.CountTranslationSources(ctx)
	require.NoError(t, err)
	translations, err = f.q.CountTranslations(ctx)
	require.NoError(t, err)
	strs, err = f.q.CountStringTranslations(ctx)
	require.NoError(t, err)
	return sources, translations, strs
}

func TestSyncTree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dry, err := f.sync.SyncTree(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, TreeStats{PagesCreated: 4}, dry)
	_, err = f.q.GetPageByTranslationKey(ctx, store.GetPageByTranslationKeyParams{
		TranslationKey: f.events.TranslationKey, LocaleID: f.locales["en"].ID,
	})
	assert.ErrorIs(t, err, sql.ErrNoRows, "dry run must not create pages")

	stats, err := f.sync.SyncTree(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, TreeStats{PagesCreated: 4}, stats)

	en := f.counterpart(t, f.events, "en")
	assert.Equal(t, f.tree.Homes["en"].ID, en.ParentID.Int64)
	assert.False(t, en.Live, "copies start as drafts")
	assert.Equal(t, "/eventi/", en.UrlPath)

	enRaduno := f.counterpart(t, f.raduno, "en")
	assert.Equal(t, en.ID, enRaduno.ParentID.Int64)
	assert.Equal(t, "/eventi/raduno/", enRaduno.UrlPath)

	again, err := f.sync.SyncTree(ctx, false)
	require.NoError(t, err)
	assert.Zero(t, again.PagesCreated)
}

func TestParentKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	key, err := parentKey(ctx, f.q, f.raduno)
	require.NoError(t, err)
	assert.Equal(t, f.events.TranslationKey, key)

	orphan := f.raduno
	orphan.ParentID = sql.NullInt64{Int64: 99999, Valid: true}
	_, err = parentKey(ctx, f.q, orphan)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRun_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.sync.SyncTree(ctx, false)
	require.NoError(t, err)

	first, err := f.sync.Run(ctx, Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, first.SourcesCreated)
	assert.Equal(t, 6, first.TranslationsCreated)
	assert.Equal(t, 6, first.PagesPublished)
	assert.Zero(t, first.Errors)
	assert.Positive(t, first.SegmentsTranslated)

	sources, translations, strs := f.counts(t)
	assert.EqualValues(t, 3, sources)
	assert.EqualValues(t, 6, translations)

	second, err := f.sync.Run(ctx, Options{})
	require.NoError(t, err)
	assert.Zero(t, second.SourcesCreated)
	assert.Zero(t, second.TranslationsCreated)
	assert.Zero(t, second.SegmentsTranslated, "unchanged output must not count as translated")
	assert.Equal(t, 6, second.PagesPublished)

	s2, t2, str2 := f.counts(t)
	assert.Equal(t, sources, s2)
	assert.Equal(t, translations, t2)
	assert.Equal(t, strs, str2)
}

func TestRun_PublishesTranslatedContent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.sync.SyncTree(ctx, false)
	require.NoError(t, err)

	_, err = f.sync.Run(ctx, Options{})
	require.NoError(t, err)

	en := f.counterpart(t, f.events, "en")
	assert.True(t, en.Live)
	assert.Equal(t, "[en] Eventi", en.Title)
	assert.Equal(t, "en-eventi", en.Slug)
	assert.Equal(t, "/en-eventi/", en.UrlPath)
	assert.Equal(t, "<p>[en] I nostri <strong>[en] eventi</strong> [en] in moto</p>", en.Intro)
	assert.True(t, en.FirstPublishedAt.Valid)

	raduno := f.counterpart(t, f.raduno, "en")
	assert.Equal(t, "/en-eventi/en-raduno/", raduno.UrlPath)
	assert.Equal(t, "[en] Piazza Vittorio", raduno.LocationName)

	home := f.counterpart(t, f.tree.Homes["it"], "fr")
	assert.Equal(t, "/", home.UrlPath, "home pages keep the locale root")
	assert.Equal(t, "[fr] Home", home.Title)
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.sync.SyncTree(ctx, false)
	require.NoError(t, err)

	stats, err := f.sync.Run(ctx, Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.SourcesCreated)
	assert.Zero(t, stats.TranslationsCreated)
	assert.Zero(t, stats.PagesPublished)

	sources, translations, strs := f.counts(t)
	assert.Zero(t, sources)
	assert.Zero(t, translations)
	assert.Zero(t, strs)
	assert.False(t, f.counterpart(t, f.events, "en").Live)

	// With stored sources and translations, dry run counts segments only.
	_, err = f.sync.Run(ctx, Options{})
	require.NoError(t, err)
	_, _, before := f.counts(t)

	f.fake.suffix = " (v2)"
	stats, err = f.sync.Run(ctx, Options{DryRun: true})
	require.NoError(t, err)
	assert.Positive(t, stats.SegmentsTranslated)
	_, _, after := f.counts(t)
	assert.Equal(t, before, after)
	assert.Equal(t, "[en] Eventi", f.counterpart(t, f.events, "en").Title)
}

func TestRun_SkipExisting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.sync.SyncTree(ctx, false)
	require.NoError(t, err)
	_, err = f.sync.Run(ctx, Options{})
	require.NoError(t, err)

	f.fake.suffix = " (v2)"
	f.fake.calls = 0
	stats, err := f.sync.Run(ctx, Options{SkipExisting: true})
	require.NoError(t, err)
	assert.Zero(t, stats.SegmentsTranslated)
	assert.Zero(t, f.fake.calls, "existing segments must not reach the translator")

	stats, err = f.sync.Run(ctx, Options{})
	require.NoError(t, err)
	assert.Positive(t, stats.SegmentsTranslated)
	assert.Equal(t, "[en] Eventi (v2)", f.counterpart(t, f.events, "en").Title)
}

func TestRun_SkipExistingRetranslatesEditedSource(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.sync.SyncTree(ctx, false)
	require.NoError(t, err)
	_, err = f.sync.Run(ctx, Options{SkipExisting: true})
	require.NoError(t, err)
	require.Equal(t, "[en] Eventi", f.counterpart(t, f.events, "en").Title)

	_, err = f.db.ExecContext(ctx, `UPDATE pages SET title = 'Calendario raduni' WHERE id = ?`, f.events.ID)
	require.NoError(t, err)

	stats, err := f.sync.Run(ctx, Options{SkipExisting: true})
	require.NoError(t, err)
	assert.Positive(t, stats.SegmentsTranslated)
	assert.Zero(t, stats.Errors)
	assert.Equal(t, "[en] Calendario raduni", f.counterpart(t, f.events, "en").Title)
	assert.Equal(t, "[fr] Calendario raduni", f.counterpart(t, f.events, "fr").Title)
	assert.Equal(t, "[en] Raduno di primavera", f.counterpart(t, f.raduno, "en").Title, "unchanged pages keep their translation")
}

func TestRun_TranslatorErrorsAreSwallowed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.sync.SyncTree(ctx, false)
	require.NoError(t, err)

	f.fake.err = errors.New("quota exceeded")
	stats, err := f.sync.Run(ctx, Options{})
	require.NoError(t, err)
	assert.Zero(t, stats.SegmentsTranslated)
	assert.Zero(t, stats.Errors)
	assert.Equal(t, 6, stats.PagesPublished)

	en := f.counterpart(t, f.events, "en")
	assert.Equal(t, "Eventi", en.Title, "untranslated fields keep the source text")
	assert.True(t, en.Live)
}

func TestRun_SkipsLocalesWithoutPage(t *testing.T) {
	f := newFixture(t)

	stats, err := f.sync.Run(context.Background(), Options{Slug: "eventi"})
	require.NoError(t, err)
	assert.Equal(t, Stats{SourcesCreated: 1}, stats)
}

func TestRun_Selectors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.sync.SyncTree(ctx, false)
	require.NoError(t, err)

	stats, err := f.sync.Run(ctx, Options{PageID: f.raduno.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.SourcesCreated)
	assert.Equal(t, 2, stats.PagesPublished)

	stats, err = f.sync.Run(ctx, Options{PageID: f.counterpart(t, f.events, "en").ID})
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats, "pages outside the source locale are ignored")

	stats, err = f.sync.Run(ctx, Options{PageID: 99999})
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)

	stats, err = f.sync.Run(ctx, Options{Slug: "nessuna"})
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
}

func TestRun_MissingSourceLocale(t *testing.T) {
	db := testutil.TestDB(t)
	s := NewSynchronizer(Config{DB: db, SourceLanguage: "de", Logger: testutil.TestLogger()})

	_, err := s.Run(context.Background(), Options{})
	assert.ErrorIs(t, err, ErrSourceLocaleMissing)

	_, err = s.SyncTree(context.Background(), false)
	assert.ErrorIs(t, err, ErrSourceLocaleMissing)
}

func TestRun_RefreshRemovesBlankedSegments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.sync.SyncTree(ctx, false)
	require.NoError(t, err)
	_, err = f.sync.Run(ctx, Options{PageID: f.events.ID})
	require.NoError(t, err)

	_, err = f.db.ExecContext(ctx, `UPDATE pages SET search_description = '' WHERE id = ?`, f.events.ID)
	require.NoError(t, err)

	_, err = f.sync.Run(ctx, Options{PageID: f.events.ID})
	require.NoError(t, err)

	source, err := f.q.GetTranslationSource(ctx, store.GetTranslationSourceParams{
		ObjectKey: f.events.TranslationKey, SourceLocaleID: f.locales["it"].ID,
	})
	require.NoError(t, err)
	segs, err := f.q.ListStringSegments(ctx, source.ID)
	require.NoError(t, err)
	for _, s := range segs {
		assert.NotEqual(t, "search_description", s.Context)
	}
	assert.True(t, strings.Contains(source.Content, `"search_description":""`))
}
