package translation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mccastellazzob/motoclub/internal/model"
	"github.com/mccastellazzob/motoclub/internal/store"
	"github.com/mccastellazzob/motoclub/internal/util"
)

// ErrSourceLocaleMissing aborts a run when the source locale is not configured.
var ErrSourceLocaleMissing = errors.New("source locale not found")

// Options selects the pages of a run and how it behaves.
type Options struct {
	PageID       int64  // Only this page
	Slug         string // Only source pages with this slug
	DryRun       bool   // Report without writing
	SkipExisting bool   // Leave already translated segments alone
}

// Stats counts what a run did, or would do in dry-run mode.
type Stats struct {
	SourcesCreated      int
	TranslationsCreated int
	SegmentsTranslated  int
	PagesPublished      int
	Errors              int
}

// TreeStats counts what SyncTree did.
type TreeStats struct {
	PagesCreated int
	Errors       int
}

// Synchronizer translates source-locale pages into every other locale.
// Runs are sequential; a failure on one page or locale is counted and the
// run moves on.
type Synchronizer struct {
	db          *sql.DB
	queries     *store.Queries
	translator  Translator
	sourceLang  string
	callTimeout time.Duration
	logger      *slog.Logger
	now         func() time.Time
}

// Config configures a Synchronizer.
type Config struct {
	DB             *sql.DB
	Translator     Translator
	SourceLanguage string        // Defaults to "it"
	CallTimeout    time.Duration // Per translation call
	Logger         *slog.Logger
}

// NewSynchronizer creates a Synchronizer.
func NewSynchronizer(cfg Config) *Synchronizer {
	if cfg.Translator == nil {
		cfg.Translator = Noop{}
	}
	if cfg.SourceLanguage == "" {
		cfg.SourceLanguage = "it"
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Synchronizer{
		db:          cfg.DB,
		queries:     store.New(cfg.DB),
		translator:  cfg.Translator,
		sourceLang:  cfg.SourceLanguage,
		callTimeout: cfg.CallTimeout,
		logger:      cfg.Logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// locales returns the source locale and every other locale.
func (s *Synchronizer) locales(ctx context.Context) (store.Locale, []store.Locale, error) {
	src, err := s.queries.GetLocaleByCode(ctx, s.sourceLang)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Locale{}, nil, fmt.Errorf("%w: %q", ErrSourceLocaleMissing, s.sourceLang)
	}
	if err != nil {
		return store.Locale{}, nil, fmt.Errorf("loading source locale: %w", err)
	}

	all, err := s.queries.ListLocales(ctx)
	if err != nil {
		return store.Locale{}, nil, fmt.Errorf("listing locales: %w", err)
	}
	var targets []store.Locale
	for _, l := range all {
		if l.ID != src.ID {
			targets = append(targets, l)
		}
	}
	return src, targets, nil
}

// selectPages returns the source pages covered by opts.
func (s *Synchronizer) selectPages(ctx context.Context, src store.Locale, opts Options) ([]store.Page, error) {
	switch {
	case opts.PageID > 0:
		p, err := s.queries.GetPage(ctx, opts.PageID)
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("page not found", "page_id", opts.PageID)
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("loading page %d: %w", opts.PageID, err)
		}
		if p.LocaleID != src.ID {
			s.logger.Warn("page is not in the source locale, skipping", "page_id", p.ID)
			return nil, nil
		}
		return []store.Page{p}, nil

	case opts.Slug != "":
		pages, err := s.queries.ListPagesBySlug(ctx, store.ListPagesBySlugParams{Slug: opts.Slug, LocaleID: src.ID})
		if err != nil {
			return nil, fmt.Errorf("listing pages with slug %q: %w", opts.Slug, err)
		}
		return pages, nil

	default:
		pages, err := s.queries.ListPagesByLocaleMinDepth(ctx, store.ListPagesByLocaleMinDepthParams{LocaleID: src.ID, Depth: 2})
		if err != nil {
			return nil, fmt.Errorf("listing source pages: %w", err)
		}
		return pages, nil
	}
}

// Run synchronizes the selected pages. It returns an error only for
// misconfiguration or a cancelled context; per-page failures are counted
// in Stats.Errors.
func (s *Synchronizer) Run(ctx context.Context, opts Options) (Stats, error) {
	var stats Stats

	src, targets, err := s.locales(ctx)
	if err != nil {
		return stats, err
	}

	pages, err := s.selectPages(ctx, src, opts)
	if err != nil {
		return stats, err
	}

	s.logger.Info("translation sync started",
		"pages", len(pages), "targets", len(targets),
		"dry_run", opts.DryRun, "skip_existing", opts.SkipExisting)

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		s.syncPage(ctx, page, src, targets, opts, &stats)
	}

	s.logger.Info("translation sync finished",
		"sources_created", stats.SourcesCreated,
		"translations_created", stats.TranslationsCreated,
		"segments_translated", stats.SegmentsTranslated,
		"pages_published", stats.PagesPublished,
		"errors", stats.Errors)

	return stats, nil
}

func (s *Synchronizer) syncPage(ctx context.Context, page store.Page, src store.Locale, targets []store.Locale, opts Options, stats *Stats) {
	log := s.logger.With("page_id", page.ID, "title", page.Title)

	source, segments, err := s.ensureSource(ctx, page, src, opts.DryRun, stats)
	if err != nil {
		stats.Errors++
		log.Error("translation source failed", "error", err)
		return
	}

	for _, loc := range targets {
		llog := log.With("locale", loc.Code)

		target, ok, err := s.ensureTranslation(ctx, source, page, loc, opts.DryRun, stats, llog)
		if err != nil {
			stats.Errors++
			llog.Error("translation failed", "error", err)
			continue
		}
		if !ok {
			continue
		}

		s.translateSegments(ctx, segments, src, loc, opts, stats, llog)

		if opts.DryRun {
			llog.Info("would publish translation", "target_page_id", target.ID)
			continue
		}
		if err := s.publish(ctx, source, page, target, loc); err != nil {
			stats.Errors++
			llog.Error("publishing translation failed", "error", err)
			continue
		}
		stats.PagesPublished++
		llog.Info("translation published", "target_page_id", target.ID)
	}
}

// ensureSource returns the translation source of page and its segments,
// creating or refreshing them as needed. In dry-run mode a missing source
// is counted but not stored, and its segments carry no IDs.
func (s *Synchronizer) ensureSource(ctx context.Context, page store.Page, src store.Locale, dryRun bool, stats *Stats) (store.TranslationSource, []Segment, error) {
	source, err := s.queries.GetTranslationSource(ctx, store.GetTranslationSourceParams{
		ObjectKey:      page.TranslationKey,
		SourceLocaleID: src.ID,
	})
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if dryRun {
			stats.SourcesCreated++
			s.logger.Info("would create translation source", "page_id", page.ID)
			return store.TranslationSource{}, ExtractSegments(page), nil
		}
		source, segs, err := s.createSource(ctx, page, src)
		if err != nil {
			return source, nil, err
		}
		stats.SourcesCreated++
		s.logger.Info("translation source created", "page_id", page.ID, "segments", len(segs))
		return source, segs, nil

	case err != nil:
		return source, nil, fmt.Errorf("loading translation source: %w", err)
	}

	if dryRun {
		segs, err := s.storedSegments(ctx, source.ID)
		return source, segs, err
	}
	segs, err := s.refreshSource(ctx, source, page)
	return source, segs, err
}

func (s *Synchronizer) createSource(ctx context.Context, page store.Page, src store.Locale) (store.TranslationSource, []Segment, error) {
	snapshot, err := Snapshot(page)
	if err != nil {
		return store.TranslationSource{}, nil, fmt.Errorf("snapshot: %w", err)
	}

	var (
		source store.TranslationSource
		segs   []Segment
	)
	now := s.now()
	err = store.InTx(ctx, s.db, func(q *store.Queries) error {
		var err error
		source, err = q.CreateTranslationSource(ctx, store.CreateTranslationSourceParams{
			ObjectKey:      page.TranslationKey,
			SourceLocaleID: src.ID,
			PageID:         page.ID,
			Content:        snapshot,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			return fmt.Errorf("creating translation source: %w", err)
		}
		segs, err = upsertSegments(ctx, q, source.ID, ExtractSegments(page), nil)
		return err
	})
	return source, segs, err
}

// refreshSource re-extracts the segments of an existing source from the
// current page. Segments whose field became blank are removed.
func (s *Synchronizer) refreshSource(ctx context.Context, source store.TranslationSource, page store.Page) ([]Segment, error) {
	snapshot, err := Snapshot(page)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	var segs []Segment
	err = store.InTx(ctx, s.db, func(q *store.Queries) error {
		if err := q.UpdateTranslationSourceContent(ctx, store.UpdateTranslationSourceContentParams{
			Content:   snapshot,
			PageID:    page.ID,
			UpdatedAt: s.now(),
			ID:        source.ID,
		}); err != nil {
			return fmt.Errorf("updating translation source: %w", err)
		}
		existing, err := q.ListStringSegments(ctx, source.ID)
		if err != nil {
			return fmt.Errorf("listing segments: %w", err)
		}
		segs, err = upsertSegments(ctx, q, source.ID, ExtractSegments(page), existing)
		return err
	})
	return segs, err
}

// upsertSegments stores segs for sourceID and removes the existing segments
// no longer extracted. A segment whose source text changed loses its stored
// translations so the next run translates the new text.
func upsertSegments(ctx context.Context, q *store.Queries, sourceID int64, segs []Segment, existing []store.StringSegment) ([]Segment, error) {
	previous := make(map[string]string, len(existing))
	for _, old := range existing {
		previous[old.Context] = old.Value
	}

	keep := make(map[string]bool, len(segs))
	out := make([]Segment, 0, len(segs))
	for _, seg := range segs {
		row, err := q.UpsertStringSegment(ctx, store.UpsertStringSegmentParams{
			SourceID: sourceID,
			Context:  seg.Context,
			Value:    seg.Value,
			Position: seg.Position,
		})
		if err != nil {
			return nil, fmt.Errorf("storing segment %s: %w", seg.Context, err)
		}
		if value, ok := previous[seg.Context]; ok && value != seg.Value {
			if err := q.DeleteSegmentTranslations(ctx, row.ID); err != nil {
				return nil, fmt.Errorf("resetting translations of %s: %w", seg.Context, err)
			}
		}
		keep[seg.Context] = true
		seg.ID = row.ID
		out = append(out, seg)
	}

	for _, old := range existing {
		if keep[old.Context] {
			continue
		}
		if err := q.DeleteStringSegment(ctx, old.ID); err != nil {
			return nil, fmt.Errorf("removing segment %s: %w", old.Context, err)
		}
	}
	return out, nil
}

func (s *Synchronizer) storedSegments(ctx context.Context, sourceID int64) ([]Segment, error) {
	rows, err := s.queries.ListStringSegments(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("listing segments: %w", err)
	}
	segs := make([]Segment, len(rows))
	for i, r := range rows {
		segs[i] = Segment{ID: r.ID, Context: r.Context, Value: r.Value, Position: r.Position}
	}
	return segs, nil
}

// ensureTranslation finds the target page and the Translation record for
// loc. It reports false when the locale has to be skipped.
func (s *Synchronizer) ensureTranslation(ctx context.Context, source store.TranslationSource, page store.Page, loc store.Locale, dryRun bool, stats *Stats, log *slog.Logger) (store.Page, bool, error) {
	target, err := s.queries.GetPageByTranslationKey(ctx, store.GetPageByTranslationKeyParams{
		TranslationKey: page.TranslationKey,
		LocaleID:       loc.ID,
	})
	if errors.Is(err, sql.ErrNoRows) {
		log.Info("translated page does not exist, skipping")
		return target, false, nil
	}
	if err != nil {
		return target, false, fmt.Errorf("loading translated page: %w", err)
	}

	_, err = s.queries.GetTranslation(ctx, store.GetTranslationParams{SourceID: source.ID, TargetLocaleID: loc.ID})
	if err == nil {
		return target, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return target, false, fmt.Errorf("loading translation: %w", err)
	}

	if dryRun {
		log.Info("would create translation")
		return target, false, nil
	}

	now := s.now()
	if _, err := s.queries.CreateTranslation(ctx, store.CreateTranslationParams{
		SourceID:       source.ID,
		TargetLocaleID: loc.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}); err != nil {
		return target, false, fmt.Errorf("creating translation: %w", err)
	}
	stats.TranslationsCreated++
	log.Info("translation created")
	return target, true, nil
}

func (s *Synchronizer) translateSegments(ctx context.Context, segs []Segment, src, loc store.Locale, opts Options, stats *Stats, log *slog.Logger) {
	for _, seg := range segs {
		if ctx.Err() != nil {
			return
		}

		var (
			existing store.StringTranslation
			found    bool
		)
		if seg.ID != 0 {
			st, err := s.queries.GetStringTranslation(ctx, store.GetStringTranslationParams{SegmentID: seg.ID, LocaleID: loc.ID})
			switch {
			case err == nil:
				existing, found = st, true
			case !errors.Is(err, sql.ErrNoRows):
				stats.Errors++
				log.Error("loading string translation failed", "context", seg.Context, "error", err)
				continue
			}
		}

		if found && opts.SkipExisting {
			continue
		}

		translated := s.translateText(ctx, seg, src.Code, loc.Code, log)
		if translated == "" {
			continue
		}

		if found {
			if translated == existing.Data {
				continue
			}
			if !opts.DryRun {
				if err := s.queries.UpdateStringTranslation(ctx, store.UpdateStringTranslationParams{
					Data:      translated,
					UpdatedAt: s.now(),
					ID:        existing.ID,
				}); err != nil {
					stats.Errors++
					log.Error("updating string translation failed", "context", seg.Context, "error", err)
					continue
				}
			}
			stats.SegmentsTranslated++
			continue
		}

		if translated == seg.Value {
			continue
		}
		if !opts.DryRun {
			now := s.now()
			if err := s.queries.CreateStringTranslation(ctx, store.CreateStringTranslationParams{
				SegmentID: seg.ID,
				LocaleID:  loc.ID,
				Data:      translated,
				CreatedAt: now,
				UpdatedAt: now,
			}); err != nil {
				stats.Errors++
				log.Error("creating string translation failed", "context", seg.Context, "error", err)
				continue
			}
		}
		stats.SegmentsTranslated++
	}
}

// translateText returns the translation of seg, or "" when the backend
// failed. Failures are not retried.
func (s *Synchronizer) translateText(ctx context.Context, seg Segment, source, target string, log *slog.Logger) string {
	if !needsTranslation(seg.Value) {
		return seg.Value
	}

	t := s.translator
	if model.IsRichTextField(seg.Context) {
		t = HTMLTranslator{Next: t}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	out, err := t.Translate(callCtx, seg.Value, source, target)
	if err != nil {
		log.Debug("machine translation failed", "context", seg.Context, "error", err)
		return ""
	}
	out = strings.TrimSpace(out)
	if seg.Context == model.FieldSlug && out != "" {
		out = util.SanitizeSlug(out)
	}
	return out
}

// publish writes the translated content onto the target page, makes it
// live and moves the URLs of its descendants when the slug changed.
func (s *Synchronizer) publish(ctx context.Context, source store.TranslationSource, page, target store.Page, loc store.Locale) error {
	rows, err := s.queries.ListSegmentTranslations(ctx, store.ListSegmentTranslationsParams{
		SourceID: source.ID,
		LocaleID: loc.ID,
	})
	if err != nil {
		return fmt.Errorf("listing segment translations: %w", err)
	}
	translated := make(map[string]string, len(rows))
	for _, r := range rows {
		translated[r.Context] = r.Data
	}
	content := ApplyTranslations(page, translated)

	urlPath, slug, err := s.targetURLPath(ctx, target, content.Slug, loc.Code)
	if err != nil {
		return err
	}

	now := s.now()
	return store.InTx(ctx, s.db, func(q *store.Queries) error {
		if err := q.PublishPageContent(ctx, store.PublishPageContentParams{
			Title:             content.Title,
			Slug:              slug,
			UrlPath:           urlPath,
			Intro:             content.Intro,
			Body:              content.Body,
			SeoTitle:          content.SeoTitle,
			SearchDescription: content.SearchDescription,
			LocationName:      content.LocationName,
			PublishedAt:       now,
			ID:                target.ID,
		}); err != nil {
			return fmt.Errorf("publishing page %d: %w", target.ID, err)
		}

		if target.UrlPath != "" && urlPath != target.UrlPath {
			if err := q.RewriteURLPathPrefix(ctx, store.RewriteURLPathPrefixParams{
				LocaleID:  loc.ID,
				OldPrefix: target.UrlPath,
				NewPrefix: urlPath,
				ExceptID:  target.ID,
			}); err != nil {
				return fmt.Errorf("moving descendant URLs: %w", err)
			}
		}

		tr, err := q.GetTranslation(ctx, store.GetTranslationParams{SourceID: source.ID, TargetLocaleID: loc.ID})
		if err != nil {
			return fmt.Errorf("loading translation: %w", err)
		}
		return q.TouchTranslation(ctx, now, tr.ID)
	})
}

// targetURLPath computes the url_path of target for slug. When another
// page in the locale already owns that path, the locale code is appended
// to the slug.
func (s *Synchronizer) targetURLPath(ctx context.Context, target store.Page, slug, localeCode string) (string, string, error) {
	if !target.ParentID.Valid {
		return target.UrlPath, target.Slug, nil
	}
	parent, err := s.queries.GetPage(ctx, target.ParentID.Int64)
	if err != nil {
		return "", "", fmt.Errorf("loading parent page: %w", err)
	}

	for _, candidate := range []string{slug, slug + "-" + localeCode} {
		urlPath := store.ChildURLPath(&parent, candidate)
		other, err := s.queries.GetPageByURLPath(ctx, store.GetPageByURLPathParams{LocaleID: target.LocaleID, UrlPath: urlPath})
		if errors.Is(err, sql.ErrNoRows) || (err == nil && other.ID == target.ID) {
			return urlPath, candidate, nil
		}
		if err != nil {
			return "", "", fmt.Errorf("checking url path: %w", err)
		}
	}
	return "", "", fmt.Errorf("url path for slug %q is already taken", slug)
}
