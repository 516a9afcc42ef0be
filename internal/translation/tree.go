package translation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mccastellazzob/motoclub/internal/store"
)

// SyncTree creates a draft copy in every target locale of each source page
// that has none, placed under the counterpart of its parent. Pages are
// visited in tree order so parents are copied before their children.
func (s *Synchronizer) SyncTree(ctx context.Context, dryRun bool) (TreeStats, error) {
	var stats TreeStats

	src, targets, err := s.locales(ctx)
	if err != nil {
		return stats, err
	}

	pages, err := s.queries.ListPagesByLocaleMinDepth(ctx, store.ListPagesByLocaleMinDepthParams{LocaleID: src.ID, Depth: 2})
	if err != nil {
		return stats, fmt.Errorf("listing source pages: %w", err)
	}

	// Pages that would be created in dry-run, so their children are not
	// reported as orphans.
	planned := make(map[string]bool)

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		for _, loc := range targets {
			log := s.logger.With("page_id", page.ID, "locale", loc.Code)

			_, err := s.queries.GetPageByTranslationKey(ctx, store.GetPageByTranslationKeyParams{
				TranslationKey: page.TranslationKey,
				LocaleID:       loc.ID,
			})
			if err == nil {
				continue
			}
			if !errors.Is(err, sql.ErrNoRows) {
				stats.Errors++
				log.Error("loading translated page failed", "error", err)
				continue
			}

			parent, ok, err := s.counterpartParent(ctx, page, loc)
			if err != nil {
				stats.Errors++
				log.Error("loading parent counterpart failed", "error", err)
				continue
			}
			if !ok {
				queued := false
				if dryRun && page.ParentID.Valid {
					key, err := parentKey(ctx, s.queries, page)
					if err != nil {
						stats.Errors++
						log.Error("loading parent failed", "error", err)
						continue
					}
					queued = planned[key+loc.Code]
				}
				if !queued {
					log.Warn("parent has no translated copy, skipping")
					continue
				}
			}

			if dryRun {
				planned[page.TranslationKey+loc.Code] = true
				stats.PagesCreated++
				log.Info("would create translated page")
				continue
			}

			created, err := s.queries.AddPage(ctx, &parent, copyParams(page, loc.ID))
			if err != nil {
				stats.Errors++
				log.Error("creating translated page failed", "error", err)
				continue
			}
			stats.PagesCreated++
			log.Info("translated page created", "target_page_id", created.ID)
		}
	}
	return stats, nil
}

// counterpartParent returns the page that should hold the copy of page in
// loc. Children of the tree root stay under the root.
func (s *Synchronizer) counterpartParent(ctx context.Context, page store.Page, loc store.Locale) (store.Page, bool, error) {
	if !page.ParentID.Valid {
		return store.Page{}, false, nil
	}
	parent, err := s.queries.GetPage(ctx, page.ParentID.Int64)
	if err != nil {
		return store.Page{}, false, fmt.Errorf("loading parent: %w", err)
	}
	if !parent.ParentID.Valid {
		return parent, true, nil
	}

	counterpart, err := s.queries.GetPageByTranslationKey(ctx, store.GetPageByTranslationKeyParams{
		TranslationKey: parent.TranslationKey,
		LocaleID:       loc.ID,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return store.Page{}, false, nil
	}
	if err != nil {
		return store.Page{}, false, err
	}
	return counterpart, true, nil
}

func parentKey(ctx context.Context, q *store.Queries, page store.Page) (string, error) {
	parent, err := q.GetPage(ctx, page.ParentID.Int64)
	if err != nil {
		return "", fmt.Errorf("loading parent %d: %w", page.ParentID.Int64, err)
	}
	return parent.TranslationKey, nil
}

// copyParams builds a draft copy of page for another locale.
func copyParams(page store.Page, localeID int64) store.NewPageParams {
	return store.NewPageParams{
		TranslationKey:    page.TranslationKey,
		LocaleID:          localeID,
		Slug:              page.Slug,
		Title:             page.Title,
		PageType:          page.PageType,
		Intro:             page.Intro,
		Body:              page.Body,
		SeoTitle:          page.SeoTitle,
		SearchDescription: page.SearchDescription,
		ShowInMenus:       page.ShowInMenus,
		EventStart:        page.EventStart,
		EventEnd:          page.EventEnd,
		EventStatus:       page.EventStatus,
		LocationName:      page.LocationName,
		LocationAddress:   page.LocationAddress,
		LocationLat:       page.LocationLat,
		LocationLon:       page.LocationLon,
		ImageUrl:          page.ImageUrl,
	}
}
