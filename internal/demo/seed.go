// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package demo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mccastellazzob/motoclub/internal/model"
	"github.com/mccastellazzob/motoclub/internal/service"
	"github.com/mccastellazzob/motoclub/internal/store"
)

// Demo content in the source language. Intros are markdown.
const (
	homeSlug  = "home"
	homeTitle = "Moto Club Castellazzo Bormida"
	homeIntro = "Benvenuti nel sito del **Moto Club Castellazzo Bormida**: " +
		"giri, raduni e amicizia su due ruote dal 1990."

	eventSlug    = "motogiro-della-bormida"
	eventTitle   = "Motogiro della Bormida"
	eventIntro   = "Un giro di **120 km** tra le colline del Monferrato, con pranzo in compagnia."
	eventBody    = "## Programma\n\n- 08:30 ritrovo in piazza\n- 09:00 partenza\n- 13:00 pranzo\n\nIscrizione sul posto."
	eventPlace   = "Piazza Vittorio Emanuele II"
	eventAddress = "Piazza Vittorio Emanuele II, 15073 Castellazzo Bormida AL"
	eventLat     = 44.8456
	eventLon     = 8.5781
)

// Result reports what Seed created.
type Result struct {
	HomeCreated  bool
	Pages        []string
	EventCreated bool
}

// Seed creates the locales, a home page, the standard pages and one
// upcoming event. Existing pages are left untouched, so running it twice is
// harmless.
func Seed(ctx context.Context, db *sql.DB, logger *slog.Logger, now time.Time) (Result, error) {
	var res Result
	if logger == nil {
		logger = slog.Default()
	}

	if err := store.Seed(ctx, db); err != nil {
		return res, fmt.Errorf("seeding locales: %w", err)
	}

	queries := store.New(db)
	locale, err := queries.GetDefaultLocale(ctx)
	if err != nil {
		return res, fmt.Errorf("loading default locale: %w", err)
	}

	_, err = queries.GetHomePage(ctx, locale.ID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		root, err := queries.GetRootPage(ctx)
		if err != nil {
			return res, fmt.Errorf("loading tree root: %w", err)
		}
		home, err := queries.AddPage(ctx, &root, store.NewPageParams{
			LocaleID: locale.ID,
			Slug:     homeSlug,
			Title:    homeTitle,
			PageType: model.PageTypeHome,
			Intro:    homeIntro,
			Live:     true,
		})
		if err != nil {
			return res, fmt.Errorf("creating home page: %w", err)
		}
		logger.Info("created home page", "id", home.ID)
		res.HomeCreated = true
	case err != nil:
		return res, fmt.Errorf("loading home page: %w", err)
	}

	ensured, err := service.NewPageService(db, logger).EnsureStandardPages(ctx, false)
	if err != nil {
		return res, err
	}
	res.Pages = ensured.Created

	created, err := seedEvent(ctx, queries, locale, now)
	if err != nil {
		return res, err
	}
	res.EventCreated = created
	return res, nil
}

func seedEvent(ctx context.Context, queries *store.Queries, locale store.Locale, now time.Time) (bool, error) {
	_, err := queries.GetPageBySlug(ctx, store.GetPageBySlugParams{Slug: eventSlug, LocaleID: locale.ID})
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("looking up demo event: %w", err)
	}

	events, err := queries.GetPageBySlug(ctx, store.GetPageBySlugParams{Slug: "eventi", LocaleID: locale.ID})
	if err != nil {
		return false, fmt.Errorf("loading events page: %w", err)
	}

	day := now.AddDate(0, 0, 30)
	start := time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, time.UTC)
	_, err = queries.AddPage(ctx, &events, store.NewPageParams{
		LocaleID:        locale.ID,
		Slug:            eventSlug,
		Title:           eventTitle,
		PageType:        model.PageTypeEventDetail,
		Intro:           eventIntro,
		Body:            eventBody,
		Live:            true,
		EventStart:      sql.NullTime{Time: start, Valid: true},
		EventEnd:        sql.NullTime{Time: start.Add(8 * time.Hour), Valid: true},
		EventStatus:     model.EventScheduled,
		LocationName:    eventPlace,
		LocationAddress: eventAddress,
		LocationLat:     sql.NullFloat64{Float64: eventLat, Valid: true},
		LocationLon:     sql.NullFloat64{Float64: eventLon, Valid: true},
	})
	if err != nil {
		return false, fmt.Errorf("creating demo event: %w", err)
	}
	return true, nil
}
