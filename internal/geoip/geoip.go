// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geoip maps visitor IP addresses to a country and, from there, to a
// site language hint using a MaxMind GeoLite2-Country database.
package geoip

import (
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/oschwald/maxminddb-golang"

	"github.com/mccastellazzob/motoclub/internal/util"
)

// Lookup resolves IPs to ISO country codes. A nil or closed Lookup resolves
// nothing, so callers need no enabled check.
type Lookup struct {
	mu      sync.RWMutex
	db      *maxminddb.Reader
	path    string
	modTime time.Time
}

type geoRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// Open loads the database at path.
func Open(path string) (*Lookup, error) {
	g := &Lookup{path: path}
	if err := g.load(); err != nil {
		return nil, err
	}
	return g, nil
}

// load opens the database file if it changed since the last load.
// Caller must hold the write lock or own g exclusively.
func (g *Lookup) load() error {
	info, err := os.Stat(g.path)
	if err != nil {
		return fmt.Errorf("GeoIP database: %w", err)
	}
	if g.db != nil && info.ModTime().Equal(g.modTime) {
		return nil
	}

	db, err := maxminddb.Open(g.path)
	if err != nil {
		return fmt.Errorf("opening GeoIP database: %w", err)
	}
	if g.db != nil {
		_ = g.db.Close()
	}
	g.db = db
	g.modTime = info.ModTime()
	return nil
}

// Reload reopens the database when the file has been replaced.
func (g *Lookup) Reload() error {
	if g == nil {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.load()
}

// Country returns the ISO country code of ip, or "" when unknown, private
// or loopback.
func (g *Lookup) Country(ip string) string {
	if g == nil {
		return ""
	}
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.IsLoopback() || util.IsPrivateIP(parsed) {
		return ""
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.db == nil {
		return ""
	}
	var record geoRecord
	if err := g.db.Lookup(parsed, &record); err != nil {
		return ""
	}
	return record.Country.ISOCode
}

// Language returns the site language suggested by the visitor's country,
// or "" when the country is unknown.
func (g *Lookup) Language(ip string) string {
	return CountryLanguage(g.Country(ip))
}

// Close releases the database.
func (g *Lookup) Close() error {
	if g == nil {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.db == nil {
		return nil
	}
	err := g.db.Close()
	g.db = nil
	return err
}

// countryLanguages lists countries whose visitors get a language other than
// English. Italian-speaking Swiss cantons are not distinguishable by country.
var countryLanguages = map[string]string{
	"IT": "it",
	"SM": "it",
	"VA": "it",
	"FR": "fr",
	"MC": "fr",
	"BE": "fr",
	"LU": "fr",
	"CH": "fr",
}

// CountryLanguage maps an ISO country code to a site language. Unknown
// countries get English; an empty code gets "".
func CountryLanguage(country string) string {
	if country == "" {
		return ""
	}
	if lang, ok := countryLanguages[country]; ok {
		return lang
	}
	return "en"
}
