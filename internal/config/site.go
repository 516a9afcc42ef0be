// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Site holds the organization details used by templates and structured data.
type Site struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	LogoURL     string   `yaml:"logo_url"`
	Email       string   `yaml:"email"`
	Phone       string   `yaml:"phone"`
	FoundedYear int      `yaml:"founded_year"`
	Address     Address  `yaml:"address"`
	Geo         GeoPoint `yaml:"geo"`
	SameAs      []string `yaml:"same_as"` // Social profile URLs
}

// Address is a postal address.
type Address struct {
	Street     string `yaml:"street"`
	Locality   string `yaml:"locality"`
	Region     string `yaml:"region"`
	PostalCode string `yaml:"postal_code"`
	Country    string `yaml:"country"`
}

// GeoPoint is a latitude/longitude pair.
type GeoPoint struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

// DefaultSite returns the club's built-in settings.
func DefaultSite() Site {
	return Site{
		Name:        "Moto Club Castellazzo Bormida",
		Description: "Moto Club Castellazzo Bormida: passione per le due ruote dal Piemonte.",
		Email:       "info@mccastellazzob.com",
		Address: Address{
			Locality: "Castellazzo Bormida",
			Region:   "Piemonte",
			Country:  "IT",
		},
		Geo: GeoPoint{Lat: 44.8456, Lon: 8.5781},
	}
}

// LoadSite reads site settings from a YAML file. An empty path returns the
// defaults; fields missing from the file keep their default values.
func LoadSite(path string) (Site, error) {
	site := DefaultSite()
	if path == "" {
		return site, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return site, fmt.Errorf("reading site file: %w", err)
	}
	if err := yaml.Unmarshal(data, &site); err != nil {
		return site, fmt.Errorf("parsing site file: %w", err)
	}
	if site.Name == "" {
		return site, fmt.Errorf("site file %s: name must not be empty", path)
	}
	return site, nil
}
