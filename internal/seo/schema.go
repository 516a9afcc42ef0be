// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"bytes"
	"encoding/json"
	"html/template"
	"strconv"
	"strings"
	"time"
)

// Schema.org defaults for the club.
const (
	SchemaContext       = "https://schema.org"
	DefaultOrganization = "Moto Club Castellazzo Bormida"
	DefaultSiteURL      = "https://mccastellazzob.com"
)

// Event describes a club event for schema.org/Event.
type Event struct {
	Name          string
	StartDate     time.Time
	EndDate       time.Time // Zero when unknown
	LocationName  string
	Address       string
	URL           string
	Latitude      *float64
	Longitude     *float64
	Description   string
	ImageURL      string
	OrganizerName string // Defaults to DefaultOrganization
	Status        string // schema.org EventStatusType member, e.g. "EventScheduled"
}

// Place describes a location for schema.org/Place.
type Place struct {
	Name        string
	Address     string
	URL         string
	Latitude    *float64
	Longitude   *float64
	Description string
	ImageURL    string
}

// Address is a postal address.
type Address struct {
	Street     string
	Locality   string
	Region     string
	PostalCode string
	Country    string
}

// Club holds the organization details for the home page SportsClub block.
type Club struct {
	Name         string
	URL          string
	LogoURL      string
	Description  string
	Email        string
	Phone        string
	FoundingYear int
	Address      Address
	Latitude     *float64
	Longitude    *float64
	SameAs       []string
}

// Crumb is one BreadcrumbList entry.
type Crumb struct {
	Name string
	URL  string
}

// ListItem is one ItemList entry.
type ListItem struct {
	Name string
	URL  string
}

type geoCoordinates struct {
	Type      string  `json:"@type"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type organization struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type place struct {
	Context     string          `json:"@context,omitempty"`
	Type        string          `json:"@type"`
	Name        string          `json:"name"`
	Address     string          `json:"address"`
	URL         string          `json:"url,omitempty"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
	Geo         *geoCoordinates `json:"geo,omitempty"`
}

type event struct {
	Context        string       `json:"@context"`
	Type           string       `json:"@type"`
	Name           string       `json:"name"`
	StartDate      string       `json:"startDate"`
	URL            string       `json:"url"`
	Organizer      organization `json:"organizer"`
	EndDate        string       `json:"endDate,omitempty"`
	Description    string       `json:"description,omitempty"`
	Image          string       `json:"image,omitempty"`
	EventStatus    string       `json:"eventStatus,omitempty"`
	AttendanceMode string       `json:"eventAttendanceMode"`
	Location       place        `json:"location"`
}

type postalAddress struct {
	Type          string `json:"@type"`
	StreetAddress string `json:"streetAddress,omitempty"`
	Locality      string `json:"addressLocality,omitempty"`
	Region        string `json:"addressRegion,omitempty"`
	PostalCode    string `json:"postalCode,omitempty"`
	Country       string `json:"addressCountry,omitempty"`
}

type contactPoint struct {
	Type        string `json:"@type"`
	Telephone   string `json:"telephone,omitempty"`
	Email       string `json:"email,omitempty"`
	ContactType string `json:"contactType"`
}

type imageObject struct {
	Type string `json:"@type"`
	URL  string `json:"url"`
}

type orgSchema struct {
	Context      string          `json:"@context"`
	Type         string          `json:"@type"`
	Name         string          `json:"name"`
	URL          string          `json:"url"`
	Logo         any             `json:"logo,omitempty"`
	Description  string          `json:"description,omitempty"`
	Email        string          `json:"email,omitempty"`
	Telephone    string          `json:"telephone,omitempty"`
	FoundingDate string          `json:"foundingDate,omitempty"`
	Sport        string          `json:"sport,omitempty"`
	Address      *postalAddress  `json:"address,omitempty"`
	Geo          *geoCoordinates `json:"geo,omitempty"`
	ContactPoint *contactPoint   `json:"contactPoint,omitempty"`
	SameAs       []string        `json:"sameAs,omitempty"`
}

type breadcrumbItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item,omitempty"`
}

type breadcrumbList struct {
	Context  string           `json:"@context"`
	Type     string           `json:"@type"`
	Elements []breadcrumbItem `json:"itemListElement"`
}

type itemList struct {
	Context  string           `json:"@context"`
	Type     string           `json:"@type"`
	Name     string           `json:"name,omitempty"`
	Count    int              `json:"numberOfItems"`
	Elements []breadcrumbItem `json:"itemListElement"`
}

type webPage struct {
	Context     string `json:"@context"`
	Type        string `json:"@type"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	InLanguage  string `json:"inLanguage,omitempty"`
}

// geo returns GeoCoordinates when both values are present.
func geo(lat, lon *float64) *geoCoordinates {
	if lat == nil || lon == nil {
		return nil
	}
	return &geoCoordinates{Type: "GeoCoordinates", Latitude: *lat, Longitude: *lon}
}

// encode renders v as indented JSON without escaping HTML characters, so
// accented text and "&" stay readable. A marshal failure yields "{}".
func encode(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "{}"
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

// GenerateEvent returns the JSON-LD for an event.
func GenerateEvent(e Event) string {
	organizer := e.OrganizerName
	if organizer == "" {
		organizer = DefaultOrganization
	}

	out := event{
		Context:        SchemaContext,
		Type:           "Event",
		Name:           e.Name,
		StartDate:      e.StartDate.Format(time.RFC3339),
		URL:            e.URL,
		Organizer:      organization{Type: "Organization", Name: organizer},
		Description:    e.Description,
		Image:          e.ImageURL,
		AttendanceMode: SchemaContext + "/OfflineEventAttendanceMode",
		Location: place{
			Type:    "Place",
			Name:    e.LocationName,
			Address: e.Address,
			Geo:     geo(e.Latitude, e.Longitude),
		},
	}
	if !e.EndDate.IsZero() {
		out.EndDate = e.EndDate.Format(time.RFC3339)
	}
	if e.Status != "" {
		out.EventStatus = SchemaContext + "/" + e.Status
	}
	return encode(out)
}

// GeneratePlace returns the JSON-LD for a place.
func GeneratePlace(p Place) string {
	return encode(place{
		Context:     SchemaContext,
		Type:        "Place",
		Name:        p.Name,
		Address:     p.Address,
		URL:         p.URL,
		Description: p.Description,
		Image:       p.ImageURL,
		Geo:         geo(p.Latitude, p.Longitude),
	})
}

// GenerateOrganization returns the JSON-LD for an Organization. Empty name
// and url fall back to the club defaults.
func GenerateOrganization(name, url, logoURL string) string {
	if name == "" {
		name = DefaultOrganization
	}
	if url == "" {
		url = DefaultSiteURL
	}
	out := orgSchema{Context: SchemaContext, Type: "Organization", Name: name, URL: url}
	if logoURL != "" {
		out.Logo = logoURL
	}
	return encode(out)
}

// GenerateSportsClub returns the SportsClub block used on the home page.
func GenerateSportsClub(c Club) string {
	name, url := c.Name, c.URL
	if name == "" {
		name = DefaultOrganization
	}
	if url == "" {
		url = DefaultSiteURL
	}

	out := orgSchema{
		Context:     SchemaContext,
		Type:        "SportsClub",
		Name:        name,
		URL:         url,
		Description: c.Description,
		Email:       c.Email,
		Telephone:   c.Phone,
		Sport:       "Motorcycling",
		Geo:         geo(c.Latitude, c.Longitude),
		SameAs:      c.SameAs,
	}
	if c.LogoURL != "" {
		out.Logo = imageObject{Type: "ImageObject", URL: makeAbsoluteURL(c.LogoURL, url)}
	}
	if c.FoundingYear > 0 {
		out.FoundingDate = strconv.Itoa(c.FoundingYear)
	}
	if a := c.Address; a != (Address{}) {
		out.Address = &postalAddress{
			Type:          "PostalAddress",
			StreetAddress: a.Street,
			Locality:      a.Locality,
			Region:        a.Region,
			PostalCode:    a.PostalCode,
			Country:       a.Country,
		}
	}
	if c.Phone != "" || c.Email != "" {
		out.ContactPoint = &contactPoint{
			Type:        "ContactPoint",
			Telephone:   c.Phone,
			Email:       c.Email,
			ContactType: "customer service",
		}
	}
	return encode(out)
}

// GenerateBreadcrumbs returns a BreadcrumbList. The last crumb is the
// current page and carries no item URL.
func GenerateBreadcrumbs(crumbs []Crumb) string {
	out := breadcrumbList{Context: SchemaContext, Type: "BreadcrumbList", Elements: []breadcrumbItem{}}
	for i, c := range crumbs {
		item := breadcrumbItem{Type: "ListItem", Position: i + 1, Name: c.Name}
		if i < len(crumbs)-1 {
			item.Item = c.URL
		}
		out.Elements = append(out.Elements, item)
	}
	return encode(out)
}

// GenerateItemList returns an ItemList, e.g. for the events listing.
func GenerateItemList(name string, items []ListItem) string {
	out := itemList{Context: SchemaContext, Type: "ItemList", Name: name, Count: len(items), Elements: []breadcrumbItem{}}
	for i, it := range items {
		out.Elements = append(out.Elements, breadcrumbItem{Type: "ListItem", Position: i + 1, Name: it.Name, Item: it.URL})
	}
	return encode(out)
}

// WebPage types
const (
	TypeWebPage        = "WebPage"
	TypeAboutPage      = "AboutPage"
	TypeContactPage    = "ContactPage"
	TypeCollectionPage = "CollectionPage"
)

// GenerateWebPage returns a WebPage of the given subtype.
func GenerateWebPage(pageType, name, url, description, lang string) string {
	if pageType == "" {
		pageType = TypeWebPage
	}
	return encode(webPage{
		Context:     SchemaContext,
		Type:        pageType,
		Name:        name,
		URL:         url,
		Description: description,
		InLanguage:  lang,
	})
}

// ScriptJS marks generated JSON-LD as safe for a <script> element. Closing
// tag sequences are escaped so content cannot end the element early.
func ScriptJS(jsonLD string) template.JS {
	return template.JS(strings.ReplaceAll(jsonLD, "</", `<\/`))
}
