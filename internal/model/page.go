// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Page types. Each maps to a template and a structured-data flavour.
const (
	PageTypeRoot          = "root"
	PageTypeHome          = "home"
	PageTypeAbout         = "about"
	PageTypeBoard         = "board"
	PageTypeTransparency  = "transparency"
	PageTypeContact       = "contact"
	PageTypeEvents        = "events"
	PageTypeEventDetail   = "event_detail"
	PageTypeEventsArchive = "events_archive"
	PageTypeGallery       = "gallery"
	PageTypeTimeline      = "timeline"
	PageTypeNews          = "news"
	PageTypePrivacy       = "privacy"
)

// PageTypes lists every renderable page type.
func PageTypes() []string {
	return []string{
		PageTypeHome,
		PageTypeAbout,
		PageTypeBoard,
		PageTypeTransparency,
		PageTypeContact,
		PageTypeEvents,
		PageTypeEventDetail,
		PageTypeEventsArchive,
		PageTypeGallery,
		PageTypeTimeline,
		PageTypeNews,
		PageTypePrivacy,
	}
}

// IsValidPageType reports whether t is a renderable page type.
func IsValidPageType(t string) bool {
	for _, pt := range PageTypes() {
		if pt == t {
			return true
		}
	}
	return false
}

// Event statuses, named after the schema.org EventStatusType members.
const (
	EventScheduled   = "EventScheduled"
	EventCancelled   = "EventCancelled"
	EventPostponed   = "EventPostponed"
	EventRescheduled = "EventRescheduled"
)

// IsValidEventStatus reports whether s is a known event status.
func IsValidEventStatus(s string) bool {
	switch s {
	case EventScheduled, EventCancelled, EventPostponed, EventRescheduled:
		return true
	}
	return false
}

// Translatable page fields, used as segment contexts. The order is the
// order segments are extracted in.
const (
	FieldTitle             = "title"
	FieldSlug              = "slug"
	FieldSeoTitle          = "seo_title"
	FieldSearchDescription = "search_description"
	FieldIntro             = "intro"
	FieldBody              = "body"
	FieldLocationName      = "location_name"
)

// TranslatableFields returns the segment contexts in extraction order.
func TranslatableFields() []string {
	return []string{
		FieldTitle,
		FieldSlug,
		FieldSeoTitle,
		FieldSearchDescription,
		FieldIntro,
		FieldBody,
		FieldLocationName,
	}
}

// IsRichTextField reports whether a field holds HTML rather than plain text.
func IsRichTextField(field string) bool {
	return field == FieldIntro || field == FieldBody
}
