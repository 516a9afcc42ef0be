package translation

import (
	"encoding/json"
	"strings"

	"github.com/mccastellazzob/motoclub/internal/model"
	"github.com/mccastellazzob/motoclub/internal/store"
	"github.com/mccastellazzob/motoclub/internal/util"
)

// Segment is one translatable field of a source page.
type Segment struct {
	ID       int64 // Zero until stored
	Context  string
	Value    string
	Position int64
}

// fieldValue returns the value of a translatable page field.
func fieldValue(p store.Page, field string) string {
	switch field {
	case model.FieldTitle:
		return p.Title
	case model.FieldSlug:
		return p.Slug
	case model.FieldSeoTitle:
		return p.SeoTitle
	case model.FieldSearchDescription:
		return p.SearchDescription
	case model.FieldIntro:
		return p.Intro
	case model.FieldBody:
		return p.Body
	case model.FieldLocationName:
		return p.LocationName
	}
	return ""
}

// ExtractSegments returns the non-blank translatable fields of p in
// extraction order.
func ExtractSegments(p store.Page) []Segment {
	var segs []Segment
	for i, field := range model.TranslatableFields() {
		v := fieldValue(p, field)
		if strings.TrimSpace(v) == "" {
			continue
		}
		segs = append(segs, Segment{Context: field, Value: v, Position: int64(i)})
	}
	return segs
}

// Snapshot serializes the translatable fields of p as a JSON object.
func Snapshot(p store.Page) (string, error) {
	fields := make(map[string]string)
	for _, f := range model.TranslatableFields() {
		fields[f] = fieldValue(p, f)
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// PageContent is the translated content applied to a target page.
type PageContent struct {
	Title             string
	Slug              string
	SeoTitle          string
	SearchDescription string
	Intro             string
	Body              string
	LocationName      string
}

// ApplyTranslations overlays translated values, keyed by context, on the
// source page fields. Fields without a translation keep the source text.
func ApplyTranslations(source store.Page, translated map[string]string) PageContent {
	pick := func(field string) string {
		if v, ok := translated[field]; ok && v != "" {
			return v
		}
		return fieldValue(source, field)
	}
	return PageContent{
		Title:             pick(model.FieldTitle),
		Slug:              util.SanitizeSlug(pick(model.FieldSlug)),
		SeoTitle:          pick(model.FieldSeoTitle),
		SearchDescription: pick(model.FieldSearchDescription),
		Intro:             pick(model.FieldIntro),
		Body:              pick(model.FieldBody),
		LocationName:      pick(model.FieldLocationName),
	}
}
