package model

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth        = "auth"
	EventCategoryPage        = "page"
	EventCategoryTranslation = "translation"
	EventCategoryContact     = "contact"
	EventCategoryMedia       = "media"
	EventCategoryCache       = "cache"
	EventCategorySystem      = "system"
)
