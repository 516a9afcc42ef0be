package store

import (
	"database/sql"
	"time"
)

type Locale struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	IsDefault bool      `json:"is_default"`
	Position  int64     `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

type Page struct {
	ID                int64           `json:"id"`
	TranslationKey    string          `json:"translation_key"`
	LocaleID          int64           `json:"locale_id"`
	ParentID          sql.NullInt64   `json:"parent_id"`
	Path              string          `json:"path"`
	Depth             int64           `json:"depth"`
	UrlPath           string          `json:"url_path"`
	Slug              string          `json:"slug"`
	Title             string          `json:"title"`
	PageType          string          `json:"page_type"`
	Intro             string          `json:"intro"`
	Body              string          `json:"body"`
	SeoTitle          string          `json:"seo_title"`
	SearchDescription string          `json:"search_description"`
	Live              bool            `json:"live"`
	ShowInMenus       bool            `json:"show_in_menus"`
	EventStart        sql.NullTime    `json:"event_start"`
	EventEnd          sql.NullTime    `json:"event_end"`
	EventStatus       string          `json:"event_status"`
	LocationName      string          `json:"location_name"`
	LocationAddress   string          `json:"location_address"`
	LocationLat       sql.NullFloat64 `json:"location_lat"`
	LocationLon       sql.NullFloat64 `json:"location_lon"`
	ImageUrl          string          `json:"image_url"`
	FirstPublishedAt  sql.NullTime    `json:"first_published_at"`
	LastPublishedAt   sql.NullTime    `json:"last_published_at"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type TranslationSource struct {
	ID             int64     `json:"id"`
	ObjectKey      string    `json:"object_key"`
	SourceLocaleID int64     `json:"source_locale_id"`
	PageID         int64     `json:"page_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Translation struct {
	ID             int64     `json:"id"`
	SourceID       int64     `json:"source_id"`
	TargetLocaleID int64     `json:"target_locale_id"`
	Enabled        bool      `json:"enabled"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type StringSegment struct {
	ID       int64  `json:"id"`
	SourceID int64  `json:"source_id"`
	Context  string `json:"context"`
	Value    string `json:"value"`
	Position int64  `json:"position"`
}

type StringTranslation struct {
	ID        int64     `json:"id"`
	SegmentID int64     `json:"segment_id"`
	LocaleID  int64     `json:"locale_id"`
	Data      string    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ContactSubmission struct {
	ID           int64     `json:"id"`
	Reference    string    `json:"reference"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Subject      string    `json:"subject"`
	Message      string    `json:"message"`
	Attachments  string    `json:"attachments"`
	LanguageCode string    `json:"language_code"`
	Ip           string    `json:"ip"`
	UserAgent    string    `json:"user_agent"`
	CreatedAt    time.Time `json:"created_at"`
}

type Image struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	Title      string    `json:"title"`
	Collection string    `json:"collection"`
	Width      int64     `json:"width"`
	Height     int64     `json:"height"`
	Size       int64     `json:"size"`
	CreatedAt  time.Time `json:"created_at"`
}

type Event struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	Metadata  string    `json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}

type Editor struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	PasswordHash string       `json:"password_hash"`
	LastLoginAt  sql.NullTime `json:"last_login_at"`
	CreatedAt    time.Time    `json:"created_at"`
}
