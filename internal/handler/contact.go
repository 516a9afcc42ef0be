// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/mccastellazzob/motoclub/internal/antispam"
	"github.com/mccastellazzob/motoclub/internal/i18n"
	"github.com/mccastellazzob/motoclub/internal/mailer"
	"github.com/mccastellazzob/motoclub/internal/middleware"
	"github.com/mccastellazzob/motoclub/internal/model"
	"github.com/mccastellazzob/motoclub/internal/service"
	"github.com/mccastellazzob/motoclub/internal/store"
	"github.com/mccastellazzob/motoclub/internal/util"
)

// MaxContactBodySize bounds the whole multipart contact request. It leaves
// room for a couple of files past the limit so ValidateAttachments can report
// the overflow.
const MaxContactBodySize = (antispam.MaxFiles+2)*antispam.MaxFileSize + 1<<20

// ContactSender delivers a validated contact message.
type ContactSender interface {
	SendContact(ctx context.Context, msg mailer.ContactMessage) error
}

// SubjectOption is one entry of the subject select.
type SubjectOption struct {
	Value    string
	Label    string
	Selected bool
}

// ContactForm holds the contact form state for the template.
type ContactForm struct {
	Token             string
	TokenField        string
	HoneypotField     string
	Values            map[string]string
	Subjects          []SubjectOption
	Errors            []string
	Success           bool
	Message           string
	AllowedExtensions string
	MaxFileMB         int
	MaxFiles          int
}

// Value returns the submitted value of a field.
func (f *ContactForm) Value(field string) string {
	return f.Values[field]
}

// ContactResult is the outcome of a submission.
type ContactResult struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Errors    []string          `json:"errors,omitempty"`
	Reference string            `json:"reference,omitempty"`
	Status    int               `json:"-"`
	Values    map[string]string `json:"-"`
}

// ContactHandler validates, stores and forwards contact form submissions.
type ContactHandler struct {
	queries *store.Queries
	guard   *antispam.Guard
	sender  ContactSender
	events  *service.EventService
	limits  antispam.AttachmentLimits
	logger  *slog.Logger
	now     func() time.Time

	mu      sync.Mutex
	entropy io.Reader
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(db *sql.DB, guard *antispam.Guard, sender ContactSender, logger *slog.Logger) *ContactHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactHandler{
		queries: store.New(db),
		guard:   guard,
		sender:  sender,
		events:  service.NewEventService(db),
		limits:  antispam.DefaultAttachmentLimits(),
		logger:  logger,
		now:     time.Now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// NewForm returns an empty form with a fresh token.
func (h *ContactHandler) NewForm(lang string) *ContactForm {
	return h.form(lang, nil)
}

func (h *ContactHandler) form(lang string, values map[string]string) *ContactForm {
	if values == nil {
		values = map[string]string{}
	}
	form := &ContactForm{
		Token:             h.guard.GenerateToken(h.now()),
		TokenField:        model.ContactFieldToken,
		HoneypotField:     antispam.HoneypotField,
		Values:            values,
		AllowedExtensions: strings.Join(h.limits.AllowedExtensions, ", "),
		MaxFileMB:         int(h.limits.MaxFileSize >> 20),
		MaxFiles:          h.limits.MaxFiles,
	}
	for _, s := range model.ContactSubjects() {
		form.Subjects = append(form.Subjects, SubjectOption{
			Value:    s,
			Label:    i18n.T(lang, "contact.topic_"+s),
			Selected: values[model.ContactFieldSubject] == s,
		})
	}
	return form
}

// FormFromResult rebuilds the form after a submission. Values are kept on
// failure so the visitor does not retype them.
func (h *ContactHandler) FormFromResult(lang string, res ContactResult) *ContactForm {
	values := res.Values
	if res.Success {
		values = nil
	}
	form := h.form(lang, values)
	form.Success = res.Success
	form.Message = res.Message
	form.Errors = res.Errors
	return form
}

// Process validates and handles a contact form POST.
func (h *ContactHandler) Process(w http.ResponseWriter, r *http.Request, lang string) ContactResult {
	ctx := r.Context()
	ip := util.ClientIP(r)
	log := h.logger.With("category", model.EventCategoryContact, "ip", ip)

	r.Body = http.MaxBytesReader(w, r.Body, MaxContactBodySize)
	if err := r.ParseMultipartForm(MaxContactBodySize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Warn("contact request too large", "limit", tooLarge.Limit)
			return failure(http.StatusRequestEntityTooLarge,
				i18n.T(lang, "contact.request_too_large", h.limits.MaxFiles, h.limits.MaxFileSize>>20), nil)
		}
		log.Warn("parsing contact form", "error", err)
		return failure(http.StatusBadRequest, i18n.T(lang, "contact.token_invalid"), nil)
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	values := make(map[string]string)
	for _, f := range []string{
		model.ContactFieldName, model.ContactFieldSurname, model.ContactFieldEmail,
		model.ContactFieldPhone, model.ContactFieldSubject, model.ContactFieldMessage,
		model.ContactFieldPrivacy,
	} {
		values[f] = strings.TrimSpace(r.PostFormValue(f))
	}

	if !antispam.CheckHoneypot(r.PostFormValue(antispam.HoneypotField)) {
		log.Warn("honeypot triggered", "user_agent", r.UserAgent())
		return ContactResult{Success: true, Message: i18n.T(lang, "contact.success"), Status: http.StatusOK}
	}

	if err := h.guard.VerifyToken(r.PostFormValue(model.ContactFieldToken), h.now()); err != nil {
		var te *antispam.TokenError
		msg := i18n.T(lang, "contact.token_invalid")
		if errors.As(err, &te) {
			msg = i18n.T(lang, te.I18nKey())
		}
		log.Info("contact token rejected", "reason", err)
		return failure(http.StatusBadRequest, msg, values)
	}

	errs := validateContact(lang, values)

	var files []*multipart.FileHeader
	if r.MultipartForm != nil {
		files = r.MultipartForm.File[model.ContactFieldFiles]
	}
	valid, attachErrs := antispam.ValidateAttachments(files, h.limits)
	for _, ae := range attachErrs {
		errs = append(errs, attachmentMessage(lang, ae, h.limits))
	}

	if len(errs) > 0 {
		return ContactResult{Message: errs[0], Errors: errs, Status: http.StatusBadRequest, Values: values}
	}

	attachments, err := readAttachments(valid)
	if err != nil {
		log.Error("reading attachments", "error", err)
		return failure(http.StatusInternalServerError, i18n.T(lang, "error.server"), values)
	}

	ref := h.newReference()
	names := make([]string, 0, len(attachments))
	for _, a := range attachments {
		names = append(names, a.Name)
	}
	namesJSON, _ := json.Marshal(names)

	subject := values[model.ContactFieldSubject]
	if _, err := h.queries.CreateContactSubmission(ctx, store.CreateContactSubmissionParams{
		Reference:    ref,
		Name:         values[model.ContactFieldName],
		Surname:      values[model.ContactFieldSurname],
		Email:        values[model.ContactFieldEmail],
		Phone:        values[model.ContactFieldPhone],
		Subject:      subject,
		Message:      values[model.ContactFieldMessage],
		Attachments:  string(namesJSON),
		LanguageCode: lang,
		Ip:           ip,
		UserAgent:    r.UserAgent(),
		CreatedAt:    h.now(),
	}); err != nil {
		log.Error("storing contact submission", "error", err)
		return failure(http.StatusInternalServerError, i18n.T(lang, "error.server"), values)
	}

	log.Info("contact form submitted",
		"reference", ref,
		"subject", subject,
		"attachments", len(attachments),
		"likely_bot", antispam.IsLikelyBot(r.UserAgent()),
	)
	_ = h.events.LogInfo(ctx, model.EventCategoryContact, "Contact form submitted", map[string]any{
		"reference": ref,
		"subject":   subject,
	})

	err = h.sender.SendContact(ctx, mailer.ContactMessage{
		Reference:   ref,
		Name:        values[model.ContactFieldName],
		Surname:     values[model.ContactFieldSurname],
		Email:       values[model.ContactFieldEmail],
		Phone:       values[model.ContactFieldPhone],
		Topic:       subject,
		TopicLabel:  i18n.T(i18n.DefaultLanguage, "contact.topic_"+subject),
		Message:     values[model.ContactFieldMessage],
		Attachments: attachments,
	})
	if err != nil {
		log.Error("sending contact email", "reference", ref, "error", err)
		return failure(http.StatusInternalServerError, i18n.T(lang, "contact.send_failed"), values)
	}

	return ContactResult{
		Success:   true,
		Message:   i18n.T(lang, "contact.success"),
		Reference: ref,
		Status:    http.StatusOK,
	}
}

// RateLimited answers a throttled submission.
func (h *ContactHandler) RateLimited(w http.ResponseWriter, r *http.Request) {
	lang := middleware.LanguageCode(r, i18n.DefaultLanguage)
	msg := i18n.T(lang, "contact.rate_limit")
	if isAJAX(r) {
		writeJSON(w, http.StatusTooManyRequests, ContactResult{Message: msg})
		return
	}
	http.Error(w, msg, http.StatusTooManyRequests)
}

func (h *ContactHandler) newReference() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(h.now()), h.entropy).String()
}

func failure(status int, msg string, values map[string]string) ContactResult {
	return ContactResult{Message: msg, Errors: []string{msg}, Status: status, Values: values}
}

// validateContact checks required fields, the email address and the subject.
func validateContact(lang string, values map[string]string) []string {
	var errs []string

	required := []struct {
		field string
		label string
	}{
		{model.ContactFieldName, "contact.name"},
		{model.ContactFieldSurname, "contact.surname"},
		{model.ContactFieldEmail, "contact.email"},
		{model.ContactFieldSubject, "contact.subject"},
		{model.ContactFieldMessage, "contact.message"},
		{model.ContactFieldPrivacy, "contact.privacy"},
	}
	for _, f := range required {
		if values[f.field] == "" {
			errs = append(errs, i18n.T(lang, "contact.required", i18n.T(lang, f.label)))
		}
	}

	if e := values[model.ContactFieldEmail]; e != "" {
		if addr, err := mail.ParseAddress(e); err != nil || addr.Address != e {
			errs = append(errs, i18n.T(lang, "contact.invalid_email"))
		}
	}
	if s := values[model.ContactFieldSubject]; s != "" && !model.IsValidContactSubject(s) {
		errs = append(errs, i18n.T(lang, "contact.invalid_subject"))
	}
	return errs
}

func attachmentMessage(lang string, ae antispam.AttachmentError, limits antispam.AttachmentLimits) string {
	key := "contact.attachment_" + ae.Code
	if ae.Code == antispam.CodeTooManyFiles {
		return i18n.T(lang, key, limits.MaxFiles)
	}
	return i18n.T(lang, key, ae.Filename)
}

func readAttachments(files []*multipart.FileHeader) ([]mailer.Attachment, error) {
	out := make([]mailer.Attachment, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(io.LimitReader(f, antispam.MaxFileSize+1))
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", fh.Filename, err)
		}
		name, err := util.SanitizeFilename(fh.Filename)
		if err != nil {
			name = "allegato" + util.FileExtension(fh.Filename)
		}
		out = append(out, mailer.Attachment{Name: name, Data: data})
	}
	return out, nil
}

func isAJAX(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}

// Submit handles POST /{lang}/{path...}/ for contact pages.
func (h *FrontendHandler) Submit(w http.ResponseWriter, r *http.Request) {
	locale := middleware.GetLanguage(r)
	page, ok := h.resolvePage(w, r, locale)
	if !ok {
		return
	}
	if page.PageType != model.PageTypeContact || h.contact == nil {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	res := h.contact.Process(w, r, locale.Code)
	if isAJAX(r) {
		writeJSON(w, res.Status, res)
		return
	}
	h.renderPage(w, r, locale, page, h.contact.FormFromResult(locale.Code, res), res.Status)
}
