// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model contains domain constants shared across packages.
package model

// Contact form field names as posted by the contact template.
const (
	ContactFieldName     = "nome"
	ContactFieldSurname  = "cognome"
	ContactFieldEmail    = "email"
	ContactFieldPhone    = "telefono"
	ContactFieldSubject  = "oggetto"
	ContactFieldMessage  = "messaggio"
	ContactFieldPrivacy  = "privacy"
	ContactFieldToken    = "captcha_token"
	ContactFieldHoneypot = "website"
	ContactFieldFiles    = "allegati"
)

// Contact subjects
const (
	SubjectMembership     = "iscrizione"
	SubjectEvents         = "eventi"
	SubjectCollaborations = "collaborazioni"
	SubjectOther          = "altro"
)

// ContactSubjects returns the accepted subjects in display order.
func ContactSubjects() []string {
	return []string{SubjectMembership, SubjectEvents, SubjectCollaborations, SubjectOther}
}

// IsValidContactSubject reports whether s is an accepted subject.
func IsValidContactSubject(s string) bool {
	for _, subject := range ContactSubjects() {
		if subject == s {
			return true
		}
	}
	return false
}
