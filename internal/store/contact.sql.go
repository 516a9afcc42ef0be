package store

import (
	"context"
	"time"
)

const createContactSubmission = `-- name: CreateContactSubmission :one
INSERT INTO contact_submissions (
    reference, name, surname, email, phone, subject, message, attachments,
    language_code, ip, user_agent, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, reference, name, surname, email, phone, subject, message, attachments,
    language_code, ip, user_agent, created_at
`

type CreateContactSubmissionParams struct {
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

func (q *Queries) CreateContactSubmission(ctx context.Context, arg CreateContactSubmissionParams) (ContactSubmission, error) {
	row := q.db.QueryRowContext(ctx, createContactSubmission,
		arg.Reference,
		arg.Name,
		arg.Surname,
		arg.Email,
		arg.Phone,
		arg.Subject,
		arg.Message,
		arg.Attachments,
		arg.LanguageCode,
		arg.Ip,
		arg.UserAgent,
		arg.CreatedAt,
	)
	var i ContactSubmission
	err := row.Scan(
		&i.ID,
		&i.Reference,
		&i.Name,
		&i.Surname,
		&i.Email,
		&i.Phone,
		&i.Subject,
		&i.Message,
		&i.Attachments,
		&i.LanguageCode,
		&i.Ip,
		&i.UserAgent,
		&i.CreatedAt,
	)
	return i, err
}

const countContactSubmissions = `-- name: CountContactSubmissions :one
SELECT COUNT(*) FROM contact_submissions
`

func (q *Queries) CountContactSubmissions(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countContactSubmissions)
	var count int64
	err := row.Scan(&count)
	return count, err
}
