package model

import (
	"slotwise/shared/model"
	"strings"
)

const (
	TableName  = "leads"
	EntityName = "lead"

	FieldID        = "id"
	FieldTenantID  = "tenant_id"
	FieldPhone     = "phone"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldEmail     = "email"
	FieldStatus    = "status"
)

type Status string

const (
	StatusNew                  Status = "new"
	StatusContacted            Status = "contacted"
	StatusQualified            Status = "qualified"
	StatusAppointmentScheduled Status = "appointment_scheduled"
	StatusAppointmentCompleted Status = "appointment_completed"
)

const SourceBooking = "booking"

type Lead struct {
	ID        string `db:"id"`
	TenantID  string `db:"tenant_id"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Phone     string `db:"phone"`
	Email     string `db:"email"`
	Source    string `db:"source"`
	Status    Status `db:"status"`
	model.Metadata
}

// SplitName splits a full name on its first whitespace run into first and last name.
func SplitName(name string) (first, last string) {
	name = strings.TrimSpace(name)

	idx := strings.IndexFunc(name, func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' })
	if idx < 0 {
		return name, ""
	}

	return name[:idx], strings.TrimSpace(name[idx:])
}

// MissingFields returns the columns of l that are empty and can be filled from
// the given values. Present values are never overwritten.
func (l Lead) MissingFields(first, last, email string) map[string]any {
	fields := map[string]any{}

	if l.FirstName == "" && first != "" {
		fields[FieldFirstName] = first
	}

	if l.LastName == "" && last != "" {
		fields[FieldLastName] = last
	}

	if l.Email == "" && email != "" {
		fields[FieldEmail] = email
	}

	return fields
}

// Fill sets the empty columns of l from the given values and returns the
// columns it changed, in the shape UpdateLead takes.
func (l *Lead) Fill(first, last, email string) map[string]any {
	fields := l.MissingFields(first, last, email)

	if value, ok := fields[FieldFirstName].(string); ok {
		l.FirstName = value
	}

	if value, ok := fields[FieldLastName].(string); ok {
		l.LastName = value
	}

	if value, ok := fields[FieldEmail].(string); ok {
		l.Email = value
	}

	return fields
}
