package dto

import (
	"errors"
	"net/http"
	"slotwise/internal/domains/availability/engine"
	"slotwise/internal/domains/availability/model"
	"slotwise/shared/constant"
	gDto "slotwise/shared/dto"
	gModel "slotwise/shared/model"
	"slotwise/shared/timezone"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type CheckAvailabilityRequest struct {
	Date        string `json:"date"         validate:"required"`
	Time        string `json:"time"         validate:"omitempty"`
	DurationMin int    `json:"duration_min" validate:"omitempty,gte=1,lte=1440"`
	Offering    string `json:"offering"     validate:"omitempty,max=255"`
	Staff       string `json:"staff"        validate:"omitempty,max=64"`
}

// FromRequest reads the request from query parameters. A malformed duration is
// kept as -1 so validation rejects it.
func (c *CheckAvailabilityRequest) FromRequest(r *http.Request) {
	query := r.URL.Query()

	c.Date = query.Get(constant.RequestParamDate)
	c.Time = query.Get(constant.RequestParamTime)
	c.Offering = query.Get(constant.RequestParamOffering)
	c.Staff = query.Get(constant.RequestParamStaff)

	if duration := query.Get(constant.RequestParamDuration); duration != "" {
		value, err := strconv.Atoi(duration)
		if err != nil {
			value = -1
		}

		c.DurationMin = value
	}
}

type SlotResponse struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	StaffID   string `json:"staff_id,omitempty"`
	StaffName string `json:"staff_name,omitempty"`
}

func (r *SlotResponse) FromSlot(slot engine.Slot, loc *time.Location) {
	r.Date = slot.Start.In(loc).Format(timezone.DateLayout)
	r.StartTime = slot.Start.In(loc).Format(timezone.TimeLayout)
	r.EndTime = slot.End.In(loc).Format(timezone.TimeLayout)
	r.StaffID = slot.StaffID
	r.StaffName = slot.StaffName
}

func FromSlots(slots []engine.Slot, loc *time.Location) []SlotResponse {
	res := make([]SlotResponse, len(slots))
	for i, slot := range slots {
		res[i].FromSlot(slot, loc)
	}

	return res
}

type CheckAvailabilityResponse struct {
	Available   bool           `json:"available"`
	Reason      string         `json:"reason,omitempty"`
	Date        string         `json:"date"`
	Time        string         `json:"time,omitempty"`
	DurationMin int            `json:"duration_min"`
	StaffID     string         `json:"staff_id,omitempty"`
	StaffName   string         `json:"staff_name,omitempty"`
	Slots       []SlotResponse `json:"slots,omitempty"`
	Alternates  []SlotResponse `json:"alternates,omitempty"`
}

type CreateRuleRequest struct {
	Kind         string `json:"kind"          validate:"required,oneof=weekly specific"`
	Weekday      *int   `json:"weekday"       validate:"required_if=Kind weekly"`
	SpecificDate string `json:"specific_date" validate:"required_if=Kind specific"`
	StartTime    string `json:"start_time"    validate:"required"`
	EndTime      string `json:"end_time"      validate:"required"`
	OffDay       bool   `json:"off_day"`
	Notes        string `json:"notes"         validate:"omitempty,max=500"`
}

// ToModel parses the request into a rule. Errors carry the failing field so the
// caller can map them to a format kind.
func (c *CreateRuleRequest) ToModel(tenantID, staffID, user string, now time.Time) (model.Rule, error) {
	start, err := timezone.ParseMinute(c.StartTime)
	if err != nil {
		return model.Rule{}, &FieldError{Field: "start_time", Err: err}
	}

	end, err := timezone.ParseMinute(c.EndTime)
	if err != nil {
		return model.Rule{}, &FieldError{Field: "end_time", Err: err}
	}

	rule := model.Rule{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		StaffID:   staffID,
		Kind:      model.Kind(c.Kind),
		StartTime: timezone.ClockTime(start),
		EndTime:   timezone.ClockTime(end),
		OffDay:    c.OffDay,
		Notes:     c.Notes,
		Metadata:  gModel.NewMetadata(now, user),
	}

	switch rule.Kind {
	case model.KindWeekly:
		if c.Weekday == nil || *c.Weekday < int(time.Sunday) || *c.Weekday > int(time.Saturday) {
			return model.Rule{}, &FieldError{Field: "weekday", Err: errInvalidWeekday}
		}

		weekday := *c.Weekday
		rule.Weekday = &weekday
	case model.KindSpecific:
		date, err := time.Parse(timezone.DateLayout, c.SpecificDate)
		if err != nil {
			return model.Rule{}, &FieldError{Field: "specific_date", Err: err}
		}

		rule.SpecificDate = &date
	}

	return rule, nil
}

var errInvalidWeekday = errors.New("weekday must be between 0 (Sunday) and 6 (Saturday)")

type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

type RuleResponse struct {
	ID           string `json:"id"`
	StaffID      string `json:"staff_id"`
	Kind         string `json:"kind"`
	Weekday      *int   `json:"weekday,omitempty"`
	SpecificDate string `json:"specific_date,omitempty"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	OffDay       bool   `json:"off_day"`
	Notes        string `json:"notes,omitempty"`
	gDto.Metadata
}

func (r *RuleResponse) FromModel(rule model.Rule) {
	r.ID = rule.ID
	r.StaffID = rule.StaffID
	r.Kind = string(rule.Kind)
	r.Weekday = rule.Weekday
	r.StartTime = timezone.FormatMinute(rule.StartMinute())
	r.EndTime = timezone.FormatMinute(rule.EndMinute())
	r.OffDay = rule.OffDay
	r.Notes = rule.Notes

	if rule.SpecificDate != nil {
		r.SpecificDate = rule.SpecificDate.Format(timezone.DateLayout)
	}

	r.Metadata.FromModel(rule.Metadata)
}

func FromRules(rules []model.Rule) []RuleResponse {
	res := make([]RuleResponse, len(rules))
	for i, rule := range rules {
		res[i].FromModel(rule)
	}

	return res
}
