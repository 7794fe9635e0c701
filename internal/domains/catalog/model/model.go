package model

import (
	"database/sql/driver"
	"slotwise/shared/model"
	"strings"
)

const (
	TableBusiness   = "businesses"
	TableOffering   = "service_offerings"
	TableItem       = "service_items"
	TableStaff      = "staff_members"
	TableAssignment = "staff_service_assignments"

	EntityBusiness   = "business"
	EntityOffering   = "service_offering"
	EntityItem       = "service_item"
	EntityStaff      = "staff_member"
	EntityAssignment = "staff_service_assignment"

	FieldID         = "id"
	FieldTenantID   = "tenant_id"
	FieldName       = "name"
	FieldActive     = "active"
	FieldOfferingID = "offering_id"
	FieldStaffID    = "staff_id"
	FieldIdentifier = "identifier"
)

type PriceType string

const (
	PriceTypeFree PriceType = "free"
	PriceTypePaid PriceType = "paid"
)

// Business is a tenant. All other catalog entities are scoped to exactly one business.
type Business struct {
	ID                 string `db:"id"`
	Name               string `db:"name"`
	Timezone           string `db:"timezone"`
	AllowFallbackStaff bool   `db:"allow_fallback_staff"`
	model.Metadata
}

type Offering struct {
	ID              string `db:"id"`
	TenantID        string `db:"tenant_id"`
	Name            string `db:"name"`
	BaseDurationMin int    `db:"base_duration_min"`
	BasePriceCents  int64  `db:"base_price_cents"`
	Active          bool   `db:"active"`
	model.Metadata
}

// Matches reports whether ref names this offering by ID or case-insensitive name.
func (o Offering) Matches(ref string) bool {
	return o.ID == ref || strings.EqualFold(strings.TrimSpace(o.Name), strings.TrimSpace(ref))
}

type OptionPrice struct {
	PriceType  PriceType `json:"price_type"`
	PriceCents int64     `json:"price_cents"`
}

// Cents is the charged amount: the price for paid options, zero for free ones.
func (p OptionPrice) Cents() int64 {
	if p.PriceType != PriceTypePaid {
		return 0
	}

	return p.PriceCents
}

// OptionPricing maps a normalized option key to its price.
type OptionPricing map[string]OptionPrice

// Value implements driver.Valuer.
func (p OptionPricing) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}

	return model.JSONMap(p.asMap()).Value()
}

// Scan implements sql.Scanner.
func (p *OptionPricing) Scan(src any) error {
	return model.UnmarshalJSONColumn(src, p) //nolint:wrapcheck
}

func (p OptionPricing) asMap() map[string]any {
	out := make(map[string]any, len(p))
	for key, price := range p {
		out[key] = price
	}

	return out
}

// Lookup finds an option with a case-insensitive key match.
func (p OptionPricing) Lookup(option string) (OptionPrice, bool) {
	key := NormalizeOption(option)
	if price, ok := p[key]; ok {
		return price, true
	}

	for k, price := range p {
		if NormalizeOption(k) == key {
			return price, true
		}
	}

	return OptionPrice{}, false
}

func NormalizeOption(option string) string {
	return strings.ToLower(strings.TrimSpace(option))
}

type ServiceItem struct {
	ID              string           `db:"id"`
	TenantID        string           `db:"tenant_id"`
	OfferingID      *string          `db:"offering_id"`
	Name            string           `db:"name"`
	Identifier      string           `db:"identifier"`
	FieldType       FieldType        `db:"field_type"`
	FieldOptions    model.StringList `db:"field_options"`
	PriceType       PriceType        `db:"price_type"`
	PriceCents      int64            `db:"price_cents"`
	OptionPricing   OptionPricing    `db:"option_pricing"`
	DurationMinutes int              `db:"duration_minutes"`
	MaxQuantity     int              `db:"max_quantity"`
	IsOptional      bool             `db:"is_optional"`
	Active          bool             `db:"active"`
	model.Metadata
}

// AppliesTo reports whether the item may be attached to a booking of offeringID.
func (i ServiceItem) AppliesTo(offeringID string) bool {
	return i.OfferingID == nil || *i.OfferingID == "" || *i.OfferingID == offeringID
}

// Matches reports whether ref names this item by ID or identifier.
func (i ServiceItem) Matches(ref string) bool {
	return i.ID == ref || strings.EqualFold(i.Identifier, strings.TrimSpace(ref))
}

type Staff struct {
	ID       string `db:"id"`
	TenantID string `db:"tenant_id"`
	Name     string `db:"name"`
	Active   bool   `db:"active"`
	model.Metadata
}

type StaffServiceAssignment struct {
	ID         string `db:"id"`
	TenantID   string `db:"tenant_id"`
	StaffID    string `db:"staff_id"`
	OfferingID string `db:"offering_id"`
	Active     bool   `db:"active"`
}
