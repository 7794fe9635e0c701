package helper

import (
	"context"
	"fmt"
	"os"
	availabilityModel "slotwise/internal/domains/availability/model"
	catalogModel "slotwise/internal/domains/catalog/model"
	"slotwise/internal/store"
	"slotwise/shared/constant"
	"slotwise/shared/model"
	"slotwise/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// seedFile is the YAML layout of a catalog fixture. Amounts are integer cents.
type seedFile struct {
	Businesses []struct {
		ID                 string `yaml:"id"`
		Name               string `yaml:"name"`
		Timezone           string `yaml:"timezone"`
		AllowFallbackStaff bool   `yaml:"allow_fallback_staff"`
	} `yaml:"businesses"`

	Offerings []struct {
		ID          string `yaml:"id"`
		Tenant      string `yaml:"tenant"`
		Name        string `yaml:"name"`
		DurationMin int    `yaml:"duration_min"`
		PriceCents  int64  `yaml:"price_cents"`
		Active      *bool  `yaml:"active"`
	} `yaml:"offerings"`

	ServiceItems []struct {
		ID              string   `yaml:"id"`
		Tenant          string   `yaml:"tenant"`
		Offering        string   `yaml:"offering"`
		Name            string   `yaml:"name"`
		Identifier      string   `yaml:"identifier"`
		FieldType       string   `yaml:"field_type"`
		FieldOptions    []string `yaml:"field_options"`
		PriceType       string   `yaml:"price_type"`
		PriceCents      int64    `yaml:"price_cents"`
		OptionPricing   map[string]struct {
			PriceType  string `yaml:"price_type"`
			PriceCents int64  `yaml:"price_cents"`
		} `yaml:"option_pricing"`
		DurationMinutes int   `yaml:"duration_minutes"`
		MaxQuantity     int   `yaml:"max_quantity"`
		IsOptional      bool  `yaml:"is_optional"`
		Active          *bool `yaml:"active"`
	} `yaml:"service_items"`

	Staff []struct {
		ID        string   `yaml:"id"`
		Tenant    string   `yaml:"tenant"`
		Name      string   `yaml:"name"`
		Active    *bool    `yaml:"active"`
		Offerings []string `yaml:"offerings"`
		Rules     []struct {
			Weekday *int   `yaml:"weekday"`
			Date    string `yaml:"date"`
			Start   string `yaml:"start"`
			End     string `yaml:"end"`
			OffDay  bool   `yaml:"off_day"`
			Notes   string `yaml:"notes"`
		} `yaml:"rules"`
	} `yaml:"staff"`
}

func orTrue(value *bool) bool {
	return value == nil || *value
}

// ParseFixture decodes a YAML fixture. Staff list the offerings they perform
// and their availability rules inline.
func ParseFixture(data []byte, now time.Time) (store.Fixture, error) {
	var (
		file    seedFile
		fixture store.Fixture
	)

	if err := yaml.Unmarshal(data, &file); err != nil {
		return fixture, fmt.Errorf("error decoding fixture: %w", err)
	}

	meta := model.NewMetadata(now, constant.ContextSystem)

	for _, b := range file.Businesses {
		fixture.Businesses = append(fixture.Businesses, catalogModel.Business{
			ID:                 b.ID,
			Name:               b.Name,
			Timezone:           b.Timezone,
			AllowFallbackStaff: b.AllowFallbackStaff,
			Metadata:           meta,
		})
	}

	for _, o := range file.Offerings {
		if o.DurationMin <= 0 {
			return fixture, fmt.Errorf("offering %s: duration_min must be positive", o.ID)
		}

		fixture.Offerings = append(fixture.Offerings, catalogModel.Offering{
			ID:              o.ID,
			TenantID:        o.Tenant,
			Name:            o.Name,
			BaseDurationMin: o.DurationMin,
			BasePriceCents:  o.PriceCents,
			Active:          orTrue(o.Active),
			Metadata:        meta,
		})
	}

	for _, i := range file.ServiceItems {
		item := catalogModel.ServiceItem{
			ID:              i.ID,
			TenantID:        i.Tenant,
			Name:            i.Name,
			Identifier:      i.Identifier,
			FieldType:       catalogModel.FieldType(i.FieldType),
			FieldOptions:    i.FieldOptions,
			PriceType:       catalogModel.PriceType(i.PriceType),
			PriceCents:      i.PriceCents,
			DurationMinutes: i.DurationMinutes,
			MaxQuantity:     max(1, i.MaxQuantity),
			IsOptional:      i.IsOptional,
			Active:          orTrue(i.Active),
			Metadata:        meta,
		}

		if i.Offering != "" {
			offering := i.Offering
			item.OfferingID = &offering
		}

		if len(i.OptionPricing) > 0 {
			item.OptionPricing = make(catalogModel.OptionPricing, len(i.OptionPricing))
			for option, price := range i.OptionPricing {
				item.OptionPricing[catalogModel.NormalizeOption(option)] = catalogModel.OptionPrice{
					PriceType:  catalogModel.PriceType(price.PriceType),
					PriceCents: price.PriceCents,
				}
			}
		}

		fixture.ServiceItems = append(fixture.ServiceItems, item)
	}

	for _, s := range file.Staff {
		fixture.Staff = append(fixture.Staff, catalogModel.Staff{
			ID:       s.ID,
			TenantID: s.Tenant,
			Name:     s.Name,
			Active:   orTrue(s.Active),
			Metadata: meta,
		})

		for _, offeringID := range s.Offerings {
			fixture.Assignments = append(fixture.Assignments, catalogModel.StaffServiceAssignment{
				ID:         uuid.NewString(),
				TenantID:   s.Tenant,
				StaffID:    s.ID,
				OfferingID: offeringID,
				Active:     true,
			})
		}

		for _, r := range s.Rules {
			rule, err := parseRule(s.Tenant, s.ID, r.Weekday, r.Date, r.Start, r.End, r.OffDay, r.Notes)
			if err != nil {
				return fixture, fmt.Errorf("staff %s: %w", s.ID, err)
			}

			rule.Metadata = meta
			fixture.Rules = append(fixture.Rules, rule)
		}
	}

	return fixture, nil
}

func parseRule(tenantID, staffID string, weekday *int, date, start, end string, offDay bool, notes string) (availabilityModel.Rule, error) {
	startMinute, err := timezone.ParseMinute(start)
	if err != nil {
		return availabilityModel.Rule{}, fmt.Errorf("invalid start %q: %w", start, err)
	}

	endMinute, err := timezone.ParseMinute(end)
	if err != nil {
		return availabilityModel.Rule{}, fmt.Errorf("invalid end %q: %w", end, err)
	}

	rule := availabilityModel.Rule{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		StaffID:   staffID,
		StartTime: timezone.ClockTime(startMinute),
		EndTime:   timezone.ClockTime(endMinute),
		OffDay:    offDay,
		Notes:     notes,
	}

	switch {
	case date != "":
		specific, err := time.Parse(timezone.DateLayout, date)
		if err != nil {
			return availabilityModel.Rule{}, fmt.Errorf("invalid date %q: %w", date, err)
		}

		rule.Kind = availabilityModel.KindSpecific
		rule.SpecificDate = &specific
	case weekday != nil && *weekday >= int(time.Sunday) && *weekday <= int(time.Saturday):
		day := *weekday
		rule.Kind = availabilityModel.KindWeekly
		rule.Weekday = &day
	default:
		return availabilityModel.Rule{}, fmt.Errorf("rule %s-%s needs a weekday (0-6) or a date", start, end)
	}

	return rule, nil
}

// Seed loads the fixture at path into s.
func Seed(ctx context.Context, s store.Store, path string, clock timezone.Clock) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading fixture: %w", err)
	}

	fixture, err := ParseFixture(data, clock.Now())
	if err != nil {
		return err
	}

	if err = s.Seed(ctx, fixture); err != nil {
		return fmt.Errorf("error seeding store: %w", err)
	}

	log.Info().
		Str("file", path).
		Int("businesses", len(fixture.Businesses)).
		Int("offerings", len(fixture.Offerings)).
		Int("staff", len(fixture.Staff)).
		Int("rules", len(fixture.Rules)).
		Msg("Store seeded successfully")

	return nil
}
