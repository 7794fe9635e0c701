package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxNumberValue bounds the answer of a number item, which becomes its quantity.
const MaxNumberValue = 1000

type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeNumber   FieldType = "number"
	FieldTypeBoolean  FieldType = "boolean"
	FieldTypeSelect   FieldType = "select"
)

func (f FieldType) Valid() bool {
	switch f {
	case FieldTypeText, FieldTypeTextarea, FieldTypeNumber, FieldTypeBoolean, FieldTypeSelect:
		return true
	default:
		return false
	}
}

// ItemValue is the value chosen for a service item. Exactly one variant exists per
// field type: NumberValue, BooleanValue, SelectValue, TextValue, TextareaValue.
type ItemValue interface {
	FieldType() FieldType
	String() string
}

type NumberValue int

func (NumberValue) FieldType() FieldType { return FieldTypeNumber }
func (v NumberValue) String() string    { return strconv.Itoa(int(v)) }

type BooleanValue bool

func (BooleanValue) FieldType() FieldType { return FieldTypeBoolean }

// String renders the canonical option key (yes/no).
func (v BooleanValue) String() string {
	if v {
		return "yes"
	}

	return "no"
}

type SelectValue string

func (SelectValue) FieldType() FieldType { return FieldTypeSelect }
func (v SelectValue) String() string    { return string(v) }

type TextValue string

func (TextValue) FieldType() FieldType { return FieldTypeText }
func (v TextValue) String() string    { return string(v) }

type TextareaValue string

func (TextareaValue) FieldType() FieldType { return FieldTypeTextarea }
func (v TextareaValue) String() string    { return string(v) }

// ParseValue converts raw user input into the variant matching fieldType.
func ParseValue(fieldType FieldType, raw string) (ItemValue, error) {
	raw = strings.TrimSpace(raw)

	switch fieldType {
	case FieldTypeNumber:
		if raw == "" {
			return NumberValue(0), nil
		}

		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("value %q is not a number", raw)
		}

		if f < 0 {
			return NumberValue(0), nil
		}

		if f > MaxNumberValue {
			return nil, fmt.Errorf("value %q exceeds %d", raw, MaxNumberValue)
		}

		return NumberValue(int(f)), nil
	case FieldTypeBoolean:
		switch NormalizeOption(raw) {
		case "yes", "true", "1", "on", "y":
			return BooleanValue(true), nil
		case "no", "false", "0", "off", "n", "":
			return BooleanValue(false), nil
		default:
			return nil, fmt.Errorf("value %q is not a yes/no answer", raw)
		}
	case FieldTypeSelect:
		return SelectValue(raw), nil
	case FieldTypeText:
		return TextValue(raw), nil
	case FieldTypeTextarea:
		return TextareaValue(raw), nil
	default:
		return nil, fmt.Errorf("unsupported field type %q", fieldType)
	}
}
