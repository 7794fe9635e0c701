package dto

import (
	"slotwise/shared/constant"
	"slotwise/shared/model"
	"slotwise/shared/timezone"
	"time"
)

// Metadata is the audit trail of a record as rendered in responses.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at,omitempty"`
	CreatedBy  string `json:"created_by"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

func formatStamp(at time.Time) string {
	if at.IsZero() {
		return ""
	}

	return timezone.Format(at, constant.DateFormat)
}

func (m *Metadata) FromModel(meta model.Metadata) {
	*m = Metadata{
		CreatedAt:  formatStamp(meta.CreatedAt),
		ModifiedAt: formatStamp(meta.ModifiedAt),
		CreatedBy:  meta.CreatedBy,
		ModifiedBy: meta.ModifiedBy,
	}
}
