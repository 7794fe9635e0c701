package timezone

import (
	"testing"
	"time"
)

func TestResolveAppLocation(t *testing.T) {
	tests := []struct {
		name string
		zone string
		want string
	}{
		{name: "empty defaults to UTC", zone: "", want: "UTC"},
		{name: "unknown falls back to UTC", zone: "Mars/Olympus_Mons", want: "UTC"},
		{name: "IANA name", zone: "America/New_York", want: "America/New_York"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveAppLocation(tt.zone).String(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestFormatUsesAppLocation(t *testing.T) {
	at := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)

	if got, want := Format(at, time.RFC3339), at.In(GetLocation()).Format(time.RFC3339); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	if Now().Location() != GetLocation() {
		t.Error("Now() must be expressed in the application location")
	}
}
