package structure

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateItemCode(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain", raw: "BIKE-100", want: "BIKE-100"},
		{name: "trimmed", raw: "  A.1_2 ", want: "A.1_2"},
		{name: "max length", raw: strings.Repeat("X", DefaultMaxCodeLength), want: strings.Repeat("X", DefaultMaxCodeLength)},
		{name: "one over max", raw: strings.Repeat("X", DefaultMaxCodeLength+1), wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "whitespace", raw: " \t ", wantErr: true},
		{name: "quote", raw: "A'; DROP", wantErr: true},
		{name: "slash", raw: "A/B", wantErr: true},
		{name: "inner space", raw: "A B", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateItemCode(tt.raw, 0)
			if tt.wantErr {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "item code", verr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateItemCode_CustomLimit(t *testing.T) {
	_, err := ValidateItemCode("ABCDE", 5)
	require.NoError(t, err)
	_, err = ValidateItemCode("ABCDEF", 5)
	require.Error(t, err)
}

func TestValidateReferenceDate(t *testing.T) {
	now := time.Date(2025, time.March, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "absent is today", raw: "", want: "2025-03-10"},
		{name: "valid", raw: "2025-02-28", want: "2025-02-28"},
		{name: "leap day", raw: "2024-02-29", want: "2024-02-29"},
		{name: "not a calendar date", raw: "2025-02-30", wantErr: true},
		{name: "month 13", raw: "2025-13-01", wantErr: true},
		{name: "short year", raw: "25-02-28", wantErr: true},
		{name: "no padding", raw: "2025-2-8", wantErr: true},
		{name: "slashes", raw: "2025/02/28", wantErr: true},
		{name: "lower bound", raw: "1900-01-01", want: "1900-01-01"},
		{name: "before lower bound", raw: "1899-12-31", wantErr: true},
		{name: "upper bound", raw: "2035-03-10", want: "2035-03-10"},
		{name: "after upper bound", raw: "2035-03-11", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateReferenceDate(tt.raw, now)
			if tt.wantErr {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "reference date", verr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format(dateLayout))
		})
	}
}
