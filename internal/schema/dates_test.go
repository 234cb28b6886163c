package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		want    time.Time
		wantErr bool
	}{
		{
			name: "site local",
			raw:  "2024-03-01T10:30:00",
			want: time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			name: "rfc3339 with offset",
			raw:  "2024-03-01T10:30:00+02:00",
			want: time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC),
		},
		{
			name: "space separated",
			raw:  "2024-03-01 10:30:00",
			want: time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			name: "date only",
			raw:  "2024-03-01",
			want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "epoch millis",
			raw:  float64(1709289000000),
			want: time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		},
		{name: "garbage", raw: "yesterday", wantErr: true},
		{name: "null", raw: nil, wantErr: true},
		{name: "boolean", raw: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}
