package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnmarshalArrayDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want []string
	}{
		{"valid array", []byte(`["barbell","bench"]`), []string{"barbell", "bench"}},
		{"empty array", []byte(`[]`), []string{}},
		{"nil column", nil, []string{}},
		{"json null", []byte(`null`), []string{}},
		{"malformed json", []byte(`{"oops"`), []string{}},
		{"wrong shape", []byte(`{"a":1}`), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, unmarshalArray(tt.data))
		})
	}
}

func TestMarshalArrayRoundTrip(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, unmarshalArray(marshalArray([]string{"a", "b"})))
	// A nil slice is stored as an empty JSON array, never SQL NULL.
	assert.Equal(t, []byte(`[]`), marshalArray(nil))
}
