package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  int
	}{
		{"int passes through", 10, 10},
		{"int64 passes through", int64(7), 7},
		{"float truncates", 2.9, 2},
		{"clean numeric string", "15", 15},
		{"string with unit suffix", "10 tablets", 10},
		{"string with interleaved text", "2x daily", 2},
		{"decimal string keeps digits only", "1.5", 15},
		{"empty string", "", 0},
		{"no digits at all", "tablets", 0},
		{"nil", nil, 0},
		{"unexpected type", []string{"10"}, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Normalize(c.input))
		})
	}
}
