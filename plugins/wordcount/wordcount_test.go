package wordcount

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Stats
	}{
		{"empty", "", Stats{}},
		{"simple", "Hello, world!\n", Stats{Lines: 1, Words: 2, Chars: 14}},
		{"punctuation only", "-- ...", Stats{Lines: 1, Words: 0, Chars: 6}},
		{"quoted reply", "> one two\nthree\n", Stats{Lines: 2, Words: 3, Chars: 16}},
		{"contraction", "don't stop", Stats{Lines: 1, Words: 2, Chars: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Count(tt.text))
		})
	}
}
