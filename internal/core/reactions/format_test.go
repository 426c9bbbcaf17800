package reactions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatLikeCount(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, "Be the first to like this"},
		{-2, "Be the first to like this"},
		{1, "1 like"},
		{2, "2 likes"},
		{1500, "1500 likes"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatLikeCount(tt.count), "count %d", tt.count)
	}
}
