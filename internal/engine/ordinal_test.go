package engine_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/birthday-insights/internal/engine"
)

func TestOrdinalLabel(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "1st"},
		{2, "2nd"},
		{3, "3rd"},
		{4, "4th"},
		{10, "10th"},
		{11, "11th"},
		{12, "12th"},
		{13, "13th"},
		{20, "20th"},
		{21, "21st"},
		{22, "22nd"},
		{23, "23rd"},
		{101, "101st"},
		{111, "111th"},
		{112, "112th"},
		{121, "121st"},
		{1000, "1,000th"},
		{1001, "1,001st"},
		{10011, "10,011th"},
		{1234567, "1,234,567th"},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.n), func(t *testing.T) {
			assert.Equal(t, tt.want, engine.OrdinalLabel(tt.n))
		})
	}
}

func TestOrdinalSuffix_NegativeUsesMagnitude(t *testing.T) {
	assert.Equal(t, "st", engine.OrdinalSuffix(-1))
	assert.Equal(t, "th", engine.OrdinalSuffix(-11))
	assert.Equal(t, "th", engine.OrdinalSuffix(0))
}
