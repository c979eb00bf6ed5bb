package main

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParsePriceNormalizesGroupedStrings(t *testing.T) {
	fromString := ParsePrice("1,290.50")
	fromNumber := ParsePrice(1290.50)
	require.True(t, fromString.Equal(fromNumber), "got %s and %s", fromString, fromNumber)
}

func TestParsePriceInputs(t *testing.T) {
	cases := []struct {
		in   interface{}
		want string
	}{
		{"1,290.00", "1290"},
		{"450.5", "450.5"},
		{1290, "1290"},
		{int64(99), "99"},
		{[]byte("2,000.25"), "2000.25"},
		{" 15.00 ", "15"},
		{"", "0"},
		{nil, "0"},
		{"not a price", "0"},
		{struct{}{}, "0"},
	}
	for _, tc := range cases {
		want, err := decimal.NewFromString(tc.want)
		require.NoError(t, err)
		require.True(t, want.Equal(ParsePrice(tc.in)), "input %v: got %s", tc.in, ParsePrice(tc.in))
	}
}

func TestFormatPriceTwoDigits(t *testing.T) {
	require.Equal(t, "1290.00", FormatPrice(decimal.NewFromInt(1290)))
	require.Equal(t, "0.50", FormatPrice(decimal.NewFromFloat(0.5)))
}
