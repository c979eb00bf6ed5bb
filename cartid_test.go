package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractProductID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"abc123-fresh-standard", "abc123"},
		{"abc123-velvet", "abc123"},
		{"abc123-fresh", "abc123"},
		{"abc123-velvet-custom", "abc123"},
		{"abc123-standard", "abc123"},
		{"abc123-custom", "abc123"},
		{"abc123", "abc123"},
		{"", ""},
		// unknown suffixes pass through unchanged
		{"abc123-giant", "abc123-giant"},
		{"9f8d1c2a-fresh", "9f8d1c2a"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ExtractProductID(tc.in), "input %q", tc.in)
	}
}

func TestExtractProductIDIsPure(t *testing.T) {
	in := "abc123-fresh-standard"
	first := ExtractProductID(in)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, ExtractProductID(in))
	}
}
