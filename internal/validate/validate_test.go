package validate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderID(t *testing.T) {
	cases := map[string]bool{
		"AB-123456":     true,
		"ab-123456":     true,
		"  Ab-654321\t": true,
		"AB-12345":      false,
		"AB-1234567":    false,
		"AB123456":      false,
		"XY-123456":     false,
		"AB-12345a":     false,
		"":              false,
		"AB-123456\nx":  false,
	}
	for in, want := range cases {
		require.Equal(t, want, OrderID(in), "input %q", in)
	}
}

func TestZip(t *testing.T) {
	cases := map[string]bool{
		"94107":      true,
		" 94107 ":    true,
		"94107-1234": true,
		"9410":       false,
		"941071":     false,
		"94107-123":  false,
		"94107 1234": false,
		"abcde":      false,
		"":           false,
	}
	for in, want := range cases {
		require.Equal(t, want, Zip(in), "input %q", in)
	}
}

func TestOnlyASCIIDigits(t *testing.T) {
	require.False(t, OrderID("AB-\uff11\uff12\uff13\uff14\uff15\uff16"))
	require.False(t, OrderID("AB-\u0661\u0662\u0663\u0664\u0665\u0666"))
	require.False(t, Zip("\uff19\uff14\uff11\uff10\uff17"))
}

func TestEmail(t *testing.T) {
	cases := map[string]bool{
		"a@b.com":            true,
		" Dora@Gmail.COM ":   true,
		"first.last@mail.co": true,
		"a@b.c.d":            true,
		"a@b":                false,
		"a@@b.com":           false,
		"@b.com":             false,
		"a@.com":             false,
		"a@b.":               false,
		"a@b.com@c.org":      false,
		"":                   false,
	}
	for in, want := range cases {
		require.Equal(t, want, Email(in), "input %q", in)
	}
}

func TestNormalizeOrderID(t *testing.T) {
	require.Equal(t, "AB-123456", NormalizeOrderID("  ab-123456 "))
}
