package conversation

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAskYesNo(t *testing.T) {
	cases := []struct {
		answers []string
		want    bool
		asks    int
	}{
		{[]string{"y"}, true, 1},
		{[]string{"YES"}, true, 1},
		{[]string{"  Yes  "}, true, 1},
		{[]string{"n"}, false, 1},
		{[]string{"No"}, false, 1},
		{[]string{"maybe", "yep", "y"}, true, 3},
		{[]string{"maybe", "maybe", "maybe", "yes"}, false, 3},
		{[]string{"", "no"}, false, 2},
	}
	for _, c := range cases {
		tr := script(c.answers...)
		got, err := AskYesNo(context.Background(), tr, "Continue?", 3)
		require.NoError(t, err, "answers %v", c.answers)
		require.Equal(t, c.want, got, "answers %v", c.answers)
		require.Len(t, tr.prompts, c.asks, "answers %v", c.answers)
		require.Equal(t, "Continue? (yes/no): ", tr.prompts[0])
	}
}

func TestAskYesNo_ExhaustedSaysMoveOn(t *testing.T) {
	tr := script("a", "b", "c")
	got, err := AskYesNo(context.Background(), tr, "Q?", 3)
	require.NoError(t, err)
	require.False(t, got)
	require.Equal(t, []string{textYesNoUnclear, textYesNoUnclear, textYesNoUnclear, textYesNoMoveOn}, tr.lines)
}

func TestAskYesNo_EOF(t *testing.T) {
	_, err := AskYesNo(context.Background(), script(), "Q?", 3)
	require.ErrorIs(t, err, io.EOF)
}
