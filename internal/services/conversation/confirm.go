package conversation

import (
	"context"
	"strings"
)

// AskYesNo asks question up to attempts times. y/yes and n/no are accepted in any case;
// anything else is re-asked. Running out of attempts counts as "no".
func AskYesNo(ctx context.Context, t Transport, question string, attempts int) (bool, error) {
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	for i := 0; i < attempts; i++ {
		ans, err := t.Ask(ctx, question+textYesNoSuffix)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(ans)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		if err := t.Say(ctx, textYesNoUnclear); err != nil {
			return false, err
		}
	}
	return false, t.Say(ctx, textYesNoMoveOn)
}
