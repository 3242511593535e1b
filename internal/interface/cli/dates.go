package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// parseDay resolves a day argument to its calendar day. Accepts exact
// "2006-01-02" dates and natural language ("yesterday", "last monday").
// Empty input means today.
func parseDay(args []string) (time.Time, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return time.Now(), nil
	}

	if t, err := time.ParseInLocation("2006-01-02", text, time.Local); err == nil {
		return t, nil
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	result, err := w.Parse(text, time.Now())
	if err != nil || result == nil {
		return time.Time{}, fmt.Errorf("could not understand date %q", text)
	}
	return result.Time, nil
}
