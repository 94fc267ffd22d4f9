package normalize

import (
	"strings"

	"golang.org/x/text/cases"
)

var folder = cases.Fold()

// Name brings a player name to its canonical lookup form: surrounding and
// repeated whitespace collapsed, unicode case folded.
func Name(s string) string {
	return folder.String(strings.Join(strings.Fields(s), " "))
}
