package idgentest

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var tokenRe = regexp.MustCompile(`\[([^\]]+)\]`)

var datePattern = strings.NewReplacer(
	"yyyy", "2006",
	"yy", "06",
	"MM", "01",
	"dd", "02",
	"HH", "15",
	"mm", "04",
	"ss", "05",
)

// Expand renders format for sequence number seq.
//
//	[SEQ_*]        zero padded, 6 digits
//	[cy:<pattern>] now formatted with yyyy, yy, MM, dd, HH, mm, ss
//
// Unknown tokens and plain text are kept. An empty format yields the padded number.
func Expand(format string, seq int64, now time.Time) string {
	if format == "" {
		return fmt.Sprintf("%06d", seq)
	}
	return tokenRe.ReplaceAllStringFunc(format, func(tok string) string {
		name := tok[1 : len(tok)-1]
		switch {
		case strings.HasPrefix(name, "SEQ_"):
			return fmt.Sprintf("%06d", seq)
		case strings.HasPrefix(name, "cy:"):
			return now.Format(datePattern.Replace(name[3:]))
		}
		return tok
	})
}
