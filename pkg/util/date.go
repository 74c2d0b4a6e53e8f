package util

import (
	"strings"
	"time"
)

var dateTplReplacer = strings.NewReplacer(
	"YYYY", "2006",
	"YY", "06",
	"MM", "01",
	"DD", "02",
	"hh", "15",
	"mm", "04",
	"ss", "05",
)

// FormatDateTpl formats a millisecond Unix timestamp using a template with
// YYYY/YY/MM/DD/hh/mm/ss placeholders, for example "DD.MM hh:mm". A zero
// timestamp formats as the empty string.
func FormatDateTpl(ts int64, tpl string) string {
	if ts == 0 {
		return ""
	}
	return time.UnixMilli(ts).Format(dateTplReplacer.Replace(tpl))
}
