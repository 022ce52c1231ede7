package ledger

import (
	"regexp"
	"strings"
	"time"
)

const fileExt = ".jsonl"

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// FileName returns the log file name for agent on the UTC day of ts.
func FileName(agent string, ts time.Time) string {
	a := strings.Trim(unsafeName.ReplaceAllString(agent, "-"), "-")
	if a == "" {
		a = "system"
	}

	return a + "_" + ts.UTC().Format("20060102") + fileExt
}
