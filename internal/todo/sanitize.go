package todo

import (
	"strings"
	"unicode/utf8"
)

// CleanOneLine folds s onto a single line: fenced code blocks are dropped,
// runs of whitespace collapse to one space. Results longer than maxLen runes
// are cut and end in an ellipsis (maxLen <= 0 disables the cut). It reports
// whether anything besides surrounding space was removed and whether the
// text was truncated.
func CleanOneLine(s string, maxLen int) (string, bool, bool) {
    changed := false
    for {
        i := strings.Index(s, "```")
        if i < 0 { break }
        j := strings.Index(s[i+3:], "```")
        changed = true
        if j < 0 { // unterminated fence swallows the rest
            s = s[:i]
            break
        }
        s = s[:i] + " " + s[i+3+j+3:]
    }

    fields := strings.Fields(s)
    out := strings.Join(fields, " ")
    if out != strings.TrimSpace(s) { changed = true }

    truncated := false
    if maxLen > 0 && utf8.RuneCountInString(out) > maxLen {
        out = string([]rune(out)[:maxLen]) + "…"
        truncated = true
    }
    return out, changed, truncated
}

var htmlEscaper = strings.NewReplacer(
    "&", "&amp;",
    "<", "&lt;",
    ">", "&gt;",
    "\"", "&quot;",
    "'", "&#39;",
)

func escapeHTML(s string) string { return htmlEscaper.Replace(s) }
