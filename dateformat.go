package pubsite

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateFormat is a parsed display format written with moment-style tokens
// ("MMMM DD, YYYY"), the notation site authors already use in their config.
// Text inside [brackets] is emitted literally.
type dateFormat []dateToken

type dateToken struct {
	token   string // empty for literal text
	literal string
}

// Longest tokens first so "MMMM" wins over "MM".
var dateTokens = []string{
	"YYYY", "YY",
	"MMMM", "MMM", "MM", "M",
	"dddd", "ddd",
	"DD", "Do", "D",
	"HH", "H", "hh", "h",
	"mm", "m", "ss", "s",
	"A", "a", "Z",
}

func convertDateFormat(s string) (dateFormat, error) {
	var out dateFormat
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			out = append(out, dateToken{literal: lit.String()})
			lit.Reset()
		}
	}
	for i := 0; i < len(s); {
		if s[i] == '[' {
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("date format %q: unterminated [", s)
			}
			lit.WriteString(s[i+1 : i+end])
			i += end + 1
			continue
		}
		matched := ""
		for _, tok := range dateTokens {
			if strings.HasPrefix(s[i:], tok) {
				matched = tok
				break
			}
		}
		if matched == "" {
			lit.WriteByte(s[i])
			i++
			continue
		}
		flush()
		out = append(out, dateToken{token: matched})
		i += len(matched)
	}
	flush()
	if len(out) == 0 {
		return nil, fmt.Errorf("date format is empty")
	}
	return out, nil
}

func (f dateFormat) format(t time.Time) string {
	var b strings.Builder
	for _, tok := range f {
		if tok.token == "" {
			b.WriteString(tok.literal)
			continue
		}
		b.WriteString(formatDateToken(tok.token, t))
	}
	return b.String()
}

func formatDateToken(tok string, t time.Time) string {
	switch tok {
	case "YYYY":
		return fmt.Sprintf("%04d", t.Year())
	case "YY":
		return fmt.Sprintf("%02d", t.Year()%100)
	case "MMMM":
		return t.Month().String()
	case "MMM":
		return t.Month().String()[:3]
	case "MM":
		return fmt.Sprintf("%02d", int(t.Month()))
	case "M":
		return strconv.Itoa(int(t.Month()))
	case "dddd":
		return t.Weekday().String()
	case "ddd":
		return t.Weekday().String()[:3]
	case "DD":
		return fmt.Sprintf("%02d", t.Day())
	case "Do":
		return ordinal(t.Day())
	case "D":
		return strconv.Itoa(t.Day())
	case "HH":
		return fmt.Sprintf("%02d", t.Hour())
	case "H":
		return strconv.Itoa(t.Hour())
	case "hh":
		return fmt.Sprintf("%02d", hour12(t))
	case "h":
		return strconv.Itoa(hour12(t))
	case "mm":
		return fmt.Sprintf("%02d", t.Minute())
	case "m":
		return strconv.Itoa(t.Minute())
	case "ss":
		return fmt.Sprintf("%02d", t.Second())
	case "s":
		return strconv.Itoa(t.Second())
	case "A":
		if t.Hour() < 12 {
			return "AM"
		}
		return "PM"
	case "a":
		if t.Hour() < 12 {
			return "am"
		}
		return "pm"
	case "Z":
		return t.Format("-07:00")
	}
	return tok
}

func hour12(t time.Time) int {
	h := t.Hour() % 12
	if h == 0 {
		return 12
	}
	return h
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return strconv.Itoa(n) + suffix
}

// Layouts accepted for front-matter dates, most specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
}

// ParseDate parses a front-matter date. Dates without a zone are taken as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q, use YYYY-MM-DD or RFC 3339", s)
}
