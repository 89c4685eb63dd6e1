// Package chess turns a tournament link into analysis: it expands the link
// into per-round standings and pairings pages, fetches them and asks the
// generation client for answers and reports grounded in their content.
package chess

import (
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// MaxRounds bounds how many rounds ExpandLink walks back from the linked one.
const MaxRounds = 64

// ErrInvalidLink is returned when a tournament link cannot be parsed as an absolute URL.
var ErrInvalidLink = errors.New("invalid tournament link")

// Page kinds selected by the "art" query parameter.
const (
	artStandings = 1
	artPairings  = 2
)

// ExpandLink returns the standings and pairings URLs for every round from the
// linked round down to round 1, newest first and without duplicates. The
// "rd" and "art" keys are matched case-insensitively. A link without "rd" is
// treated as round 1; a link that cannot be parsed, or whose round is not a
// positive number, is returned unchanged as the only element.
func ExpandLink(raw string) []string {
	u, err := parseLink(raw)
	if err != nil {
		return []string{raw}
	}

	params := u.Query()
	rdKey := findKey(params, "rd")

	start := 1
	if rdKey != "" {
		v := params.Get(rdKey)
		if v == "" {
			v = "1"
		}
		n, ok := leadingInt(v)
		if !ok || n < 1 {
			return []string{raw}
		}
		start = n
	}

	last := 1
	if start-MaxRounds+1 > last {
		last = start - MaxRounds + 1
	}

	seen := make(map[string]bool)
	var out []string
	for rd := start; rd >= last; rd-- {
		for _, art := range []int{artStandings, artPairings} {
			q := cloneValues(params)
			if rdKey != "" {
				q.Set(rdKey, strconv.Itoa(rd))
			}
			artKey := findKey(q, "art")
			if artKey == "" {
				artKey = "art"
			}
			q.Set(artKey, strconv.Itoa(art))

			next := *u
			next.RawQuery = q.Encode()
			s := next.String()
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

func parseLink(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, errors.Join(ErrInvalidLink, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, ErrInvalidLink
	}
	return u, nil
}

// findKey returns the first key, in sorted order, equal to name ignoring case.
func findKey(v url.Values, name string) string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.EqualFold(k, name) {
			return k
		}
	}
	return ""
}

// leadingInt parses the integer prefix of s, ignoring surrounding spaces and
// anything after the digits ("12abc" is 12).
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
