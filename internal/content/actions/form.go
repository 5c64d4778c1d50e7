package actions

import (
	"net/url"
	"strconv"
	"strings"
)

// form reads typed values out of a raw submission and remembers fields that
// could not be converted.
type form struct {
	values url.Values
	errs   map[string]string
}

func newForm(v url.Values) *form {
	if v == nil {
		v = url.Values{}
	}
	return &form{values: v, errs: map[string]string{}}
}

func (f *form) str(name string) string {
	return strings.TrimSpace(f.values.Get(name))
}

// int returns def for a blank field.
func (f *form) int(name string, def int) int {
	s := f.str(name)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f.errs[name] = "must be a whole number"
		return def
	}
	return n
}

// bool accepts checkbox style values; a missing field is false.
func (f *form) bool(name string) bool {
	switch strings.ToLower(f.str(name)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// list splits a multi-line or comma-separated field into its entries.
func (f *form) list(name string) []string {
	var out []string
	for _, raw := range f.values[name] {
		out = append(out, SplitList(raw)...)
	}
	if out == nil {
		return []string{}
	}
	return out
}

// SplitList turns line- or comma-delimited text into an ordered list,
// dropping blank entries. Newlines take precedence: a value with more than
// one line is split by line only, so entries may contain commas.
func SplitList(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var parts []string
	if strings.Contains(strings.TrimSpace(s), "\n") {
		parts = strings.Split(s, "\n")
	} else {
		parts = strings.Split(s, ",")
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
