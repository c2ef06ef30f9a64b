// Package xattrutil holds the extended-attribute wire grammar and
// retry policy shared by capkit/mac's production code and its tests.
// It is read-only infrastructure from capkit/acl's perspective: ACLs
// are not xattrs on FreeBSD, so acl never calls into this package, but
// factoring the key/value grammar out here means mac's production code
// and its afero-backed tests validate against the identical rules.
package xattrutil

import (
	"sort"
	"strings"

	"github.com/freebsdkit/capkit/ferr"
)

// MaxRetries bounds the ERANGE retry loop callers use around a
// get-sized-buffer/getxattr pair when the attribute can grow between
// the sizing call and the read.
const MaxRetries = 4

// ValidateKey enforces the key grammar: no '=', '\n', or NUL.
func ValidateKey(key string) error {
	if key == "" {
		return ferr.New(ferr.MalformedLabel, "xattrutil.validate_key", "empty key")
	}
	if strings.ContainsAny(key, "=\n\x00") {
		return ferr.New(ferr.MalformedLabel, "xattrutil.validate_key", "key contains '=', newline, or NUL")
	}
	return nil
}

// ValidateValue enforces the value grammar: no '\n' or NUL.
func ValidateValue(value string) error {
	if strings.ContainsAny(value, "\n\x00") {
		return ferr.New(ferr.MalformedLabel, "xattrutil.validate_value", "value contains newline or NUL")
	}
	return nil
}

// ValidateAttributeName enforces the attributeName grammar from
// config grammar: [A-Za-z0-9._-]{1,255}.
func ValidateAttributeName(name string) error {
	if len(name) == 0 || len(name) > 255 {
		return ferr.New(ferr.MalformedLabel, "xattrutil.validate_attribute_name", "length out of [1,255]")
	}
	for _, c := range name {
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '.', c == '_', c == '-':
		default:
			return ferr.New(ferr.MalformedLabel, "xattrutil.validate_attribute_name", "disallowed character")
		}
	}
	return nil
}

// Encode renders attrs as key-sorted "k=v\n" lines.
func Encode(attrs map[string]string) ([]byte, error) {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		if err := ValidateKey(k); err != nil {
			return nil, err
		}
		if err := ValidateValue(attrs[k]); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(attrs[k])
		sb.WriteByte('\n')
	}
	return []byte(sb.String()), nil
}

// Decode parses the "k=v\n" wire grammar back into a map. A duplicate
// key is treated as store corruption or tampering and rejected, per
// "duplicate keys on read-back are an error" rule.
func Decode(data []byte) (map[string]string, error) {
	out := make(map[string]string)
	text := string(data)
	if text == "" {
		return out, nil
	}
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			return nil, ferr.New(ferr.MalformedLabel, "xattrutil.decode", "line missing '=': "+line)
		}
		key := line[:eq]
		value := line[eq+1:]
		if err := ValidateKey(key); err != nil {
			return nil, err
		}
		if _, dup := out[key]; dup {
			return nil, ferr.New(ferr.MalformedLabel, "xattrutil.decode", "duplicate key on read-back: "+key)
		}
		out[key] = value
	}
	return out, nil
}
