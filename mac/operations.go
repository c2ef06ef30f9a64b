package mac

import (
	"errors"

	"github.com/freebsdkit/capkit/ferr"
	"github.com/freebsdkit/capkit/internal/xattrutil"
)

// initialBufSize is the first guess for an attribute's encoded size;
// getWithRetry doubles it on each ERANGE up to xattrutil.MaxRetries.
const initialBufSize = 256

func getWithRetry(fetch func(buf []byte) (int, error)) ([]byte, error) {
	size := initialBufSize
	var lastErr error
	for attempt := 0; attempt < xattrutil.MaxRetries; attempt++ {
		buf := make([]byte, size)
		n, err := fetch(buf)
		if err == nil {
			return buf[:n], nil
		}
		var fe *ferr.Error
		if !errors.As(err, &fe) || fe.Kind != ferr.Range {
			return nil, err
		}
		lastErr = err
		size *= 2
	}
	return nil, lastErr
}

func getAttributeByPath(path, name string) ([]byte, error) {
	return getWithRetry(func(buf []byte) (int, error) { return getxattrPath(path, name, buf) })
}

func getAttributeByFd(d fdOwner, name string) ([]byte, error) {
	return getWithRetry(func(buf []byte) (int, error) { return getxattrFd(d, name, buf) })
}

// PerLabelResult reports one label's apply outcome.
type PerLabelResult struct {
	Path     string
	Err      error
	Previous map[string]string // the attribute value observed before this apply, for rollback diagnostics
}

// Apply runs ValidateAll first; if it passes, applies every expanded
// label independently. A per-label failure does not stop later labels,
// but its PerLabelResult carries whatever value was on disk beforehand
// so a caller can roll back.
func Apply(cfg Config, overwrite bool) ([]PerLabelResult, error) {
	if err := ValidateAll(cfg); err != nil {
		return nil, err
	}
	expanded, err := expand(cfg)
	if err != nil {
		return nil, err
	}

	results := make([]PerLabelResult, 0, len(expanded))
	for _, l := range expanded {
		result := PerLabelResult{Path: l.path}

		if previous, err := getAttributeByPath(l.path, cfg.AttributeName); err == nil {
			if parsed, perr := xattrutil.Decode(previous); perr == nil {
				result.Previous = parsed
			}
			if !overwrite {
				result.Err = ferr.New(ferr.AlreadyExists, "mac.apply", l.path)
				results = append(results, result)
				continue
			}
		}

		encoded, err := xattrutil.Encode(l.attrs)
		if err != nil {
			result.Err = err
			results = append(results, result)
			continue
		}
		result.Err = setxattrPath(l.path, cfg.AttributeName, encoded)
		results = append(results, result)
	}
	return results, nil
}

// Comparison enumerates how one key of a verified label diverged from
// its expected value.
type Comparison int

const (
	ComparisonMatch Comparison = iota
	ComparisonMissingKey
	ComparisonExtraKey
	ComparisonValueMismatch
)

// KeyComparison is one key's verification outcome within a label.
type KeyComparison struct {
	Key        string
	Comparison Comparison
	Expected   string
	Observed   string
}

// PerLabelComparison reports one label's verify outcome.
type PerLabelComparison struct {
	Path string
	Err  error // non-nil when the on-disk attribute itself could not be read/parsed
	Keys []KeyComparison
}

// Verify reads each expanded label's on-disk attribute, strictly
// parses it, and compares it key-by-key against the expected map.
func Verify(cfg Config) ([]PerLabelComparison, error) {
	expanded, err := expand(cfg)
	if err != nil {
		return nil, err
	}

	out := make([]PerLabelComparison, 0, len(expanded))
	for _, l := range expanded {
		pc := PerLabelComparison{Path: l.path}
		raw, err := getAttributeByPath(l.path, cfg.AttributeName)
		if err != nil {
			pc.Err = err
			out = append(out, pc)
			continue
		}
		observed, err := xattrutil.Decode(raw)
		if err != nil {
			pc.Err = err
			out = append(out, pc)
			continue
		}

		seen := make(map[string]bool, len(l.attrs))
		for k, expected := range l.attrs {
			seen[k] = true
			got, ok := observed[k]
			switch {
			case !ok:
				pc.Keys = append(pc.Keys, KeyComparison{Key: k, Comparison: ComparisonMissingKey, Expected: expected})
			case got != expected:
				pc.Keys = append(pc.Keys, KeyComparison{Key: k, Comparison: ComparisonValueMismatch, Expected: expected, Observed: got})
			default:
				pc.Keys = append(pc.Keys, KeyComparison{Key: k, Comparison: ComparisonMatch, Expected: expected, Observed: got})
			}
		}
		for k, got := range observed {
			if !seen[k] {
				pc.Keys = append(pc.Keys, KeyComparison{Key: k, Comparison: ComparisonExtraKey, Observed: got})
			}
		}
		out = append(out, pc)
	}
	return out, nil
}

// Remove deletes the configured attribute from every expanded label's
// path. It is idempotent: an absent attribute is not an error.
func Remove(cfg Config) error {
	expanded, err := expand(cfg)
	if err != nil {
		return err
	}
	for _, l := range expanded {
		if err := removexattrPath(l.path, cfg.AttributeName); err != nil {
			return err
		}
	}
	return nil
}

// ShowResult is one expanded label's on-disk attribute, parsed, or the
// error encountered trying to read it.
type ShowResult struct {
	Path string
	Map  map[string]string
	Err  error
}

// Show reads and parses every expanded label's on-disk attribute
// without comparing it against anything.
func Show(cfg Config) ([]ShowResult, error) {
	expanded, err := expand(cfg)
	if err != nil {
		return nil, err
	}
	out := make([]ShowResult, 0, len(expanded))
	for _, l := range expanded {
		sr := ShowResult{Path: l.path}
		raw, err := getAttributeByPath(l.path, cfg.AttributeName)
		if err != nil {
			sr.Err = err
			out = append(out, sr)
			continue
		}
		parsed, err := xattrutil.Decode(raw)
		if err != nil {
			sr.Err = err
			out = append(out, sr)
			continue
		}
		sr.Map = parsed
		out = append(out, sr)
	}
	return out, nil
}

// ApplyToFd applies attrs directly to an already open descriptor,
// bypassing path resolution entirely for TOCTOU hardening.
func ApplyToFd(d fdOwner, attributeName string, attrs map[string]string) error {
	encoded, err := xattrutil.Encode(attrs)
	if err != nil {
		return err
	}
	return setxattrFd(d, attributeName, encoded)
}

// VerifyFd reads and parses the attribute directly from an already
// open descriptor.
func VerifyFd(d fdOwner, attributeName string) (map[string]string, error) {
	raw, err := getAttributeByFd(d, attributeName)
	if err != nil {
		return nil, err
	}
	return xattrutil.Decode(raw)
}

// RemoveFd deletes the attribute directly from an already open
// descriptor. Idempotent like Remove.
func RemoveFd(d fdOwner, attributeName string) error {
	return removexattrFd(d, attributeName)
}
