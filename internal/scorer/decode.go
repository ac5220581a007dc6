package scorer

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
)

var quotedField = regexp.MustCompile(`'([^']+)'`)

// DecodeRecord builds an InputRecord from loosely typed values such as form
// posts, JSON objects or YAML documents. Keys are matched case insensitively
// and numeric strings are converted. Missing fields and values that cannot be
// converted are reported together as a *ValidationError; domain bounds are
// left to Validate.
func DecodeRecord(input map[string]any) (InputRecord, error) {
	normalized := make(map[string]any, len(input))
	for k, v := range input {
		key := strings.ToLower(strings.TrimSpace(k))
		if s, ok := v.(string); ok {
			v = strings.TrimSpace(s)
		}
		// blank form fields count as missing
		if v == nil || v == "" {
			continue
		}
		normalized[key] = v
	}

	var (
		rec InputRecord
		md  mapstructure.Metadata
	)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			wholeNumberHook,
		),
		WeaklyTypedInput: true,
		Metadata:         &md,
		Result:           &rec,
		TagName:          "mapstructure",
	})
	if err != nil {
		return rec, err
	}

	verr := &ValidationError{}
	if err := decoder.Decode(normalized); err != nil {
		var mErr *mapstructure.Error
		if !errors.As(err, &mErr) {
			return rec, err
		}
		msgs := append([]string(nil), mErr.Errors...)
		sort.Strings(msgs)
		for _, msg := range msgs {
			field := "input"
			if m := quotedField.FindStringSubmatch(msg); m != nil {
				field = m[1]
			}
			verr.add(field, decodeMessage(msg), normalized[field])
		}
	}

	unset := append([]string(nil), md.Unset...)
	sort.Strings(unset)
	for _, field := range unset {
		if _, present := normalized[field]; !present {
			verr.add(field, "is required", nil)
		}
	}

	if len(verr.Errors) > 0 {
		return rec, verr
	}
	return rec, nil
}

// wholeNumberHook rejects fractional floats bound for integer fields, which
// mapstructure would otherwise truncate.
func wholeNumberHook(from, to reflect.Kind, data any) (any, error) {
	if to < reflect.Int || to > reflect.Uint64 {
		return data, nil
	}
	var f float64
	switch from {
	case reflect.Float64:
		f = data.(float64)
	case reflect.Float32:
		f = float64(data.(float32))
	default:
		return data, nil
	}
	if f != math.Trunc(f) {
		return nil, fmt.Errorf("cannot parse %v as a whole number", f)
	}
	return data, nil
}

// decodeMessage keeps the useful tail of a mapstructure error message.
func decodeMessage(msg string) string {
	if i := strings.Index(msg, ErrUnknownOption.Error()); i >= 0 {
		return msg[i:]
	}
	if strings.Contains(msg, "cannot parse") || strings.Contains(msg, "expected type") {
		return "must be a number"
	}
	return msg
}
