package scorer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownOption is returned when a categorical input is not one of the
// enumerated option strings.
var ErrUnknownOption = errors.New("unknown option")

// Gender is the respondent's gender.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// Genders lists every Gender in display order.
var Genders = []Gender{Male, Female}

// YesNo is a closed boolean answer.
type YesNo string

const (
	No  YesNo = "no"
	Yes YesNo = "yes"
)

// YesNoOptions lists every YesNo in display order.
var YesNoOptions = []YesNo{No, Yes}

// Frequency answers "how often" questions (snacking, alcohol).
type Frequency string

const (
	Never      Frequency = "never"
	Sometimes  Frequency = "sometimes"
	Frequently Frequency = "frequently"
	Always     Frequency = "always"
)

// Frequencies lists every Frequency in display order.
var Frequencies = []Frequency{Never, Sometimes, Frequently, Always}

// Transport is the usual mode of transportation.
type Transport string

const (
	Walking    Transport = "walking"
	Public     Transport = "public"
	PrivateCar Transport = "private_car"
)

// Transports lists every Transport in display order.
var Transports = []Transport{Walking, Public, PrivateCar}

// Aliases accepted on input. The dataset and the original form use these tokens.
var (
	yesNoAliases = map[string]YesNo{
		"ya":    Yes,
		"tidak": No,
	}
	frequencyAliases = map[string]Frequency{
		"no": Never,
	}
	transportAliases = map[string]Transport{
		"public_transportation": Public,
		"automobile":            PrivateCar,
		"motorbike":             PrivateCar,
		"bike":                  Walking,
	}
)

func parseOption[T ~string](kind, s string, options []T, aliases map[string]T) (T, error) {
	token := strings.ToLower(strings.TrimSpace(s))
	token = strings.ReplaceAll(token, " ", "_")
	for _, opt := range options {
		if string(opt) == token {
			return opt, nil
		}
	}
	if opt, ok := aliases[token]; ok {
		return opt, nil
	}
	var zero T
	return zero, fmt.Errorf("%w: %s %q", ErrUnknownOption, kind, s)
}

func isOption[T ~string](v T, options []T) bool {
	for _, opt := range options {
		if v == opt {
			return true
		}
	}
	return false
}

// ParseGender parses a gender token, case-insensitively.
func ParseGender(s string) (Gender, error) {
	return parseOption("gender", s, Genders, nil)
}

// ParseYesNo parses a yes/no token, case-insensitively.
func ParseYesNo(s string) (YesNo, error) {
	return parseOption("yes/no answer", s, YesNoOptions, yesNoAliases)
}

// ParseFrequency parses a frequency token, case-insensitively.
func ParseFrequency(s string) (Frequency, error) {
	return parseOption("frequency", s, Frequencies, frequencyAliases)
}

// ParseTransport parses a transportation token, case-insensitively.
func ParseTransport(s string) (Transport, error) {
	return parseOption("transport", s, Transports, transportAliases)
}

func (g Gender) Valid() bool    { return isOption(g, Genders) }
func (v YesNo) Valid() bool     { return isOption(v, YesNoOptions) }
func (f Frequency) Valid() bool { return isOption(f, Frequencies) }
func (t Transport) Valid() bool { return isOption(t, Transports) }

func (g *Gender) UnmarshalText(text []byte) error {
	v, err := ParseGender(string(text))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

func (v *YesNo) UnmarshalText(text []byte) error {
	parsed, err := ParseYesNo(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (f *Frequency) UnmarshalText(text []byte) error {
	v, err := ParseFrequency(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (t *Transport) UnmarshalText(text []byte) error {
	v, err := ParseTransport(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Label returns the human readable option text used by the form.
func (t Transport) Label() string {
	switch t {
	case Walking:
		return "Walking"
	case Public:
		return "Public transportation"
	case PrivateCar:
		return "Private car"
	}
	return string(t)
}
