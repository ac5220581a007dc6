package server

import (
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/lacquerai/weighin/internal/history"
	"github.com/lacquerai/weighin/internal/scorer"
)

//go:embed templates/*.html
var templateFS embed.FS

func parsePages() (*template.Template, error) {
	funcs := template.FuncMap{
		"bmi": func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) },
		"time": func(e history.Entry) string {
			return e.Timestamp.Format("15:04:05")
		},
	}
	t, err := template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return t, nil
}

type option struct {
	Value string
	Label string
}

// formField describes one input of the survey form.
type formField struct {
	Name    string
	Label   string
	Min     string
	Max     string
	Step    string
	Options []option
	Value   string
	Error   string
}

func (f formField) IsSelect() bool { return len(f.Options) > 0 }

type pageData struct {
	Fields          []formField
	Result          *Prediction
	Chart           template.HTML
	History         []history.Entry
	HistoryCapacity int
	Errors          []*scorer.FieldError
}

func numberField(name, label, min, max, step string) formField {
	return formField{Name: name, Label: label, Min: min, Max: max, Step: step}
}

func selectField[T ~string](name, label string, values []T, labelOf func(T) string) formField {
	f := formField{Name: name, Label: label}
	for _, v := range values {
		f.Options = append(f.Options, option{Value: string(v), Label: labelOf(v)})
	}
	return f
}

func scaleField(name, label string, labels ...string) formField {
	f := formField{Name: name, Label: label}
	for i, l := range labels {
		f.Options = append(f.Options, option{Value: strconv.Itoa(i + 1), Label: l})
	}
	return f
}

func titled[T ~string](v T) string {
	s := string(v)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// surveyFields lists the form inputs in display order.
func surveyFields() []formField {
	return []formField{
		numberField("age", "Age", "10", "100", "1"),
		selectField("gender", "Gender", scorer.Genders, titled[scorer.Gender]),
		numberField("height", "Height (cm)", "100", "250", "0.1"),
		numberField("weight", "Weight (kg)", "30", "200", "0.1"),
		selectField("family_history", "Family history of overweight", scorer.YesNoOptions, titled[scorer.YesNo]),
		selectField("favc", "Frequent high calorie food", scorer.YesNoOptions, titled[scorer.YesNo]),
		scaleField("fcvc", "Vegetables with meals", "Never", "Sometimes", "Always"),
		numberField("ncp", "Main meals per day", "1", "4", "1"),
		selectField("caec", "Eating between meals", scorer.Frequencies, titled[scorer.Frequency]),
		selectField("smoke", "Smoker", scorer.YesNoOptions, titled[scorer.YesNo]),
		scaleField("ch2o", "Daily water", "Less than 1 L", "1 to 2 L", "More than 2 L"),
		selectField("scc", "Monitors calories", scorer.YesNoOptions, titled[scorer.YesNo]),
		numberField("faf", "Active days per week", "0", "4", "1"),
		numberField("tue", "Screen time (0 to 3)", "0", "3", "1"),
		selectField("calc", "Alcohol", scorer.Frequencies, titled[scorer.Frequency]),
		selectField("mtrans", "Transportation", scorer.Transports, scorer.Transport.Label),
	}
}

// fillFields copies submitted values and field errors into the form.
func fillFields(values map[string]string, errs []*scorer.FieldError) []formField {
	fields := surveyFields()
	messages := make(map[string]string, len(errs))
	for _, e := range errs {
		messages[e.Field] = e.Message
	}
	for i := range fields {
		fields[i].Value = values[fields[i].Name]
		fields[i].Error = messages[fields[i].Name]
	}
	return fields
}
