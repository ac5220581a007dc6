package scorer

// CategoryMetadata is the display information attached to a category.
type CategoryMetadata struct {
	Category Category `json:"category" yaml:"category"`
	CSSClass string   `json:"css_class" yaml:"css_class"`
	Label    string   `json:"label" yaml:"label"`
	Icon     string   `json:"icon" yaml:"icon"`
}

var metadata = map[Category]CategoryMetadata{
	NormalWeight:      {Category: NormalWeight, CSSClass: "normal", Label: "Normal Weight", Icon: "✅"},
	OverweightLevelI:  {Category: OverweightLevelI, CSSClass: "overweight", Label: "Overweight Level I", Icon: "⚠️"},
	OverweightLevelII: {Category: OverweightLevelII, CSSClass: "overweight", Label: "Overweight Level II", Icon: "⚠️"},
	ObesityTypeI:      {Category: ObesityTypeI, CSSClass: "obese", Label: "Obesity Type I", Icon: "🔶"},
	ObesityTypeII:     {Category: ObesityTypeII, CSSClass: "obese", Label: "Obesity Type II", Icon: "🔴"},
	ObesityTypeIII:    {Category: ObesityTypeIII, CSSClass: "severe", Label: "Obesity Type III", Icon: "🚨"},
}

var recommendations = map[Category][]string{
	NormalWeight: {
		"Keep a balanced diet with plenty of vegetables and fruit",
		"Stay physically active for at least 150 minutes per week",
		"Drink enough water throughout the day",
		"Check your weight regularly to keep it stable",
	},
	OverweightLevelI: {
		"Cut down on high calorie and sugary food",
		"Add 30 minutes of moderate exercise on most days",
		"Replace snacks between meals with fruit or vegetables",
		"Track your daily calorie intake",
	},
	OverweightLevelII: {
		"Plan meals ahead with controlled portion sizes",
		"Increase physical activity to at least 5 days a week",
		"Limit alcohol and sweetened drinks",
		"Consider talking to a nutritionist",
	},
	ObesityTypeI: {
		"Consult a doctor about a weight management plan",
		"Follow a structured low calorie diet",
		"Do regular low impact exercise such as walking or swimming",
		"Reduce screen time and sedentary habits",
	},
	ObesityTypeII: {
		"See a doctor for a full health check",
		"Work with a dietitian on a supervised diet program",
		"Start a guided exercise program suited to your condition",
		"Monitor blood pressure and blood sugar regularly",
	},
	ObesityTypeIII: {
		"Seek medical care as soon as possible",
		"Ask a specialist about intensive treatment options",
		"Follow a diet program under medical supervision",
		"Get support from family or a support group",
	},
}

// MetadataFor returns the display metadata for c.
func MetadataFor(c Category) (CategoryMetadata, bool) {
	m, ok := metadata[c]
	return m, ok
}

// Recommendations returns the advice list for a category key. Unknown keys
// yield an empty list.
func Recommendations(key string) []string {
	recs, ok := recommendations[Category(key)]
	if !ok {
		return []string{}
	}
	out := make([]string, len(recs))
	copy(out, recs)
	return out
}

// BMIBracket is one of the four WHO style display brackets used by charts.
type BMIBracket struct {
	Name  string  `json:"name" yaml:"name"`
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper,omitempty" yaml:"upper,omitempty"`
}

// DisplayBrackets are the fixed chart brackets: underweight below 18.5,
// normal 18.5 to 24.9, overweight 25 to 29.9 and obese from 30.
var DisplayBrackets = []BMIBracket{
	{Name: "Underweight", Lower: 0, Upper: bmiUnderweight},
	{Name: "Normal", Lower: bmiUnderweight, Upper: bmiOverweight},
	{Name: "Overweight", Lower: bmiOverweight, Upper: bmiObeseI},
	{Name: "Obese", Lower: bmiObeseI},
}

// BracketOf returns the display bracket containing bmi.
func BracketOf(bmi float64) BMIBracket {
	for _, b := range DisplayBrackets[:len(DisplayBrackets)-1] {
		if bmi < b.Upper {
			return b
		}
	}
	return DisplayBrackets[len(DisplayBrackets)-1]
}
