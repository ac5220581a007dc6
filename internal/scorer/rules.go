package scorer

// BMI bracket bounds. Each bracket is [lower, upper).
const (
	bmiUnderweight = 18.5
	bmiOverweight  = 25.0
	bmiObeseI      = 30.0
	bmiObeseII     = 35.0
	bmiObeseIII    = 40.0
)

// rule is one additive risk adjustment. Rules are evaluated in table order and
// every rule contributes; none short-circuits another.
type rule struct {
	name  string
	delta func(in InputRecord, bmi float64) int
}

var riskRules = []rule{
	{"bmi_bracket", func(_ InputRecord, bmi float64) int {
		switch {
		case bmi < bmiUnderweight:
			return -2
		case bmi < bmiOverweight:
			return 0
		case bmi < bmiObeseI:
			return 3
		case bmi < bmiObeseII:
			return 6
		case bmi < bmiObeseIII:
			return 9
		default:
			return 12
		}
	}},
	{"high_calorie_food", func(in InputRecord, _ float64) int {
		return when(in.FAVC == Yes, 2)
	}},
	{"vegetables", func(in InputRecord, _ float64) int {
		switch in.FCVC {
		case 1:
			return 2
		case 2:
			return 1
		}
		return 0
	}},
	{"meals_per_day", func(in InputRecord, _ float64) int {
		return when(in.NCP > 3, 1)
	}},
	{"no_calorie_monitoring", func(in InputRecord, _ float64) int {
		return when(in.SCC == No, 1)
	}},
	{"smoking", func(in InputRecord, _ float64) int {
		return when(in.Smoke == Yes, 1)
	}},
	{"low_water_intake", func(in InputRecord, _ float64) int {
		return when(in.CH2O < 2, 1)
	}},
	{"family_history", func(in InputRecord, _ float64) int {
		return when(in.FamilyHistory == Yes, 2)
	}},
	{"physical_activity", func(in InputRecord, _ float64) int {
		switch {
		case in.FAF == 0:
			return 3
		case in.FAF < 3:
			return 1
		}
		return 0
	}},
	{"screen_time", func(in InputRecord, _ float64) int {
		return when(in.TUE > 2, 1)
	}},
	{"snacking", func(in InputRecord, _ float64) int {
		switch in.CAEC {
		case Frequently, Always:
			return 2
		case Sometimes:
			return 1
		case Never:
			return 0
		}
		return 0
	}},
	{"alcohol", func(in InputRecord, _ float64) int {
		switch in.CALC {
		case Frequently, Always:
			return 1
		case Never, Sometimes:
			return 0
		}
		return 0
	}},
	{"transport", func(in InputRecord, _ float64) int {
		switch in.MTRANS {
		case PrivateCar:
			return 1
		case Walking:
			return -1
		case Public:
			return 0
		}
		return 0
	}},
	{"age_over_40", func(in InputRecord, _ float64) int {
		return when(in.Age > 40, 1)
	}},
	{"male_overweight", func(in InputRecord, bmi float64) int {
		return when(in.Gender == Male && bmi > bmiOverweight, 1)
	}},
}

func when(cond bool, delta int) int {
	if cond {
		return delta
	}
	return 0
}

// escalation holds the category resolution for one BMI bracket: base unless
// the risk score is strictly greater than threshold.
type escalation struct {
	upper     float64
	base      Category
	escalated Category
	threshold int
	always    bool
}

var escalations = []escalation{
	{upper: bmiUnderweight, base: NormalWeight, always: true},
	{upper: bmiOverweight, base: NormalWeight, escalated: OverweightLevelI, threshold: 8},
	{upper: bmiObeseI, base: OverweightLevelI, escalated: ObesityTypeI, threshold: 12},
	{upper: bmiObeseII, base: ObesityTypeI, escalated: ObesityTypeII, threshold: 15},
	{upper: bmiObeseIII, base: ObesityTypeII, escalated: ObesityTypeIII, threshold: 18},
}

func resolveCategory(bmi float64, risk int) Category {
	for _, e := range escalations {
		if bmi >= e.upper {
			continue
		}
		if !e.always && risk > e.threshold {
			return e.escalated
		}
		return e.base
	}
	return ObesityTypeIII
}
