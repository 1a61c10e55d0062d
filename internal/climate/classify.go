package climate

// Classification is the categorical verdict over a percentile result.
type Classification string

const (
	ClassHot     Classification = "hot"
	ClassWarm    Classification = "warm"
	ClassCold    Classification = "cold"
	ClassCool    Classification = "cool"
	ClassUnknown Classification = "unknown"
)

// Classify maps a percentile result onto a verdict using the configured
// thresholds. It is a pure, total function: an undefined rank yields
// ClassUnknown, never an error. Within the typical band the verdict leans
// toward the nearer extreme for display purposes.
func Classify(r PercentileResult, cfg Config) Classification {
	if !r.Defined() {
		return ClassUnknown
	}

	rank := *r.Rank
	switch {
	case rank >= cfg.HighPercentile:
		return ClassHot
	case rank >= cfg.MidHighPercentile:
		return ClassWarm
	case rank <= cfg.LowPercentile:
		return ClassCold
	case rank <= cfg.MidLowPercentile:
		return ClassCool
	case rank >= 50:
		return ClassWarm
	default:
		return ClassCool
	}
}

// Verdict turns a percentile rank into the short answer shown on the page.
func Verdict(r PercentileResult) string {
	if !r.Defined() {
		return "not sure, we have no data yet"
	}

	rank := *r.Rank
	switch {
	case rank < 5:
		return "Hell no!"
	case rank < 10:
		return "No!"
	case rank < 40:
		return "Nope"
	case rank < 50:
		return "Not really"
	case rank < 60:
		return "Yup"
	case rank < 90:
		return "Yeah!"
	case rank < 95:
		return "Hell yeah!"
	case rank <= 100:
		return "Bloody hell yes!"
	default:
		return "not sure, we have no data yet"
	}
}

// hotWarmCutoff separates days described as "hot" from merely "warm" ones in
// the comparison sentence, in degrees Celsius.
const hotWarmCutoff = 15

// Sentence turns a percentile result into the longer comparison sentence.
// The wording uses "hot" above hotWarmCutoff degrees and "warm" below.
func Sentence(r PercentileResult) string {
	if !r.Defined() {
		return "could be hotter, could be cooler"
	}

	hotWarm := "warm"
	if r.Value != nil && *r.Value > hotWarmCutoff {
		hotWarm = "hot"
	}

	rank := *r.Rank
	switch {
	case rank < 5:
		return "Are you kidding?! It's bloody cold"
	case rank < 10:
		return "It's actually really cold"
	case rank < 40:
		return "It's actually kinda cool"
	case rank < 50:
		return "It's about average"
	case rank < 60:
		return "It's warmer than average"
	case rank < 90:
		return "It's quite " + hotWarm + "!"
	case rank < 95:
		return "It's really " + hotWarm + "!"
	case rank <= 100:
		return "It's bloody " + hotWarm + "!"
	default:
		return "could be hotter, could be cooler"
	}
}
