package climate

import "testing"

func definedResult(rank, value float64) PercentileResult {
	return PercentileResult{Rank: fp(rank), Value: fp(value)}
}

func TestClassify(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		rank     float64
		expected Classification
	}{
		{"extreme high", 99, ClassHot},
		{"at high threshold", 95, ClassHot},
		{"upper band", 80, ClassWarm},
		{"at mid high threshold", 75, ClassWarm},
		{"typical leaning warm", 60, ClassWarm},
		{"exactly median", 50, ClassWarm},
		{"typical leaning cool", 49.9, ClassCool},
		{"lower band", 20, ClassCool},
		{"at mid low threshold", 25, ClassCool},
		{"at low threshold", 5, ClassCold},
		{"extreme low", 1, ClassCold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(definedResult(tt.rank, 15), cfg)
			if got != tt.expected {
				t.Errorf("Classify(rank=%v) = %s, want %s", tt.rank, got, tt.expected)
			}
		})
	}
}

func TestClassifyUndefined(t *testing.T) {
	if got := Classify(PercentileResult{}, DefaultConfig()); got != ClassUnknown {
		t.Errorf("undefined rank classified as %s, want %s", got, ClassUnknown)
	}
}

func TestVerdict(t *testing.T) {
	tests := []struct {
		rank     float64
		expected string
	}{
		{1, "Hell no!"},
		{7, "No!"},
		{15, "Nope"},
		{45, "Not really"},
		{55, "Yup"},
		{70, "Yeah!"},
		{91, "Hell yeah!"},
		{96, "Bloody hell yes!"},
		{100, "Bloody hell yes!"},
	}

	for _, tt := range tests {
		got := Verdict(definedResult(tt.rank, 15))
		if got != tt.expected {
			t.Errorf("Verdict(rank=%v) = %q, want %q", tt.rank, got, tt.expected)
		}
	}
}

func TestVerdictUndefined(t *testing.T) {
	if got := Verdict(PercentileResult{}); got != "not sure, we have no data yet" {
		t.Errorf("unexpected verdict for undefined rank: %q", got)
	}
}

func TestSentenceHotWarmWording(t *testing.T) {
	tests := []struct {
		name     string
		rank     float64
		value    float64
		expected string
	}{
		{"hot day quite band", 70, 25, "It's quite hot!"},
		{"warm day quite band", 70, 10, "It's quite warm!"},
		{"hot day really band", 92, 25, "It's really hot!"},
		{"hot day bloody band", 99, 25, "It's bloody hot!"},
		{"cold extreme", 2, 5, "Are you kidding?! It's bloody cold"},
		{"average", 45, 15, "It's about average"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sentence(definedResult(tt.rank, tt.value))
			if got != tt.expected {
				t.Errorf("Sentence(rank=%v, value=%v) = %q, want %q", tt.rank, tt.value, got, tt.expected)
			}
		})
	}
}

func TestSentenceUndefined(t *testing.T) {
	if got := Sentence(PercentileResult{}); got != "could be hotter, could be cooler" {
		t.Errorf("unexpected sentence for undefined rank: %q", got)
	}
}
