package weather

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		desc string
		want Condition
	}{
		{"light rain showers", ConditionRain},
		{"partly cloudy", ConditionClouds},
		{"clear sky", ConditionClear},
		{"Sunny", ConditionClear},
		{"heavy snow", ConditionSnow},
		{"thundery outbreaks", ConditionThunderstorm},
		{"Thunderstorm in vicinity", ConditionThunderstorm},
		{"mist", ConditionMist},
		{"Freezing fog", ConditionMist},
		{"overcast", ConditionClouds},
		{"xyz", ConditionClouds},
		{"", ConditionClouds},
		// precedence: cloud is tested before rain, clear before everything
		{"rain with clouds", ConditionClouds},
		{"clearing snow", ConditionClear},
		{"snow storm", ConditionSnow},
	}

	for _, tt := range tests {
		got := Classify(tt.desc)
		if got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.desc, got, tt.want)
		}
		if again := Classify(tt.desc); again != got {
			t.Errorf("Classify(%q) not stable: %q then %q", tt.desc, got, again)
		}
		if _, ok := ParseCondition(string(got)); !ok {
			t.Errorf("Classify(%q) = %q, not a known condition", tt.desc, got)
		}
	}
}

func TestParseCondition(t *testing.T) {
	for _, c := range Conditions {
		got, ok := ParseCondition(string(c))
		if !ok || got != c {
			t.Errorf("ParseCondition(%q) = %q, %v", c, got, ok)
		}
	}
	if _, ok := ParseCondition("Smoke"); ok {
		t.Errorf("ParseCondition(Smoke) should not match")
	}
}

func TestQueryString(t *testing.T) {
	if got := ByName("Paris").String(); got != "Paris" {
		t.Errorf("ByName.String() = %q", got)
	}
	q := ByCoordinates(51.5, -0.12)
	if !q.IsCoordinates() {
		t.Fatalf("expected coordinate query")
	}
	if got := q.String(); got != "51.5,-0.12" {
		t.Errorf("ByCoordinates.String() = %q", got)
	}
	if ByName("x").IsCoordinates() {
		t.Errorf("name query reported as coordinates")
	}
}
