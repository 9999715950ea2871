package advisory

import (
	"strings"
	"testing"

	"forecastbot/internal/config"
	"forecastbot/internal/types"
)

// defaultConfig mirrors the envconfig defaults so the rule chain is exercised
// exactly as it ships.
func defaultConfig() config.AdvisoryConfig {
	return config.AdvisoryConfig{
		ColdAvgTempF:       45,
		HotMaxTempF:        95,
		HighWindMPH:        25,
		HighRainChance:     70,
		ModerateRainChance: 40,
		ModerateWindMPH:    15,
		ModerateHumidity:   85,
		IdealMinTempF:      60,
		IdealMaxTempF:      85,
		DecentMinTempF:     55,
		ChillyAvgTempF:     65,
		BreezyWindMPH:      10,
		VeryHighHumidity:   90,
		GoodConditions:     []string{"Sunny", "Partly Cloudy", "Overcast", "Mist"},
		DecentConditions:   []string{"Cloudy", "Fog", "Patchy light drizzle", "Light drizzle"},
		PoorConditions:     []string{"Heavy rain", "Moderate rain", "Patchy rain possible", "Torrential rain shower"},
		ExtremeConditions:  []string{"Thundery outbreaks possible", "Moderate or heavy rain with thunder", "Blizzard", "Ice pellets"},
	}
}

func TestEvaluate_Categories(t *testing.T) {
	e := NewEngine(defaultConfig())

	cases := []struct {
		name string
		snap types.WeatherSnapshot
		want Category
	}{
		{
			name: "ideal conditions",
			snap: types.WeatherSnapshot{Condition: "Sunny", MaxTempF: 65, MinTempF: 50, AvgTempF: 58, Humidity: 50, WindMPH: 8, RainChance: 10},
			want: CategoryIdeal,
		},
		{
			name: "cold average temp",
			snap: types.WeatherSnapshot{Condition: "Sunny", MaxTempF: 50, MinTempF: 20, AvgTempF: 30, Humidity: 40, WindMPH: 5, RainChance: 0},
			want: CategoryTooCold,
		},
		{
			name: "hot peak temp",
			snap: types.WeatherSnapshot{Condition: "Sunny", MaxTempF: 100, MinTempF: 80, AvgTempF: 90, Humidity: 40, WindMPH: 5, RainChance: 0},
			want: CategoryTooHot,
		},
		{
			name: "high wind",
			snap: types.WeatherSnapshot{Condition: "Sunny", MaxTempF: 70, MinTempF: 55, AvgTempF: 62, Humidity: 40, WindMPH: 30, RainChance: 0},
			want: CategoryTooWindy,
		},
		{
			name: "high rain chance",
			snap: types.WeatherSnapshot{Condition: "Sunny", MaxTempF: 70, MinTempF: 55, AvgTempF: 62, Humidity: 40, WindMPH: 5, RainChance: 80},
			want: CategoryRainy,
		},
		{
			name: "poor condition label",
			snap: types.WeatherSnapshot{Condition: "Heavy rain", MaxTempF: 70, MinTempF: 55, AvgTempF: 62, Humidity: 40, WindMPH: 5, RainChance: 20},
			want: CategoryRainy,
		},
		{
			name: "extreme condition label",
			snap: types.WeatherSnapshot{Condition: "Blizzard", MaxTempF: 70, MinTempF: 55, AvgTempF: 62, Humidity: 40, WindMPH: 5, RainChance: 20},
			want: CategorySevere,
		},
		{
			name: "decent weather",
			snap: types.WeatherSnapshot{Condition: "Cloudy", MaxTempF: 58, MinTempF: 52, AvgTempF: 56, Humidity: 60, WindMPH: 8, RainChance: 20},
			want: CategoryDecent,
		},
		{
			name: "chilly average",
			snap: types.WeatherSnapshot{Condition: "Patchy snow possible", MaxTempF: 70, MinTempF: 50, AvgTempF: 60, Humidity: 40, WindMPH: 5, RainChance: 10},
			want: CategoryChilly,
		},
		{
			name: "breezy wind",
			snap: types.WeatherSnapshot{Condition: "Patchy snow possible", MaxTempF: 80, MinTempF: 60, AvgTempF: 70, Humidity: 40, WindMPH: 12, RainChance: 10},
			want: CategoryChilly,
		},
		{
			name: "very humid",
			snap: types.WeatherSnapshot{Condition: "Patchy snow possible", MaxTempF: 90, MinTempF: 70, AvgTempF: 80, Humidity: 95, WindMPH: 5, RainChance: 10},
			want: CategoryHumid,
		},
		{
			name: "neutral fallthrough",
			snap: types.WeatherSnapshot{Condition: "Patchy snow possible", MaxTempF: 90, MinTempF: 70, AvgTempF: 80, Humidity: 50, WindMPH: 5, RainChance: 10},
			want: CategoryNone,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := e.Evaluate(tc.snap)
			if got.Category != tc.want {
				t.Errorf("Evaluate() = %s, want %s", got.Category, tc.want)
			}
		})
	}
}

// Cold wins over every other matching predicate: a freezing, windy, rainy day
// reports too_cold, not too_windy or rainy.
func TestEvaluate_PriorityOrder(t *testing.T) {
	e := NewEngine(defaultConfig())

	snap := types.WeatherSnapshot{
		Condition:  "Heavy rain",
		MaxTempF:   100,
		MinTempF:   20,
		AvgTempF:   30,
		Humidity:   95,
		WindMPH:    40,
		RainChance: 90,
	}

	if got := e.Evaluate(snap); got.Category != CategoryTooCold {
		t.Errorf("Evaluate() = %s, want %s", got.Category, CategoryTooCold)
	}

	// With the cold rule out of the way, hot wins next.
	snap.AvgTempF = 70
	if got := e.Evaluate(snap); got.Category != CategoryTooHot {
		t.Errorf("Evaluate() = %s, want %s", got.Category, CategoryTooHot)
	}

	snap.MaxTempF = 80
	if got := e.Evaluate(snap); got.Category != CategoryTooWindy {
		t.Errorf("Evaluate() = %s, want %s", got.Category, CategoryTooWindy)
	}

	snap.WindMPH = 5
	if got := e.Evaluate(snap); got.Category != CategoryRainy {
		t.Errorf("Evaluate() = %s, want %s", got.Category, CategoryRainy)
	}
}

// Identical metrics always produce the identical verdict.
func TestEvaluate_Deterministic(t *testing.T) {
	e := NewEngine(defaultConfig())
	snap := types.WeatherSnapshot{Condition: "Sunny", MaxTempF: 65, MinTempF: 50, AvgTempF: 58, Humidity: 50, WindMPH: 8, RainChance: 10}

	first := e.Evaluate(snap)
	for i := 0; i < 10; i++ {
		if got := e.Evaluate(snap); got != first {
			t.Fatalf("Evaluate() not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestEvaluate_ConditionNormalization(t *testing.T) {
	cfg := defaultConfig()
	// Reference data carried entries with trailing whitespace.
	cfg.GoodConditions = append(cfg.GoodConditions, "Clear ")
	e := NewEngine(cfg)

	snap := types.WeatherSnapshot{Condition: "clear", MaxTempF: 65, MinTempF: 50, AvgTempF: 58, Humidity: 50, WindMPH: 8, RainChance: 10}
	if got := e.Evaluate(snap); got.Category != CategoryIdeal {
		t.Errorf("Evaluate() = %s, want %s for case-insensitive condition match", got.Category, CategoryIdeal)
	}
}

func TestFormatReport(t *testing.T) {
	snap := types.WeatherSnapshot{
		Condition:  "Sunny",
		MaxTempF:   65,
		MinTempF:   50,
		AvgTempF:   58,
		Humidity:   50,
		WindMPH:    8,
		RainChance: 10,
	}

	got := FormatReport("new york", "2025-03-24", snap, verdict(CategoryIdeal))

	for _, want := range []string{
		"New York",
		"2025-03-24",
		"Sunny",
		"High: 65°F",
		"Low: 50°F",
		"Avg: 58°F",
		"50%",
		"8 mph",
		"10%",
		"Perfect day for golf",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatReport missing %q:\n%s", want, got)
		}
	}
}

func TestFormatReport_NeutralVerdictOmitsOverview(t *testing.T) {
	snap := types.WeatherSnapshot{Condition: "Patchy snow possible", MaxTempF: 90, AvgTempF: 80, Humidity: 50, WindMPH: 5}

	got := FormatReport("Boston", "2025-03-24", snap, verdict(CategoryNone))
	if strings.Contains(got, "**\n\n\n") || strings.Contains(got, "golf") {
		t.Errorf("neutral report should carry no overview line:\n%s", got)
	}
}

func TestTitleCase(t *testing.T) {
	cases := []struct{ in, want string }{
		{"new york", "New York"},
		{"boston", "Boston"},
		{"SAN FRANCISCO", "SAN FRANCISCO"},
		{"saint-jean", "Saint-jean"},
	}
	for _, tc := range cases {
		if got := TitleCase(tc.in); got != tc.want {
			t.Errorf("TitleCase(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
