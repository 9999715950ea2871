// Package advisory derives a golf-suitability verdict from raw weather
// metrics. The engine is a pure, deterministic, total function: every valid
// snapshot maps to exactly one verdict, never an error.
//
// The decision policy is an ordered rule chain; the predicates are
// non-exclusive, so ordering matters and later rules act as fallbacks for
// what earlier rules did not catch. All thresholds and condition category
// sets come from configuration, never hard-coded constants.
package advisory

import (
	"fmt"
	"strings"
	"unicode"

	"forecastbot/internal/config"
	"forecastbot/internal/types"
)

// Category is the categorical suitability judgment.
type Category string

const (
	CategoryTooCold  Category = "too_cold"
	CategoryTooHot   Category = "too_hot"
	CategoryTooWindy Category = "too_windy"
	CategoryRainy    Category = "rainy"
	CategorySevere   Category = "severe"
	CategoryIdeal    Category = "ideal"
	CategoryDecent   Category = "decent"
	CategoryChilly   Category = "chilly"
	CategoryHumid    Category = "humid"
	// CategoryNone is the neutral verdict: no strong recommendation either
	// way. Formatting omits the overview line entirely for this category.
	CategoryNone Category = "none"
)

// Verdict is the outcome of evaluating one snapshot: a category plus the
// fixed display text for that category.
type Verdict struct {
	Category Category
	// Overview is the user-facing one-liner, empty for CategoryNone.
	Overview string
}

// overviews holds the fixed display label and icon per category.
var overviews = map[Category]string{
	CategoryTooCold:  "❄️ **Too cold to golf.**",
	CategoryTooHot:   "🔥 **Too hot for a full round—stay hydrated!**",
	CategoryTooWindy: "💨 **Very windy conditions.**",
	CategoryRainy:    "☔ **Expect rain. Poor golfing weather.**",
	CategorySevere:   "⛈ **Severe weather expected. Stay off the course.**",
	CategoryIdeal:    "🏌️ **Perfect day for golf!**",
	CategoryDecent:   "⛳ **Decent golfing weather.**",
	CategoryChilly:   "🌬 **A bit chilly and breezy, but playable.**",
	CategoryHumid:    "💧 **Very humid out there.**",
	CategoryNone:     "",
}

// Engine evaluates weather snapshots against a configured rule chain.
type Engine struct {
	cfg     config.AdvisoryConfig
	good    map[string]struct{}
	decent  map[string]struct{}
	poor    map[string]struct{}
	extreme map[string]struct{}
}

// NewEngine builds an engine from the given configuration. Condition set
// entries are normalized once at construction; the reference data drifted
// into variants like "Partly Cloudy " with a trailing space, so membership
// checks trim whitespace and ignore case.
func NewEngine(cfg config.AdvisoryConfig) *Engine {
	return &Engine{
		cfg:     cfg,
		good:    conditionSet(cfg.GoodConditions),
		decent:  conditionSet(cfg.DecentConditions),
		poor:    conditionSet(cfg.PoorConditions),
		extreme: conditionSet(cfg.ExtremeConditions),
	}
}

func conditionSet(conditions []string) map[string]struct{} {
	set := make(map[string]struct{}, len(conditions))
	for _, c := range conditions {
		set[normalizeCondition(c)] = struct{}{}
	}
	return set
}

func normalizeCondition(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}

func member(set map[string]struct{}, condition string) bool {
	_, ok := set[normalizeCondition(condition)]
	return ok
}

// Evaluate maps a snapshot to its verdict. First matching rule wins.
func (e *Engine) Evaluate(snap types.WeatherSnapshot) Verdict {
	cfg := e.cfg

	switch {
	case snap.AvgTempF < cfg.ColdAvgTempF:
		return verdict(CategoryTooCold)

	case snap.MaxTempF > cfg.HotMaxTempF:
		return verdict(CategoryTooHot)

	case snap.WindMPH > cfg.HighWindMPH:
		return verdict(CategoryTooWindy)

	case snap.RainChance > cfg.HighRainChance || member(e.poor, snap.Condition):
		return verdict(CategoryRainy)

	case member(e.extreme, snap.Condition):
		return verdict(CategorySevere)

	case snap.MaxTempF >= cfg.IdealMinTempF && snap.MaxTempF <= cfg.IdealMaxTempF &&
		member(e.good, snap.Condition) &&
		snap.RainChance < cfg.ModerateRainChance &&
		snap.WindMPH < cfg.ModerateWindMPH &&
		snap.Humidity < cfg.ModerateHumidity:
		return verdict(CategoryIdeal)

	case (member(e.good, snap.Condition) || member(e.decent, snap.Condition)) &&
		snap.AvgTempF >= cfg.DecentMinTempF &&
		snap.RainChance < cfg.ModerateRainChance &&
		snap.WindMPH < cfg.ModerateWindMPH:
		return verdict(CategoryDecent)

	case snap.AvgTempF < cfg.ChillyAvgTempF || snap.WindMPH > cfg.BreezyWindMPH:
		return verdict(CategoryChilly)

	case snap.Humidity > cfg.VeryHighHumidity:
		return verdict(CategoryHumid)

	default:
		return verdict(CategoryNone)
	}
}

func verdict(c Category) Verdict {
	return Verdict{Category: c, Overview: overviews[c]}
}

// FormatReport renders the multi-line user-facing forecast block for one
// location and date: the raw metrics verbatim, then the verdict overview.
// Exact wording is presentation; the category and pass-through metrics are
// the contract.
func FormatReport(location, date string, snap types.WeatherSnapshot, v Verdict) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📅 **Weather Forecast for %s on %s:**\n", TitleCase(location), date)
	fmt.Fprintf(&b, "🔹 **Condition:** %s\n", snap.Condition)
	fmt.Fprintf(&b, "🌡 **Temperature:** High: %g°F | Low: %g°F | Avg: %g°F\n",
		snap.MaxTempF, snap.MinTempF, snap.AvgTempF)
	fmt.Fprintf(&b, "💧 **Humidity:** %d%%\n", snap.Humidity)
	fmt.Fprintf(&b, "💨 **Wind Speed:** %g mph\n", snap.WindMPH)
	fmt.Fprintf(&b, "🌧 **Chance of Rain:** %d%%", snap.RainChance)

	if v.Overview != "" {
		b.WriteString("\n\n")
		b.WriteString(v.Overview)
	}
	b.WriteString("\n\n")

	return b.String()
}

// TitleCase upper-cases the first letter of each word for display while the
// stored location keeps the user's original casing.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
