// Package scoring turns a fingerprint record into a bot risk score.
//
// The score is a fold over a fixed rule table. Each rule contributes its
// weight when its predicate fires and the sum is clamped to MaxScore.
// Scoring is pure: no I/O, no state, no errors.
package scoring

import "github.com/botprobe/botprobe/pkg/fingerprint"

// MaxScore is the upper bound of every score.
const MaxScore = 10

// Rule is one weighted bot-likeness signal.
type Rule struct {
	Name   string
	Weight int
	Fires  func(r *fingerprint.Record) bool
}

// Rule names, in evaluation order.
const (
	RuleWebDriver           = "webdriver"
	RuleAutomation          = "automation"
	RulePlugins             = "plugins"
	RuleHardwareConcurrency = "hardware_concurrency"
	RuleTouchPoints         = "touch_points"
	RuleCanvas              = "canvas"
)

// MinHardwareConcurrency is the lowest CPU count that does not look automated.
const MinHardwareConcurrency = 2

// rules is evaluated in order. Order does not change the sum but keeps the
// signal list stable for reports.
var rules = []Rule{
	{Name: RuleWebDriver, Weight: 3, Fires: webDriverPresent},
	{Name: RuleAutomation, Weight: 2, Fires: automationMarkers},
	{Name: RulePlugins, Weight: 2, Fires: noPlugins},
	{Name: RuleHardwareConcurrency, Weight: 1, Fires: lowConcurrency},
	{Name: RuleTouchPoints, Weight: 1, Fires: noTouchPoints},
	{Name: RuleCanvas, Weight: 1, Fires: canvasFailed},
}

// Rules returns a copy of the rule table.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Signal records whether one rule fired for a record.
type Signal struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
	Fired  bool   `json:"fired"`
}

// Result is a score with its level and per-rule audit trail.
type Result struct {
	Score   int      `json:"score"`
	Level   Level    `json:"level"`
	Signals []Signal `json:"signals"`
}

// Fired returns the names of the rules that contributed to the score.
func (r Result) Fired() []string {
	var names []string
	for _, s := range r.Signals {
		if s.Fired {
			names = append(names, s.Name)
		}
	}
	return names
}

// Score returns the risk score of r in [0, MaxScore].
// A nil record scores like a record with every field absent.
func Score(r *fingerprint.Record) int {
	return scoreWith(rules, r)
}

// Evaluate scores r and reports which rules fired.
func Evaluate(r *fingerprint.Record) Result {
	return evaluateWith(rules, r)
}

func scoreWith(table []Rule, r *fingerprint.Record) int {
	sum := 0
	for _, rule := range table {
		if rule.Fires(r) {
			sum += rule.Weight
		}
	}
	return min(sum, MaxScore)
}

func evaluateWith(table []Rule, r *fingerprint.Record) Result {
	res := Result{Signals: make([]Signal, 0, len(table))}
	sum := 0
	for _, rule := range table {
		fired := rule.Fires(r)
		if fired {
			sum += rule.Weight
		}
		res.Signals = append(res.Signals, Signal{Name: rule.Name, Weight: rule.Weight, Fired: fired})
	}
	res.Score = min(sum, MaxScore)
	res.Level = LevelFor(res.Score)
	return res
}

func webDriverPresent(r *fingerprint.Record) bool {
	present, _ := r.WebDriverPresent()
	return present
}

func automationMarkers(r *fingerprint.Record) bool {
	return r.AnyAutomation()
}

// An unreported plugin count reads as zero.
func noPlugins(r *fingerprint.Record) bool {
	count, _ := r.PluginCount()
	return count == 0
}

func lowConcurrency(r *fingerprint.Record) bool {
	hc, ok := r.HardwareConcurrency()
	return !ok || hc < MinHardwareConcurrency
}

// An unreported touch point count reads as zero.
func noTouchPoints(r *fingerprint.Record) bool {
	touch, _ := r.MaxTouchPoints()
	return touch == 0
}

func canvasFailed(r *fingerprint.Record) bool {
	c, _ := r.CanvasValue()
	return c == fingerprint.CanvasError
}
