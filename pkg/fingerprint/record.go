// Package fingerprint models the browser fingerprint collected from a page.
//
// A Record carries the six signals the risk scorer reads as optional values,
// plus the complete decoded probe output in Raw for reporting. Every field
// may be nil: a missing key, a JSON null and a mistyped value all decode to
// nil, so callers never have to distinguish them.
package fingerprint

import "sort"

// Canvas sentinel returned by the probe when the canvas API throws.
const CanvasError = "error"

// Record is a read-only snapshot of one page evaluation.
// No method mutates a Record after it is built.
type Record struct {
	WebDriver  *WebDriver       `json:"webdriver,omitempty"`
	Automation map[string]*bool `json:"automation,omitempty"`
	Plugins    *Plugins         `json:"plugins,omitempty"`
	Hardware   *Hardware        `json:"hardware,omitempty"`
	Canvas     *string          `json:"canvas,omitempty"`

	// Raw is the full probe output including fields the scorer ignores.
	Raw map[string]any `json:"-"`
}

// WebDriver holds the navigator.webdriver probe.
type WebDriver struct {
	Present *bool `json:"present,omitempty"`
}

// Plugins holds the plugin inventory probe.
type Plugins struct {
	Count *float64 `json:"count,omitempty"`
}

// Hardware holds the hardware probes consumed by the scorer.
type Hardware struct {
	HardwareConcurrency *float64 `json:"hardwareConcurrency,omitempty"`
	MaxTouchPoints      *float64 `json:"maxTouchPoints,omitempty"`
}

// WebDriverPresent returns navigator.webdriver and whether it was reported.
func (r *Record) WebDriverPresent() (bool, bool) {
	if r == nil || r.WebDriver == nil || r.WebDriver.Present == nil {
		return false, false
	}
	return *r.WebDriver.Present, true
}

// AnyAutomation reports whether any automation marker is true.
// An empty map or one holding only false or nil flags yields false.
func (r *Record) AnyAutomation() bool {
	if r == nil {
		return false
	}
	for _, v := range r.Automation {
		if v != nil && *v {
			return true
		}
	}
	return false
}

// AutomationFlags returns the names of the markers that are true.
func (r *Record) AutomationFlags() []string {
	if r == nil {
		return nil
	}
	var names []string
	for name, v := range r.Automation {
		if v != nil && *v {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// PluginCount returns plugins.count and whether it was reported.
func (r *Record) PluginCount() (float64, bool) {
	if r == nil || r.Plugins == nil || r.Plugins.Count == nil {
		return 0, false
	}
	return *r.Plugins.Count, true
}

// HardwareConcurrency returns the logical CPU count and whether it was reported.
func (r *Record) HardwareConcurrency() (float64, bool) {
	if r == nil || r.Hardware == nil || r.Hardware.HardwareConcurrency == nil {
		return 0, false
	}
	return *r.Hardware.HardwareConcurrency, true
}

// MaxTouchPoints returns the touch point count and whether it was reported.
func (r *Record) MaxTouchPoints() (float64, bool) {
	if r == nil || r.Hardware == nil || r.Hardware.MaxTouchPoints == nil {
		return 0, false
	}
	return *r.Hardware.MaxTouchPoints, true
}

// CanvasValue returns the canvas probe result and whether it was reported.
func (r *Record) CanvasValue() (string, bool) {
	if r == nil || r.Canvas == nil {
		return "", false
	}
	return *r.Canvas, true
}

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Number returns a pointer to n.
func Number(n float64) *float64 { return &n }

// Int returns a pointer to n as a probe number.
func Int(n int) *float64 { return Number(float64(n)) }

// String returns a pointer to s.
func String(s string) *string { return &s }
