package report

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/botprobe/botprobe/pkg/fingerprint"
)

// canvasPreview is how many characters of the canvas hash the report shows.
const canvasPreview = 30

const textTemplate = `{{ rule }}
BOT DETECTION ANALYSIS REPORT
{{ rule }}
Date: {{ .StartedAt | date "2006-01-02 15:04:05" }}
Mode: {{ if .Mode.Headless }}Headless{{ else }}Headed{{ end }} | Stealth: {{ if .Mode.Stealth }}on{{ else }}off{{ end }}
Run: {{ .ID }}
{{ rule }}
{{ range .Sites }}{{ $fp := .Fingerprint }}
{{ rule }}
{{ heading .Name }}
{{ rule }}
URL: {{ .URL }}
{{- if and .FinalURL (ne .FinalURL .URL) }}
Final URL: {{ .FinalURL }}
{{- end }}
Fingerprint ID: {{ $fp.ID }}

WEBDRIVER:
   - navigator.webdriver: {{ field $fp "webdriver.present" }}
   - Chrome runtime: {{ field $fp "webdriver.chromeDriver" }}
   - Permissions API: {{ field $fp "webdriver.permissions" }}

AUTOMATION FLAGS:
   - Selenium: {{ field $fp "automation.selenium" }}
   - DOM Automation: {{ field $fp "automation.domAutomation" }}
   - PhantomJS: {{ field $fp "automation.phantom" }}
   - Nightmare: {{ field $fp "automation.nightmare" }}

BROWSER PLUGINS:
   - Plugin count: {{ field $fp "plugins.count" }}
   - MIME types: {{ field $fp "plugins.mimeTypes" }}

HARDWARE INFO:
   - Screen: {{ field $fp "hardware.screenResolution" }}
   - Color depth: {{ field $fp "hardware.colorDepth" }}-bit
   - CPU cores: {{ field $fp "hardware.hardwareConcurrency" }}
   - Device memory: {{ with fieldOK $fp "hardware.deviceMemory" }}{{ . }} GB{{ else }}N/A{{ end }}
   - Touch points: {{ field $fp "hardware.maxTouchPoints" }}

BROWSER INFO:
   - Platform: {{ field $fp "browser.platform" }}
   - Language: {{ field $fp "browser.language" }}
   - Vendor: {{ field $fp "browser.vendor" }}
   - Cookies: {{ field $fp "browser.cookieEnabled" }}

CANVAS & WEBGL:
   - {{ canvas $fp }}
   - {{ webgl $fp }}

BOT RISK SCORE:
   - Score: {{ .Score }}/10
   - Risk level: {{ .Level.Label }}
   - Signals: {{ with .Fired }}{{ join ", " . }}{{ else }}none{{ end }}
{{ end }}
{{- if .Failures }}
{{ rule }}
SKIPPED SITES
{{ rule }}
{{- range .Failures }}
   - {{ .Name }} ({{ .URL }}): {{ .Kind }}: {{ .Error }}
{{- end }}
{{ end }}
{{- if .Interrupted }}
Run interrupted, report is partial.
{{ end }}`

var upper = cases.Upper(language.Und)

// templateFuncs returns sprig's text functions plus the report helpers.
func templateFuncs() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	funcs["rule"] = func() string { return strings.Repeat("=", 80) }
	funcs["heading"] = upper.String
	funcs["field"] = func(r *fingerprint.Record, path string) string { return r.Display(path) }
	funcs["fieldOK"] = func(r *fingerprint.Record, path string) string {
		if _, ok := r.Lookup(path); !ok {
			return ""
		}
		return r.Display(path)
	}
	funcs["canvas"] = canvasLine
	funcs["webgl"] = webglLine
	return funcs
}

func canvasLine(r *fingerprint.Record) string {
	c, ok := r.CanvasValue()
	switch {
	case !ok:
		return "Canvas: N/A"
	case c == fingerprint.CanvasError:
		return "Canvas: Error"
	case len(c) > canvasPreview:
		return "Canvas hash: " + c[:canvasPreview] + "..."
	default:
		return "Canvas hash: " + c
	}
}

func webglLine(r *fingerprint.Record) string {
	v, ok := r.Lookup("webgl")
	if !ok {
		return "WebGL: N/A"
	}
	if _, isObj := v.(map[string]any); !isObj {
		return "WebGL: Error"
	}
	return "WebGL vendor: " + r.Display("webgl.vendor")
}

// RenderText renders the plain-text report for run.
func RenderText(run *Run) (string, error) {
	return renderTemplate(run, textTemplate)
}

func renderTemplate(run *Run, content string) (string, error) {
	tmpl, err := template.New("report").Funcs(templateFuncs()).Parse(content)
	if err != nil {
		return "", fmt.Errorf("parse report template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, run); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}
