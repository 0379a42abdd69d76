package report

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botprobe/botprobe/pkg/browser"
	"github.com/botprobe/botprobe/pkg/fingerprint"
	"github.com/botprobe/botprobe/pkg/jsonutil"
	"github.com/botprobe/botprobe/pkg/scoring"
)

const humanProbe = `{
  "webdriver": {"present": false, "chromeDriver": true, "permissions": true},
  "automation": {"selenium": false, "domAutomation": false, "phantom": false, "nightmare": false},
  "plugins": {"count": 5, "mimeTypes": 2, "list": []},
  "canvas": "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAASwAAACWCAYAAABkW7XS",
  "webgl": {"vendor": "WebKit", "renderer": "WebKit WebGL"},
  "hardware": {"screenResolution": "1920x1080", "colorDepth": 24, "hardwareConcurrency": 8,
               "deviceMemory": 8, "maxTouchPoints": 0},
  "browser": {"platform": "Win32", "language": "tr-TR", "vendor": "Google Inc.", "cookieEnabled": true}
}`

const botProbe = `{
  "webdriver": {"present": true},
  "automation": {"selenium": true},
  "plugins": {"count": 0},
  "canvas": "error",
  "webgl": "error",
  "hardware": {"hardwareConcurrency": 1, "maxTouchPoints": 0}
}`

func decode(t *testing.T, s string) *fingerprint.Record {
	t.Helper()
	rec, err := fingerprint.Decode([]byte(s))
	require.NoError(t, err)
	return rec
}

func testRun(t *testing.T) *Run {
	t.Helper()
	started := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	human := NewSiteResult(&browser.Capture{
		Target:     browser.Target{Name: "sannysoft", URL: "https://bot.sannysoft.com/"},
		Record:     decode(t, humanProbe),
		FinalURL:   "https://bot.sannysoft.com/",
		LoadTime:   1200 * time.Millisecond,
		CapturedAt: started.Add(time.Second),
	})
	bot := NewSiteResult(&browser.Capture{
		Target:     browser.Target{Name: "pixelscan", URL: "https://pixelscan.net/"},
		Record:     decode(t, botProbe),
		CapturedAt: started.Add(2 * time.Second),
	})
	return &Run{
		ID:         "run-1",
		StartedAt:  started,
		FinishedAt: started.Add(5 * time.Second),
		Mode:       Mode{Headless: true, Stealth: true},
		Sites:      []SiteResult{human, bot},
		Failures:   []Failure{{Name: "deviceinfo", URL: "https://deviceandbrowserinfo.com/are_you_a_bot", Kind: "timeout", Error: "context deadline exceeded"}},
	}
}

func TestNewSiteResult(t *testing.T) {
	run := testRun(t)

	human := run.Sites[0]
	assert.Equal(t, 1, human.Score)
	assert.Equal(t, scoring.LevelLow, human.Level)
	assert.Equal(t, []string{scoring.RuleTouchPoints}, human.Fired())
	assert.Equal(t, 1200*time.Millisecond, human.LoadTime)

	bot := run.Sites[1]
	assert.Equal(t, 10, bot.Score)
	assert.Equal(t, scoring.LevelHigh, bot.Level)
	assert.Len(t, bot.Fired(), 6)
}

func TestRunHelpers(t *testing.T) {
	run := testRun(t)
	assert.Equal(t, "20260314_092653", run.Stamp())
	assert.True(t, run.Succeeded())
	assert.Equal(t, 5*time.Second, run.Duration())

	counts := run.LevelCounts()
	assert.Equal(t, 1, counts[scoring.LevelLow])
	assert.Equal(t, 0, counts[scoring.LevelMedium])
	assert.Equal(t, 1, counts[scoring.LevelHigh])

	empty := &Run{StartedAt: time.Now()}
	assert.False(t, empty.Succeeded())
	assert.Zero(t, empty.Duration())
}

func TestRenderText(t *testing.T) {
	text, err := RenderText(testRun(t))
	require.NoError(t, err)

	for _, want := range []string{
		"BOT DETECTION ANALYSIS REPORT",
		"Mode: Headless | Stealth: on",
		"Run: run-1",
		"SANNYSOFT",
		"PIXELSCAN",
		"navigator.webdriver: false",
		"Plugin count: 5",
		"Color depth: 24-bit",
		"Device memory: 8 GB",
		"Platform: Win32",
		"Canvas hash: data:image/png;base64,iVBORw0K...",
		"WebGL vendor: WebKit",
		"Score: 1/10",
		"Risk level: LOW",
		"Signals: touch_points",
		"Score: 10/10",
		"Risk level: HIGH",
		"Canvas: Error",
		"WebGL: Error",
		"SKIPPED SITES",
		"deviceinfo (https://deviceandbrowserinfo.com/are_you_a_bot): timeout",
	} {
		assert.Contains(t, text, want)
	}
	assert.NotContains(t, text, "interrupted")
	assert.NotContains(t, text, "<no value>")
}

func TestRenderText_MissingFields(t *testing.T) {
	run := &Run{
		StartedAt:   time.Now(),
		Sites:       []SiteResult{NewSiteResult(&browser.Capture{Target: browser.Target{Name: "empty", URL: "https://example.com"}})},
		Interrupted: true,
	}

	text, err := RenderText(run)
	require.NoError(t, err)
	assert.Contains(t, text, "Mode: Headed | Stealth: off")
	assert.Contains(t, text, "navigator.webdriver: N/A")
	assert.Contains(t, text, "Device memory: N/A")
	assert.Contains(t, text, "Canvas: N/A")
	assert.Contains(t, text, "Score: 4/10")
	assert.Contains(t, text, "Risk level: MEDIUM")
	assert.Contains(t, text, "Run interrupted, report is partial.")
	assert.NotContains(t, text, "SKIPPED SITES")
}

func TestWriteJSON(t *testing.T) {
	run := testRun(t)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, run))

	var got map[string]map[string]any
	require.NoError(t, jsonutil.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)

	human := got["sannysoft"]
	assert.Equal(t, "https://bot.sannysoft.com/", human["url"])
	assert.Equal(t, float64(1), human["risk_score"])
	assert.Equal(t, "low", human["risk_level"])
	assert.Equal(t, float64(1200), human["load_time_ms"])
	assert.Equal(t, run.Sites[0].Fingerprint.ID(), human["fingerprint_id"])
	assert.Equal(t, []any{"touch_points"}, human["signals"])

	fp, ok := human["fingerprint"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fp, "browser")

	assert.Equal(t, "high", got["pixelscan"]["risk_level"])

	// site keys are written in sorted order
	assert.Less(t, strings.Index(buf.String(), `"pixelscan"`), strings.Index(buf.String(), `"sannysoft"`))
}

func TestParseExport(t *testing.T) {
	run := testRun(t)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, run))

	records, err := ParseExport(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"pixelscan", "sannysoft"}, SortedNames(records))
	assert.Equal(t, 1, scoring.Score(records["sannysoft"]))
	assert.Equal(t, 10, scoring.Score(records["pixelscan"]))
	assert.Equal(t, run.Sites[0].Fingerprint.ID(), records["sannysoft"].ID())
}

func TestParseExport_RawRecord(t *testing.T) {
	records, err := ParseExport([]byte(botProbe))
	require.NoError(t, err)
	require.Contains(t, records, "fingerprint")
	assert.Equal(t, 10, scoring.Score(records["fingerprint"]))
}

func TestParseExport_SiteNamedLikeProbeGroup(t *testing.T) {
	// user-chosen site names may collide with probe group keys
	data := `{
  "browser": {"url": "https://x.example/", "fingerprint": ` + botProbe + `},
  "canvas": {"url": "https://y.example/", "fingerprint": {"plugins": {"count": 3}, "hardware": {"hardwareConcurrency": 8, "maxTouchPoints": 1}}}
}`
	records, err := ParseExport([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, []string{"browser", "canvas"}, SortedNames(records))
	assert.Equal(t, 10, scoring.Score(records["browser"]))
	assert.Equal(t, 0, scoring.Score(records["canvas"]))
}

func TestParseExport_EmptyObjectIsRecord(t *testing.T) {
	records, err := ParseExport([]byte(`{}`))
	require.NoError(t, err)
	require.Contains(t, records, "fingerprint")
	assert.Equal(t, 4, scoring.Score(records["fingerprint"]))
}

func TestParseExport_UnrelatedKeysAreRecord(t *testing.T) {
	records, err := ParseExport([]byte(`{"a": 1, "b": {"url": "x"}}`))
	require.NoError(t, err)
	assert.Equal(t, 4, scoring.Score(records["fingerprint"]))
}

func TestParseExport_Lenient(t *testing.T) {
	// last duplicate wins; invalid UTF-8 in an ignored field is accepted
	data := []byte("{\"plugins\": {\"count\": 0}, \"plugins\": {\"count\": 3}, \"note\": \"\xff\", " +
		"\"hardware\": {\"hardwareConcurrency\": 8, \"maxTouchPoints\": 1}}")
	records, err := ParseExport(data)
	require.NoError(t, err)
	assert.Equal(t, 0, scoring.Score(records["fingerprint"]))
}

func TestParseExport_Errors(t *testing.T) {
	_, err := ParseExport([]byte(`{"a": 1, "b": {"url": "x", "fingerprint": {}}}`))
	assert.ErrorIs(t, err, ErrMalformedExport)

	_, err = ParseExport([]byte(`[1, 2]`))
	assert.ErrorIs(t, err, fingerprint.ErrNotObject)

	_, err = ParseExport([]byte(`{not json`))
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "analysis_report_20260314_092653.txt", FileName(FormatText, "20260314_092653"))
	assert.Equal(t, "fingerprint_data_20260314_092653.json", FileName(FormatJSON, "20260314_092653"))
	assert.Equal(t, "analysis_report_20260314_092653.pdf", FileName(FormatPDF, "20260314_092653"))
	assert.Empty(t, FileName("xml", "x"))
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for x := 0; x < 64; x++ {
		img.Set(x, x%32, color.RGBA{R: 255, A: 255})
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	run := testRun(t)
	shot := filepath.Join(t.TempDir(), "sannysoft.png")
	writePNG(t, shot)
	run.Sites[0].Screenshot = shot

	paths, err := Save(dir, run, []string{FormatText, FormatJSON, FormatPDF})
	require.NoError(t, err)
	require.Len(t, paths.All(), 3)

	text, err := os.ReadFile(paths.Text)
	require.NoError(t, err)
	assert.Contains(t, string(text), "SANNYSOFT")
	assert.Equal(t, filepath.Join(dir, "analysis_report_20260314_092653.txt"), paths.Text)

	data, err := os.ReadFile(paths.JSON)
	require.NoError(t, err)
	assert.True(t, jsonutil.Valid(data))

	pdf, err := os.ReadFile(paths.PDF)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}

func TestSave_UnknownFormat(t *testing.T) {
	_, err := Save(t.TempDir(), testRun(t), []string{"xml"})
	assert.Error(t, err)
}

func TestWritePDF_MissingScreenshot(t *testing.T) {
	run := testRun(t)
	run.Sites[1].Screenshot = filepath.Join(t.TempDir(), "gone.png")
	path := filepath.Join(t.TempDir(), "r.pdf")
	require.NoError(t, WritePDF(path, run))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
