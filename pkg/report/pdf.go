package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gofpdf "github.com/go-pdf/fpdf"

	"github.com/botprobe/botprobe/pkg/defaults"
	"github.com/botprobe/botprobe/pkg/scoring"
)

// levelColors maps each risk level to an RGB triple.
var levelColors = map[scoring.Level][3]int{
	scoring.LevelLow:    {22, 163, 74},
	scoring.LevelMedium: {202, 138, 4},
	scoring.LevelHigh:   {220, 38, 38},
}

// pdfFields are the fingerprint lines shown on each site page.
var pdfFields = []struct{ label, path string }{
	{"navigator.webdriver", "webdriver.present"},
	{"Selenium", "automation.selenium"},
	{"DOM Automation", "automation.domAutomation"},
	{"PhantomJS", "automation.phantom"},
	{"Nightmare", "automation.nightmare"},
	{"Plugins", "plugins.count"},
	{"MIME types", "plugins.mimeTypes"},
	{"Screen", "hardware.screenResolution"},
	{"CPU cores", "hardware.hardwareConcurrency"},
	{"Touch points", "hardware.maxTouchPoints"},
	{"Platform", "browser.platform"},
	{"Language", "browser.language"},
	{"Timezone", "timezone.timezone"},
	{"User agent", "browser.userAgent"},
}

// WritePDF renders a summary page followed by one page per analyzed site.
func WritePDF(path string, run *Run) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Bot detection analysis "+run.Stamp(), false)
	pdf.SetCreator(defaults.ToolName+" "+defaults.Version, false)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 8, fmt.Sprintf("%s | page %d/{nb}", run.ID, pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	addSummaryPage(pdf, run, tr)
	for _, s := range run.Sites {
		addSitePage(pdf, s, tr)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func addSummaryPage(pdf *gofpdf.Fpdf, run *Run, tr func(string) string) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(0, 12, "Bot Detection Analysis", "", 1, "L", false, 0, "")

	mode := "Headed"
	if run.Mode.Headless {
		mode = "Headless"
	}
	stealth := "off"
	if run.Mode.Stealth {
		stealth = "on"
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.CellFormat(0, 6, "Date: "+run.StartedAt.Format("2006-01-02 15:04:05"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Mode: %s | Stealth: %s", mode, stealth), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Sites analyzed: %d | Skipped: %d", len(run.Sites), len(run.Failures)), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	// Header row.
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(30, 41, 59)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(45, 8, "Site", "1", 0, "L", true, 0, "")
	pdf.CellFormat(90, 8, "URL", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Score", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 8, "Level", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, s := range run.Sites {
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(45, 7, tr(upper.String(s.Name)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(90, 7, tr(clip(s.URL, 55)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d/%d", s.Score, scoring.MaxScore), "1", 0, "C", false, 0, "")
		c := levelColors[s.Level]
		pdf.SetTextColor(c[0], c[1], c[2])
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(25, 7, s.Level.Label(), "1", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
	}
	for _, f := range run.Failures {
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(45, 7, tr(upper.String(f.Name)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(90, 7, tr(clip(f.URL, 55)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 7, "skipped: "+f.Kind, "1", 1, "C", false, 0, "")
	}
}

func addSitePage(pdf *gofpdf.Fpdf, s SiteResult, tr func(string) string) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(0, 10, tr(upper.String(s.Name)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(80, 80, 80)
	pdf.MultiCell(0, 5, tr(s.URL), "", "L", false)
	pdf.Ln(3)

	c := levelColors[s.Level]
	pdf.SetFillColor(c[0], c[1], c[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 10, fmt.Sprintf("Risk score %d/%d  %s", s.Score, scoring.MaxScore, s.Level.Label()), "", 1, "C", true, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(30, 41, 59)
	for _, sig := range s.Signals {
		state := "-"
		if sig.Fired {
			state = fmt.Sprintf("+%d", sig.Weight)
		}
		pdf.CellFormat(30, 6, sig.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(12, 6, state, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "", 9)
	for _, f := range pdfFields {
		pdf.SetTextColor(80, 80, 80)
		pdf.CellFormat(45, 6, f.label, "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 6, tr(clip(s.Fingerprint.Display(f.path), 95)), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(45, 6, "Canvas", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(canvasLine(s.Fingerprint)), "", 1, "L", false, 0, "")
	pdf.CellFormat(45, 6, "WebGL", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(webglLine(s.Fingerprint)), "", 1, "L", false, 0, "")

	addScreenshot(pdf, s.Screenshot)
}

// addScreenshot embeds the capture scaled to the page width. Missing or
// unreadable images are left out.
func addScreenshot(pdf *gofpdf.Fpdf, path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	imgType := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if imgType != "png" && imgType != "jpg" && imgType != "jpeg" {
		return
	}
	opts := gofpdf.ImageOptions{ImageType: imgType, ReadDpi: true}
	info := pdf.RegisterImageOptions(path, opts)
	if pdf.Err() || info == nil {
		// a broken image must not lose the rest of the report
		pdf.ClearError()
		return
	}
	pageW, pageH := pdf.GetPageSize()
	left, _, right, bottom := pdf.GetMargins()
	w := pageW - left - right
	h := w * info.Height() / info.Width()
	maxH := pageH - pdf.GetY() - bottom - 5
	if maxH < 40 {
		pdf.AddPage()
		maxH = pageH - pdf.GetY() - bottom - 5
	}
	if h > maxH {
		w = w * maxH / h
		h = maxH
	}
	pdf.Ln(4)
	pdf.ImageOptions(path, left, pdf.GetY(), w, h, true, opts, 0, "")
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
