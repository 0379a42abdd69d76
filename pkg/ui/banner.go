package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/botprobe/botprobe/pkg/defaults"
)

// Version information - these can be overridden at build time via ldflags:
// go build -ldflags "-X github.com/botprobe/botprobe/pkg/ui.Commit=abc123"
var (
	Version   = defaults.Version
	BuildDate = "unknown"
	Commit    = "dev"
)

// Global UI state
var (
	silentMode  bool
	noColorMode bool
	out         io.Writer = os.Stderr
	uiMu        sync.RWMutex
)

// SetSilent enables or disables silent mode (suppresses most output)
func SetSilent(silent bool) {
	uiMu.Lock()
	defer uiMu.Unlock()
	silentMode = silent
}

// IsSilent returns whether silent mode is enabled
func IsSilent() bool {
	uiMu.RLock()
	defer uiMu.RUnlock()
	return silentMode
}

// SetNoColor disables colored output
func SetNoColor(noColor bool) {
	uiMu.Lock()
	defer uiMu.Unlock()
	noColorMode = noColor
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// IsNoColor returns whether color is disabled
func IsNoColor() bool {
	uiMu.RLock()
	defer uiMu.RUnlock()
	return noColorMode
}

// SetOutput redirects all Print* output. It returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	uiMu.Lock()
	defer uiMu.Unlock()
	prev := out
	out = w
	return prev
}

// writer returns the output, or io.Discard in silent mode.
func writer() io.Writer {
	uiMu.RLock()
	defer uiMu.RUnlock()
	if silentMode {
		return io.Discard
	}
	return out
}

const bannerArt = `
    __          __                  __
   / /_  ____  / /_____  _________  / /_  ___
  / __ \/ __ \/ __/ __ \/ ___/ __ \/ __ \/ _ \
 / /_/ / /_/ / /_/ /_/ / /  / /_/ / /_/ /  __/
/_.___/\____/\__/ .___/_/   \____/_.___/\___/
               /_/
`

// PrintBanner prints the application banner with version info
func PrintBanner() {
	w := writer()
	for _, line := range strings.Split(bannerArt, "\n") {
		if line != "" {
			fmt.Fprintln(w, BannerStyle.Render(line))
		}
	}
	fmt.Fprintf(w, "                 v%s  browser fingerprint risk analysis\n\n", VersionStyle.Render(Version))
}

// PrintSection prints a section header
func PrintSection(title string) {
	fmt.Fprintln(writer(), SectionStyle.Render(Icon("▸ ", "> ")+title))
}

// PrintDivider prints a horizontal line
func PrintDivider() {
	fmt.Fprintln(writer(), DividerStyle.Render(strings.Repeat("─", 60)))
}

// PrintConfig prints key/value pairs sorted by key.
// Format:  :: Option          : Value
func PrintConfig(config map[string]string) {
	keys := make([]string, 0, len(config))
	for k := range config {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		PrintConfigLine(k, config[k])
	}
	fmt.Fprintln(writer())
}

// PrintConfigLine prints one configuration entry
func PrintConfigLine(key, value string) {
	fmt.Fprintf(writer(), " :: %s : %s\n", ConfigLabelStyle.Render(key), ConfigValueStyle.Render(value))
}

// PrintHelp prints contextual help
func PrintHelp(text string) {
	fmt.Fprintln(writer(), HelpStyle.Render("  [i] "+text))
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Fprintln(writer(), SuccessStyle.Render("  [+] "+message))
}

// PrintError prints an error message. Errors are shown in silent mode too.
func PrintError(message string) {
	uiMu.RLock()
	w := out
	uiMu.RUnlock()
	fmt.Fprintln(w, FailStyle.Render("  [X] "+message))
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Fprintln(writer(), WarningStyle.Render("  [!] "+message))
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Fprintf(writer(), "  %s %s\n", SpinnerStyle.Render("*"), message)
}
