package browser

import (
	"os"
	"os/exec"
)

var browserNames = []string{"chrome", "chromium", "chromium-browser", "google-chrome", "google-chrome-stable"}

// wellKnownPaths covers systems where PATH isn't configured
func wellKnownPaths() []string {
	paths := []string{
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
		`/usr/bin/google-chrome`,
		`/usr/bin/chromium-browser`,
		`/usr/bin/chromium`,
		`/snap/bin/chromium`,
		`/Applications/Google Chrome.app/Contents/MacOS/Google Chrome`,
		`/Applications/Chromium.app/Contents/MacOS/Chromium`,
	}
	if local := os.Getenv("LOCALAPPDATA"); local != "" {
		paths = append(paths, local+`\Google\Chrome\Application\chrome.exe`)
	}
	return paths
}

// FindChrome locates a Chrome or Chromium binary. A non-empty execPath is
// checked alone.
func FindChrome(execPath string) (string, bool) {
	if execPath != "" {
		if info, err := os.Stat(execPath); err == nil && !info.IsDir() {
			return execPath, true
		}
		return "", false
	}

	for _, name := range browserNames {
		if path, err := exec.LookPath(name); err == nil && path != "" {
			return path, true
		}
	}

	for _, path := range wellKnownPaths() {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}
