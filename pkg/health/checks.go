package health

import (
	"context"
	"fmt"
	"go/version"
	"io"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/botprobe/botprobe/pkg/browser"
	"github.com/botprobe/botprobe/pkg/defaults"
)

// Check groups that options can skip
const (
	GroupNetwork = "network"
	GroupBrowser = "browser"
)

// Options configures the default check battery
type Options struct {
	MinGoVersion string // defaults.MinGoVersion
	GoVersion    string // runtime.Version()
	OutputDir    string // defaults.OutputDir
	Targets      []string

	Browser     *browser.Config
	HTTPClient  *http.Client
	LaunchProbe func(ctx context.Context) error

	// ValidateConfig checks the loaded configuration; nil skips the check
	ValidateConfig func() error

	SkipNetwork bool
	SkipBrowser bool

	Logger *slog.Logger
}

func (o *Options) normalize() {
	if o.MinGoVersion == "" {
		o.MinGoVersion = defaults.MinGoVersion
	}
	if o.GoVersion == "" {
		o.GoVersion = runtime.Version()
	}
	if o.OutputDir == "" {
		o.OutputDir = defaults.OutputDir
	}
	if len(o.Targets) == 0 {
		o.Targets = []string{defaults.NetworkProbeURL}
	}
	if o.Browser == nil {
		o.Browser = browser.DefaultConfig()
	}
	if o.HTTPClient == nil {
		o.HTTPClient = browser.NewHTTPClient(o.Browser)
	}
	if o.LaunchProbe == nil {
		cfg := o.Browser
		o.LaunchProbe = func(ctx context.Context) error {
			return browser.ProbeLaunch(ctx, cfg)
		}
	}
}

// NewDefaultChecker builds a checker with the standard battery
func NewDefaultChecker(opts Options) *Checker {
	opts.normalize()
	c := NewChecker(opts.Logger)
	c.httpClient = opts.HTTPClient

	_ = c.AddCheck(Check{Name: "runtime", Probe: RuntimeProbe(opts.GoVersion, opts.MinGoVersion)})
	_ = c.AddCheck(Check{Name: "dependencies", Probe: DependencyProbe()})
	_ = c.AddCheck(Check{Name: "browser_binary", Probe: BrowserBinaryProbe(opts.Browser.ExecPath)})
	_ = c.AddCheck(Check{Name: "output_dir", Probe: OutputDirProbe(opts.OutputDir)})
	if opts.ValidateConfig != nil {
		_ = c.AddCheck(Check{Name: "config", Probe: ConfigProbe(opts.ValidateConfig)})
	}
	_ = c.AddCheck(Check{Name: "browser_launch", Group: GroupBrowser, Probe: LaunchProbe(opts.LaunchProbe)})
	_ = c.AddCheck(Check{Name: "network", Group: GroupNetwork, Probe: NetworkProbe(c.httpClient, opts.Targets)})

	if opts.SkipNetwork {
		c.SkipGroup(GroupNetwork)
	}
	if opts.SkipBrowser {
		c.SkipGroup(GroupBrowser)
	}
	return c
}

// RuntimeProbe errors when the running Go version is older than minimum
func RuntimeProbe(current, minimum string) Probe {
	return func(context.Context) (Status, string) {
		if !version.IsValid(current) {
			return StatusWarning, fmt.Sprintf("cannot parse runtime version %q", current)
		}
		if version.Compare(current, minimum) < 0 {
			return StatusError, fmt.Sprintf("%s is older than required %s", current, minimum)
		}
		return StatusOK, fmt.Sprintf("%s (>= %s) on %s/%s", current, minimum, runtime.GOOS, runtime.GOARCH)
	}
}

// requiredModules are linked into the binary; their absence from build info
// means a stripped or unusual build.
var requiredModules = []string{
	"github.com/chromedp/chromedp",
	"github.com/chromedp/cdproto",
}

// DependencyProbe reports the linked versions of the browser driver modules
func DependencyProbe() Probe {
	return func(context.Context) (Status, string) {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return StatusWarning, "build info unavailable"
		}
		found := make(map[string]string)
		for _, dep := range info.Deps {
			found[dep.Path] = dep.Version
		}
		var parts, missing []string
		for _, mod := range requiredModules {
			if v, ok := found[mod]; ok {
				parts = append(parts, mod+"@"+v)
			} else {
				missing = append(missing, mod)
			}
		}
		if len(missing) > 0 {
			return StatusWarning, "not listed in build info: " + strings.Join(missing, ", ")
		}
		return StatusOK, strings.Join(parts, ", ")
	}
}

// BrowserBinaryProbe errors when no Chrome binary can be found
func BrowserBinaryProbe(execPath string) Probe {
	return func(context.Context) (Status, string) {
		path, ok := browser.FindChrome(execPath)
		if !ok {
			if execPath != "" {
				return StatusError, fmt.Sprintf("chrome not found at %s", execPath)
			}
			return StatusError, "chrome or chromium not found in PATH or well-known locations"
		}
		return StatusOK, path
	}
}

// OutputDirProbe errors when dir cannot be created or written
func OutputDirProbe(dir string) Probe {
	return func(context.Context) (Status, string) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return StatusError, fmt.Sprintf("cannot create %s: %v", dir, err)
		}
		if err := writable(dir); err != nil {
			return StatusError, fmt.Sprintf("%s is not writable: %v", dir, err)
		}
		return StatusOK, dir + " is writable"
	}
}

// ConfigProbe errors when validate fails
func ConfigProbe(validate func() error) Probe {
	return func(context.Context) (Status, string) {
		if err := validate(); err != nil {
			return StatusError, err.Error()
		}
		return StatusOK, "configuration is valid"
	}
}

// LaunchProbe errors when a headless session cannot start
func LaunchProbe(launch func(ctx context.Context) error) Probe {
	return func(ctx context.Context) (Status, string) {
		if err := launch(ctx); err != nil {
			return StatusError, fmt.Sprintf("browser launch failed: %v", err)
		}
		return StatusOK, "headless session started and evaluated script"
	}
}

// NetworkProbe warns when any target does not answer
func NetworkProbe(client *http.Client, targets []string) Probe {
	return func(ctx context.Context) (Status, string) {
		var failed []string
		for _, target := range targets {
			if err := reach(ctx, client, target); err != nil {
				failed = append(failed, fmt.Sprintf("%s (%v)", target, err))
			}
		}
		if len(failed) > 0 {
			return StatusWarning, fmt.Sprintf("%d/%d unreachable: %s", len(failed), len(targets), strings.Join(failed, "; "))
		}
		return StatusOK, fmt.Sprintf("%d target(s) reachable", len(targets))
	}
}

// reach sends HEAD and falls back to GET for servers that reject HEAD
func reach(ctx context.Context, client *http.Client, target string) error {
	status, err := do(ctx, client, http.MethodHead, target)
	if err != nil {
		return err
	}
	if status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented {
		status, err = do(ctx, client, http.MethodGet, target)
		if err != nil {
			return err
		}
	}
	if status >= 500 {
		return fmt.Errorf("status %d", status)
	}
	return nil
}

func do(ctx context.Context, client *http.Client, method, target string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	return resp.StatusCode, nil
}
