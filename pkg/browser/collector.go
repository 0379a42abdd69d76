package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/botprobe/botprobe/pkg/defaults"
	"github.com/botprobe/botprobe/pkg/duration"
	"github.com/botprobe/botprobe/pkg/fingerprint"
	"github.com/botprobe/botprobe/pkg/screenshot"
)

// Collector loads a target page and extracts its fingerprint record.
type Collector interface {
	Collect(ctx context.Context, target Target) (*Capture, error)
}

// ChromeCollector collects fingerprints with a fresh Chrome session per call.
// The session is always torn down before Collect returns.
type ChromeCollector struct {
	cfg   *Config
	stamp string
	now   func() time.Time
}

// NewChromeCollector creates a collector. Screenshot file names share the
// timestamp taken here so one run's files sort together.
func NewChromeCollector(cfg *Config) *ChromeCollector {
	return &ChromeCollector{
		cfg:   cfg.withDefaults(),
		stamp: time.Now().Format(defaults.TimestampLayout),
		now:   time.Now,
	}
}

// SetStamp overrides the timestamp used in screenshot file names.
func (c *ChromeCollector) SetStamp(stamp string) {
	c.stamp = stamp
}

// Collect visits target and evaluates fingerprint.ProbeScript.
func (c *ChromeCollector) Collect(ctx context.Context, target Target) (*Capture, error) {
	cfg := *c.cfg
	log := cfg.logger().With("site", target.Name)

	if cfg.ExecPath == "" {
		path, ok := FindChrome("")
		if !ok {
			return nil, ErrNoBrowser
		}
		cfg.ExecPath = path
	}

	browserCtx, release := newSession(ctx, &cfg, log)
	defer release()

	// The first Run starts the browser process.
	if err := chromedp.Run(browserCtx, setupActions(&cfg)...); err != nil {
		return nil, wrap(ErrLaunch, err)
	}

	log.Debug("navigating", "url", target.URL, "timeout", cfg.PageTimeout)
	start := c.now()
	navCtx, navCancel := context.WithTimeout(browserCtx, cfg.PageTimeout)
	err := chromedp.Run(navCtx, chromedp.Navigate(target.URL))
	navCancel()
	if err != nil {
		return nil, wrap(ErrNavigate, err)
	}
	loadTime := c.now().Sub(start)

	if cfg.SettleDelay > 0 {
		if err := chromedp.Run(browserCtx, chromedp.Sleep(cfg.SettleDelay)); err != nil {
			return nil, wrap(ErrNavigate, err)
		}
	}

	capture := &Capture{
		Target:   target,
		LoadTime: loadTime,
	}

	if cfg.Screenshot.Enabled {
		path, err := c.screenshot(browserCtx, &cfg, target)
		if err != nil {
			log.Warn("screenshot failed", "error", err)
		} else {
			capture.Screenshot = path
			log.Info("screenshot saved", "path", path)
		}
	}

	var raw []byte
	evalCtx, evalCancel := context.WithTimeout(browserCtx, cfg.PageTimeout)
	err = chromedp.Run(evalCtx,
		chromedp.Location(&capture.FinalURL),
		chromedp.Evaluate(fingerprint.ProbeScript, &raw),
	)
	evalCancel()
	if err != nil {
		return nil, wrap(ErrEvaluate, err)
	}

	rec, err := fingerprint.Decode(raw)
	if err != nil {
		return nil, wrap(ErrEvaluate, err)
	}
	capture.Record = rec
	capture.CapturedAt = c.now()
	return capture, nil
}

func (c *ChromeCollector) screenshot(ctx context.Context, cfg *Config, target Target) (string, error) {
	var buf []byte
	shotCtx, cancel := context.WithTimeout(ctx, cfg.PageTimeout)
	defer cancel()
	if err := chromedp.Run(shotCtx, cfg.Screenshot.Action(&buf)); err != nil {
		return "", wrap(ErrScreenshot, err)
	}
	path := cfg.Screenshot.Path(target.Name, c.stamp)
	if err := screenshot.Save(path, buf); err != nil {
		return "", wrap(ErrScreenshot, err)
	}
	return path, nil
}

// ProbeLaunch starts a headless session and evaluates a trivial expression.
// The session is released before it returns.
func ProbeLaunch(ctx context.Context, cfg *Config) error {
	cfg = cfg.withDefaults()
	cfg.Headless = true
	if _, ok := FindChrome(cfg.ExecPath); !ok {
		return ErrNoBrowser
	}

	ctx, cancel := context.WithTimeout(ctx, duration.BrowserLaunch)
	defer cancel()

	browserCtx, release := newSession(ctx, cfg, cfg.logger())
	defer release()

	var sum int
	if err := chromedp.Run(browserCtx, chromedp.Evaluate(`1+1`, &sum)); err != nil {
		return wrap(ErrLaunch, err)
	}
	if sum != 2 {
		return fmt.Errorf("%w: evaluated 1+1 = %d", ErrEvaluate, sum)
	}
	return nil
}
