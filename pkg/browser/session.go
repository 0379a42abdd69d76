package browser

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/botprobe/botprobe/pkg/duration"
)

// allocatorOptions builds the Chrome command line for cfg.
func allocatorOptions(cfg *Config) []chromedp.ExecAllocatorOption {
	var opts []chromedp.ExecAllocatorOption

	if cfg.Headless {
		opts = append(opts, chromedp.DefaultExecAllocatorOptions[:]...)
		opts = append(opts, chromedp.DisableGPU)
	} else {
		// DefaultExecAllocatorOptions[2] is Headless; copy everything else.
		defaultOpts := chromedp.DefaultExecAllocatorOptions[:]
		opts = make([]chromedp.ExecAllocatorOption, 0, len(defaultOpts))
		opts = append(opts, defaultOpts[0], defaultOpts[1])
		opts = append(opts, defaultOpts[3:]...)
	}

	opts = append(opts,
		chromedp.WindowSize(cfg.ViewportWidth, cfg.ViewportHeight),
		chromedp.UserAgent(cfg.UserAgent),
	)
	if cfg.Locale != "" {
		opts = append(opts, chromedp.Flag("lang", cfg.Locale))
	}
	if cfg.Stealth {
		opts = append(opts, stealthFlags()...)
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	if cfg.Proxy != "" {
		opts = append(opts, chromedp.ProxyServer(cfg.Proxy))
	}
	for name, value := range cfg.ExtraFlags {
		opts = append(opts, chromedp.Flag(name, value))
	}
	return opts
}

// setupActions configure the tab before the first navigation.
func setupActions(cfg *Config) []chromedp.Action {
	acts := []chromedp.Action{
		chromedp.EmulateViewport(int64(cfg.ViewportWidth), int64(cfg.ViewportHeight)),
	}

	ua := emulation.SetUserAgentOverride(cfg.UserAgent)
	if cfg.Locale != "" {
		ua = ua.WithAcceptLanguage(cfg.Locale)
		acts = append(acts, emulation.SetLocaleOverride().WithLocale(cfg.Locale))
	}
	acts = append(acts, ua)

	if cfg.Timezone != "" {
		acts = append(acts, emulation.SetTimezoneOverride(cfg.Timezone))
	}

	if cfg.Stealth {
		acts = append(acts, chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
			return err
		}))
	}
	return acts
}

// newSession starts an allocator and browser context. The returned release
// func is safe to defer: if graceful shutdown blocks for longer than
// duration.BrowserShutdown, the Chrome process tree is killed.
func newSession(parent context.Context, cfg *Config, log *slog.Logger) (context.Context, func()) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, allocatorOptions(cfg)...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(func(format string, args ...any) {
			log.Debug("chromedp", "msg", fmt.Sprintf(format, args...))
		}),
	)

	release := func() {
		// Grab the process before cancel drops the reference.
		var proc *os.Process
		if c := chromedp.FromContext(browserCtx); c != nil && c.Browser != nil {
			proc = c.Browser.Process()
		}

		done := make(chan struct{})
		go func() {
			browserCancel()
			allocCancel()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(duration.BrowserShutdown):
			killProcessTree(proc)
			pid := "unknown"
			if proc != nil {
				pid = strconv.Itoa(proc.Pid)
			}
			log.Warn("browser cleanup timed out, killed process tree", "pid", pid)
		}
	}
	return browserCtx, release
}
