// Package input gathers analysis targets from flags, list files and stdin
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// ErrNoTargets is returned when no source yielded a target
var ErrNoTargets = errors.New("input: no targets specified")

// Target is a named URL
type Target struct {
	Name string
	URL  string
}

// TargetSource consolidates all target input methods
type TargetSource struct {
	URLs     []string  // From -u flags; "name=url" or bare url
	ListFile string    // From -l flag, one entry per line
	Stdin    io.Reader // Optional piped input
}

// GetTargets returns deduplicated, normalized targets in input order.
// Lines starting with # are comments.
func (ts *TargetSource) GetTargets() ([]Target, error) {
	var targets []Target
	seenURL := make(map[string]bool)
	seenName := make(map[string]int)

	add := func(entry string) error {
		entry = strings.TrimSpace(entry)
		if entry == "" || strings.HasPrefix(entry, "#") {
			return nil
		}
		t, err := ParseTarget(entry)
		if err != nil {
			return err
		}
		if seenURL[t.URL] {
			return nil
		}
		seenURL[t.URL] = true
		// two sites with the same derived name get a numeric suffix
		if n := seenName[t.Name]; n > 0 {
			seenName[t.Name] = n + 1
			t.Name = fmt.Sprintf("%s_%d", t.Name, n+1)
		} else {
			seenName[t.Name] = 1
		}
		targets = append(targets, t)
		return nil
	}

	for _, u := range ts.URLs {
		if err := add(u); err != nil {
			return nil, err
		}
	}

	if ts.ListFile != "" {
		lines, err := readLines(ts.ListFile)
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			if err := add(line); err != nil {
				return nil, fmt.Errorf("%s: %w", ts.ListFile, err)
			}
		}
	}

	if ts.Stdin != nil {
		lines, err := scanLines(ts.Stdin)
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			if err := add(line); err != nil {
				return nil, fmt.Errorf("stdin: %w", err)
			}
		}
	}

	if len(targets) == 0 {
		return nil, ErrNoTargets
	}
	return targets, nil
}

// ParseTarget parses "name=url" or a bare URL. A missing scheme gets https://.
func ParseTarget(entry string) (Target, error) {
	var name string
	raw := strings.TrimSpace(entry)
	if i := strings.Index(raw, "="); i > 0 && !strings.Contains(raw[:i], "/") && !strings.Contains(raw[:i], ":") {
		name, raw = strings.TrimSpace(raw[:i]), strings.TrimSpace(raw[i+1:])
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return Target{}, fmt.Errorf("input: invalid target %q", entry)
	}
	if name == "" {
		name = SiteName(u.Hostname())
	}
	return Target{Name: name, URL: u.String()}, nil
}

// SiteName derives a short name from a host: the registrable domain
// without its public suffix ("bot.sannysoft.com" -> "sannysoft").
func SiteName(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if net.ParseIP(host) != nil {
		return strings.NewReplacer(".", "_", ":", "_").Replace(host)
	}
	etld1, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return strings.ReplaceAll(host, ".", "_")
	}
	suffix, _ := publicsuffix.PublicSuffix(etld1)
	name := strings.TrimSuffix(etld1, "."+suffix)
	if name == "" {
		return strings.ReplaceAll(host, ".", "_")
	}
	return name
}

func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return scanLines(file)
}

func scanLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// StdinIfPiped returns os.Stdin when it is a pipe or file, nil for a terminal
func StdinIfPiped() io.Reader {
	stat, err := os.Stdin.Stat()
	if err != nil || (stat.Mode()&os.ModeCharDevice) != 0 {
		return nil
	}
	return os.Stdin
}
