// Package featureflags switches optional site behaviour on and off from configuration.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// Known flags.
const (
	// IndexPageCache caches the rendered global feed.
	IndexPageCache = "index_page_cache"
	// Signup opens account registration.
	Signup = "signup"
)

type rule struct {
	raw     string
	on      bool
	percent int // -1 unless the value was a rollout percentage
}

// Manager evaluates flags defined as "name=value" pairs,
// e.g. "index_page_cache=on,signup=off,new_editor=25%".
type Manager struct {
	rules map[string]rule
}

// NewManager parses a comma-separated flag list. Malformed pairs are skipped.
func NewManager(raw string) *Manager {
	rules := make(map[string]rule)

	for _, pair := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name, value = normalize(name), normalize(value)
		if name == "" || value == "" {
			continue
		}
		rules[name] = parseRule(value)
	}

	return &Manager{rules: rules}
}

func parseRule(value string) rule {
	r := rule{raw: value, percent: -1}
	switch value {
	case "on", "true", "1":
		r.on = true
		return r
	case "off", "false", "0":
		return r
	}
	if pct, ok := strings.CutSuffix(value, "%"); ok {
		if n, err := strconv.Atoi(pct); err == nil {
			r.percent = min(max(n, 0), 100)
		}
	}
	return r
}

// Enabled reports whether name is on for userID. Percentage rollouts are
// deterministic per user and never enabled for anonymous visitors below 100%.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}
	r, ok := m.rules[normalize(name)]
	if !ok {
		return false
	}
	switch {
	case r.percent < 0:
		return r.on
	case r.percent == 100:
		return true
	case r.percent == 0 || userID == 0:
		return false
	default:
		return rolloutBucket(name, userID) < r.percent
	}
}

// EnabledSitewide reports whether name is on for everyone, ignoring rollouts below 100%.
func (m *Manager) EnabledSitewide(name string) bool {
	return m.Enabled(name, 0)
}

// Names lists the configured flags in order.
func (m *Manager) Names() []string {
	out := make([]string, 0, len(m.rules))
	for name := range m.rules {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Raw returns the configured value of every flag.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.rules))
	for k, r := range m.rules {
		out[k] = r.raw
	}
	return out
}

// Snapshot evaluates every flag for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.rules))
	for name := range m.rules {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", normalize(name), userID)))
	return int(h.Sum32() % 100)
}
