// Package featureflags evaluates runtime feature flags from a simple
// key=value config string.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// Flags the server consults.
const (
	// InsightTaggedPrompt selects the structured, section-tagged insight
	// prompt; when off the plain numbered prompt is used instead.
	InsightTaggedPrompt = "insight_tagged_prompt"
)

type flagKind int

const (
	kindOff flagKind = iota
	kindOn
	kindPercent
)

type flagValue struct {
	kind flagKind
	pct  int
}

// Manager evaluates feature flags defined in a comma-separated list.
// Example: "insight_tagged_prompt=on,new_suggestions=25%"
type Manager struct {
	flags map[string]flagValue
}

// NewManager parses a config string into a manager. Malformed pairs are
// skipped.
func NewManager(raw string) *Manager {
	flags := make(map[string]flagValue)

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		name := normalize(parts[0])
		value, ok := parseValue(normalize(parts[1]))
		if name == "" || !ok {
			continue
		}
		flags[name] = value
	}

	return &Manager{flags: flags}
}

func parseValue(s string) (flagValue, bool) {
	switch s {
	case "on", "true", "1":
		return flagValue{kind: kindOn}, true
	case "off", "false", "0":
		return flagValue{kind: kindOff}, true
	}
	if strings.HasSuffix(s, "%") {
		pct, err := strconv.Atoi(strings.TrimSuffix(s, "%"))
		if err != nil {
			return flagValue{}, false
		}
		return flagValue{kind: kindPercent, pct: pct}, true
	}
	return flagValue{}, false
}

// Enabled reports whether a flag is on for the given user. Percent values
// roll out deterministically by user: the same user always lands in the
// same bucket for a given flag. Unknown flags are off.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}

	value, ok := m.flags[normalize(name)]
	if !ok {
		return false
	}

	switch value.kind {
	case kindOn:
		return true
	case kindOff:
		return false
	}

	if value.pct <= 0 {
		return false
	}
	if value.pct >= 100 {
		return true
	}
	if userID == 0 {
		return false
	}
	return rolloutBucket(name, userID) < value.pct
}

// Snapshot returns the evaluated status of every configured flag for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.flags))
	for name := range m.flags {
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
