package provider

import (
	"fmt"
	"regexp"
	"strings"
)

var vanityRe = regexp.MustCompile(`linkedin\.com/in/([^/?#]+)`)

// ExtractVanity достаёт vanity идентификатор из URL профиля.
// Строка без домена сети считается уже готовым vanity.
func ExtractVanity(profileURL string) (string, error) {
	s := strings.TrimSpace(profileURL)
	if s == "" {
		return "", fmt.Errorf("empty profile url")
	}

	if !strings.Contains(s, "linkedin.com") {
		return s, nil
	}

	m := vanityRe.FindStringSubmatch(s)
	if m == nil {
		return "", fmt.Errorf("cannot extract vanity from %q", profileURL)
	}
	return m[1], nil
}
