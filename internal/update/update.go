// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package update checks GitHub for newer releases. It never fails hard:
// network problems degrade to a Result with OK=false so offline use is
// unaffected. See docs/ARCHITECTURE § Update Checker.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/pdiddy/rescore-engine/internal/httputil"
	"github.com/pdiddy/rescore-engine/pkg/types"
)

// apiBase is the GitHub API root. Declared as a var so tests can substitute
// an httptest server.
var apiBase = "https://api.github.com"

// Result is the outcome of an update check.
type Result struct {
	// OK is true when the HTTP request and response parsing succeeded.
	OK bool

	// IsUpdate is true when a release newer than the current version exists.
	IsUpdate bool

	// CurrentVersion echoes the version passed to Check.
	CurrentVersion string

	// LatestVersion is the latest release tag without a leading "v".
	LatestVersion string

	// HTMLURL is the release page, when known.
	HTMLURL string

	// Err holds a non-fatal failure reason when OK is false.
	Err string
}

type releaseResponse struct {
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
	URL     string `json:"url"`
}

// Check queries GitHub for the latest release of cfg.Repo and compares it to
// currentVersion.
func Check(ctx context.Context, client *http.Client, currentVersion string, cfg types.UpdateConfig) Result {
	result := Result{CurrentVersion: currentVersion}

	url := fmt.Sprintf("%s/repos/%s/releases/latest", apiBase, cfg.Repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		result.Err = fmt.Sprintf("building request: %v", err)
		return result
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", cfg.UserAgent)
	if cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.Token)
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 2)
	if err != nil {
		result.Err = "network unavailable or timed out"
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		result.Err = fmt.Sprintf("HTTP %d from GitHub API", resp.StatusCode)
		return result
	}

	var release releaseResponse
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		result.Err = "failed to parse API response"
		return result
	}

	tag := release.TagName
	if tag == "" {
		tag = release.Name
	}
	latest := StripV(tag)
	if latest == "" {
		result.Err = "latest release tag not found in API response"
		return result
	}

	result.LatestVersion = latest
	result.HTMLURL = release.HTMLURL
	if result.HTMLURL == "" {
		result.HTMLURL = release.URL
	}
	result.OK = true
	result.IsUpdate = CompareVersions(latest, currentVersion) > 0
	return result
}

// StripV removes a leading "v" or "V" and surrounding whitespace from a
// version tag.
func StripV(s string) string {
	return strings.TrimSpace(strings.TrimLeft(s, "vV"))
}

// versionChunk is one comparable segment of a version string. Numeric
// chunks order before text chunks; punctuation collapses to a single
// separator so "1.2-3" and "1.2.3" compare stably.
type versionChunk struct {
	isText bool
	num    int
	text   string
}

// CompareVersions returns -1, 0, or 1 as a is older than, equal to, or newer
// than b. Comparison prefers numeric precedence and compares leftover text
// segments lexically; pre-release ordering is not modeled, but common tags
// like "v1.2.3" vs "1.10.0" order as expected.
func CompareVersions(a, b string) int {
	ca := normalizeVersion(StripV(a))
	cb := normalizeVersion(StripV(b))

	for i := 0; i < len(ca) && i < len(cb); i++ {
		if c := compareChunk(ca[i], cb[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(ca) < len(cb):
		return -1
	case len(ca) > len(cb):
		return 1
	default:
		return 0
	}
}

func compareChunk(a, b versionChunk) int {
	// Numeric chunks sort before text chunks.
	if a.isText != b.isText {
		if !a.isText {
			return -1
		}
		return 1
	}
	if a.isText {
		return strings.Compare(a.text, b.text)
	}
	switch {
	case a.num < b.num:
		return -1
	case a.num > b.num:
		return 1
	default:
		return 0
	}
}

// normalizeVersion splits a version string into alternating numeric and
// text chunks: "1.2.3-rc1" becomes [1 "." 2 "." 3 "." "rc" 1].
func normalizeVersion(v string) []versionChunk {
	var chunks []versionChunk
	i := 0
	for i < len(v) {
		start := i
		switch {
		case unicode.IsDigit(rune(v[i])):
			for i < len(v) && unicode.IsDigit(rune(v[i])) {
				i++
			}
			num := 0
			for _, r := range v[start:i] {
				num = num*10 + int(r-'0')
			}
			chunks = append(chunks, versionChunk{num: num})
		case unicode.IsLetter(rune(v[i])):
			for i < len(v) && unicode.IsLetter(rune(v[i])) {
				i++
			}
			chunks = append(chunks, versionChunk{isText: true, text: v[start:i]})
		default:
			for i < len(v) && !unicode.IsDigit(rune(v[i])) && !unicode.IsLetter(rune(v[i])) {
				i++
			}
			chunks = append(chunks, versionChunk{isText: true, text: "."})
		}
	}
	return chunks
}
