// Package identity derives canonical paper identities across heterogeneous
// metadata sources. Two records denote the same paper exactly when they
// resolve to the same canonical key.
package identity

import (
	"regexp"
	"strings"

	"github.com/fredbr/cocite/internal/paper"
)

// Canonical key namespaces, in resolution priority order.
const (
	NamespaceTitle    = "title"
	NamespaceArXiv    = "arxiv"
	NamespaceDOI      = "doi"
	NamespaceOpenAlex = "openalex"
	NamespaceS2       = "s2"
)

// maxTitleKeyLen bounds normalized titles used as keys. Titles that differ
// only past this point collide; a known precision trade-off.
const maxTitleKeyLen = 150

// titlePunctuation lists characters replaced by a space during title
// normalization: punctuation that commonly differs between preprint and
// published versions of the same title.
var titlePunctuation = []string{
	":", "-", "–", "—", // colon, hyphen, en dash, em dash
	"'", "‘", "’", // straight and smart single quotes
	`"`, "“", "”", // straight and smart double quotes
}

// arxivDOIPattern matches arXiv-issued DOIs like 10.48550/arXiv.2201.05125
// (after lowercasing) and captures the arXiv ID.
var arxivDOIPattern = regexp.MustCompile(`10\.48550/arxiv\.(\d+\.\d+)`)

// NormalizeTitle normalizes a title for identity matching: lowercase,
// whitespace collapsed, matching punctuation replaced by spaces, trimmed,
// truncated to maxTitleKeyLen runes. Normalization is idempotent.
func NormalizeTitle(title string) string {
	if title == "" {
		return ""
	}
	normalized := strings.ToLower(title)
	normalized = strings.Join(strings.Fields(normalized), " ")
	for _, p := range titlePunctuation {
		normalized = strings.ReplaceAll(normalized, p, " ")
	}
	normalized = strings.Join(strings.Fields(normalized), " ")

	runes := []rune(normalized)
	if len(runes) > maxTitleKeyLen {
		normalized = string(runes[:maxTitleKeyLen])
	}
	return strings.TrimSpace(normalized)
}

// ArXivIDFromDOI extracts an arXiv ID from an arXiv-issued DOI
// (10.48550/arXiv.2201.05125 -> 2201.05125). Returns "" for non-arXiv DOIs.
func ArXivIDFromDOI(doi string) string {
	if doi == "" {
		return ""
	}
	m := arxivDOIPattern.FindStringSubmatch(strings.ToLower(doi))
	if m == nil {
		return ""
	}
	return m[1]
}

// Resolve derives the canonical key for a record. The first namespace with a
// usable value wins: normalized title, arXiv ID recovered from an arXiv DOI,
// explicit arXiv ID, DOI, OpenAlex ID, Semantic Scholar ID. The normalized
// title leads so that preprint and published versions of the same paper
// (different DOIs, same title) merge into one identity.
//
// Returns ok=false for records with no usable identifying field; such
// records cannot participate in any index.
func Resolve(p paper.Paper) (key string, ok bool) {
	if t := NormalizeTitle(p.Title); t != "" {
		return NamespaceTitle + ":" + t, true
	}
	if id := ArXivIDFromDOI(p.DOI); id != "" {
		return NamespaceArXiv + ":" + id, true
	}
	if p.ArXivID != "" {
		return NamespaceArXiv + ":" + strings.ToLower(p.ArXivID), true
	}
	if p.DOI != "" {
		return NamespaceDOI + ":" + strings.ToLower(p.DOI), true
	}
	if p.OpenAlexID != "" {
		return NamespaceOpenAlex + ":" + strings.ToLower(p.OpenAlexID), true
	}
	if p.S2ID != "" {
		return NamespaceS2 + ":" + strings.ToLower(p.S2ID), true
	}
	return "", false
}
