package identity

import "strings"

// doiPrefixes are URL and scheme prefixes stripped during DOI normalization.
var doiPrefixes = []string{
	"https://doi.org/",
	"http://doi.org/",
	"doi:",
}

// NormalizeDOI strips URL and scheme prefixes from a DOI, returning the bare
// registrant/suffix form. Matching is case-insensitive on the prefix only;
// the DOI body is returned as supplied.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range doiPrefixes {
		if len(doi) >= len(prefix) && strings.EqualFold(doi[:len(prefix)], prefix) {
			return doi[len(prefix):]
		}
	}
	return doi
}
