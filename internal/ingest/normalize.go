// Package ingest maps heterogeneous spreadsheet rows onto the canonical
// application record fields.
package ingest

import (
	"regexp"
	"strings"
)

// columnSynonyms maps normalized header text to canonical field names.
// Headers outside the table are dropped silently.
var columnSynonyms = map[string]string{
	"appid":                  "applicationID",
	"app id":                 "applicationID",
	"application id":         "applicationID",
	"appname":                "name",
	"app name":               "name",
	"application name":       "name",
	"name":                   "name",
	"technical owner":        "technicalOwner",
	"tech owner":             "technicalOwner",
	"secondary owner":        "secondaryOwner",
	"business owner":         "businessOwner",
	"information steward":    "informationSteward",
	"product line":           "productLine",
	"product owner":          "productOwner",
	"product line architect": "productLineArchitect",
	"technical team lead":    "technicalTeamLead",
	"apm":                    "apm",
	"prod url":               "prodUrl",
	"dev url":                "devUrl",
	"repo url":               "repoUrl",
	"prod resource group":    "prodResourceGroup",
	"test resource group":    "testResourceGroup",
	"technology":             "technology",
	"domain":                 "domain",
}

var separatorRuns = regexp.MustCompile(`[\s_-]+`)

// NormalizeHeader reduces arbitrary header spellings to the lookup key
// form: trimmed, lower-cased, with runs of whitespace, hyphens and
// underscores collapsed into a single space.
func NormalizeHeader(header string) string {
	return separatorRuns.ReplaceAllString(strings.ToLower(strings.TrimSpace(header)), " ")
}

// MapRow translates one raw spreadsheet row into canonical fields. It is a
// pure function: no I/O, identical input yields identical output. A row
// with zero recognized headers maps to an empty row, which is not an error
// here; required-field checks happen at insertion. When two headers map to
// the same canonical field the last one wins in iteration order.
func MapRow(row map[string]string) map[string]string {
	mapped := make(map[string]string)

	for header, value := range row {
		if field, ok := columnSynonyms[NormalizeHeader(header)]; ok {
			mapped[field] = value
		}
	}

	return mapped
}
