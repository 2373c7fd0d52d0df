package chains

import "strings"

// guaranteedChains lists businesses whose corporate policy includes changing
// stations in every location. A name match here is treated as ground truth
// and bypasses crowd verification entirely. This list is the single source
// of truth: the scorer, reconciliation and consensus engines all go through
// IsGuaranteed.
var guaranteedChains = []string{
	"target",
	"walmart",
	"costco",
	"sam's club",
	"meijer",
	"kroger",
	"publix",
	"whole foods",
	"wegmans",
	"ikea",
	"nordstrom",
	"macy's",
	"jcpenney",
	"kohl's",
	"walgreens",
	"cvs",
	"mcdonald's",
	"chick-fil-a",
	"panera",
	"cracker barrel",
	"buc-ee's",
	"love's travel stop",
	"pilot travel center",
	"flying j",
	"buy buy baby",
}

// priorityChainIDs are place-catalog chain identifiers for gas-station,
// pharmacy and coffee chains that reliably provide changing stations but are
// tracked by catalog id rather than name. Names in the comments are the
// catalog labels.
var priorityChainIDs = map[string]struct{}{
	"ab4c54c0-d68a-012e-5619-003048cad9da": {}, // Shell
	"e4314672-d69a-012e-561c-003048cad9da": {}, // Speedway
	"ab4d31a0-d68a-012e-5619-003048cad9da": {}, // 7-Eleven
	"f0d7b9c0-d68a-012e-5619-003048cad9da": {}, // Wawa
	"556e1e42-d68a-012e-5619-003048cad9da": {}, // QuikTrip
	"2d8dcc90-d68a-012e-5619-003048cad9da": {}, // Casey's
	"ab4cef40-d68a-012e-5619-003048cad9da": {}, // Starbucks
}

// secondTierChainIDs are catalog ids for chains with good but less
// consistent coverage.
var secondTierChainIDs = map[string]struct{}{
	"ab4dee10-d68a-012e-5619-003048cad9da": {}, // Circle K
	"de183cc0-d68a-012e-5619-003048cad9da": {}, // Dunkin'
	"ab4db500-d68a-012e-5619-003048cad9da": {}, // Rite Aid
	"93dcaa20-d68a-012e-5619-003048cad9da": {}, // Sheetz
	"41d4b4c0-d68a-012e-5619-003048cad9da": {}, // RaceTrac
}

// IsGuaranteed reports whether a business name matches a guaranteed chain.
// Matching is a case-insensitive substring check so "Target Store T-2841"
// still matches "target".
func IsGuaranteed(name string) bool {
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	for _, chain := range guaranteedChains {
		if strings.Contains(lower, chain) {
			return true
		}
	}
	return false
}

// IsPriorityChainID reports whether a catalog chain id is in the priority set.
func IsPriorityChainID(id string) bool {
	_, ok := priorityChainIDs[id]
	return ok
}

// IsSecondTierChainID reports whether a catalog chain id is in the second-tier set.
func IsSecondTierChainID(id string) bool {
	_, ok := secondTierChainIDs[id]
	return ok
}
