// Package tags derives the canonical tag set of a filing from its purpose
// text, leg-type mix and ownership-percentage crossing.
package tags

import (
	"sort"
	"strings"

	"github.com/sahamlabs/emiten/internal/models"
)

// TakeoverThreshold is the ownership percentage whose crossing, in either
// direction, tags a filing as a takeover event.
const TakeoverThreshold = 50.0

// Canonical tag names.
const (
	TagInheritance      = "inheritance"
	TagMESOP            = "mesop"
	TagFreeFloat        = "free-float"
	TagShareTransfer    = "share-transfer"
	TagInvestment       = "investment"
	TagDivestment       = "divestment"
	TagRestructuring    = "restructuring"
	TagShareBuyback     = "share-buyback"
	TagPrivatePlacement = "private-placement"
	TagTakeover         = "takeover"
)

// keywordBanks maps each tag to the purpose-text keywords that imply it.
// Purpose strings are free-form Indonesian/English legal language; the
// banks are deliberately conservative so the highest-value compliance tags
// (inheritance, employee stock plans, free-float, takeover) are auditable
// without relying on the external model.
var keywordBanks = map[string][]string{
	TagInheritance: {
		"inherit", "warisan", "waris", "pewarisan",
	},
	TagMESOP: {
		"mesop", "esop", "employee stock", "management stock",
		"program kepemilikan saham",
	},
	TagFreeFloat: {
		"free float", "freefloat", "ketentuan free float",
		"papan pemantauan khusus",
	},
	TagShareTransfer: {
		"transfer", "pengalihan", "pemindahan", "hibah",
	},
	TagInvestment: {
		"beli", "pembelian", "buy", "purchase", "investasi", "akuisisi",
		"penambahan",
	},
	TagDivestment: {
		"jual", "penjualan", "sell", "sale", "divestasi", "pengurangan",
	},
	TagRestructuring: {
		"restrukturisasi", "restructuring", "reorganisasi",
	},
	TagShareBuyback: {
		"buyback", "buy back", "pembelian kembali", "repurchase",
	},
	TagPrivatePlacement: {
		"private placement", "penempatan terbatas",
	},
}

// Input carries everything the classifier looks at.
type Input struct {
	// Purpose is the disclosed transaction purpose, free text, may be empty.
	Purpose string
	// SharePercentageBefore/After are optional ownership percentages.
	SharePercentageBefore *float64
	SharePercentageAfter  *float64
	// TransactionType is the resolved overall type from aggregation.
	TransactionType models.TransactionType
	// Legs are inspected only for type-mix detection.
	Legs []models.TransactionLeg
	// ExplicitTags is a comma-separated caller override. When non-empty it
	// is used as-is and the whole derived pipeline is skipped.
	ExplicitTags string
}

// Classify returns the canonical tag set: deduplicated and sorted
// lexicographically ascending, so the same inputs always produce the same
// list.
func Classify(in Input) []string {
	if strings.TrimSpace(in.ExplicitTags) != "" {
		return splitExplicit(in.ExplicitTags)
	}

	set := make(map[string]struct{})
	purpose := strings.ToLower(in.Purpose)

	if purpose != "" {
		for tag, keywords := range keywordBanks {
			for _, kw := range keywords {
				if strings.Contains(purpose, kw) {
					set[tag] = struct{}{}
					break
				}
			}
		}
	}

	// A mixed-type filing cannot be purely an investment or a divestment;
	// whatever purpose matching added is replaced by exactly one of the
	// two, chosen from the resolved overall type.
	if isMixed(in.Legs) {
		delete(set, TagInvestment)
		delete(set, TagDivestment)
		if in.TransactionType == models.TransactionBuy {
			set[TagInvestment] = struct{}{}
		} else {
			set[TagDivestment] = struct{}{}
		}
	}

	if crossesThreshold(in.SharePercentageBefore, in.SharePercentageAfter) {
		set[TagTakeover] = struct{}{}
	}

	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// splitExplicit honors the caller override path: split on comma, trim,
// drop empties, sort.
func splitExplicit(explicit string) []string {
	parts := strings.Split(explicit, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	sort.Strings(tags)
	return tags
}

func isMixed(legs []models.TransactionLeg) bool {
	distinct := make(map[models.TransactionType]struct{}, 3)
	for _, leg := range legs {
		distinct[leg.Type] = struct{}{}
	}
	return len(distinct) > 1
}

// crossesThreshold reports whether ownership crossed the takeover
// threshold in either direction. Both percentages must be present.
func crossesThreshold(before, after *float64) bool {
	if before == nil || after == nil {
		return false
	}
	return (*before < TakeoverThreshold && *after >= TakeoverThreshold) ||
		(*before >= TakeoverThreshold && *after < TakeoverThreshold)
}
