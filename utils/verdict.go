package utils

import (
	"fmt"
	"strings"

	"github.com/Matt9117/Intolerancies/models"
)

// VerdictStatus is the traffic-light classification shown to the user.
type VerdictStatus string

const (
	StatusSafe  VerdictStatus = "safe"
	StatusAvoid VerdictStatus = "avoid"
	StatusMaybe VerdictStatus = "maybe"
)

// Verdict is a structured finding you can show in your API / UI.
type Verdict struct {
	Status VerdictStatus `json:"status"`
	Notes  []string      `json:"notes"`
}

// IntoleranceCategory is one entry of the closed category set. The fragment
// lists are a configuration table (Slovak + English, lowercase substrings),
// not exhaustively validated domain knowledge; extend them as label wording
// shows up in the wild.
type IntoleranceCategory struct {
	Key        string   // stable key stored in the user profile
	Label      string   // human label used in notes
	Keywords   []string // searched in ingredient text and traces
	Tags       []string // searched in allergen tags (e.g. "en:gluten")
	SafeClaims []string // declared-safe patterns searched in label claims
}

// Categories is the fixed enumeration. Slice order defines note order, so
// verdicts stay deterministic for golden-output tests.
var Categories = []IntoleranceCategory{
	{
		Key:      "gluten",
		Label:    "gluten",
		Keywords: []string{"pšenic", "jačmeň", "jačmenn", "raž", "ražn", "ovsen", "špald", "lepok", "lepku", "wheat", "barley", "rye", "gluten", "spelt", "malt", "semolina", "kamut", "triticale"},
		Tags:     []string{"gluten", "lepok"},
		SafeClaims: []string{"gluten-free", "gluten free", "no-gluten", "no gluten", "bez lepku", "bezlepkov", "bezglutén", "bezgluten"},
	},
	{
		Key:      "milk_protein",
		Label:    "milk protein",
		Keywords: []string{"mlieko", "mliečn", "kazeín", "kazein", "srvátk", "srvatk", "maslo", "smotan", "tvaroh", "jogurt", "milk", "casein", "whey", "butter", "cheese", "cream", "yogurt", "yoghurt"},
		Tags:     []string{"milk", "mlieko"},
		SafeClaims: []string{"dairy-free", "dairy free", "milk-free", "milk free", "bez mlieka", "bez mliečnej bielkoviny"},
	},
	{
		Key:      "lactose",
		Label:    "lactose",
		Keywords: []string{"laktóz", "laktoz", "lactose", "mlieko", "milk", "srvátk", "whey", "smotan", "cream"},
		Tags:     []string{"milk", "lactose", "laktóza"},
		SafeClaims: []string{"lactose-free", "lactose free", "bez laktózy", "bezlaktóz"},
	},
	{
		Key:      "nuts",
		Label:    "tree nuts",
		Keywords: []string{"orech", "orieš", "mandle", "mandľ", "lieskov", "vlašsk", "kešu", "pistác", "makadám", "pekanov", "almond", "hazelnut", "walnut", "cashew", "pistachio", "macadamia", "pecan", "brazil nut"},
		Tags:     []string{":nuts", "orech"},
		SafeClaims: []string{"nut-free", "nut free", "bez orechov"},
	},
	{
		Key:      "peanut",
		Label:    "peanuts",
		Keywords: []string{"arašid", "arašíd", "podzemnic", "burské", "peanut"},
		Tags:     []string{"peanut", "arašid"},
		SafeClaims: []string{"peanut-free", "peanut free", "bez arašidov"},
	},
	{
		Key:      "soy",
		Label:    "soy",
		Keywords: []string{"sój", "soja", "sójov", "soy", "tofu"},
		Tags:     []string{"soy", "sój"},
		SafeClaims: []string{"soy-free", "soy free", "bez sóje"},
	},
	{
		Key:      "egg",
		Label:    "egg",
		Keywords: []string{"vajc", "vaječn", "vajec", "egg", "albumín", "albumin", "ovalbumin"},
		Tags:     []string{"egg", "vajc"},
		SafeClaims: []string{"egg-free", "egg free", "bez vajec"},
	},
	{
		Key:      "sesame",
		Label:    "sesame",
		Keywords: []string{"sezam", "sesame", "tahini"},
		Tags:     []string{"sesame", "sezam"},
		SafeClaims: []string{"sesame-free", "sesame free"},
	},
	{
		Key:      "fish",
		Label:    "fish",
		Keywords: []string{"ryb", "tuniak", "losos", "sardel", "sardink", "makrel", "treska", "fish", "tuna", "salmon", "anchovy", "sardine", "cod", "trout"},
		Tags:     []string{"fish", "ryb"},
	},
	{
		Key:      "shellfish",
		Label:    "shellfish",
		Keywords: []string{"kôrovc", "korovc", "krevet", "krab", "homár", "homar", "mušl", "ustric", "kalamár", "shrimp", "prawn", "crab", "lobster", "crustacean", "mussel", "oyster", "squid", "mollusc"},
		Tags:     []string{"crustacean", "mollusc", "shellfish", "kôrovce", "mäkkýše"},
	},
	{
		Key:      "celery",
		Label:    "celery",
		Keywords: []string{"zeler", "celery", "celeriac"},
		Tags:     []string{"celery", "zeler"},
	},
	{
		Key:      "mustard",
		Label:    "mustard",
		Keywords: []string{"horčic", "horcic", "mustard"},
		Tags:     []string{"mustard", "horčica"},
	},
	{
		Key:      "sulphites",
		Label:    "sulphites",
		Keywords: []string{"siričitan", "disiričitan", "oxid siričitý", "metabisulfit", "sulphite", "sulfite", "sulphur dioxide", "sulfur dioxide", "e220", "e221", "e222", "e223", "e224", "e226", "e227", "e228"},
		Tags:     []string{"sulphite", "sulfite", "sulphur-dioxide", "siričit"},
		SafeClaims: []string{"sulphite-free", "no added sulphites", "bez siričitanov"},
	},
	{
		Key:      "lupin",
		Label:    "lupin",
		Keywords: []string{"vlčí bôb", "lupina", "lupin"},
		Tags:     []string{"lupin"},
	},
}

// defaultActiveKeys is substituted when the profile selects nothing, so the
// engine never matches against an empty set.
var defaultActiveKeys = []string{"gluten", "milk_protein"}

// CategoryKeys lists the valid profile keys in enumeration order.
func CategoryKeys() []string {
	keys := make([]string, 0, len(Categories))
	for _, c := range Categories {
		keys = append(keys, c.Key)
	}
	return keys
}

func IsValidCategory(key string) bool {
	for _, c := range Categories {
		if c.Key == key {
			return true
		}
	}
	return false
}

// -----------------------------
// Verdict engine
// -----------------------------

// EvaluateProduct maps a product record and the user's active intolerance
// keys to a verdict. Pure text matching over already-normalized strings;
// absent fields behave as empty strings, so this cannot fail.
func EvaluateProduct(p models.ProductRecord, activeKeys []string) Verdict {
	active := resolveActive(activeKeys)

	ingredients := strings.ToLower(p.IngredientText)
	claims := strings.ToLower(p.LabelClaims)
	traces := strings.ToLower(p.Traces)

	v := Verdict{Status: StatusMaybe}

	// 1) Hard matches: ingredient fragments or allergen tags. Avoid dominates.
	for _, cat := range active {
		if hardMatch(cat, ingredients, p.AllergenTags) {
			v.Status = StatusAvoid
			v.Notes = append(v.Notes, fmt.Sprintf("Contains %s.", cat.Label))
		}
	}

	// 2) Declared-safe label claims only count when nothing hard-matched.
	if v.Status != StatusAvoid && claims != "" {
		for _, cat := range active {
			if claim := matchSafeClaim(cat, claims); claim != "" {
				v.Status = StatusSafe
				v.Notes = append(v.Notes, fmt.Sprintf("Label declares %q.", claim))
				break
			}
		}
	}

	if v.Status == StatusMaybe {
		v.Notes = append(v.Notes, "No clear match, check the physical label before eating.")
	}

	// 3) Trace matches append a caution and downgrade safe to maybe.
	// They never produce avoid and never upgrade maybe.
	if traces != "" {
		for _, cat := range active {
			if containsAny(traces, cat.Keywords...) {
				v.Notes = append(v.Notes, fmt.Sprintf("May contain traces of %s.", cat.Label))
				if v.Status == StatusSafe {
					v.Status = StatusMaybe
				}
			}
		}
	}

	return v
}

// NeedsEscalation reports whether the caller should ask the advisory service
// for a second opinion: the local verdict is inconclusive, or there was no
// ingredient text to match against in the first place.
func NeedsEscalation(p models.ProductRecord, v Verdict) bool {
	return v.Status == StatusMaybe || strings.TrimSpace(p.IngredientText) == ""
}

// resolveActive filters the requested keys down to known categories, keeping
// enumeration order; an empty selection falls back to the default subset.
func resolveActive(keys []string) []IntoleranceCategory {
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[strings.ToLower(strings.TrimSpace(k))] = true
	}

	var active []IntoleranceCategory
	for _, c := range Categories {
		if want[c.Key] {
			active = append(active, c)
		}
	}
	if len(active) > 0 {
		return active
	}

	for _, c := range Categories {
		for _, def := range defaultActiveKeys {
			if c.Key == def {
				active = append(active, c)
			}
		}
	}
	return active
}

func hardMatch(cat IntoleranceCategory, ingredients string, allergenTags []string) bool {
	if containsAny(ingredients, cat.Keywords...) {
		return true
	}
	for _, tag := range allergenTags {
		if containsAny(strings.ToLower(tag), cat.Tags...) {
			return true
		}
	}
	return false
}

func matchSafeClaim(cat IntoleranceCategory, claims string) string {
	for _, claim := range cat.SafeClaims {
		if strings.Contains(claims, claim) {
			return claim
		}
	}
	return ""
}

func containsAny(s string, subs ...string) bool {
	if s == "" {
		return false
	}
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
