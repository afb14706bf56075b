package tagcodec

// KeyTags maps a known PLC field name to its tag number (§4.2). A known
// key is replaced by tag(N, null) on compress; any other key stays a
// text string.
var KeyTags = map[string]uint64{
	"sig":                  10,
	"prev":                 11,
	"type":                 12,
	"services":             13,
	"alsoKnownAs":          14,
	"rotationKeys":         15,
	"verificationMethods":  16,
	"atproto_pds":          17,
	"endpoint":             18,
	"atproto":              19,
}

// KeyNames is the inverse of KeyTags.
var KeyNames = map[uint64]string{}

func init() {
	for name, tag := range KeyTags {
		KeyNames[tag] = name
	}
}

const (
	MinKeyTag = 10
	MaxKeyTag = 19
)
