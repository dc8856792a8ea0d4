package entity

type Kind string

const (
	KindSection        Kind = "section"
	KindPage           Kind = "page"
	KindProjectPage    Kind = "project_page"
	KindProjectSection Kind = "project_section"
	KindAboutSection   Kind = "about_section"
	KindFilterTag      Kind = "filter_tag"
)

func (k Kind) Valid() bool {
	switch k {
	case KindSection, KindPage, KindProjectPage, KindProjectSection, KindAboutSection, KindFilterTag:
		return true
	}
	return false
}

type KeywordHint struct {
	Phrase string  `json:"phrase" yaml:"phrase"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// DestinationEntry is one addressable navigation target. Page is the html file
// the entry lives on, Anchor the in-page selector (empty for whole pages).
// Filter tags use Locator as the tag name; external entries use it as the URL.
type DestinationEntry struct {
	ID           string        `json:"id"`
	Kind         Kind          `json:"kind"`
	Locator      string        `json:"locator"`
	Page         string        `json:"page,omitempty"`
	Anchor       string        `json:"anchor,omitempty"`
	Parent       string        `json:"parent,omitempty"`
	Slug         string        `json:"slug"`
	DisplayName  string        `json:"display_name"`
	Description  string        `json:"description,omitempty"`
	IsExternal   bool          `json:"is_external"`
	Aliases      []string      `json:"aliases,omitempty"`
	KeywordHints []KeywordHint `json:"keyword_hints,omitempty"`
}

// SectionTemplate is a subsection shared by every project page. Its hints
// feed the project combo bonus rather than scoring on their own.
type SectionTemplate struct {
	Slug         string        `json:"slug" yaml:"slug"`
	DisplayName  string        `json:"display_name" yaml:"display_name"`
	Aliases      []string      `json:"aliases,omitempty" yaml:"aliases"`
	KeywordHints []KeywordHint `json:"keyword_hints,omitempty" yaml:"keywords"`
}

// Boost adds Weight to the entry named by ID, or to every entry of Kind,
// when the utterance contains any of the phrases.
type Boost struct {
	ID     string   `json:"id,omitempty" yaml:"id"`
	Kind   Kind     `json:"kind,omitempty" yaml:"kind"`
	Any    []string `json:"any" yaml:"any"`
	Weight float64  `json:"weight" yaml:"weight"`
}

func (b Boost) Applies(e DestinationEntry) bool {
	if b.ID != "" {
		return b.ID == e.ID
	}
	return b.Kind != "" && b.Kind == e.Kind
}
