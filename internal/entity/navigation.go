package entity

import "time"

type EffectKind string

const (
	EffectScrollWithinPage         EffectKind = "scroll_within_page"
	EffectRedirectToPage           EffectKind = "redirect_to_page"
	EffectRedirectToPageWithAnchor EffectKind = "redirect_to_page_with_anchor"
	EffectOpenExternal             EffectKind = "open_external"
	EffectApplyFilter              EffectKind = "apply_filter"
)

// NavigationEffect is executed by the page layer. An empty payload on a
// scroll effect means the top of the current page.
type NavigationEffect struct {
	Kind          EffectKind    `json:"kind"`
	Payload       string        `json:"payload"`
	Deferred      bool          `json:"deferred,omitempty"`
	RetryWindow   time.Duration `json:"retry_window,omitempty"`
	RetryInterval time.Duration `json:"retry_interval,omitempty"`
}

type Resolution struct {
	Effects       []NavigationEffect `json:"effects"`
	Target        string             `json:"target"`
	Advisory      string             `json:"advisory,omitempty"`
	Fallback      bool               `json:"fallback"`
	LowConfidence bool               `json:"low_confidence"`
	Suggestions   []string           `json:"suggestions,omitempty"`
}

func (r Resolution) Primary() NavigationEffect {
	if len(r.Effects) == 0 {
		return NavigationEffect{}
	}
	return r.Effects[0]
}
