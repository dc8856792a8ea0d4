package entity

import "strings"

type Action string

const (
	ActionNavigateSection        Action = "navigate_section"
	ActionNavigatePage           Action = "navigate_page"
	ActionNavigateProject        Action = "navigate_project"
	ActionNavigateProjectSection Action = "navigate_project_section"
	ActionFilterProjects         Action = "filter_projects"
	ActionGoHome                 Action = "go_home"
	ActionUnknown                Action = "unknown"
)

// ParseAction maps the wire form used by the hosted model onto an Action.
// Anything unrecognized becomes ActionUnknown.
func ParseAction(raw string) Action {
	a := Action(strings.ToLower(strings.TrimSpace(raw)))
	switch a {
	case ActionNavigateSection, ActionNavigatePage, ActionNavigateProject,
		ActionNavigateProjectSection, ActionFilterProjects, ActionGoHome:
		return a
	}
	return ActionUnknown
}

type IntentSource string

const (
	SourceLocal   IntentSource = "local"
	SourceRemote  IntentSource = "remote"
	SourceDefault IntentSource = "default"
)

type Intent struct {
	Action     Action       `json:"action"`
	Target     string       `json:"target"`
	Confidence float64      `json:"confidence"`
	Score      float64      `json:"score,omitempty"`
	Source     IntentSource `json:"source"`
}

func DefaultIntent() Intent {
	return Intent{
		Action:     ActionUnknown,
		Confidence: 0,
		Source:     SourceDefault,
	}
}

type PageContext struct {
	CurrentPageID   string `json:"current_page_id"`
	IsOnIndexPage   bool   `json:"is_on_index_page"`
	IsOnProjectPage bool   `json:"is_on_project_page"`
	IsOnAboutPage   bool   `json:"is_on_about_page"`
}
