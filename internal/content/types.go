package content

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Profile is the owner's identity block from config.json.
type Profile struct {
	Name        string `json:"name"`
	Initials    string `json:"initials"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Intro       string `json:"intro"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatarUrl"`
	ResumeURL   string `json:"resumeUrl"`
}

type WorkItem struct {
	Company     string `json:"company"`
	Title       string `json:"title"`
	Location    string `json:"location"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Description string `json:"description"`
	Logo        string `json:"logo,omitempty"`
	Href        string `json:"href,omitempty"`
}

// Period renders "start - end", with an open end shown as Present.
func (w WorkItem) Period() string { return period(w.Start, w.End) }

// Initial is the avatar fallback when no logo is set.
func (w WorkItem) Initial() string { return Initial(w.Company) }

type EducationItem struct {
	School string `json:"school"`
	Degree string `json:"degree"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Logo   string `json:"logo,omitempty"`
	Href   string `json:"href,omitempty"`
}

func (e EducationItem) Period() string  { return period(e.Start, e.End) }
func (e EducationItem) Initial() string { return Initial(e.School) }

type Resume struct {
	Work      []WorkItem      `json:"work"`
	Education []EducationItem `json:"education"`
}

type SkillCategory struct {
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

type Skills struct {
	Featured   []string        `json:"featured"`
	Categories []SkillCategory `json:"categories"`
}

// ProjectStatus is one of live, development or concept.
type ProjectStatus string

const (
	StatusLive        ProjectStatus = "live"
	StatusDevelopment ProjectStatus = "development"
	StatusConcept     ProjectStatus = "concept"
)

// Label is the badge text shown on a project card.
func (s ProjectStatus) Label() string {
	switch s {
	case StatusLive:
		return "Live"
	case StatusDevelopment:
		return "In Development"
	case StatusConcept:
		return "Concept"
	}
	return ""
}

type ProjectLink struct {
	Type string `json:"type"`
	Href string `json:"href"`
}

type Project struct {
	Title        string        `json:"title"`
	Href         string        `json:"href,omitempty"`
	Description  string        `json:"description"`
	Dates        string        `json:"dates"`
	Status       ProjectStatus `json:"status"`
	Technologies []string      `json:"technologies"`
	Image        string        `json:"image,omitempty"`
	Links        []ProjectLink `json:"links,omitempty"`
}

type SocialLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Icon string `json:"icon"`
}

var knownIcons = map[string]bool{"github": true, "linkedin": true, "x": true, "mail": true}

// IconName maps the link to a known icon, falling back to mail.
func (l SocialLink) IconName() string {
	if knownIcons[l.Icon] {
		return l.Icon
	}
	return "mail"
}

type Links struct {
	Social []SocialLink `json:"social"`
}

type Post struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

type Blog struct {
	Posts []Post `json:"posts"`
}

func period(start, end string) string {
	if strings.TrimSpace(end) == "" {
		end = "Present"
	}
	return start + " - " + end
}

// Initial returns the first letter of name, upper-cased, or "?".
func Initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r))
}
