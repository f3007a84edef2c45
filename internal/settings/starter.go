package settings

import (
	"encoding/json"
	"strings"

	"portfoliostudio/internal/model"
)

// Site names and contact addresses of the shared template that early tenants
// were seeded with. Matching documents are replaced, not merged.
var (
	legacySiteNames     = []string{"adkhex"}
	legacyContactEmails = []string{"adkhex@gmail.com"}
)

// MatchesLegacyFingerprint reports whether a stored document still carries
// the old shared template content.
func MatchesLegacyFingerprint(raw []byte) bool {
	var probe struct {
		SiteName     string `json:"siteName"`
		ContactEmail string `json:"contactEmail"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false
	}
	name := strings.ToLower(strings.TrimSpace(probe.SiteName))
	email := strings.ToLower(strings.TrimSpace(probe.ContactEmail))
	for _, n := range legacySiteNames {
		if name == n {
			return true
		}
	}
	for _, e := range legacyContactEmails {
		if email == e {
			return true
		}
	}
	return false
}

func strPtr(s string) *string { return &s }

// StarterProjects returns the placeholder projects of a new site.
func StarterProjects() []model.Project {
	return []model.Project{
		{
			Title:       "Starter Portfolio Project",
			Subtitle:    "Edit this in your dashboard",
			Description: "This sample project helps you get started with your own portfolio content.",
			Category:    "web",
			Tags:        []string{"starter", "portfolio"},
			TechStack:   []string{"React", "TypeScript"},
			Gallery:     []string{},
			CustomLinks: []model.ProjectLink{},
			IsPublished: true,
			SortOrder:   0,
		},
		{
			Title:       "Second Sample Card",
			Subtitle:    "Replace with your own work",
			Description: "Use this as a second project placeholder to understand layout and structure.",
			Category:    "app",
			Tags:        []string{"sample"},
			TechStack:   []string{"API", "UI"},
			Gallery:     []string{},
			CustomLinks: []model.ProjectLink{},
			IsPublished: true,
			SortOrder:   1,
		},
	}
}

// GlobalSampleProjects returns the projects seeded into an empty global scope.
func GlobalSampleProjects() []model.Project {
	return []model.Project{
		{
			Title:       "MkvBatchMux",
			Subtitle:    "Batch video muxing without command-line overhead",
			Description: "Streamlines large MKV packaging jobs with safer defaults and queue-based processing.",
			Category:    "desktop",
			Tags:        []string{"desktop", "media"},
			TechStack:   []string{".NET", "FFmpeg", "MKVToolNix"},
			Gallery:     []string{},
			GithubURL:   strPtr("https://github.com/AdkHex/MkvBatchMux"),
			CustomLinks: []model.ProjectLink{},
			IsPublished: true,
			SortOrder:   0,
		},
		{
			Title:       "Hybrid-DV-HDR-GUI",
			Subtitle:    "GUI-first Dolby Vision and HDR workflow utility",
			Description: "Wraps advanced HDR and Dolby Vision tasks into an approachable interface for daily use.",
			Category:    "desktop",
			Tags:        []string{"desktop", "hdr"},
			TechStack:   []string{"Windows", "Media Processing", "UX"},
			Gallery:     []string{},
			GithubURL:   strPtr("https://github.com/AdkHex/Hybrid-DV-HDR-GUI"),
			CustomLinks: []model.ProjectLink{},
			IsPublished: true,
			SortOrder:   1,
		},
	}
}
