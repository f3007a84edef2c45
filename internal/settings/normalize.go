// Package settings owns the site settings document: its defaults, the legacy
// migration rules, and normalization of stored payloads.
package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"portfoliostudio/internal/model"
	"portfoliostudio/internal/slug"
)

// DefaultTheme is used whenever a stored theme is missing or unknown.
const DefaultTheme = "neon-grid"

// Themes lists the accepted portfolioTheme values.
var Themes = []string{
	"neon-grid",
	"ocean-slate",
	"amber-editor",
	"forest-signal",
	"mono-slate",
	"midnight-luxe",
	"sandstone-pro",
	"cobalt-grid",
	"graphite-sunset",
}

const (
	fallbackSectionID     = "section"
	defaultSectionKicker  = "Section"
	defaultSectionTitle   = "Untitled section"
	customSectionsJSONKey = "customSections"
)

// fieldIndex maps JSON keys of SiteSettings to struct field positions.
var fieldIndex = func() map[string]int {
	t := reflect.TypeOf(model.SiteSettings{})
	idx := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		idx[name] = i
	}
	return idx
}()

// IsTheme reports whether theme is an accepted portfolioTheme.
func IsTheme(theme string) bool {
	for _, t := range Themes {
		if t == theme {
			return true
		}
	}
	return false
}

// Normalize overlays a stored settings payload onto defaults and returns a
// fully populated document. Stored keys win; keys holding null or a value of
// the wrong JSON type keep the default. A payload without a customSections
// list is migrated from the legacy experience fields. Normalize is
// idempotent and does not modify defaults.
func Normalize(raw []byte, defaults model.SiteSettings) (model.SiteSettings, error) {
	doc := clone(defaults)

	fields := map[string]json.RawMessage{}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return model.SiteSettings{}, fmt.Errorf("decode settings: %w", err)
		}
	}

	v := reflect.ValueOf(&doc).Elem()
	for key, value := range fields {
		i, ok := fieldIndex[key]
		if !ok || key == customSectionsJSONKey || isNull(value) {
			continue
		}
		target := reflect.New(v.Field(i).Type())
		if err := json.Unmarshal(value, target.Interface()); err != nil {
			continue
		}
		v.Field(i).Set(target.Elem())
	}

	doc.CustomSections = decodeSections(fields)
	return NormalizeDocument(doc), nil
}

// NormalizeDocument applies the section, card, theme and empty list rules to
// an already typed document.
func NormalizeDocument(doc model.SiteSettings) model.SiteSettings {
	if !IsTheme(doc.PortfolioTheme) {
		doc.PortfolioTheme = DefaultTheme
	}

	sections := make([]model.CustomSection, 0, len(doc.CustomSections))
	for _, s := range doc.CustomSections {
		sections = append(sections, normalizeSection(s))
	}
	doc.CustomSections = sections

	if doc.NavbarLinks == nil {
		doc.NavbarLinks = []model.NavLink{}
	}
	if doc.HeroHighlights == nil {
		doc.HeroHighlights = []string{}
	}
	if doc.HeroStats == nil {
		doc.HeroStats = []model.Stat{}
	}
	if doc.AboutCards == nil {
		doc.AboutCards = []model.Card{}
	}
	if doc.SkillGroups == nil {
		doc.SkillGroups = []model.SkillGroup{}
	}
	for i := range doc.SkillGroups {
		if doc.SkillGroups[i].Skills == nil {
			doc.SkillGroups[i].Skills = []string{}
		}
	}
	if doc.SocialLinks == nil {
		doc.SocialLinks = []model.SocialLink{}
	}
	if doc.CTAButtons == nil {
		doc.CTAButtons = []model.CTAButton{}
	}
	return doc
}

func normalizeSection(s model.CustomSection) model.CustomSection {
	source := firstNonBlank(s.ID, s.Title, fallbackSectionID)
	id := slug.Slugify(source)
	if id == "" {
		id = fallbackSectionID
	}

	kicker := s.Kicker
	if strings.TrimSpace(kicker) == "" {
		kicker = defaultSectionKicker
	}
	title := s.Title
	if strings.TrimSpace(title) == "" {
		title = defaultSectionTitle
	}

	cards := make([]model.SectionCard, 0, len(s.Cards))
	for _, c := range s.Cards {
		if strings.TrimSpace(c.Title) == "" || strings.TrimSpace(c.Body) == "" {
			continue
		}
		cards = append(cards, c)
	}

	return model.CustomSection{
		ID:          id,
		Kicker:      kicker,
		Title:       title,
		Description: s.Description,
		Cards:       cards,
	}
}

// decodeSections reads customSections, falling back to the legacy
// experienceTitle, experienceDescription and experienceCards fields when the
// stored value is absent or not a list.
func decodeSections(fields map[string]json.RawMessage) []model.CustomSection {
	if value, ok := fields[customSectionsJSONKey]; ok && isArray(value) {
		var sections []model.CustomSection
		if err := json.Unmarshal(value, &sections); err == nil {
			return sections
		}
		sections = nil
		var loose []json.RawMessage
		if err := json.Unmarshal(value, &loose); err == nil {
			for _, item := range loose {
				var s model.CustomSection
				if err := json.Unmarshal(item, &s); err == nil {
					sections = append(sections, s)
				}
			}
		}
		return sections
	}

	var title, description string
	_ = json.Unmarshal(fields["experienceTitle"], &title)
	if strings.TrimSpace(title) == "" {
		return []model.CustomSection{}
	}
	_ = json.Unmarshal(fields["experienceDescription"], &description)

	var legacyCards []struct {
		Period string `json:"period"`
		Title  string `json:"title"`
		Body   string `json:"body"`
	}
	_ = json.Unmarshal(fields["experienceCards"], &legacyCards)

	cards := make([]model.SectionCard, 0, len(legacyCards))
	for _, c := range legacyCards {
		cards = append(cards, model.SectionCard{Meta: c.Period, Title: c.Title, Body: c.Body})
	}

	id := slug.Slugify(title)
	if id == "" {
		id = fallbackSectionID
	}
	return []model.CustomSection{{
		ID:          id,
		Kicker:      defaultSectionKicker,
		Title:       title,
		Description: description,
		Cards:       cards,
	}}
}

func clone(doc model.SiteSettings) model.SiteSettings {
	data, err := json.Marshal(doc)
	if err != nil {
		return doc
	}
	var out model.SiteSettings
	if err := json.Unmarshal(data, &out); err != nil {
		return doc
	}
	return out
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func isNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}

func isArray(value json.RawMessage) bool {
	trimmed := bytes.TrimSpace(value)
	return len(trimmed) > 0 && trimmed[0] == '['
}
