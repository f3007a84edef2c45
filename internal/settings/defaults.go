package settings

import (
	"fmt"

	"portfoliostudio/internal/model"
)

// DefaultSiteName names the site created at signup.
const DefaultSiteName = "My Portfolio"

func defaultNavbar() []model.NavLink {
	return []model.NavLink{
		{Label: "About", Href: "#about", ID: "about", Visible: true},
		{Label: "Projects", Href: "#projects", ID: "projects", Visible: true},
		{Label: "Skills", Href: "#skills", ID: "skills", Visible: true},
		{Label: "Contact", Href: "#contact", ID: "contact", Visible: true},
	}
}

// DefaultGlobal returns the settings document of the global portfolio.
func DefaultGlobal() model.SiteSettings {
	return model.SiteSettings{
		SiteName:           "AdkHex",
		SiteTagline:        "Software Engineer",
		SiteDescription:    "Portfolio of AdkHex",
		SEOTitle:           "AdkHex | Software Engineer Portfolio",
		SEODescription:     "Cross-platform software engineer focused on creator tools.",
		SocialPreviewTitle: "AdkHex Portfolio",
		SocialPreviewDesc:  "Creator-focused software projects.",
		PortfolioTheme:     DefaultTheme,
		NavbarLinks:        defaultNavbar(),
		HeroBadge:          "Open to freelance and full-time work",
		HeroTitle:          "I build reliable tools for creators who care about speed.",
		HeroDescription:    "I design and ship software for video and audio workflows, with an emphasis on practical UX, predictable performance, and maintainable engineering.",
		HeroHighlights: []string{
			"Cross-platform media tools",
			"Performance-focused desktop apps",
			"Modern React and TypeScript workflows",
		},
		HeroStats: []model.Stat{
			{Value: "2+", Label: "Projects built"},
			{Value: "Beginner", Label: "Level"},
			{Value: "Fast", Label: "Learner"},
		},
		AboutTitle:       "Software for serious creator workflows.",
		AboutDescription: "I focus on desktop and web applications that solve concrete media production problems. My work sits at the intersection of performance tooling, usability, and automation.",
		AboutCards: []model.Card{
			{Title: "Clarity over complexity", Body: "I reduce friction by keeping interfaces straightforward and behavior predictable."},
			{Title: "Engineering with intent", Body: "I prioritize correctness, observability, and a codebase others can extend without fear."},
			{Title: "Product-first delivery", Body: "I care about outcomes: fewer manual steps, fewer edge-case failures, faster iteration."},
		},
		ProjectsKicker:      "Projects",
		ProjectsTitle:       "Selected work.",
		ProjectsDescription: "A focused selection of shipped work and active experiments.",
		CustomSections:      []model.CustomSection{},
		SkillGroups: []model.SkillGroup{
			{Title: "Frontend", Skills: []string{"React", "TypeScript", "Tailwind CSS"}},
			{Title: "Desktop", Skills: []string{".NET", "WPF", "WinUI"}},
			{Title: "Media / Pipeline", Skills: []string{"FFmpeg", "MKVToolNix", "DSP"}},
			{Title: "Workflow", Skills: []string{"Product Scoping", "Rapid Prototyping", "Code Reviews"}},
		},
		ContactTitle:       "Let’s build something useful.",
		ContactDescription: "Send a brief and timeline. I usually reply within one business day.",
		ContactEmail:       "adkhex@gmail.com",
		SocialLinks: []model.SocialLink{
			{Label: "GitHub", Href: "https://github.com/AdkHex"},
			{Label: "X", Href: "https://x.com/AdkHex"},
		},
		FooterText: "Built with React + TypeScript + Tailwind.",
		CTAButtons: []model.CTAButton{
			{Label: "View projects", Href: "#projects", Style: "primary"},
			{Label: "Get in touch", Href: "#contact", Style: "secondary"},
			{Label: "Resume / GitHub", Href: "https://github.com/AdkHex", Style: "outline"},
		},
	}
}

// StudioTemplate returns the starter document of a new site named siteName.
func StudioTemplate(siteName string) model.SiteSettings {
	if siteName == "" {
		siteName = DefaultSiteName
	}
	return model.SiteSettings{
		SiteName:           siteName,
		SiteTagline:        "Portfolio Website",
		SiteDescription:    "A clean, modern portfolio website template. Replace this text with your own summary.",
		SEOTitle:           fmt.Sprintf("%s | Portfolio", siteName),
		SEODescription:     "Showcase your projects, skills, and contact details with a polished portfolio template.",
		SocialPreviewTitle: fmt.Sprintf("%s Portfolio", siteName),
		SocialPreviewDesc:  "Customizable portfolio website template.",
		PortfolioTheme:     DefaultTheme,
		NavbarLinks:        defaultNavbar(),
		HeroBadge:          "Open to opportunities",
		HeroTitle:          "I build thoughtful digital products.",
		HeroDescription:    "Use this starter template to introduce yourself clearly. Replace this paragraph with your background, strengths, and what you are currently building.",
		HeroHighlights: []string{
			"Responsive portfolio layout",
			"Project-focused presentation",
			"Easy no-code content editing",
		},
		HeroStats: []model.Stat{
			{Value: "3+", Label: "Projects"},
			{Value: "Beginner", Label: "Level"},
			{Value: "Fast", Label: "Learner"},
		},
		AboutTitle:       "A short introduction about me.",
		AboutDescription: "Write 2-4 lines about your interests, your learning journey, and the type of roles or projects you are looking for.",
		AboutCards: []model.Card{
			{Title: "What I focus on", Body: "Describe your main technical focus areas in simple words."},
			{Title: "How I work", Body: "Share your approach to solving problems and shipping projects."},
			{Title: "What I am learning", Body: "Add the technologies and skills you are currently improving."},
		},
		ProjectsKicker:      "Projects",
		ProjectsTitle:       "Selected work.",
		ProjectsDescription: "Showcase your strongest projects. Edit this heading and text from the Projects tab.",
		CustomSections:      []model.CustomSection{},
		SkillGroups: []model.SkillGroup{
			{Title: "Frontend", Skills: []string{"React", "TypeScript", "Tailwind CSS"}},
			{Title: "Backend", Skills: []string{"Node.js", "Express", "APIs"}},
			{Title: "Tools", Skills: []string{"Git", "VS Code", "Figma"}},
		},
		ContactTitle:       "Let’s connect.",
		ContactDescription: "Use this section so visitors can reach out for internships, freelance, or collaboration.",
		ContactEmail:       "you@example.com",
		SocialLinks: []model.SocialLink{
			{Label: "GitHub", Href: "https://github.com/your-username"},
			{Label: "LinkedIn", Href: "https://linkedin.com/in/your-handle"},
		},
		FooterText: "Built with Portfolio Studio.",
		CTAButtons: []model.CTAButton{
			{Label: "View projects", Href: "#projects", Style: "primary"},
			{Label: "Get in touch", Href: "#contact", Style: "secondary"},
			{Label: "My GitHub", Href: "https://github.com/your-username", Style: "outline"},
		},
	}
}
