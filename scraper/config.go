package scraper

// PageConfig defines where a judge's problem page keeps the problem name.
type PageConfig struct {
	// Judge is a short lowercase identifier, e.g. "uva".
	Judge string `yaml:"judge"`
	// NameSelector is a CSS selector for the element holding
	// "<number> - <title>".
	NameSelector string `yaml:"name_selector"`
	// FallbackSelector is tried when NameSelector matches nothing.
	FallbackSelector string `yaml:"fallback_selector,omitempty"`
}

// UVaPageConfig returns the page layout of UVa Online Judge problem pages,
// where the title is the first h3 of the main content column.
func UVaPageConfig() PageConfig {
	return PageConfig{
		Judge:            "uva",
		NameSelector:     "#col3_content_wrapper h3",
		FallbackSelector: "h3",
	}
}

// Selectors returns the selectors to try in order.
func (p PageConfig) Selectors() []string {
	selectors := []string{}
	if p.NameSelector != "" {
		selectors = append(selectors, p.NameSelector)
	}
	if p.FallbackSelector != "" && p.FallbackSelector != p.NameSelector {
		selectors = append(selectors, p.FallbackSelector)
	}
	return selectors
}
