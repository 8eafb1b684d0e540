package site

import "strings"

// Path identifies one of the site's pages.
type Path string

const (
	PathHome    Path = "/"
	PathAITools Path = "/ai-tools"
	PathContact Path = "/contact"
)

// Page describes a routed page.
type Page struct {
	Path  Path
	Label string // navbar label
	Title string // page heading
	Blurb string
}

// Router maps the three literal paths to their pages.
type Router struct {
	pages []Page
	index map[Path]int
}

// NewRouter builds the router with pages in navbar order.
func NewRouter() *Router {
	pages := []Page{
		{Path: PathHome, Label: "Home", Title: "AI in Business Club", Blurb: "at Indiana University"},
		{Path: PathAITools, Label: "AI Tools", Title: "AI Tools & Resources", Blurb: "Explore AI tools and get personalized project recommendations powered by AI."},
		{Path: PathContact, Label: "Contact", Title: "Get In Touch", Blurb: "Have questions or want to join? We'd love to hear from you!"},
	}
	index := make(map[Path]int, len(pages))
	for i, p := range pages {
		index[p.Path] = i
	}
	return &Router{pages: pages, index: index}
}

// Pages returns the pages in navbar order.
func (r *Router) Pages() []Page {
	out := make([]Page, len(r.pages))
	copy(out, r.pages)
	return out
}

// Resolve returns the page for path. Unknown paths resolve to the home page.
func (r *Router) Resolve(path string) Page {
	p, _ := r.Lookup(path)
	return p
}

// Lookup is Resolve that also reports whether path named a known page.
func (r *Router) Lookup(path string) (Page, bool) {
	cleaned := Path(strings.TrimSpace(path))
	if cleaned != PathHome {
		cleaned = Path(strings.TrimRight(string(cleaned), "/"))
	}
	if idx, ok := r.index[cleaned]; ok {
		return r.pages[idx], true
	}
	return r.pages[r.index[PathHome]], false
}

// IndexOf returns the navbar position of path, or 0 for unknown paths.
func (r *Router) IndexOf(path Path) int {
	return r.index[r.Resolve(string(path)).Path]
}

// At returns the page at navbar position i, wrapping around.
func (r *Router) At(i int) Page {
	n := len(r.pages)
	return r.pages[((i%n)+n)%n]
}
