// Package navigation builds the menu and breadcrumb state rendered by the base layout.
package navigation

// Page identifiers used to mark the active menu entry.
const (
	PageHome      = "home"
	PageRegister  = "register"
	PageLogin     = "login"
	PageDashboard = "dashboard"
	PageLogout    = "logout"
	PageError     = "error"
)

// Link is a single menu entry.
type Link struct {
	Title  string
	URL    string
	Page   string
	Method string // GET or POST, logout is a form submit
}

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// Context represents the navigation context for a page.
type Context struct {
	ActivePage  string
	Breadcrumbs []BreadcrumbItem
	Links       []Link
	PageTitle   string
}

// NewContext creates a new navigation context.
// The menu offers register and login to anonymous visitors, dashboard and logout otherwise.
func NewContext(pageTitle, activePage string, loggedIn bool) *Context {
	links := []Link{{Title: "Home", URL: "/", Page: PageHome, Method: "GET"}}

	if loggedIn {
		links = append(links,
			Link{Title: "Dashboard", URL: "/dashboard", Page: PageDashboard, Method: "GET"},
			Link{Title: "Logout", URL: "/logout", Page: PageLogout, Method: "POST"},
		)
	} else {
		links = append(links,
			Link{Title: "Register", URL: "/register", Page: PageRegister, Method: "GET"},
			Link{Title: "Login", URL: "/login", Page: PageLogin, Method: "GET"},
		)
	}

	return &Context{
		PageTitle:   pageTitle,
		ActivePage:  activePage,
		Breadcrumbs: make([]BreadcrumbItem, 0),
		Links:       links,
	}
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// IsActive checks if the given page is the current one.
func (c *Context) IsActive(page string) bool {
	return c.ActivePage == page
}
