package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path the route group.
	RootPath = "/"

	// RegisterPath is the path of the registration page.
	RegisterPath = RootPath + "register"

	// LoginPath is the path of the login page.
	LoginPath = RootPath + "login"

	// DashboardPath is the path of the protected dashboard.
	DashboardPath = RootPath + "dashboard"

	// LogoutPath ends the session.
	LogoutPath = RootPath + "logout"

	// CurrentUserKey is the fiber.Locals key holding the sanitized *models.User of the request.
	CurrentUserKey = "CurrentUser"

	// ErrNilADFatalLogMsg is used if app or dependencies var pointer is nil.
	ErrNilADFatalLogMsg = "app or dependencies are nil"
)
