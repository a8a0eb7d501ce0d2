package constants

// Static route constants
const (
	PublicRoute     = "/"
	ProgramsRoute   = "/programs"
	ApprenticeRoute = "/apprentice"
	AdminRoute      = "/admin"
)
