package pages

import "github.com/atelier-interiors/cms-backend/internal/content/domain"

// Public page paths.
const (
	PathHome     = "/"
	PathProjects = "/projects"
	PathServices = "/services"
	PathAbout    = "/about"
	PathContact  = "/contact"
	PathVideos   = "/videos"

	projectPrefix = "/projects/"
)

// affected lists every public page that embeds rows of a table. Site content
// feeds the header and footer of every page.
var affected = map[domain.Table][]string{
	domain.TableProjects:     {PathHome, PathProjects, projectPrefix + "*"},
	domain.TableServices:     {PathHome, PathServices},
	domain.TableTestimonials: {PathHome, PathAbout, projectPrefix + "*"},
	domain.TableProcessSteps: {PathHome, PathServices},
	domain.TableVideos:       {PathHome, PathVideos},
	domain.TableSiteContent:  {"*"},
	domain.TableInquiries:    nil,
}

// PathsFor returns the cache patterns to drop after table changes.
func PathsFor(table domain.Table) []string {
	return append([]string(nil), affected[table]...)
}
