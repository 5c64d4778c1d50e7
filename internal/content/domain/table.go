package domain

// Table names a watched content table. The values double as the SQL table
// names and as the "table" field of change events.
type Table string

const (
	TableProjects     Table = "projects"
	TableServices     Table = "services"
	TableTestimonials Table = "testimonials"
	TableProcessSteps Table = "process_steps"
	TableVideos       Table = "videos"
	TableSiteContent  Table = "site_content"
	TableInquiries    Table = "inquiries"
)

// WatchedTables is the fixed set multiplexed on the change channel.
var WatchedTables = []Table{
	TableProjects,
	TableServices,
	TableTestimonials,
	TableProcessSteps,
	TableVideos,
	TableSiteContent,
	TableInquiries,
}

func (t Table) Valid() bool {
	for _, w := range WatchedTables {
		if w == t {
			return true
		}
	}
	return false
}

// EventType is the kind of row change.
type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

func (e EventType) Valid() bool {
	return e == EventInsert || e == EventUpdate || e == EventDelete
}
