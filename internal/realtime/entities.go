package realtime

// Subscribable collection names. Scope key semantics per entity:
// owner id for projects/tickets/notifications, project id for tasks,
// documents, messages and ratings. The admin-only users and settings
// streams use the fixed AdminScope.
const (
	EntityProjects      = "projects"
	EntityTasks         = "tasks"
	EntityTickets       = "tickets"
	EntityDocuments     = "documents"
	EntityMessages      = "messages"
	EntityRatings       = "ratings"
	EntityNotifications = "notifications"
	EntityUsers         = "users"
	EntitySettings      = "settings"

	// AdminScope is the scope key for collections that are not partitioned
	// per user or project.
	AdminScope = "all"
)
