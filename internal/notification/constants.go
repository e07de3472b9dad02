package notification

// Tên notification theo resource - Lock protocol
const (
	NameEventsLock        = "events:lock"
	NameEventsUnlock      = "events:unlock"
	NamePlanningLock      = "planning:lock"
	NamePlanningUnlock    = "planning:unlock"
	NameAssignmentsLock   = "assignments:lock"
	NameAssignmentsUnlock = "assignments:unlock"
)

// Tên notification theo resource - Vòng đời Event
const (
	NameEventsCreated           = "events:created"
	NameEventsUpdated           = "events:updated"
	NameEventsSpiked            = "events:spiked"
	NameEventsUnspiked          = "events:unspiked"
	NameEventsCancelled         = "events:cancelled"
	NameEventsPostponed         = "events:postponed"
	NameEventsRescheduled       = "events:rescheduled"
	NameEventsUpdateRepetitions = "events:update_repetitions"
)

// Tên notification theo resource - Vòng đời Planning
const (
	NamePlanningCreated   = "planning:created"
	NamePlanningUpdated   = "planning:updated"
	NamePlanningSpiked    = "planning:spiked"
	NamePlanningUnspiked  = "planning:unspiked"
	NamePlanningCancelled = "planning:cancelled"
)

// Tên notification theo resource - Vòng đời Assignment
const (
	NameAssignmentsAdded     = "assignments:added"
	NameAssignmentsUpdated   = "assignments:updated"
	NameAssignmentsCompleted = "assignments:completed"
	NameAssignmentsReverted  = "assignments:reverted"
	NameAssignmentsRemoved   = "assignments:removed"
	NameAssignmentsCancelled = "assignments:cancelled"
)

// Tên notification - Ingest
const (
	NameIngestReceived = "ingest:received"
)

// LockNameFor trả về tên notification lock/unlock theo tên collection.
func LockNameFor(collectionName string, locked bool) string {
	suffix := ":unlock"
	if locked {
		suffix = ":lock"
	}
	return collectionName + suffix
}
