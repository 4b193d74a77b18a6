package contextkeys

type contextKey string

const (
	ActorIDKey   contextKey = "ActorID"
	ActorNameKey contextKey = "ActorName"
	ActorRoleKey contextKey = "ActorRole"
)
