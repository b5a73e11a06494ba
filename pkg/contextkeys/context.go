package contextkeys

type contextKey string

// DBContextKey is the gin key of the *gorm.DB set by DBMiddleware.
const DBContextKey = contextKey("db")

// Gin context keys set by the auth middleware.
const (
	UserIDKey = "userID"
	EmailKey  = "email"
)
