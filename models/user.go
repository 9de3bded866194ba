package models

// The two account holders. There is no user table; the pair is fixed in
// application logic and referenced by name from transactions and quotes,
// and by short code from todos.
const (
	UserNuone = "Nuone"
	UserKate  = "Kate"

	CodeNuone = "N"
	CodeKate  = "K"
)

// Users lists both account holders in display order.
func Users() []string {
	return []string{UserNuone, UserKate}
}

// ValidUser reports whether u names one of the two account holders.
func ValidUser(u string) bool {
	return u == UserNuone || u == UserKate
}

// ValidUserCode reports whether c is one of the todo short codes.
func ValidUserCode(c string) bool {
	return c == CodeNuone || c == CodeKate
}
