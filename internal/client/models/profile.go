package models

// Profile is the slice of the user profile the data layer consumes: only the
// avatar path matters here, for signed-URL issuance.
type Profile struct {
	ID         string
	Username   string
	AvatarPath string
}
