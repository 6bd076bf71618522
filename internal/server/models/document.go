// Package models defines the shapes persisted in the shared document.
package models

// Document is the whole persisted state: a mapping from username to the
// user's record. The username is the natural key and the display identity;
// it is immutable once registered.
type Document map[string]*UserRecord

// UserRecord holds everything owned by one user. A record is created on
// registration and never deleted.
type UserRecord struct {
	// PasswordHash is the encoded one-way hash of the user's password,
	// never the plaintext.
	PasswordHash string `json:"password_hash"`

	// Projects maps project ID to project. IDs are server-generated and
	// never reused, even after deletion.
	Projects map[string]*Project `json:"projects"`

	Profile Profile `json:"profile"`
}

// NewUserRecord returns a record with empty projects and profile.
func NewUserRecord(passwordHash string) *UserRecord {
	return &UserRecord{
		PasswordHash: passwordHash,
		Projects:     make(map[string]*Project),
	}
}

// Project is a named bundle of three text blobs plus a visibility flag,
// nested under exactly one owning user.
type Project struct {
	Name   string `json:"name"`
	HTML   string `json:"html"`
	CSS    string `json:"css"`
	JS     string `json:"js"`
	Public bool   `json:"public"`
}

// Profile holds the user's public-facing fields. All fields default to
// empty; absence is not an error.
type Profile struct {
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
	AboutMe     string `json:"about_me"`

	// AvatarRef is a URL or embedded-image reference.
	AvatarRef string `json:"avatar_ref"`

	// GithubHandle optionally links an external account used for
	// best-effort profile stats.
	GithubHandle string `json:"github_handle"`
}
