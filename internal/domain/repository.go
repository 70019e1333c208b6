package domain

// Repository represents a GitHub repository visible to the credential
type Repository struct {
	Org           string
	Name          string
	FullName      string
	DefaultBranch string
	IsPrivate     bool
}
