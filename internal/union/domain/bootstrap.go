package domain

// BootstrapData describes the accounts and reference rows ensured at startup.
type BootstrapData struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
	Committees    []CommitteeSeed
}
