package domain

// Slot counts on the legacy users table: five ordered company keys (the
// first is the active company) and ten module keys.
const (
	MaxCompanySlots = 5
	MaxModuleSlots  = 10
)

// UserProfile is the identity snapshot read from the credential store at
// authentication time. It is immutable per authentication and never
// persisted by the session core itself.
type UserProfile struct {
	Username    string   `json:"username"`
	Permissions bool     `json:"permissions"`
	PowerUnit   string   `json:"powerUnit,omitempty"`
	Companies   []string `json:"companies"`
	Modules     []string `json:"modules"`
}

// ActiveCompany is the first company slot, or empty when the user has none.
func (p UserProfile) ActiveCompany() string {
	if len(p.Companies) == 0 {
		return ""
	}
	return p.Companies[0]
}

// Complete reports whether the profile can actually use the portal. A user
// without at least one company and one module has nowhere to land, so login
// and refresh are blocked outright.
func (p UserProfile) Complete() bool {
	return len(p.Companies) > 0 && len(p.Modules) > 0
}

// Credential is the full credential-store row, used only by provisioning
// and tests. The password is the legacy plaintext column; the portal
// compares it case-sensitively and never writes it.
type Credential struct {
	Username    string
	Password    string
	Permissions bool
	PowerUnit   string
	Companies   []string // up to MaxCompanySlots, ordered
	Modules     []string // up to MaxModuleSlots
}
