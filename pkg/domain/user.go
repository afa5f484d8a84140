package domain

// Role is the platform role of an account. It decides which navigation bar
// is shown and which screens the account may open.
type Role string

const (
	RoleUser   Role = "USER"
	RoleSeller Role = "SELLER"
	RoleAdmin  Role = "ADMIN"
)

// Roles lists every known role.
var Roles = []Role{RoleUser, RoleSeller, RoleAdmin}

// Valid returns true if r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// AccountStatus is the approval state of a seller account.
type AccountStatus string

const (
	StatusApproved AccountStatus = "APPROVED"
	StatusPending  AccountStatus = "PENDING"
	StatusRejected AccountStatus = "REJECTED"
)

// Valid returns true if s is a known account status.
func (s AccountStatus) Valid() bool {
	switch s {
	case StatusApproved, StatusPending, StatusRejected:
		return true
	}
	return false
}

// User is the authenticated principal as the client sees it.
type User struct {
	ID                  int64         `json:"id"`
	Name                string        `json:"name"`
	Email               string        `json:"email"`
	Role                Role          `json:"role"`
	AccountStatus       AccountStatus `json:"accountStatus,omitempty"`
	ApprovalRequested   bool          `json:"approvalRequested"`
	RejectionCount      int           `json:"rejectionCount"`
	LastRejectionReason string        `json:"lastRejectionReason,omitempty"`
}

// Normalize fills the optional fields older records and partial payloads
// leave out. Only a missing status is defaulted; an unknown one is kept so
// the approval gate still treats it as not approved.
func (u User) Normalize() User {
	if u.AccountStatus == "" {
		u.AccountStatus = StatusApproved
	}
	if u.RejectionCount < 0 {
		u.RejectionCount = 0
	}
	return u
}

// Approved reports whether the account may use seller-only screens.
// Non-sellers are always approved.
func (u User) Approved() bool {
	return u.Role != RoleSeller || u.AccountStatus == StatusApproved
}

// CanRequestApproval is true for a rejected seller with no request pending.
func (u User) CanRequestApproval() bool {
	return u.Role == RoleSeller && u.AccountStatus == StatusRejected && !u.ApprovalRequested
}

// UserDetails is the admin view of an account.
type UserDetails struct {
	User           User    `json:"user"`
	OrderCount     int64   `json:"orderCount"`
	TotalSpend     float64 `json:"totalSpend"`
	ProductCount   int64   `json:"productCount"`
	RejectionCount int     `json:"rejectionCount"`
}

// UserPatch is a partial update to a User. Nil fields are left alone.
// There is no Role or ID field: neither can change from the client side.
type UserPatch struct {
	Name                *string
	Email               *string
	AccountStatus       *AccountStatus
	ApprovalRequested   *bool
	RejectionCount      *int
	LastRejectionReason *string
}

// Apply returns u with every non-nil field of p copied over, normalized.
func (u User) Apply(p UserPatch) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.AccountStatus != nil {
		u.AccountStatus = *p.AccountStatus
	}
	if p.ApprovalRequested != nil {
		u.ApprovalRequested = *p.ApprovalRequested
	}
	if p.RejectionCount != nil {
		u.RejectionCount = *p.RejectionCount
	}
	if p.LastRejectionReason != nil {
		u.LastRejectionReason = *p.LastRejectionReason
	}
	return u.Normalize()
}

// PatchFrom builds a patch carrying every mutable field of u. Used to fold a
// server profile into the local copy.
func PatchFrom(u User) UserPatch {
	return UserPatch{
		Name:                &u.Name,
		Email:               &u.Email,
		AccountStatus:       &u.AccountStatus,
		ApprovalRequested:   &u.ApprovalRequested,
		RejectionCount:      &u.RejectionCount,
		LastRejectionReason: &u.LastRejectionReason,
	}
}
