package domain

// Role is the authorization level of whoever invokes a core operation.
type Role string

const (
	RoleGolfer Role = "golfer"
	RoleAdmin  Role = "admin"
)

// Caller identifies who is performing an operation. The HTTP layer resolves it;
// the core never looks up sessions itself.
type Caller struct {
	Role     Role   `json:"role"`
	GolferID string `json:"golferId,omitempty"`
}

// Admin returns an administrator caller.
func Admin(id string) Caller {
	return Caller{Role: RoleAdmin, GolferID: id}
}

// Golfer returns a non-admin caller acting as the given golfer.
func Golfer(id string) Caller {
	return Caller{Role: RoleGolfer, GolferID: id}
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// Actor returns a printable identity for audit fields.
func (c Caller) Actor() string {
	if c.GolferID != "" {
		return c.GolferID
	}
	return string(c.Role)
}

// RequireAdmin returns a ForbiddenError unless the caller is an administrator.
func RequireAdmin(c Caller) error {
	if !c.IsAdmin() {
		return &ForbiddenError{Reason: "administrator role required"}
	}
	return nil
}
