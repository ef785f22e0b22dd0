package member

import "time"

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// Member is a registered account created by redeeming an invite
type Member struct {
	ID           string
	Name         string
	Email        string
	Phone        *string
	PasswordHash string `json:"-"`
	Role         Role
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (m *Member) IsAdmin() bool {
	return m.Role == RoleAdmin
}

func (m *Member) IsActive() bool {
	return m.Status == StatusActive
}

func (m *Member) IsInactive() bool {
	return m.Status == StatusInactive
}

// ToResponse never includes the password hash
func (m *Member) ToResponse() MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Role:      string(m.Role),
		Status:    string(m.Status),
		CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: m.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
