package model

// TeamRole is a member's role in a team
type TeamRole string

const (
	RoleOwner  TeamRole = "owner"
	RoleAdmin  TeamRole = "admin"
	RoleMember TeamRole = "member"
	RoleGuest  TeamRole = "guest"
)

// TeamMember is a person in a team
type TeamMember struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Role   TeamRole `json:"role"`
	Avatar string   `json:"avatar,omitempty"`
}

// TeamProject is a shared project tracked by a team
type TeamProject struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"` // active, completed
}

// Team is a collaboration space
type Team struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Members  []TeamMember  `json:"members"`
	Projects []TeamProject `json:"projects"`
}

// IntegrationType groups third-party integrations
type IntegrationType string

const (
	IntegrationCalendar      IntegrationType = "calendar"
	IntegrationCommunication IntegrationType = "communication"
	IntegrationStorage       IntegrationType = "storage"
	IntegrationProductivity  IntegrationType = "productivity"
)

// Integration is a connectable external service
type Integration struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Type      IntegrationType `json:"type"`
	Connected bool            `json:"is_connected"`
	Icon      string          `json:"icon"`
}

// Challenge is a community challenge the user can join
type Challenge struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Participants int    `json:"participants"`
	RewardXP     int    `json:"reward_xp"`
	Joined       bool   `json:"joined"`
}

// Clone returns a copy with its own member and project slices
func (t Team) Clone() Team {
	t.Members = append([]TeamMember{}, t.Members...)
	t.Projects = append([]TeamProject{}, t.Projects...)
	return t
}
