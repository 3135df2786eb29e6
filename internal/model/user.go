package model

// Theme is the colour scheme preference
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Persona changes which screens are surfaced and the tone of AI prompts
type Persona string

const (
	PersonaGeneral Persona = "general"
	PersonaStudent Persona = "student"
	PersonaCreator Persona = "creator"
	PersonaHustler Persona = "hustler"
	PersonaCalm    Persona = "calm"
)

// CoachingStyle selects the system instruction used for brain dump triage
type CoachingStyle string

const (
	CoachSupportive CoachingStyle = "supportive"
	CoachStrict     CoachingStyle = "strict"
	CoachAnalytical CoachingStyle = "analytical"
	CoachZen        CoachingStyle = "zen"
)

// SubscriptionTier is the plan the user is on
type SubscriptionTier string

const (
	TierFree       SubscriptionTier = "free"
	TierPro        SubscriptionTier = "pro"
	TierElite      SubscriptionTier = "elite"
	TierEnterprise SubscriptionTier = "enterprise"
)

// Preferences holds user settings
type Preferences struct {
	Theme         Theme         `json:"theme"`
	Name          string        `json:"name"`
	FocusDuration int           `json:"focus_duration"` // Minutes
	Persona       Persona       `json:"persona"`
	CoachingStyle CoachingStyle `json:"coaching_style"`
}

// PreferencesPatch is a partial update; nil fields are left alone
type PreferencesPatch struct {
	Theme         *Theme
	Name          *string
	FocusDuration *int
	Persona       *Persona
	CoachingStyle *CoachingStyle
}

// Stats holds the gamification counters
type Stats struct {
	XP               int              `json:"xp"`
	Level            int              `json:"level"`
	TasksCompleted   int              `json:"tasks_completed"`
	FocusMinutes     int              `json:"focus_minutes"`
	Badges           []string         `json:"badges"`
	SubscriptionTier SubscriptionTier `json:"subscription_tier"`
	Referrals        int              `json:"referrals"`
	SocialScore      int              `json:"social_score"`
}

// IsPremium reports whether the user is on any paid tier
func (s *Stats) IsPremium() bool {
	return s.SubscriptionTier != "" && s.SubscriptionTier != TierFree
}

// User is the signed-in identity. Nothing about it is verified.
type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}
