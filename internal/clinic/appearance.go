package clinic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Appearance holds the clinic's public calendar page styling.
type Appearance struct {
	OrgID             string `json:"org_id"`
	ThemeColor        string `json:"theme_color"`
	AccentColor       string `json:"accent_color"`
	LogoURL           string `json:"logo_url,omitempty"`
	HeroTitle         string `json:"hero_title,omitempty"`
	HeroSubtitle      string `json:"hero_subtitle,omitempty"`
	ShowPractitioners bool   `json:"show_practitioners"`
}

// DefaultAppearance returns the neutral styling used before a clinic
// customizes its page.
func DefaultAppearance(orgID string) *Appearance {
	return &Appearance{
		OrgID:             orgID,
		ThemeColor:        "#0f172a",
		AccentColor:       "#38bdf8",
		ShowPractitioners: true,
	}
}

func (s *Store) appearanceKey(orgID string) string {
	return fmt.Sprintf("clinic:appearance:%s", orgID)
}

// GetAppearance retrieves appearance settings, returning defaults if
// not found.
func (s *Store) GetAppearance(ctx context.Context, orgID string) (*Appearance, error) {
	data, err := s.redis.Get(ctx, s.appearanceKey(orgID)).Bytes()
	if err == redis.Nil {
		return DefaultAppearance(orgID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("clinic: get appearance: %w", err)
	}

	var a Appearance
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("clinic: unmarshal appearance: %w", err)
	}

	return &a, nil
}

// SetAppearance saves appearance settings.
func (s *Store) SetAppearance(ctx context.Context, a *Appearance) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("clinic: marshal appearance: %w", err)
	}

	if err := s.redis.Set(ctx, s.appearanceKey(a.OrgID), data, 0).Err(); err != nil {
		return fmt.Errorf("clinic: set appearance: %w", err)
	}

	return nil
}
