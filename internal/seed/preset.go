package seed

import (
	"fmt"
	"os"
	"strings"

	"framez/internal/models"

	"gopkg.in/yaml.v3"
)

// Preset describes a named seeding scenario. Presets can come from the
// built-in table or a YAML file.
type Preset struct {
	Name        string       `yaml:"name"`
	Users       int          `yaml:"users"`
	Posts       int          `yaml:"posts"`
	MaxLikes    int          `yaml:"max_likes"`
	MaxComments int          `yaml:"max_comments"`
	Accounts    []AccountDef `yaml:"accounts"`
}

// AccountDef pins a known login into the seeded data so developers can
// sign in without hunting through generated emails.
type AccountDef struct {
	Email       string `yaml:"email"`
	DisplayName string `yaml:"display_name"`
}

// BuiltInPresets are the seeding scenarios available without a YAML file.
var BuiltInPresets = []Preset{
	{Name: "Minimal", Users: 3, Posts: 6, MaxLikes: 2, MaxComments: 1},
	{Name: "Standard", Users: 25, Posts: 120, MaxLikes: 8, MaxComments: 4},
	{Name: "MegaPopulated", Users: 200, Posts: 2000, MaxLikes: 30, MaxComments: 12},
}

// LoadPresetFile parses a YAML preset definition.
func LoadPresetFile(path string) (*Preset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset file: %w", err)
	}
	var p Preset
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse preset file: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Preset) validate() error {
	if p.Users <= 0 {
		return fmt.Errorf("preset %q: users must be positive", p.Name)
	}
	if p.Posts < 0 || p.MaxLikes < 0 || p.MaxComments < 0 {
		return fmt.Errorf("preset %q: counts must not be negative", p.Name)
	}
	return nil
}

// FindPreset looks up a built-in preset by name, case insensitive.
func FindPreset(name string) (*Preset, bool) {
	for i := range BuiltInPresets {
		if strings.EqualFold(BuiltInPresets[i].Name, name) {
			return &BuiltInPresets[i], true
		}
	}
	return nil, false
}

// ApplyPreset runs a full seeding pass described by the preset. Pinned
// accounts are created first, then join the generated population so
// they author posts and engagement like everyone else.
func (s *Seeder) ApplyPreset(p *Preset) error {
	if err := p.validate(); err != nil {
		return err
	}

	pinned := make([]*models.User, 0, len(p.Accounts))
	for _, acct := range p.Accounts {
		user, err := s.factory.CreateUser(func(u *models.User) {
			u.Email = strings.ToLower(acct.Email)
			if acct.DisplayName != "" {
				u.DisplayName = acct.DisplayName
			}
		})
		if err != nil {
			return fmt.Errorf("pinned account %s: %w", acct.Email, err)
		}
		pinned = append(pinned, user)
	}

	generated := p.Users - len(pinned)
	if generated < 0 {
		generated = 0
	}
	users, err := s.SeedUsers(generated)
	if err != nil {
		return err
	}
	users = append(users, pinned...)

	posts, err := s.SeedPosts(users, p.Posts)
	if err != nil {
		return err
	}
	return s.SeedEngagement(users, posts, p.MaxLikes, p.MaxComments)
}
