package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"boardhub/internal/domain"
	"boardhub/internal/service/security"
)

// seedFile is the YAML schema for bootstrap data.
type seedFile struct {
	Users []struct {
		Name     string `yaml:"name"`
		Password string `yaml:"password"`
		Admin    bool   `yaml:"admin"`
	} `yaml:"users"`
	Groups []struct {
		Name        string   `yaml:"name"`
		Description string   `yaml:"description"`
		Members     []string `yaml:"members"` // user names
	} `yaml:"groups"`
}

// Seed loads bootstrap users and groups from a YAML file. Idempotent:
// entries that already exist by name are left untouched, so the file can
// stay in place across restarts.
func Seed(ctx context.Context, path string, hasher *security.PasswordHasher, users domain.UserRepository, groups domain.GroupRepository) error {
	raw, err := os.ReadFile(path) //nolint:gosec // path comes from config
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var sf seedFile
	if err := yaml.Unmarshal(raw, &sf); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	byName := make(map[string]string, len(sf.Users)) // user name -> id

	for _, u := range sf.Users {
		existing, err := users.GetByName(ctx, u.Name)
		if err == nil {
			byName[u.Name] = existing.ID
			continue
		}
		if !errors.As(err, new(*domain.NotFoundError)) {
			return fmt.Errorf("lookup user %s: %w", u.Name, err)
		}

		hash, err := hasher.Hash(u.Password)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", u.Name, err)
		}
		user := &domain.User{
			ID:           domain.NewID(),
			Name:         u.Name,
			PasswordHash: hash,
			IsAdmin:      u.Admin,
			CreatedAt:    time.Now().UTC(),
		}
		if err := users.Create(ctx, user); err != nil {
			return fmt.Errorf("create user %s: %w", u.Name, err)
		}
		byName[u.Name] = user.ID
	}

	for _, g := range sf.Groups {
		group, err := groups.GetByName(ctx, g.Name)
		if err != nil {
			if !errors.As(err, new(*domain.NotFoundError)) {
				return fmt.Errorf("lookup group %s: %w", g.Name, err)
			}
			group = &domain.Group{
				ID:          domain.NewID(),
				Name:        g.Name,
				Description: g.Description,
				CreatedAt:   time.Now().UTC(),
			}
			if err := groups.Create(ctx, group); err != nil {
				return fmt.Errorf("create group %s: %w", g.Name, err)
			}
		}

		for _, memberName := range g.Members {
			userID, ok := byName[memberName]
			if !ok {
				u, err := users.GetByName(ctx, memberName)
				if err != nil {
					return fmt.Errorf("group %s member %s: %w", g.Name, memberName, err)
				}
				userID = u.ID
			}
			isMember, err := groups.IsMember(ctx, group.ID, userID)
			if err != nil {
				return fmt.Errorf("check membership %s/%s: %w", g.Name, memberName, err)
			}
			if isMember {
				continue
			}
			if err := groups.AddMember(ctx, &domain.GroupMember{GroupID: group.ID, UserID: userID}); err != nil {
				return fmt.Errorf("add %s to %s: %w", memberName, g.Name, err)
			}
		}
	}

	return nil
}
