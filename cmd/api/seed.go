package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"shareit/internal/api"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

// seedFile is the optional fixture loaded at startup from SEED_PATH.
type seedFile struct {
	Users []seedUser `yaml:"users"`
	Items []seedItem `yaml:"items"`
}

type seedUser struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

type seedItem struct {
	OwnerEmail  string `yaml:"owner_email"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Available   bool   `yaml:"available"`
}

func seedFromEnv(ctx context.Context, services api.Services, users domain.UserRepository, logger *zerolog.Logger) error {
	seedPath := os.Getenv("SEED_PATH")
	if seedPath == "" {
		return nil
	}

	seed, err := loadSeed(seedPath)
	if err != nil {
		logger.Error().Err(err).Str("seed_path", seedPath).Msg("load seed")
		return err
	}

	createdUsers, createdItems, err := applySeed(ctx, seed, services, users)
	if err != nil {
		logger.Error().Err(err).Str("seed_path", seedPath).Msg("apply seed")
		return err
	}

	logger.Info().
		Str("seed_path", seedPath).
		Int("users", createdUsers).
		Int("items", createdItems).
		Msg("seed applied")
	return nil
}

func loadSeed(path string) (*seedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &seed, nil
}

// applySeed creates the users that do not exist yet and lists the items
// for owners created in this run, so a restart does not duplicate items.
func applySeed(ctx context.Context, seed *seedFile, services api.Services, users domain.UserRepository) (int, int, error) {
	fresh := make(map[string]int64)
	createdUsers := 0
	for _, u := range seed.Users {
		user, err := services.Users.CreateUser(ctx, models.UserInput{Name: u.Name, Email: u.Email})
		if errors.Is(err, domain.ErrDuplicateEmail) {
			continue
		}
		if err != nil {
			return createdUsers, 0, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		fresh[user.Email] = user.ID
		createdUsers++
	}

	createdItems := 0
	for _, it := range seed.Items {
		ownerID, ok := fresh[it.OwnerEmail]
		if !ok {
			if _, err := users.GetUserByEmail(ctx, it.OwnerEmail); err != nil {
				return createdUsers, createdItems, fmt.Errorf("seed item %s: %w", it.Name, err)
			}
			continue
		}

		available := it.Available
		_, err := services.Items.CreateItem(ctx, ownerID, models.ItemInput{
			Name:        it.Name,
			Description: it.Description,
			Available:   &available,
		})
		if err != nil {
			return createdUsers, createdItems, fmt.Errorf("seed item %s: %w", it.Name, err)
		}
		createdItems++
	}

	return createdUsers, createdItems, nil
}
