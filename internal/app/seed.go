package app

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"gopkg.in/yaml.v3"

	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/utils"
)

//go:embed seed_defaults.yaml
var defaultSeed []byte

// seedNamespace derives stable ids for seeded rows so that reseeding a
// fresh database yields the same ids.
var seedNamespace = uuid.MustParse("6f1f4a52-7c1e-4d0e-9a55-3c1c0b7e5a10")

type SeedAdmin struct {
	Username  string `yaml:"username"`
	Email     string `yaml:"email"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Password  string `yaml:"password"`
}

type SeedCategory struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Color       string `yaml:"color"`
}

type SeedData struct {
	Admin           *SeedAdmin     `yaml:"admin"`
	ForumCategories []SeedCategory `yaml:"forum_categories"`
}

func ParseSeed(raw []byte) (*SeedData, error) {
	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	if data.Admin != nil && (data.Admin.Username == "" || data.Admin.Password == "") {
		return nil, errors.New("seed admin needs a username and password")
	}
	for i, c := range data.ForumCategories {
		if c.Name == "" {
			return nil, fmt.Errorf("seed forum category %d has no name", i)
		}
	}
	return &data, nil
}

// LoadSeed reads path, or the built-in defaults when path is empty.
func LoadSeed(path string) (*SeedData, error) {
	if path == "" {
		return ParseSeed(defaultSeed)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(raw)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Seed inserts the administrator and forum categories that are missing.
// Existing rows are left untouched.
func Seed(
	ctx context.Context,
	data *SeedData,
	userRepo repositories.UserRepository,
	categoryRepo repositories.ForumCategoryRepository,
) error {
	if data.Admin != nil {
		if err := seedAdmin(ctx, data.Admin, userRepo); err != nil {
			return err
		}
	}
	for _, c := range data.ForumCategories {
		if err := seedCategory(ctx, c, categoryRepo); err != nil {
			return err
		}
	}
	return nil
}

func seedAdmin(ctx context.Context, a *SeedAdmin, userRepo repositories.UserRepository) error {
	existing, err := userRepo.GetByUsername(ctx, a.Username)
	if err != nil {
		return fmt.Errorf("look up seed admin: %w", err)
	}
	if existing != nil {
		utils.Logger.Infof("Seed admin %q already present (id=%s); skipping.", a.Username, existing.ID)
		return nil
	}

	hash, err := utils.HashPassword(a.Password)
	if err != nil {
		return fmt.Errorf("hash seed admin password: %w", err)
	}
	u := &models.User{
		ID:                  uuid.NewSHA1(seedNamespace, []byte("user:"+a.Username)),
		Username:            a.Username,
		Email:               a.Email,
		FirstName:           a.FirstName,
		LastName:            a.LastName,
		PasswordHash:        hash,
		IsActive:            true,
		IsAdmin:             true,
		ForcePasswordChange: true,
	}
	if err := userRepo.Create(ctx, u); err != nil {
		if isUniqueViolation(err) {
			utils.Logger.Infof("Seed admin %q already present; skipping.", a.Username)
			return nil
		}
		return fmt.Errorf("insert seed admin: %w", err)
	}
	utils.Logger.Infof("Created seed admin %q id=%s", u.Username, u.ID)
	return nil
}

func seedCategory(ctx context.Context, c SeedCategory, categoryRepo repositories.ForumCategoryRepository) error {
	existing, err := categoryRepo.GetByName(ctx, c.Name)
	if err != nil {
		return fmt.Errorf("look up forum category %q: %w", c.Name, err)
	}
	if existing != nil {
		return nil
	}
	cat := &models.ForumCategory{
		ID:          uuid.NewSHA1(seedNamespace, []byte("category:"+c.Name)),
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		IsActive:    true,
	}
	if err := categoryRepo.Create(ctx, cat); err != nil && !isUniqueViolation(err) {
		return fmt.Errorf("insert forum category %q: %w", c.Name, err)
	}
	utils.Logger.Infof("Seeded forum category %q", c.Name)
	return nil
}
