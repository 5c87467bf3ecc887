package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/utils"
)

type seedUsers struct {
	repositories.UserRepository
	byName map[string]*models.User
}

func (s *seedUsers) GetByUsername(_ context.Context, name string) (*models.User, error) {
	return s.byName[strings.ToLower(name)], nil
}

func (s *seedUsers) Create(_ context.Context, u *models.User) error {
	s.byName[strings.ToLower(u.Username)] = u
	return nil
}

type seedCategories struct {
	repositories.ForumCategoryRepository
	byName map[string]*models.ForumCategory
}

func (s *seedCategories) GetByName(_ context.Context, name string) (*models.ForumCategory, error) {
	return s.byName[strings.ToLower(name)], nil
}

func (s *seedCategories) Create(_ context.Context, c *models.ForumCategory) error {
	s.byName[strings.ToLower(c.Name)] = c
	return nil
}

func TestParseSeed(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		data, err := LoadSeed("")
		require.NoError(t, err)
		require.NotNil(t, data.Admin)
		assert.Equal(t, "admin", data.Admin.Username)
		assert.NotEmpty(t, data.ForumCategories)
	})

	t.Run("admin without password", func(t *testing.T) {
		_, err := ParseSeed([]byte("admin:\n  username: root\n"))
		assert.Error(t, err)
	})

	t.Run("category without name", func(t *testing.T) {
		_, err := ParseSeed([]byte("forum_categories:\n  - color: \"#fff\"\n"))
		assert.ErrorContains(t, err, "has no name")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := ParseSeed([]byte("admin: [unterminated"))
		assert.Error(t, err)
	})
}

func TestSeed(t *testing.T) {
	users := &seedUsers{byName: map[string]*models.User{}}
	cats := &seedCategories{byName: map[string]*models.ForumCategory{}}
	data, err := ParseSeed([]byte(`
admin:
  username: chairman
  email: chair@example.com
  password: "Str0ng!pass"
forum_categories:
  - name: General
  - name: Events
    color: "#10b981"
`))
	require.NoError(t, err)

	require.NoError(t, Seed(context.Background(), data, users, cats))

	admin := users.byName["chairman"]
	require.NotNil(t, admin)
	assert.True(t, admin.IsAdmin)
	assert.True(t, admin.IsActive)
	assert.True(t, admin.ForcePasswordChange)
	assert.True(t, utils.CheckPasswordHash("Str0ng!pass", admin.PasswordHash))
	assert.Len(t, cats.byName, 2)

	firstID := admin.ID
	admin.Email = "changed@example.com"

	// Reseeding leaves existing rows alone.
	require.NoError(t, Seed(context.Background(), data, users, cats))
	assert.Equal(t, firstID, users.byName["chairman"].ID)
	assert.Equal(t, "changed@example.com", users.byName["chairman"].Email)
	assert.Len(t, cats.byName, 2)
}
