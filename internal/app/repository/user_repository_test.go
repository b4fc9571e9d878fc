package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tiendago/tienda-backend/internal/app/model"
	"github.com/tiendago/tienda-backend/internal/db"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) (*gorm.DB, UserRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	return testDB, NewUserRepository(testDB)
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}

	err := repo.Create(user)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, 0, user.Points)

	found, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", found.Email)
}

func TestUserRepository_FindByEmail(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{
		Email:        "find@example.com",
		PasswordHash: "hash",
		Name:         "Find Me",
	}
	require.NoError(t, repo.Create(user))

	found, err := repo.FindByEmail("find@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByEmail("missing@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_FindAll(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	for _, email := range []string{"a@example.com", "b@example.com"} {
		require.NoError(t, repo.Create(&model.User{
			Email:        email,
			PasswordHash: "hash",
			Name:         "User",
		}))
	}

	users, err := repo.FindAll()
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestUserRepository_Update(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{
		Email:        "update@example.com",
		PasswordHash: "hash",
		Name:         "Old Name",
	}
	require.NoError(t, repo.Create(user))

	user.Name = "New Name"
	user.Points = 150
	require.NoError(t, repo.Update(user))

	updated, _ := repo.FindByID(user.ID)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, 150, updated.Points)
}

func TestUserRepository_Delete(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{
		Email:        "delete@example.com",
		PasswordHash: "hash",
		Name:         "Doomed",
	}
	require.NoError(t, repo.Create(user))

	require.NoError(t, repo.Delete(user.ID))

	_, err := repo.FindByID(user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
