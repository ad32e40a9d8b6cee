package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mall-admin-go/internal/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.Department{}, &model.User{}, &model.Role{}, &model.Permission{}))
	return db
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%abc%", containsPattern("abc"))
	assert.Equal(t, "%100!%%", containsPattern("100%"))
	assert.Equal(t, "%a!_b%", containsPattern("a_b"))
	assert.Equal(t, "%hi!!%", containsPattern("hi!"))
}

func TestTreeRepository_NameFilterIsLiteral(t *testing.T) {
	db := openTestDB(t)
	repo := NewTreeRepository[model.Department](db)
	ctx := context.Background()
	for i, name := range []string{"100%纯棉", "100元专区", "a_b", "axb", "惊喜!"} {
		d := &model.Department{TreeBase: model.TreeBase{ID: string(rune('a' + i)), Name: name, SortOrder: i, Status: model.StatusEnabled}}
		require.NoError(t, repo.Create(ctx, d))
	}

	names := func(filter string) []string {
		rows, err := repo.FindAll(ctx, model.TreeFilter{Name: filter})
		require.NoError(t, err)
		out := make([]string, 0, len(rows))
		for _, r := range rows {
			out = append(out, r.Name)
		}
		return out
	}

	assert.Equal(t, []string{"100%纯棉"}, names("%"))
	assert.Equal(t, []string{"a_b"}, names("_"))
	assert.Equal(t, []string{"a_b"}, names("a_b"))
	assert.Equal(t, []string{"惊喜!"}, names("!"))
	assert.Equal(t, []string{"100%纯棉", "100元专区"}, names("100"))
}

func TestUserRepository_UsernameFilterIsLiteral(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	for _, name := range []string{"john_doe", "johnxdoe"} {
		require.NoError(t, repo.Create(ctx, &model.User{Username: name, Password: "x", Status: model.StatusEnabled}))
	}

	users, total, err := repo.FindWithPagination(ctx, UserQuery{Username: "n_d", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, "john_doe", users[0].Username)
}
