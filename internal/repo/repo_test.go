package repo

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Skotchmaster/geotag_api/internal/models"
)

func InitTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}))
	return db
}

func newMockRepo(t *testing.T) (*GormRepo, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return &GormRepo{DB: db}, mock
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	tm, err := time.Parse("2006-01-02 15:04:05", s)
	require.NoError(t, err)
	return tm
}

func seedProducts(t *testing.T, r *GormRepo, n int) []models.Product {
	t.Helper()
	out := make([]models.Product, 0, n)
	for i := 0; i < n; i++ {
		p := models.Product{
			DateTime:    mustTime(t, "2018-11-14 10:00:00").Add(time.Duration(i) * time.Hour),
			Description: fmt.Sprintf("product %d", i),
			Latitude:    52.1 + float64(i),
			Longitude:   4.3,
			Elevation:   i,
		}
		require.NoError(t, r.CreateProduct(context.Background(), &p))
		out = append(out, p)
	}
	return out
}

func TestProduct_CreateGet(t *testing.T) {
	r := &GormRepo{DB: InitTestDB(t)}
	ctx := context.Background()

	p := seedProducts(t, r, 1)[0]
	require.NotZero(t, p.ID)

	got, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Description, got.Description)
	assert.True(t, p.DateTime.Equal(got.DateTime))
	assert.Equal(t, p.Latitude, got.Latitude)
	assert.Equal(t, p.Longitude, got.Longitude)
	assert.Equal(t, p.Elevation, got.Elevation)

	_, err = r.GetProduct(ctx, p.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProduct_ListPaginates(t *testing.T) {
	r := &GormRepo{DB: InitTestDB(t)}
	ctx := context.Background()
	seedProducts(t, r, 7)

	sizes := []int{3, 3, 1}
	for i, want := range sizes {
		page, err := r.ListProducts(ctx, nil, i+1, 3)
		require.NoError(t, err)
		assert.Len(t, page.Items, want)
		assert.EqualValues(t, 7, page.Total)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, i+1, page.Page)
		assert.Equal(t, 3, page.PerPage)
	}

	page, err := r.ListProducts(ctx, nil, 4, 3)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestProduct_ListFilter(t *testing.T) {
	r := &GormRepo{DB: InitTestDB(t)}
	ctx := context.Background()
	seeded := seedProducts(t, r, 3)

	filter := &models.ProductFilter{DateTime: seeded[1].DateTime, Description: seeded[1].Description}
	page, err := r.ListProducts(ctx, filter, 1, 5)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, seeded[1].ID, page.Items[0].ID)

	filter.Description = "nope"
	page, err = r.ListProducts(ctx, filter, 1, 5)
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestProduct_UpdatePartial(t *testing.T) {
	r := &GormRepo{DB: InitTestDB(t)}
	ctx := context.Background()
	p := seedProducts(t, r, 1)[0]

	newTime := mustTime(t, "2020-01-02 03:04:05")
	desc := "moved"
	require.NoError(t, r.UpdateProduct(ctx, p.ID, models.ProductPatch{DateTime: &newTime, Description: &desc}))

	got, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, newTime.Equal(got.DateTime))
	assert.Equal(t, "moved", got.Description)
	assert.Equal(t, p.Latitude, got.Latitude)
	assert.Equal(t, p.Elevation, got.Elevation)

	err = r.UpdateProduct(ctx, p.ID+100, models.ProductPatch{DateTime: &newTime})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProduct_DeleteTwice(t *testing.T) {
	r := &GormRepo{DB: InitTestDB(t)}
	ctx := context.Background()
	p := seedProducts(t, r, 1)[0]

	require.NoError(t, r.DeleteProduct(ctx, p.ID))
	assert.ErrorIs(t, r.DeleteProduct(ctx, p.ID), ErrNotFound)
}

func TestUser_CreateAndLookup(t *testing.T) {
	r := &GormRepo{DB: InitTestDB(t)}
	ctx := context.Background()

	u := models.User{Username: "alice", Email: "alice@example.com", Password: "hash", APIKey: "key-1"}
	require.NoError(t, r.CreateUser(ctx, &u))
	require.NotZero(t, u.ID)

	byEmail, err := r.UserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byKey, err := r.UserByAPIKey(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byKey.ID)

	_, err = r.UserByAPIKey(ctx, "key-2")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.UserByEmail(ctx, "bob@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUser_CreateConflicts_SQLite(t *testing.T) {
	r := &GormRepo{DB: InitTestDB(t)}
	ctx := context.Background()

	require.NoError(t, r.CreateUser(ctx, &models.User{Username: "alice", Email: "alice@example.com", Password: "h", APIKey: "k1"}))

	err := r.CreateUser(ctx, &models.User{Username: "alice2", Email: "alice@example.com", Password: "h", APIKey: "k2"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	err = r.CreateUser(ctx, &models.User{Username: "alice", Email: "other@example.com", Password: "h", APIKey: "k3"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUser_CreateConflict_Postgres(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"pgx email", &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}, ErrEmailTaken},
		{"pgx username", &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_username"}, ErrUsernameTaken},
		{"pgx other", &pgconn.PgError{Code: "23505", ConstraintName: "users_pkey"}, ErrDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, mock := newMockRepo(t)
			mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).WillReturnError(tt.err)

			err := r.CreateUser(context.Background(), &models.User{Username: "alice", Email: "a@b.c", Password: "h", APIKey: "k"})
			assert.ErrorIs(t, err, tt.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUser_CreateFault_NotAConflict(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).WillReturnError(&pgconn.PgError{Code: "08006"})

	err := r.CreateUser(context.Background(), &models.User{Username: "alice", Email: "a@b.c", Password: "h", APIKey: "k"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailTaken)
	assert.NotErrorIs(t, err, ErrUsernameTaken)
	assert.NotErrorIs(t, err, ErrDuplicate)
}

func TestProduct_DeleteMissing_Postgres(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "products"`)).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, r.DeleteProduct(context.Background(), 9), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMapUserConflict_LibPQ(t *testing.T) {
	err := mapUserConflict(&pq.Error{Code: "23505", Constraint: "idx_users_email"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	err = mapUserConflict(&pq.Error{Code: "23505", Constraint: "idx_users_username"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	plain := fmt.Errorf("connection reset")
	assert.Equal(t, plain, mapUserConflict(plain))
}
