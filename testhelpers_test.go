//go:build integration

package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/lendly/service-booking/internal/application"
	"github.com/lendly/service-booking/internal/pkg/database"
	"github.com/lendly/service-booking/internal/repository"
)

// bookingStack holds the wired-up services backed by a real database.
type bookingStack struct {
	DB       *gorm.DB
	Users    *application.UserService
	Items    *application.ItemService
	Bookings *application.BookingService
	Comments *application.CommentService
}

// setupPostgres starts a Postgres testcontainer and applies the SQL
// migrations, so integration tests run against the production schema
// including the approved-overlap exclusion constraint.
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	db, _ := setupPostgresWithURL(t)
	return db
}

// setupPostgresWithURL also returns the connection URL for tests that drive
// the migration runner directly.
func setupPostgresWithURL(t *testing.T) (*gorm.DB, string) {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("test_booking"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(url), &gorm.Config{})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	logger, _ := zap.NewDevelopment()
	require.NoError(t, database.RunMigrations(url, "migrations", logger), "failed to apply migrations")

	return db, url
}

// setupBookingStack wires the full service stack against the given database.
func setupBookingStack(db *gorm.DB) *bookingStack {
	logger := zap.NewNop()

	userRepo := repository.NewGormUserRepository(db)
	itemRepo := repository.NewGormItemRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	commentRepo := repository.NewGormCommentRepository(db)

	return &bookingStack{
		DB:       db,
		Users:    application.NewUserService(userRepo, logger),
		Items:    application.NewItemService(itemRepo, userRepo, bookingRepo, commentRepo, logger),
		Bookings: application.NewBookingService(bookingRepo, itemRepo, userRepo, logger),
		Comments: application.NewCommentService(commentRepo, bookingRepo, itemRepo, userRepo, logger),
	}
}

// createUser registers a user through the service layer.
func createUser(t *testing.T, stack *bookingStack, name, email string) uuid.UUID {
	t.Helper()
	dto, err := stack.Users.CreateUser(context.Background(), application.CreateUserRequest{
		Name: name, Email: email,
	})
	require.NoError(t, err)
	return dto.ID
}

// createItem lists an available item through the service layer.
func createItem(t *testing.T, stack *bookingStack, ownerID uuid.UUID, name string) uuid.UUID {
	t.Helper()
	available := true
	dto, err := stack.Items.CreateItem(context.Background(), ownerID, application.CreateItemRequest{
		Name: name, Description: name + " for rent", Available: &available,
	})
	require.NoError(t, err)
	return dto.ID
}

// seedBooking inserts a booking row directly, bypassing the service's
// future-window rule so tests can stage past and running bookings.
func seedBooking(t *testing.T, db *gorm.DB, itemID, bookerID uuid.UUID, status string, start, end time.Time) uuid.UUID {
	t.Helper()
	now := time.Now().UTC()
	model := repository.BookingModel{
		ID:        uuid.New(),
		ItemID:    itemID,
		BookerID:  bookerID,
		StartTime: start,
		EndTime:   end,
		Status:    status,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, db.Create(&model).Error, "failed to seed booking")
	return model.ID
}
