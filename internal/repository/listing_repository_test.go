package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/voltride-motors/dealership-api/internal/models"
)

func newListingRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func listingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "make", "model", "year", "battery_capacity", "condition", "mileage", "price",
		"color", "description", "features", "images", "thumbnail_url", "status", "admin_notes",
		"reviewed_by", "reviewed_at", "created_at", "updated_at",
	})
}

func TestListingRepositoryCreateAndGet(t *testing.T) {
	db, mock, cleanup := newListingRepoMock(t)
	defer cleanup()

	repo := NewListingRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO vehicle_listings")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	listing := &models.VehicleListing{
		UserID:          "user-1",
		Make:            "Tata",
		Model:           "Nexon EV",
		Year:            2022,
		BatteryCapacity: "40.5 kWh",
		Condition:       models.ConditionGood,
		Mileage:         18000,
		Price:           1150000,
		Images:          pq.StringArray{"/static/listings/a.jpg"},
	}
	require.NoError(t, repo.Create(context.Background(), listing))
	require.NotEmpty(t, listing.ID)
	require.Equal(t, models.ListingStatusPending, listing.Status)

	rows := listingRows().AddRow(
		listing.ID, "user-1", "Tata", "Nexon EV", 2022, "40.5 kWh", "Good", 18000, 1150000.0,
		nil, nil, pq.StringArray{}, pq.StringArray{"/static/listings/a.jpg"}, nil, "pending", nil,
		nil, nil, time.Now(), time.Now(),
	)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, make, model")).
		WithArgs(listing.ID).
		WillReturnRows(rows)

	found, err := repo.GetByID(context.Background(), listing.ID)
	require.NoError(t, err)
	require.Equal(t, "Nexon EV", found.Model)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListingRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newListingRepoMock(t)
	defer cleanup()

	repo := NewListingRepository(db)
	rows := listingRows().AddRow(
		"listing-1", "user-1", "MG", "ZS EV", 2023, "50.3 kWh", "Excellent", 5000, 1850000.0,
		nil, nil, pq.StringArray{}, pq.StringArray{}, nil, "pending", nil,
		nil, nil, time.Now(), time.Now(),
	)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, make, model")).
		WithArgs("pending", "user-1").
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), models.ListingFilter{
		Status: []models.ListingStatus{models.ListingStatusPending},
		UserID: "user-1",
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "listing-1", list[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListingRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newListingRepoMock(t)
	defer cleanup()

	repo := NewListingRepository(db)
	now := time.Now()
	notes := "mileage does not match the photos"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE vehicle_listings SET")).WillReturnResult(sqlmock.NewResult(0, 1))
	err := repo.UpdateStatus(context.Background(), UpdateReviewParams{
		ID:         "listing-1",
		Status:     models.ListingStatusRejected,
		ReviewedBy: "admin-1",
		ReviewedAt: now,
		AdminNotes: &notes,
	})
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE vehicle_listings SET")).WillReturnResult(sqlmock.NewResult(0, 0))
	err = repo.UpdateStatus(context.Background(), UpdateReviewParams{
		ID:         "listing-1",
		Status:     models.ListingStatusApproved,
		ReviewedBy: "admin-1",
		ReviewedAt: now,
	})
	require.True(t, errors.Is(err, sql.ErrNoRows))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListingRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newListingRepoMock(t)
	defer cleanup()

	repo := NewListingRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM vehicle_listings")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	require.True(t, errors.Is(err, sql.ErrNoRows))
	require.NoError(t, mock.ExpectationsWereMet())
}
