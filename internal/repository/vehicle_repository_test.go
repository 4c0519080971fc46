package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/voltride-motors/dealership-api/internal/models"
)

func vehicleRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "make", "model", "year", "battery_capacity", "condition", "mileage", "price",
		"color", "description", "features", "images", "image_url", "available", "is_featured",
		"created_at", "updated_at",
	})
}

func TestVehicleRepositoryListBuildsFilter(t *testing.T) {
	db, mock, cleanup := newListingRepoMock(t)
	defer cleanup()

	repo := NewVehicleRepository(db)
	available := true
	featured := true
	rows := vehicleRows().AddRow(
		"veh-1", "MG", "ZS EV", 2023, "50.3 kWh", "Excellent", 5000, 1850000.0,
		nil, nil, pq.StringArray{}, pq.StringArray{}, nil, true, true,
		time.Now(), time.Now(),
	)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, make, model")).
		WithArgs("Excellent", true, true).
		WillReturnRows(rows)

	vehicles, err := repo.List(context.Background(), models.VehicleFilter{
		Condition:  "Excellent",
		Available:  &available,
		IsFeatured: &featured,
	})
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	require.Equal(t, "ZS EV", vehicles[0].Model)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleRepositoryUpdateMissing(t *testing.T) {
	db, mock, cleanup := newListingRepoMock(t)
	defer cleanup()

	repo := NewVehicleRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE vehicles SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Vehicle{ID: "missing", Condition: models.ConditionGood})
	require.True(t, errors.Is(err, sql.ErrNoRows))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleRepositorySetFeatured(t *testing.T) {
	db, mock, cleanup := newListingRepoMock(t)
	defer cleanup()

	repo := NewVehicleRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE vehicles SET is_featured")).
		WithArgs("veh-1", true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetFeatured(context.Background(), "veh-1", true))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE vehicles SET is_featured")).
		WithArgs("missing", false).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetFeatured(context.Background(), "missing", false)
	require.True(t, errors.Is(err, sql.ErrNoRows))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleRepositoryListImagePaths(t *testing.T) {
	db, mock, cleanup := newListingRepoMock(t)
	defer cleanup()

	repo := NewVehicleRepository(db)
	rows := sqlmock.NewRows([]string{"unnest"}).
		AddRow("/static/vehicles/a.jpg").
		AddRow("/static/vehicles/b.jpg")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT unnest(images) FROM vehicles")).
		WillReturnRows(rows)

	paths, err := repo.ListImagePaths(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"/static/vehicles/a.jpg", "/static/vehicles/b.jpg"}, paths)
	require.NoError(t, mock.ExpectationsWereMet())
}
