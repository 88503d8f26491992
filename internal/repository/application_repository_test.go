package repository_test

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/volunteerhub/volunteer-hub-api/internal/models"
	"github.com/volunteerhub/volunteer-hub-api/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	return gormDB, mock
}

func pendingApplicationRows(appID, taskID, applicantID uint64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "task_id", "applicant_id", "status"}).
		AddRow(appID, taskID, applicantID, string(models.ApplicationStatusPending))
}

func TestApplicationRepository_ApplyVerdict_ApproveAddsRosterRow(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	appRepo := repository.NewApplicationRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "applications" WHERE "applications"\."id" = .* LIMIT`).
		WillReturnRows(pendingApplicationRows(1, 7, 3))
	// The status guard is part of the UPDATE itself, not a prior read
	mock.ExpectExec(`UPDATE "applications" SET .* WHERE id = .* AND status NOT IN`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "task_volunteers" .* ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	applied, err := appRepo.ApplyVerdict(1, models.ApplicationStatusApproved, "Welcome aboard", 2, time.Now())

	assert.NoError(t, err)
	assert.True(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_ApplyVerdict_RejectSkipsRoster(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	appRepo := repository.NewApplicationRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "applications" WHERE "applications"\."id" = .* LIMIT`).
		WillReturnRows(pendingApplicationRows(1, 7, 3))
	mock.ExpectExec(`UPDATE "applications" SET .* WHERE id = .* AND status NOT IN`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	applied, err := appRepo.ApplyVerdict(1, models.ApplicationStatusRejected, "Not enough availability", 2, time.Now())

	assert.NoError(t, err)
	assert.True(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_ApplyVerdict_TerminalStateLoses(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	appRepo := repository.NewApplicationRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "applications" WHERE "applications"\."id" = .* LIMIT`).
		WillReturnRows(pendingApplicationRows(1, 7, 3))
	// Zero rows matched: the application was already APPROVED or WITHDRAWN
	mock.ExpectExec(`UPDATE "applications" SET .* WHERE id = .* AND status NOT IN`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	applied, err := appRepo.ApplyVerdict(1, models.ApplicationStatusApproved, "", 2, time.Now())

	assert.NoError(t, err)
	assert.False(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_Withdraw_PendingOnly(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	appRepo := repository.NewApplicationRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "applications" SET .* WHERE id = .* AND status = `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	withdrawn, err := appRepo.Withdraw(1, "Volunteer withdrawal", time.Now())

	assert.NoError(t, err)
	assert.True(t, withdrawn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_Withdraw_AlreadyDecided(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	appRepo := repository.NewApplicationRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "applications" SET .* WHERE id = .* AND status = `).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	withdrawn, err := appRepo.Withdraw(1, "Volunteer withdrawal", time.Now())

	assert.NoError(t, err)
	assert.False(t, withdrawn)
	assert.NoError(t, mock.ExpectationsWereMet())
}
