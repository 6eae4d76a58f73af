package repository_test

import (
	"context"
	"testing"
	"time"

	infra "github.com/githubRahuld/TrendyCart/internal/infra/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// sqlmockを挟んだ*gorm.DBを作る。SQLは正規表現で照合する。
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError:       true,
		DisableAutomaticPing: true,
	})
	assert.NoError(t, err)

	return gormDB, mock
}

func cartRows(id int64, userID int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "user_id", "coupon_id", "created_at", "updated_at"}).
		AddRow(id, userID, nil, now, now)
}

func TestCartGormRepository_GetOrCreate_ReturnsExisting(t *testing.T) {
	db, mock := newMockGormDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "carts" WHERE user_id = (.+)FOR UPDATE`).
		WillReturnRows(cartRows(1, 7))
	mock.ExpectCommit()

	r := infra.NewCartGormRepository(db)
	cart, err := r.GetOrCreateByUserID(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), cart.ID)
	assert.Equal(t, int64(7), cart.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartGormRepository_GetOrCreate_CreatesWhenMissing(t *testing.T) {
	db, mock := newMockGormDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "carts" WHERE user_id = (.+)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`^SAVEPOINT sp`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO "carts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))
	mock.ExpectCommit()

	r := infra.NewCartGormRepository(db)
	cart, err := r.GetOrCreateByUserID(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, int64(5), cart.ID)
	assert.Equal(t, int64(7), cart.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 同時に初回アクセスが来てINSERTに負けても、
// SAVEPOINTまで巻き戻して勝った側の行を取り直せること。
// トランザクション全体はabortされずcommitまで進む。
func TestCartGormRepository_GetOrCreate_DuplicateInsertRecovers(t *testing.T) {
	db, mock := newMockGormDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "carts" WHERE user_id = (.+)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`^SAVEPOINT sp`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO "carts"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectExec(`^ROLLBACK TO SAVEPOINT sp`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT (.+) FROM "carts" WHERE user_id = (.+)FOR UPDATE`).
		WillReturnRows(cartRows(1, 7))
	mock.ExpectCommit()

	r := infra.NewCartGormRepository(db)
	cart, err := r.GetOrCreateByUserID(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), cart.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
