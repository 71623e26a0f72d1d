package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/eduhubvn/moderation-api/internal/models"
)

func newAuditRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAuditRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newAuditRepoMock(t)
	defer cleanup()

	repo := NewAuditRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO decision_audits")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	note := "incomplete transcript"
	audit := &models.DecisionAudit{
		AdminID:    "admin-1",
		EntityType: models.EntityDegree,
		RequestID:  "req-1",
		Kind:       models.RevisionKindUpdate,
		Decision:   models.RevisionStatusRejected,
		AdminNote:  &note,
		Original:   []byte(`{"major":"CS"}`),
		Proposed:   []byte(`{"major":"SE"}`),
	}
	require.NoError(t, repo.Create(context.Background(), audit))
	require.NotEmpty(t, audit.ID)
	require.False(t, audit.DecidedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newAuditRepoMock(t)
	defer cleanup()

	repo := NewAuditRepository(db)
	rows := sqlmock.NewRows([]string{"id", "admin_id", "entity_type", "request_id", "kind", "decision", "admin_note", "original", "proposed", "decided_at"}).
		AddRow("aud-1", "admin-1", "DEGREE", "req-1", "UPDATE", "APPROVED", nil, []byte(`{}`), []byte(`{}`), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, admin_id, entity_type")).
		WithArgs("DEGREE", "APPROVED").
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), models.DecisionAuditFilter{
		EntityType: models.EntityDegree,
		Decision:   models.RevisionStatusApproved,
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "aud-1", list[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
