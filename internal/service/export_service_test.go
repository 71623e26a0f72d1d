package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eduhubvn/moderation-api/internal/models"
	"github.com/eduhubvn/moderation-api/pkg/storage"
)

type auditListerStub struct {
	audits []models.DecisionAudit
	err    error
}

func (a *auditListerStub) List(_ context.Context, _ models.DecisionAuditFilter) ([]models.DecisionAudit, error) {
	return a.audits, a.err
}

func sampleAudits() []models.DecisionAudit {
	note := "document unreadable"
	return []models.DecisionAudit{
		{
			ID:         "audit-1",
			AdminID:    "admin-1",
			EntityType: models.EntityDegree,
			RequestID:  "deg-1",
			Kind:       models.RevisionKindUpdate,
			Decision:   models.RevisionStatusApproved,
			DecidedAt:  time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:         "audit-2",
			AdminID:    "admin-2",
			EntityType: models.EntityPartner,
			RequestID:  "par-1",
			Kind:       models.RevisionKindCreate,
			Decision:   models.RevisionStatusRejected,
			AdminNote:  &note,
			DecidedAt:  time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC),
		},
	}
}

func newExportFixture(audits []models.DecisionAudit) *ExportService {
	signer := storage.NewSignedURLSigner("test-secret", time.Minute)
	return NewExportService(&auditListerStub{audits: audits}, signer)
}

func TestExportService_IssueLinkValidatesFormat(t *testing.T) {
	svc := newExportFixture(nil)

	link, err := svc.IssueLink("CSV")
	require.NoError(t, err)
	require.Equal(t, ExportFormatCSV, link.Format)
	require.NotEmpty(t, link.ReportID)
	require.NotEmpty(t, link.Token)
	require.True(t, link.ExpiresAt.After(time.Now()))

	_, err = svc.IssueLink("xlsx")
	require.Error(t, err)
}

func TestExportService_DownloadCSV(t *testing.T) {
	svc := newExportFixture(sampleAudits())
	link, err := svc.IssueLink("csv")
	require.NoError(t, err)

	file, err := svc.Download(context.Background(), link.Token, models.DecisionAuditFilter{})
	require.NoError(t, err)
	require.Equal(t, "text/csv", file.ContentType)
	require.Contains(t, file.Filename, link.ReportID)
	require.Contains(t, string(file.Content), "deg-1")
	require.Contains(t, string(file.Content), "document unreadable")
}

func TestExportService_DownloadPDF(t *testing.T) {
	svc := newExportFixture(sampleAudits())
	link, err := svc.IssueLink("pdf")
	require.NoError(t, err)

	file, err := svc.Download(context.Background(), link.Token, models.DecisionAuditFilter{})
	require.NoError(t, err)
	require.Equal(t, "application/pdf", file.ContentType)
	require.True(t, bytes.HasPrefix(file.Content, []byte("%PDF")))
}

func TestExportService_DownloadRejectsBadToken(t *testing.T) {
	svc := newExportFixture(sampleAudits())

	_, err := svc.Download(context.Background(), "not.a.valid.token", models.DecisionAuditFilter{})
	require.Error(t, err)
}

func TestExportService_DownloadRejectsForeignSignature(t *testing.T) {
	other := NewExportService(&auditListerStub{}, storage.NewSignedURLSigner("other-secret", time.Minute))
	link, err := other.IssueLink("csv")
	require.NoError(t, err)

	svc := newExportFixture(sampleAudits())
	_, err = svc.Download(context.Background(), link.Token, models.DecisionAuditFilter{})
	require.Error(t, err)
}
