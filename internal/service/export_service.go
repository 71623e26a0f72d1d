package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eduhubvn/moderation-api/internal/models"
	"github.com/eduhubvn/moderation-api/pkg/export"
	appErrors "github.com/eduhubvn/moderation-api/pkg/errors"
	"github.com/eduhubvn/moderation-api/pkg/storage"
)

// Export format identifiers.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

var decisionReportHeaders = []string{
	"Decided At", "Entity", "Request ID", "Action", "Decision", "Admin", "Note",
}

type auditLister interface {
	List(ctx context.Context, filter models.DecisionAuditFilter) ([]models.DecisionAudit, error)
}

// ExportLink describes a signed, expiring download for a generated report.
type ExportLink struct {
	ReportID  string    `json:"reportId"`
	Format    string    `json:"format"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ExportFile is rendered report content ready to stream to the caller.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportService renders decision-trail reports as CSV or PDF downloads
// protected by signed URLs.
type ExportService struct {
	audits auditLister
	signer *storage.SignedURLSigner
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
}

// NewExportService constructs the service.
func NewExportService(audits auditLister, signer *storage.SignedURLSigner) *ExportService {
	return &ExportService{
		audits: audits,
		signer: signer,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
	}
}

// IssueLink validates the requested format and returns a signed download
// token for a fresh report.
func (s *ExportService) IssueLink(format string) (*ExportLink, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	reportID := uuid.NewString()
	token, expiresAt, err := s.signer.Generate(reportID, format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export link")
	}

	return &ExportLink{
		ReportID:  reportID,
		Format:    format,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Download validates the signed token and renders the decision report in the
// embedded format.
func (s *ExportService) Download(ctx context.Context, token string, filter models.DecisionAuditFilter) (*ExportFile, error) {
	reportID, format, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid or expired export link")
	}

	audits, err := s.audits.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	dataset := buildDecisionDataset(audits)

	switch format {
	case ExportFormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("decision-report-%s.csv", reportID),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	case ExportFormatPDF:
		content, err := s.pdf.Render(dataset, "Moderation Decision Report")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("decision-report-%s.pdf", reportID),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func buildDecisionDataset(audits []models.DecisionAudit) export.Dataset {
	rows := make([]map[string]string, 0, len(audits))
	for _, audit := range audits {
		note := ""
		if audit.AdminNote != nil {
			note = *audit.AdminNote
		}
		rows = append(rows, map[string]string{
			"Decided At": audit.DecidedAt.UTC().Format(time.RFC3339),
			"Entity":     string(audit.EntityType),
			"Request ID": audit.RequestID,
			"Action":     string(audit.Kind),
			"Decision":   string(audit.Decision),
			"Admin":      audit.AdminID,
			"Note":       note,
		})
	}
	return export.Dataset{Headers: decisionReportHeaders, Rows: rows}
}
