// Package report renders assessment reports and stores them as PDF files.
package report

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"jobnest_backend/internal/algorithms"
	"jobnest_backend/internal/models"
	"jobnest_backend/internal/storage"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
)

// Dir is the storage folder for generated reports.
const Dir = "reports"

// Input is everything a report shows.
type Input struct {
	UserID        string
	Name          string
	Email         string
	Categories    []models.CategoryScore
	Tags          []string
	EmployerNames []string
	Jobs          []algorithms.JobRelevance
	GeneratedAt   time.Time
}

// Ref points at a stored report.
type Ref struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	URL      string `json:"url"`
}

type Generator interface {
	GenerateAssessmentReport(ctx context.Context, in Input) (*Ref, error)
	DeleteReport(ctx context.Context, filename string) error
}

type PDFGenerator struct {
	storage storage.Storage
}

func NewPDFGenerator(s storage.Storage) *PDFGenerator {
	return &PDFGenerator{storage: s}
}

// StoragePath maps a report filename to its storage path.
func StoragePath(filename string) string {
	return path.Join(Dir, path.Base(filename))
}

func (g *PDFGenerator) GenerateAssessmentReport(ctx context.Context, in Input) (*Ref, error) {
	if in.GeneratedAt.IsZero() {
		in.GeneratedAt = time.Now()
	}

	var buf bytes.Buffer
	if err := render(&buf, in); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("report generation cancelled: %w", err)
	}

	filename := fmt.Sprintf("assessment_%s.pdf", uuid.NewString())
	storagePath := StoragePath(filename)
	if err := g.storage.Save(ctx, storagePath, &buf, "application/pdf"); err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}

	url, err := g.storage.GetURL(ctx, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build report url: %w", err)
	}

	return &Ref{Filename: filename, Path: storagePath, URL: url}, nil
}

// DeleteReport removes a stored report. A missing file is not an error.
func (g *PDFGenerator) DeleteReport(ctx context.Context, filename string) error {
	storagePath := StoragePath(filename)
	ok, err := g.storage.Exists(ctx, storagePath)
	if err != nil || !ok {
		return err
	}
	if err := g.storage.Delete(ctx, storagePath); err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}

func render(buf *bytes.Buffer, in Input) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("JobNest personality assessment", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Personality Assessment Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s <%s>", in.Name, in.Email)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, in.GeneratedAt.Format("2 January 2006 15:04 MST"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	section(pdf, "Top personality traits")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(60, 7, "Category", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Score", "1", 0, "R", false, 0, "")
	pdf.CellFormat(0, 7, "Tags", "1", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, c := range in.Categories {
		pdf.CellFormat(60, 7, string(c.CategoryName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%.1f%%", c.Score), "1", 0, "R", false, 0, "")
		pdf.CellFormat(0, 7, tr(strings.Join(c.Tags, ", ")), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	section(pdf, "Your tags")
	pdf.MultiCell(0, 6, tr(orNone(strings.Join(in.Tags, ", "))), "", "L", false)
	pdf.Ln(2)

	section(pdf, "Employers looking for your profile")
	pdf.MultiCell(0, 6, tr(orNone(strings.Join(in.EmployerNames, ", "))), "", "L", false)
	pdf.Ln(2)

	section(pdf, "Suggested jobs")
	if len(in.Jobs) == 0 {
		pdf.MultiCell(0, 6, "None", "", "L", false)
	}
	for _, j := range in.Jobs {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(150, 6, tr(j.Job.JobTitle), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("%.0f%% fit", j.Score), "", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		if j.Job.Location != "" {
			pdf.CellFormat(0, 5, tr(j.Job.Location), "", 1, "L", false, 0, "")
		}
		pdf.Ln(1)
	}

	if err := pdf.Output(buf); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func section(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
