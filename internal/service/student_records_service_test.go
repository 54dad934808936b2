package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
	appErrors "github.com/DrExperiment/ecole-peg-sub000/pkg/errors"
	"github.com/DrExperiment/ecole-peg-sub000/pkg/storage"
)

func oneStudent() *mockStudentRepo {
	return &mockStudentRepo{students: map[string]models.Student{"stu-1": {ID: "stu-1", LastName: "Dupont"}}}
}

type mockGuarantorRepo struct {
	byIdentity map[string]models.Guarantor
	links      map[string]string
}

func newMockGuarantorRepo() *mockGuarantorRepo {
	return &mockGuarantorRepo{byIdentity: map[string]models.Guarantor{}, links: map[string]string{}}
}

func (m *mockGuarantorRepo) FindByStudent(_ context.Context, studentID string) (*models.Guarantor, error) {
	id, ok := m.links[studentID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	for _, g := range m.byIdentity {
		if g.ID == id {
			return &g, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockGuarantorRepo) Attach(_ context.Context, studentID string, g *models.Guarantor) error {
	identity := strings.Join([]string{g.LastName, g.FirstName, g.Phone, g.Email}, "|")
	if existing, ok := m.byIdentity[identity]; ok {
		*g = existing
	} else {
		g.ID = "gua-" + g.FirstName
		m.byIdentity[identity] = *g
	}
	m.links[studentID] = g.ID
	return nil
}

func (m *mockGuarantorRepo) Detach(_ context.Context, studentID string) error {
	if _, ok := m.links[studentID]; !ok {
		return sql.ErrNoRows
	}
	delete(m.links, studentID)
	return nil
}

func guarantorRequest() dto.GuarantorRequest {
	return dto.GuarantorRequest{LastName: "Dupont", FirstName: "Marc", Phone: "+41 22 000 00 00", Email: "marc@example.com"}
}

func TestGuarantorServiceAssignReusesGuarantor(t *testing.T) {
	students := oneStudent()
	students.students["stu-2"] = models.Student{ID: "stu-2"}
	repo := newMockGuarantorRepo()
	svc := NewGuarantorService(repo, students, nil, nil)

	first, err := svc.Assign(context.Background(), "stu-1", guarantorRequest())
	require.NoError(t, err)
	second, err := svc.Assign(context.Background(), "stu-2", guarantorRequest())
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.byIdentity, 1)

	got, err := svc.Get(context.Background(), "stu-2")
	require.NoError(t, err)
	assert.Equal(t, "Marc", got.FirstName)
}

func TestGuarantorServiceRemove(t *testing.T) {
	repo := newMockGuarantorRepo()
	svc := NewGuarantorService(repo, oneStudent(), nil, nil)

	_, err := svc.Assign(context.Background(), "stu-1", guarantorRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Remove(context.Background(), "stu-1"))

	_, err = svc.Get(context.Background(), "stu-1")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.True(t, errors.Is(svc.Remove(context.Background(), "stu-1"), appErrors.ErrNotFound))
	assert.True(t, errors.Is(svc.Remove(context.Background(), "missing"), appErrors.ErrNotFound))
}

func TestGuarantorServiceValidation(t *testing.T) {
	svc := NewGuarantorService(newMockGuarantorRepo(), oneStudent(), nil, nil)

	req := guarantorRequest()
	req.Email = "not-an-email"
	_, err := svc.Assign(context.Background(), "stu-1", req)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Assign(context.Background(), "missing", guarantorRequest())
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

type mockPlacementRepo struct {
	tests []models.PlacementTest
}

func (m *mockPlacementRepo) ListByStudent(_ context.Context, studentID string) ([]models.PlacementTest, error) {
	var out []models.PlacementTest
	for _, t := range m.tests {
		if t.StudentID == studentID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockPlacementRepo) Create(_ context.Context, test *models.PlacementTest) error {
	test.ID = "pt-new"
	m.tests = append(m.tests, *test)
	return nil
}

func (m *mockPlacementRepo) Delete(_ context.Context, studentID, id string) error {
	for i, t := range m.tests {
		if t.ID == id && t.StudentID == studentID {
			m.tests = append(m.tests[:i], m.tests[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func TestPlacementServiceCreate(t *testing.T) {
	repo := &mockPlacementRepo{}
	svc := NewPlacementService(repo, oneStudent(), fixedClock("2025-03-10"), nil, nil)

	test, err := svc.Create(context.Background(), "stu-1", dto.PlacementTestRequest{
		TestDate: domain.MustParseDate("2025-03-10"),
		Level:    "B1",
		Score:    domain.MustParseScore("14.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "stu-1", test.StudentID)
	assert.Equal(t, "14.50", test.Score.String())

	tests, err := svc.List(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Len(t, tests, 1)
}

func TestPlacementServiceRejectsInvalidTests(t *testing.T) {
	svc := NewPlacementService(&mockPlacementRepo{}, oneStudent(), fixedClock("2025-03-10"), nil, nil)
	valid := dto.PlacementTestRequest{TestDate: domain.MustParseDate("2025-03-01"), Level: "A2", Score: domain.MustParseScore("10")}

	cases := map[string]func(r *dto.PlacementTestRequest){
		"future date": func(r *dto.PlacementTestRequest) { r.TestDate = domain.MustParseDate("2025-03-11") },
		"no date":     func(r *dto.PlacementTestRequest) { r.TestDate = domain.Date{} },
		"bad level":   func(r *dto.PlacementTestRequest) { r.Level = "C2" },
		"score high":  func(r *dto.PlacementTestRequest) { r.Score = domain.MustParseScore("20.5") },
		"score low":   func(r *dto.PlacementTestRequest) { r.Score = domain.MustParseScore("-1") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := valid
			mutate(&req)
			_, err := svc.Create(context.Background(), "stu-1", req)
			assert.True(t, errors.Is(err, appErrors.ErrValidation))
		})
	}

	_, err := svc.Create(context.Background(), "missing", valid)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestPlacementServiceDeleteMissing(t *testing.T) {
	svc := NewPlacementService(&mockPlacementRepo{}, oneStudent(), nil, nil, nil)
	assert.True(t, errors.Is(svc.Delete(context.Background(), "stu-1", "pt-x"), appErrors.ErrNotFound))
}

type mockDocumentRepo struct {
	docs      map[string]models.StudentDocument
	createErr error
}

func (m *mockDocumentRepo) ListByStudent(_ context.Context, studentID string) ([]models.StudentDocument, error) {
	var out []models.StudentDocument
	for _, d := range m.docs {
		if d.StudentID == studentID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *mockDocumentRepo) FindByID(_ context.Context, id string) (*models.StudentDocument, error) {
	d, ok := m.docs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &d, nil
}

func (m *mockDocumentRepo) Create(_ context.Context, doc *models.StudentDocument) error {
	if m.createErr != nil {
		return m.createErr
	}
	doc.ID = "doc-1"
	doc.AddedAt = time.Now()
	m.docs[doc.ID] = *doc
	return nil
}

func (m *mockDocumentRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.docs[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.docs, id)
	return nil
}

var pdfBytes = []byte("%PDF-1.4\n1 0 obj << /Type /Catalog >> endobj\n")

func newDocumentService(t *testing.T, repo *mockDocumentRepo) (*DocumentService, *storage.DiskStore) {
	t.Helper()
	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	svc := NewDocumentService(repo, oneStudent(), store, storage.NewLinkSigner("secret", time.Minute),
		DocumentConfig{MaxFileSize: 1024, LinkPrefix: "/api/"}, nil)
	return svc, store
}

func pdfUpload() DocumentUpload {
	return DocumentUpload{Name: " Passeport ", FileName: "passeport.PDF", Size: int64(len(pdfBytes)), Content: bytes.NewReader(pdfBytes)}
}

func TestDocumentServiceUploadAndDownload(t *testing.T) {
	repo := &mockDocumentRepo{docs: map[string]models.StudentDocument{}}
	svc, _ := newDocumentService(t, repo)

	link, err := svc.Upload(context.Background(), "stu-1", pdfUpload())
	require.NoError(t, err)
	assert.Equal(t, "Passeport", link.Name)
	assert.Equal(t, "application/pdf", link.ContentType)
	assert.EqualValues(t, len(pdfBytes), link.SizeBytes)
	assert.True(t, strings.HasPrefix(link.StorageKey, "students/stu-1/"))
	assert.True(t, strings.HasPrefix(link.DownloadURL, "/api/documents/doc-1/download?token="))

	parsed, err := url.Parse(link.DownloadURL)
	require.NoError(t, err)
	download, err := svc.Download(context.Background(), "doc-1", parsed.Query().Get("token"))
	require.NoError(t, err)
	defer download.Content.Close()
	content, err := io.ReadAll(download.Content)
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, content)
	assert.Equal(t, "passeport.PDF", download.FileName)

	_, err = svc.Download(context.Background(), "doc-2", parsed.Query().Get("token"))
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
	_, err = svc.Download(context.Background(), "doc-1", "garbage")
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}

func TestDocumentServiceUploadRejections(t *testing.T) {
	repo := &mockDocumentRepo{docs: map[string]models.StudentDocument{}}
	svc, _ := newDocumentService(t, repo)

	cases := map[string]DocumentUpload{
		"extension": {Name: "Notes", FileName: "notes.docx", Size: 4, Content: strings.NewReader("text")},
		"mismatch":  {Name: "Photo", FileName: "photo.png", Size: int64(len(pdfBytes)), Content: bytes.NewReader(pdfBytes)},
		"declared":  {Name: "Scan", FileName: "scan.pdf", Size: 2048, Content: bytes.NewReader(pdfBytes)},
		"streamed":  {Name: "Scan", FileName: "scan.pdf", Size: 10, Content: bytes.NewReader(append(append([]byte{}, pdfBytes...), make([]byte, 2048)...))},
		"no name":   {Name: " ", FileName: "scan.pdf", Size: 10, Content: bytes.NewReader(pdfBytes)},
		"empty":     {Name: "Scan", FileName: "scan.pdf", Size: 0, Content: bytes.NewReader(nil)},
	}
	for name, upload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Upload(context.Background(), "stu-1", upload)
			assert.True(t, errors.Is(err, appErrors.ErrValidation), err)
		})
	}
	assert.Empty(t, repo.docs)

	_, err := svc.Upload(context.Background(), "missing", pdfUpload())
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestDocumentServiceDeleteRemovesFile(t *testing.T) {
	repo := &mockDocumentRepo{docs: map[string]models.StudentDocument{}}
	svc, store := newDocumentService(t, repo)

	link, err := svc.Upload(context.Background(), "stu-1", pdfUpload())
	require.NoError(t, err)

	assert.True(t, errors.Is(svc.Delete(context.Background(), "stu-2", link.ID), appErrors.ErrNotFound))
	require.NoError(t, svc.Delete(context.Background(), "stu-1", link.ID))
	assert.Empty(t, repo.docs)

	_, err = store.Open(link.StorageKey)
	assert.Error(t, err)
}

func TestDocumentServiceDiscardsFileWhenMetadataFails(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewDiskStore(dir)
	require.NoError(t, err)
	repo := &mockDocumentRepo{docs: map[string]models.StudentDocument{}, createErr: errors.New("db down")}
	svc := NewDocumentService(repo, oneStudent(), store, storage.NewLinkSigner("secret", time.Minute), DocumentConfig{}, nil)

	_, err = svc.Upload(context.Background(), "stu-1", pdfUpload())
	assert.True(t, errors.Is(err, appErrors.ErrInternal))

	var files []string
	require.NoError(t, filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			files = append(files, path)
		}
		return err
	}))
	assert.Empty(t, files)
}
