package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
	appErrors "github.com/DrExperiment/ecole-peg-sub000/pkg/errors"
	"github.com/DrExperiment/ecole-peg-sub000/pkg/storage"
)

type documentRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.StudentDocument, error)
	FindByID(ctx context.Context, id string) (*models.StudentDocument, error)
	Create(ctx context.Context, doc *models.StudentDocument) error
	Delete(ctx context.Context, id string) error
}

type documentStore interface {
	Put(key string, r io.Reader, limit int64) (int64, error)
	Open(key string) (*os.File, error)
	Delete(key string) error
}

type documentLinkSigner interface {
	Sign(documentID, key string) (string, time.Time, error)
	Verify(token string) (documentID, key string, err error)
}

// Accepted upload types by extension.
var documentTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// DocumentConfig tunes uploads and download links.
type DocumentConfig struct {
	MaxFileSize int64
	// LinkPrefix is prepended to download paths, e.g. "/api".
	LinkPrefix string
}

// DocumentUpload is a file received from a multipart form.
type DocumentUpload struct {
	Name     string
	FileName string
	Size     int64
	Content  io.Reader
}

// DocumentDownload is an opened document ready to stream.
type DocumentDownload struct {
	FileName    string
	ContentType string
	Size        int64
	Content     io.ReadCloser
}

// DocumentService stores scans and certificates attached to students.
type DocumentService struct {
	repo     documentRepository
	students studentLookup
	store    documentStore
	signer   documentLinkSigner
	cfg      DocumentConfig
	logger   *zap.Logger
}

func NewDocumentService(repo documentRepository, students studentLookup, store documentStore, signer documentLinkSigner, cfg DocumentConfig, logger *zap.Logger) *DocumentService {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 10 * 1024 * 1024
	}
	cfg.LinkPrefix = strings.TrimRight(cfg.LinkPrefix, "/")
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{repo: repo, students: students, store: store, signer: signer, cfg: cfg, logger: logger}
}

// List returns the student's documents with fresh download links.
func (s *DocumentService) List(ctx context.Context, studentID string) ([]models.DocumentLink, error) {
	if _, err := ensureStudent(ctx, s.students, studentID); err != nil {
		return nil, err
	}
	docs, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list documents")
	}
	links := make([]models.DocumentLink, 0, len(docs))
	for _, doc := range docs {
		link, err := s.link(doc)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, nil
}

// Upload validates and stores a file for the student. Only PDF, JPEG and PNG
// files up to the configured size are accepted, and the content must match
// the extension.
func (s *DocumentService) Upload(ctx context.Context, studentID string, upload DocumentUpload) (*models.DocumentLink, error) {
	name := strings.TrimSpace(upload.Name)
	if name == "" || len(name) > 100 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "name is required and limited to 100 characters")
	}
	ext := strings.ToLower(filepath.Ext(upload.FileName))
	contentType, ok := documentTypes[ext]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "only pdf, jpg, jpeg and png files are accepted")
	}
	if upload.Size > s.cfg.MaxFileSize {
		return nil, s.tooLarge()
	}
	if upload.Content == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(upload.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload")
	}
	if n == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is empty")
	}
	if detected := http.DetectContentType(head[:n]); detected != contentType {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file content does not match its extension")
	}

	if _, err := ensureStudent(ctx, s.students, studentID); err != nil {
		return nil, err
	}

	key := path.Join("students", studentID, uuid.NewString()+ext)
	written, err := s.store.Put(key, io.MultiReader(bytes.NewReader(head[:n]), upload.Content), s.cfg.MaxFileSize)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, s.tooLarge()
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store document")
	}

	doc := &models.StudentDocument{
		StudentID:   studentID,
		Name:        name,
		FileName:    filepath.Base(upload.FileName),
		ContentType: contentType,
		SizeBytes:   written,
		StorageKey:  key,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		if delErr := s.store.Delete(key); delErr != nil {
			s.logger.Warn("failed to discard orphaned upload", zap.String("key", key), zap.Error(delErr))
		}
		return nil, repoError(err, "student not found", "failed to save document")
	}
	s.logger.Info("document uploaded",
		zap.String("student_id", studentID),
		zap.String("document_id", doc.ID),
		zap.Int64("size", written),
	)
	link, err := s.link(*doc)
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// Delete removes one of the student's documents and its stored file.
func (s *DocumentService) Delete(ctx context.Context, studentID, id string) error {
	doc, err := s.owned(ctx, studentID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, doc.ID); err != nil {
		return repoError(err, "document not found", "failed to delete document")
	}
	if err := s.store.Delete(doc.StorageKey); err != nil {
		s.logger.Warn("failed to delete stored document", zap.String("document_id", doc.ID), zap.Error(err))
	}
	return nil
}

// Download checks a signed link and opens the document it points to.
func (s *DocumentService) Download(ctx context.Context, id, token string) (*DocumentDownload, error) {
	if token == "" {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "download token required")
	}
	docID, key, err := s.signer.Verify(token)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid or expired download link")
	}
	if docID != id {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "download link does not match document")
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "document not found", "failed to load document")
	}
	if doc.StorageKey != key {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "download link does not match document")
	}
	file, err := s.store.Open(doc.StorageKey)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document file is missing")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open document")
	}
	return &DocumentDownload{
		FileName:    doc.FileName,
		ContentType: doc.ContentType,
		Size:        doc.SizeBytes,
		Content:     file,
	}, nil
}

func (s *DocumentService) owned(ctx context.Context, studentID, id string) (*models.StudentDocument, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "document not found", "failed to load document")
	}
	if doc.StudentID != studentID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "document not found")
	}
	return doc, nil
}

func (s *DocumentService) link(doc models.StudentDocument) (models.DocumentLink, error) {
	token, expiresAt, err := s.signer.Sign(doc.ID, doc.StorageKey)
	if err != nil {
		return models.DocumentLink{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}
	return models.DocumentLink{
		StudentDocument: doc,
		DownloadURL:     fmt.Sprintf("%s/documents/%s/download?token=%s", s.cfg.LinkPrefix, doc.ID, url.QueryEscape(token)),
		ExpiresAt:       expiresAt,
	}, nil
}

func (s *DocumentService) tooLarge() error {
	return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file exceeds the %d MB limit", s.cfg.MaxFileSize/(1024*1024)))
}
