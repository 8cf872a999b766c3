package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"skillbridge/internal/pkg/logger"
	"skillbridge/internal/pkg/validate"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	MaxFileSize  = 10 * 1024 * 1024
	MaxFiles     = 5
	maxParallel  = 3
	storageNote  = "Configure object storage credentials for actual uploads"
	avatarURLFmt = "https://ui-avatars.com/api/?name=%s&background=6366f1&color=fff&size=200"
)

const (
	PrefixProfileImages    = "profile-images/"
	PrefixSkillDocuments   = "skill-documents/"
	PrefixSkillAttachments = "skill-attachments/"
)

var (
	ErrNoFile       = errors.New("no file provided")
	ErrInvalidType  = errors.New("invalid file type")
	ErrTooLarge     = errors.New("file too large")
	ErrTooManyFiles = errors.New("too many files")
	ErrNotOwner     = errors.New("not authorized to delete this file")
)

var allowedTypes = map[string]struct{}{
	"image/jpeg":         {},
	"image/jpg":          {},
	"image/png":          {},
	"image/gif":          {},
	"image/webp":         {},
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"text/plain": {},
}

// ObjectStorage is the bucket the uploads land in.
type ObjectStorage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type Result struct {
	Success     bool   `json:"success"`
	URL         string `json:"url,omitempty"`
	Key         string `json:"key,omitempty"`
	Filename    string `json:"filename"`
	FileType    string `json:"fileType,omitempty"`
	FileSize    int64  `json:"fileSize,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty"`
	Note        string `json:"note,omitempty"`
	Error       string `json:"error,omitempty"`
}

type MultiResult struct {
	Successful []Result `json:"successful"`
	Failed     []Result `json:"failed"`
	Note       string   `json:"note,omitempty"`
}

type Service struct {
	storage ObjectStorage
	log     *logger.Logger
	now     func() time.Time
}

// NewService accepts a nil storage; every upload then degrades to a placeholder.
func NewService(storage ObjectStorage, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{storage: storage, log: log, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) UploadImage(ctx context.Context, userID uuid.UUID, f *File) (Result, error) {
	if err := checkFile(f); err != nil {
		return Result{}, err
	}
	key := s.key(PrefixProfileImages, userID, f.Name)
	url, err := s.put(ctx, key, f)
	if err != nil {
		s.log.Warn("image upload failed, using placeholder", "user_id", userID, "error", err)
		return Result{
			Success:     true,
			URL:         fmt.Sprintf(avatarURLFmt, userID),
			Filename:    "placeholder-" + userID.String(),
			Placeholder: true,
			Note:        storageNote,
		}, nil
	}
	return Result{Success: true, URL: url, Key: key, Filename: key}, nil
}

func (s *Service) UploadDocument(ctx context.Context, userID uuid.UUID, f *File) (Result, error) {
	if err := checkFile(f); err != nil {
		return Result{}, err
	}
	key := s.key(PrefixSkillDocuments, userID, f.Name)
	res := Result{Success: true, Filename: f.Name, FileType: f.ContentType, FileSize: f.Size}
	url, err := s.put(ctx, key, f)
	if err != nil {
		s.log.Warn("document upload failed, using placeholder", "user_id", userID, "error", err)
		res.URL, res.Placeholder, res.Note = "#", true, storageNote
		return res, nil
	}
	res.URL, res.Key = url, key
	return res, nil
}

// UploadMultiple stores every file concurrently. One failed upload does not
// fail the others; it is reported in Failed.
func (s *Service) UploadMultiple(ctx context.Context, userID uuid.UUID, files []*File) (MultiResult, error) {
	if len(files) == 0 {
		return MultiResult{}, ErrNoFile
	}
	if len(files) > MaxFiles {
		return MultiResult{}, ErrTooManyFiles
	}
	for _, f := range files {
		if err := checkFile(f); err != nil {
			return MultiResult{}, err
		}
	}

	results := make([]Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for i, f := range files {
		g.Go(func() error {
			key := s.key(PrefixSkillAttachments, userID, f.Name)
			url, err := s.put(gctx, key, f)
			if err != nil {
				s.log.Warn("attachment upload failed", "user_id", userID, "file", f.Name, "error", err)
				results[i] = Result{Filename: f.Name, Error: "Upload failed - " + storageNote}
				return nil
			}
			results[i] = Result{Success: true, URL: url, Key: key, Filename: f.Name, FileType: f.ContentType, FileSize: f.Size}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return MultiResult{}, err
	}

	out := MultiResult{Successful: []Result{}, Failed: []Result{}}
	for _, r := range results {
		if r.Success {
			out.Successful = append(out.Successful, r)
		} else {
			out.Failed = append(out.Failed, r)
		}
	}
	if len(out.Failed) > 0 {
		out.Note = "Some uploads failed - " + storageNote
	}
	return out, nil
}

// Delete removes an object the caller uploaded. It reports whether the
// storage actually deleted it; false means the placeholder path was taken.
func (s *Service) Delete(ctx context.Context, userID uuid.UUID, key string) (bool, error) {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" {
		return false, validate.Errorf("Filename is required")
	}
	if !strings.HasPrefix(path.Base(key), userID.String()+"-") {
		return false, ErrNotOwner
	}
	if s.storage == nil {
		return false, nil
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		s.log.Warn("file delete failed", "user_id", userID, "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

func (s *Service) put(ctx context.Context, key string, f *File) (string, error) {
	if s.storage == nil {
		return "", errors.New("object storage disabled")
	}
	return s.storage.Put(ctx, key, f.Body, f.Size, f.ContentType)
}

func (s *Service) key(prefix string, userID uuid.UUID, name string) string {
	return fmt.Sprintf("%s%s-%d-%s", prefix, userID, s.now().UnixMilli(), sanitizeName(name))
}

func checkFile(f *File) error {
	if f == nil || f.Body == nil {
		return ErrNoFile
	}
	if !Allowed(f.ContentType) {
		return ErrInvalidType
	}
	if f.Size > MaxFileSize {
		return ErrTooLarge
	}
	return nil
}

// Allowed reports whether contentType (parameters ignored) may be uploaded.
func Allowed(contentType string) bool {
	mt, _, _ := strings.Cut(contentType, ";")
	_, ok := allowedTypes[strings.ToLower(strings.TrimSpace(mt))]
	return ok
}

func sanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		if r == ' ' || r == '/' || r < 0x20 {
			return '_'
		}
		return r
	}, name)
	if name == "." || name == "" {
		return "file"
	}
	return name
}
