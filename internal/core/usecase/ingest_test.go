package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/4f71/mentormate/internal/core/domain"
)

type fileRepoFake struct {
	created   *domain.FAQFile
	createErr error
}

func (f *fileRepoFake) Create(_ context.Context, file *domain.FAQFile) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = file
	return nil
}

func (f *fileRepoFake) GetByID(context.Context, string) (*domain.FAQFile, error) { return nil, nil }

func (f *fileRepoFake) UpdateStatus(context.Context, string, domain.FAQFileStatus, string) error {
	return nil
}

func (f *fileRepoFake) SaveCounts(context.Context, string, int, int) error { return nil }

type storageFake struct {
	savedKey  string
	savedData string
	saveErr   error
	content   string
	openErr   error
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	buf, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.savedKey = key
	f.savedData = string(buf)
	return nil
}

func (f *storageFake) Open(context.Context, string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(strings.NewReader(f.content)), nil
}

type queueFake struct {
	published  []string
	publishErr error
}

func (f *queueFake) PublishFAQFileIngested(_ context.Context, fileID string) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, fileID)
	return nil
}

func (f *queueFake) SubscribeFAQFileIngested(context.Context, func(context.Context, string) error) error {
	return nil
}

func TestUploadSuccess(t *testing.T) {
	repo := &fileRepoFake{}
	storage := &storageFake{}
	queue := &queueFake{}
	uc := NewIngestFAQFileUseCase(repo, storage, queue)

	file, err := uc.Upload(context.Background(), "SSS Soruları (v2).jsonl", strings.NewReader(`{"question":"q","answer":"a"}`))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if file.ID == "" {
		t.Error("file ID must be assigned")
	}
	if file.Status != domain.StatusUploaded {
		t.Errorf("Status = %q, want uploaded", file.Status)
	}
	if file.Filename != "SSS Soruları (v2).jsonl" {
		t.Errorf("Filename = %q, original name must be preserved", file.Filename)
	}
	if !strings.HasPrefix(storage.savedKey, file.ID+"_") {
		t.Errorf("storage key = %q, want id prefix", storage.savedKey)
	}
	if strings.ContainsAny(storage.savedKey, " ()ı") {
		t.Errorf("storage key = %q, want sanitized filename", storage.savedKey)
	}
	if storage.savedData != `{"question":"q","answer":"a"}` {
		t.Errorf("stored body = %q", storage.savedData)
	}
	if len(queue.published) != 1 || queue.published[0] != file.ID {
		t.Errorf("published events = %v, want the file id", queue.published)
	}
	if repo.created == nil || repo.created.StoragePath != storage.savedKey {
		t.Errorf("created metadata = %+v", repo.created)
	}
}

func TestUploadStorageFailure(t *testing.T) {
	repo := &fileRepoFake{}
	uc := NewIngestFAQFileUseCase(repo, &storageFake{saveErr: errors.New("disk full")}, &queueFake{})

	_, err := uc.Upload(context.Background(), "faq.jsonl", strings.NewReader("x"))
	if err == nil || !strings.Contains(err.Error(), "save to object storage") {
		t.Errorf("error = %v, want storage failure", err)
	}
	if repo.created != nil {
		t.Error("metadata must not be created when storage fails")
	}
}

func TestUploadRepoFailure(t *testing.T) {
	queue := &queueFake{}
	uc := NewIngestFAQFileUseCase(&fileRepoFake{createErr: errors.New("db down")}, &storageFake{}, queue)

	_, err := uc.Upload(context.Background(), "faq.jsonl", strings.NewReader("x"))
	if err == nil || !strings.Contains(err.Error(), "create file metadata") {
		t.Errorf("error = %v, want repo failure", err)
	}
	if len(queue.published) != 0 {
		t.Error("event must not be published when metadata creation fails")
	}
}

func TestUploadPublishFailure(t *testing.T) {
	uc := NewIngestFAQFileUseCase(&fileRepoFake{}, &storageFake{}, &queueFake{publishErr: errors.New("nats down")})

	_, err := uc.Upload(context.Background(), "faq.jsonl", strings.NewReader("x"))
	if err == nil || !strings.Contains(err.Error(), "publish ingestion event") {
		t.Errorf("error = %v, want publish failure", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"faq.jsonl", "faq.jsonl"},
		{"My FAQ (v2).jsonl", "My_FAQ__v2_.jsonl"},
		{"dir/sub/faq.jsonl", "faq.jsonl"},
		{"sorular-türkçe.jsonl", "sorular-t_rk_e.jsonl"},
	}
	for _, tc := range cases {
		if got := sanitizeFilename(tc.in); got != tc.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
