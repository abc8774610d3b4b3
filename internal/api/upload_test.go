package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/scamalert/alertpro/internal/errs"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestUpdateComplaint_EchoesRemoteAttachmentsUploadsLocal(t *testing.T) {
	t.Parallel()

	localPath := writeTempFile(t, "new.jpg", "jpeg-bytes")

	var (
		gotPath     string
		gotText     string
		gotExisting []string
		gotUploads  []string
		gotContent  string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		gotText = r.FormValue("text_content")
		gotExisting = r.MultipartForm.Value["existing_files"]
		for _, fh := range r.MultipartForm.File["files"] {
			gotUploads = append(gotUploads, fh.Filename)
			f, err := fh.Open()
			if err != nil {
				t.Errorf("open upload: %v", err)
				continue
			}
			data, _ := io.ReadAll(f)
			_ = f.Close()
			gotContent = string(data)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Post{ID: PostID{Base: 42}, Text: "updated"})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	attachments := []Attachment{
		{Kind: AttachmentImage, URL: "/uploads/old.jpg", IsRemote: true},
		{Kind: AttachmentImage, LocalPath: localPath},
	}
	post, err := c.UpdateComplaint(context.Background(), PostID{Base: 42}, "updated", attachments)
	if err != nil {
		t.Fatalf("UpdateComplaint returned error: %v", err)
	}
	if post.ID.Base != 42 {
		t.Fatalf("post id = %+v, want base 42", post.ID)
	}

	if gotPath != "/api/complaints/42/update" {
		t.Fatalf("path = %q, want /api/complaints/42/update", gotPath)
	}
	if gotText != "updated" {
		t.Fatalf("text_content = %q, want updated", gotText)
	}
	// Server-hosted attachments are echoed by URL, never re-uploaded.
	if len(gotExisting) != 1 || gotExisting[0] != "/uploads/old.jpg" {
		t.Fatalf("existing_files = %v, want [/uploads/old.jpg]", gotExisting)
	}
	if len(gotUploads) != 1 || gotUploads[0] != "new.jpg" {
		t.Fatalf("uploaded files = %v, want [new.jpg]", gotUploads)
	}
	if gotContent != "jpeg-bytes" {
		t.Fatalf("uploaded content = %q, want file bytes", gotContent)
	}
}

func TestCreateComplaint_RequiresText(t *testing.T) {
	c, err := NewClient("https://example.com")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.CreateComplaint(context.Background(), "  \n ", nil); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("CreateComplaint error = %v, want ErrValidation", err)
	}
}

func TestUploadProfileAndCoverImages(t *testing.T) {
	t.Parallel()

	localPath := writeTempFile(t, "avatar.jpg", "avatar-bytes")

	var paths []string
	var filenames []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		for _, fh := range r.MultipartForm.File["files"] {
			filenames = append(filenames, fh.Filename)
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx := context.Background()
	if err := c.UploadProfileImage(ctx, localPath); err != nil {
		t.Fatalf("UploadProfileImage returned error: %v", err)
	}
	if err := c.UploadCoverImage(ctx, localPath); err != nil {
		t.Fatalf("UploadCoverImage returned error: %v", err)
	}

	want := []string{"/api/profile/image", "/api/profile/cover"}
	if len(paths) != 2 || paths[0] != want[0] || paths[1] != want[1] {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	if len(filenames) != 2 || filenames[0] != "avatar.jpg" {
		t.Fatalf("filenames = %v, want avatar.jpg twice", filenames)
	}

	if err := c.UploadProfileImage(ctx, ""); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("empty path error = %v, want ErrValidation", err)
	}
}
