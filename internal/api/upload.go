package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/scamalert/alertpro/internal/errs"
)

// CreateComplaint uploads a new complaint with its pending local attachments.
// Text must be non-empty after trimming.
func (c *Client) CreateComplaint(ctx context.Context, text string, attachments []Attachment) (Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Post{}, fmt.Errorf("%w: complaint text required", errs.ErrValidation)
	}
	return c.uploadComplaint(ctx, "/api/complaints", PostID{}, text, attachments)
}

// UpdateComplaint edits an existing complaint. Attachments flagged IsRemote
// are already hosted by the server and are not re-uploaded; only their URLs
// are echoed back so the server keeps them attached.
func (c *Client) UpdateComplaint(ctx context.Context, id PostID, text string, attachments []Attachment) (Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Post{}, fmt.Errorf("%w: complaint text required", errs.ErrValidation)
	}
	if id.IsZero() {
		return Post{}, fmt.Errorf("%w: post id required", errs.ErrValidation)
	}
	path := "/api/complaints/" + id.String() + "/update"
	return c.uploadComplaint(ctx, path, id, text, attachments)
}

func (c *Client) uploadComplaint(ctx context.Context, path string, id PostID, text string, attachments []Attachment) (Post, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("text_content", text); err != nil {
		return Post{}, fmt.Errorf("write field: %w", err)
	}
	for _, att := range attachments {
		if att.IsRemote {
			if err := writer.WriteField("existing_files", att.URL); err != nil {
				return Post{}, fmt.Errorf("write field: %w", err)
			}
			continue
		}
		if err := writeAttachment(writer, att); err != nil {
			return Post{}, err
		}
	}
	if err := writer.Close(); err != nil {
		return Post{}, fmt.Errorf("close multipart: %w", err)
	}

	var out Post
	if err := c.doMultipart(ctx, path, &buf, writer.FormDataContentType(), &out); err != nil {
		return Post{}, err
	}
	return out, nil
}

// UploadProfileImage replaces the viewer's avatar.
func (c *Client) UploadProfileImage(ctx context.Context, localPath string) error {
	return c.uploadImage(ctx, "/api/profile/image", localPath)
}

// UploadCoverImage replaces the viewer's cover image.
func (c *Client) UploadCoverImage(ctx context.Context, localPath string) error {
	return c.uploadImage(ctx, "/api/profile/cover", localPath)
}

func (c *Client) uploadImage(ctx context.Context, path, localPath string) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writeAttachment(writer, Attachment{Kind: AttachmentImage, LocalPath: localPath}); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}
	return c.doMultipart(ctx, path, &buf, writer.FormDataContentType(), nil)
}

func writeAttachment(writer *multipart.Writer, att Attachment) error {
	if att.LocalPath == "" {
		return fmt.Errorf("%w: attachment has no local path", errs.ErrValidation)
	}
	file, err := os.Open(att.LocalPath)
	if err != nil {
		return fmt.Errorf("open attachment: %w", err)
	}
	defer func() { _ = file.Close() }()

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, filepath.Base(att.LocalPath)))
	header.Set("Content-Type", mimeFor(att.Kind))
	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy attachment: %w", err)
	}
	return nil
}

func mimeFor(kind AttachmentKind) string {
	switch kind {
	case AttachmentImage:
		return "image/jpeg"
	case AttachmentVideo:
		return "video/mp4"
	case AttachmentAudio:
		return "audio/m4a"
	default:
		return "application/octet-stream"
	}
}

func (c *Client) doMultipart(ctx context.Context, path string, body io.Reader, contentType string, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := newMultipartRequest(ctx, reqURL.String(), body, contentType, c.userAgent)
	if err != nil {
		return err
	}
	c.decorate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: execute request: %v", errs.ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp, rel); err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	if err := decodeJSON(resp.Body, dest); err != nil {
		return err
	}
	return nil
}
