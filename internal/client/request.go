package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// formBody is a prepared multipart/form-data payload.
type formBody struct {
	contentType string
	buf         *bytes.Buffer
}

// verbs maps HTTP methods to the wording used in transport errors.
var verbs = map[string]string{
	http.MethodGet:    "fetch",
	http.MethodPost:   "post",
	http.MethodPut:    "put",
	http.MethodDelete: "delete",
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

// do sends an authenticated request. body may be nil, a *formBody or any
// JSON-encodable value; dst may be nil.
func (c *Client) do(ctx context.Context, method, path string, body, dst any) error {
	if _, err := c.IsAuthenticated(ctx); err != nil {
		return err
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to %s data: %w", verbs[method], err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.log.Debugw("request unauthorized", "method", method, "path", path)
		c.Logout(ctx)
		return &APIError{Status: http.StatusUnauthorized, Message: "Unauthorized"}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &APIError{Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	case resp.StatusCode == http.StatusNoContent || dst == nil:
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var (
		r           io.Reader
		contentType string
	)
	switch b := body.(type) {
	case nil:
	case *formBody:
		r, contentType = b.buf, b.contentType
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		r, contentType = bytes.NewReader(raw), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), r)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// readErrorMessage prefers the "error" field of a JSON body, then the raw
// text, then a generic message.
func readErrorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 64<<10))
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return badResponse
	}
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		return body.Error
	}
	return text
}

// Image is a picture to upload.
type Image struct {
	Filename string
	Data     []byte
}

const imageField = "image"

// newForm builds a multipart body from ordered key/value pairs and an
// optional image.
func newForm(img *Image, fields ...string) (*formBody, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for i := 0; i+1 < len(fields); i += 2 {
		if err := w.WriteField(fields[i], fields[i+1]); err != nil {
			return nil, err
		}
	}
	if img != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, imageField, img.Filename))
		h.Set("Content-Type", mimetype.Detect(img.Data).String())
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return &formBody{contentType: w.FormDataContentType(), buf: buf}, nil
}
