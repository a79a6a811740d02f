package remote

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"strconv"

	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/session"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
)

type UploadFile struct {
	Name     string
	MIMEType string
	Size     int64
	Body     io.Reader
}

// SignUpload requests the short-lived authorization for one upload from the
// trusted backend.
func (c *Client) SignUpload(ctx context.Context, cred session.Credential, publicID, folder string) (*transfer.UploadSignature, error) {
	req, err := c.request(ctx, cred)
	if err != nil {
		return nil, err
	}
	var out transfer.UploadSignature
	resp, err := req.SetBody(transfer.SignatureRequest{PublicID: publicID, Folder: folder}).
		SetResult(&out).
		Post("/media/signature")
	if err := check("sign upload", "Failed to prepare upload", resp, err); err != nil {
		return nil, err
	}
	if out.Signature == "" || out.APIKey == "" {
		return nil, &models.RemoteError{Op: "sign upload", Message: "Upload authorization was incomplete"}
	}
	return &out, nil
}

// UploadToStorage streams the file straight to the storage host. sent is
// called with the running count of file bytes taken by the transport.
func (c *Client) UploadToStorage(ctx context.Context, sig *transfer.UploadSignature, f UploadFile, sent func(n int64)) (*transfer.StorageUpload, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	done := make(chan struct{})
	// Closing the reader unblocks the writer; sent is never called after return.
	defer func() {
		pr.Close()
		<-done
	}()
	go func() {
		defer close(done)
		err := writeUploadForm(mw, sig, f, sent)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	endpoint := fmt.Sprintf("%s/%s/auto/upload", c.upload, url.PathEscape(sig.CloudName))

	var out transfer.StorageUpload
	resp, err := c.storage.R().
		SetContext(ctx).
		SetHeader("Content-Type", mw.FormDataContentType()).
		SetBody(pr).
		SetResult(&out).
		Post(endpoint)
	if err := check("upload "+f.Name, "Failed to upload "+f.Name, resp, err); err != nil {
		return nil, err
	}
	if out.SecureURL == "" && out.URL == "" {
		return nil, &models.RemoteError{Op: "upload " + f.Name, Status: resp.StatusCode(), Message: "Storage did not return a media URL"}
	}
	return &out, nil
}

func writeUploadForm(mw *multipart.Writer, sig *transfer.UploadSignature, f UploadFile, sent func(n int64)) error {
	fields := [][2]string{
		{"api_key", sig.APIKey},
		{"timestamp", strconv.FormatInt(sig.Timestamp, 10)},
		{"signature", sig.Signature},
		{"public_id", sig.PublicID},
		{"folder", sig.Folder},
	}
	for _, kv := range fields {
		if kv[1] == "" {
			continue
		}
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return err
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, f.Name))
	if f.MIMEType != "" {
		h.Set("Content-Type", f.MIMEType)
	} else {
		h.Set("Content-Type", "application/octet-stream")
	}
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.Copy(&countingWriter{w: part, sent: sent}, f.Body)
	return err
}

type countingWriter struct {
	w    io.Writer
	n    int64
	sent func(int64)
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	if n > 0 && cw.sent != nil {
		cw.sent(cw.n)
	}
	return n, err
}
