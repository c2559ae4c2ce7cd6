package httpclient

import (
	"bytes"
	"io"
	"maps"
	"mime"
	"mime/multipart"
	"net/textproto"
	"path"
	"slices"
)

const octetStream = "application/octet-stream"

// MultipartBody is a multipart/form-data request body, the shape speech
// sidecars take an audio upload in. The body is buffered so a retried
// request can send it again.
type MultipartBody struct {
	// Fields are plain form values, written in key order.
	Fields map[string]string
	// Files are uploaded after the fields, in slice order.
	Files []FileField
}

// FileField is one uploaded file.
type FileField struct {
	// FieldName is the form field, e.g. "audio".
	FieldName string
	// FileName is the name reported to the server.
	FileName string
	// ContentType defaults to the type registered for the FileName
	// extension, then to application/octet-stream.
	ContentType string
	Data        []byte
}

func (f FileField) contentType() string {
	if f.ContentType != "" {
		return f.ContentType
	}
	if ct := mime.TypeByExtension(path.Ext(f.FileName)); ct != "" {
		return ct
	}
	return octetStream
}

func (f FileField) header() textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     f.FieldName,
		"filename": f.FileName,
	}))
	h.Set("Content-Type", f.contentType())
	return h
}

// encode returns the body and its Content-Type with the boundary.
func (m *MultipartBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, k := range slices.Sorted(maps.Keys(m.Fields)) {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return nil, "", err
		}
	}
	for _, f := range m.Files {
		part, err := w.CreatePart(f.header())
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
