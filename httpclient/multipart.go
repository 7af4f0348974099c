package httpclient

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strings"
)

const defaultPartContentType = "application/octet-stream"

// MultipartBody is a multipart/form-data upload. Setting it on a POST or PUT
// replaces the JSON payload and marks the call as an upload.
type MultipartBody struct {
	// Fields are simple form fields, written in key order.
	Fields map[string]string
	// Files are file parts, written after the fields in slice order.
	Files []FilePart
}

// FilePart is one file in a multipart upload.
type FilePart struct {
	// FieldName is the form field name (e.g., "file").
	FieldName string
	// FileName is the file name sent to the server.
	FileName string
	// ContentType defaults to application/octet-stream.
	ContentType string
	// Data is the file content. Used if Reader is nil.
	Data []byte
	// Reader streams the file content.
	Reader io.Reader
}

// AddField sets a form field and returns the receiver.
func (m *MultipartBody) AddField(name, value string) *MultipartBody {
	if m.Fields == nil {
		m.Fields = make(map[string]string)
	}
	m.Fields[name] = value
	return m
}

// AddFile appends a file part read from r and returns the receiver.
func (m *MultipartBody) AddFile(fieldName, fileName string, r io.Reader) *MultipartBody {
	m.Files = append(m.Files, FilePart{FieldName: fieldName, FileName: fileName, Reader: r})
	return m
}

// encode builds the body and returns it with its Content-Type header.
func (m *MultipartBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return nil, "", err
		}
	}

	for _, f := range m.Files {
		if err := writeFilePart(w, f); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func writeFilePart(w *multipart.Writer, f FilePart) error {
	contentType := f.ContentType
	if contentType == "" {
		contentType = defaultPartContentType
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		`form-data; name="`+quoteEscaper.Replace(f.FieldName)+`"; filename="`+quoteEscaper.Replace(f.FileName)+`"`)
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return err
	}
	switch {
	case f.Reader != nil:
		_, err = io.Copy(part, f.Reader)
	case f.Data != nil:
		_, err = part.Write(f.Data)
	}
	return err
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")
