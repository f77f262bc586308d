package service

import (
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ImageInput carries an attached image either as raw upload bytes or as an
// already encoded URI. Data takes precedence when both are set.
type ImageInput struct {
	Data []byte
	URI  string
}

// EncodeDataURI turns raw bytes into a self-contained data URI using the sniffed MIME type.
func EncodeDataURI(data []byte) string {
	mime := mimetype.Detect(data).String()
	if idx := strings.IndexByte(mime, ';'); idx >= 0 {
		mime = mime[:idx]
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func (in *ImageInput) resolve() *string {
	if in == nil {
		return nil
	}
	if len(in.Data) > 0 {
		uri := EncodeDataURI(in.Data)
		return &uri
	}
	if in.URI != "" {
		uri := in.URI
		return &uri
	}
	return nil
}
