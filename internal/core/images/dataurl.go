// Package images converts data-URL image previews into binary payloads ready
// for upload to the blob storage service.
package images

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// ChunkSize is the fixed size of each payload chunk in bytes.
const ChunkSize = 512

// Payload is a decoded image split into fixed-size chunks. The final chunk is
// shorter when the image length is not a multiple of ChunkSize.
type Payload struct {
	Chunks   [][]byte
	MimeType string
}

// Bytes concatenates the chunks into the single binary object the storage
// service expects.
func (p Payload) Bytes() []byte {
	var size int
	for _, c := range p.Chunks {
		size += len(c)
	}
	out := make([]byte, 0, size)
	for _, c := range p.Chunks {
		out = append(out, c...)
	}
	return out
}

// Size returns the total decoded length in bytes.
func (p Payload) Size() int {
	var size int
	for _, c := range p.Chunks {
		size += len(c)
	}
	return size
}

// DecodeDataURL decodes a data URL ("data:<mime>;base64,<payload>") into a
// chunked binary payload. Previews originate from a trusted file read in the
// UI layer, so a decode failure means a caller bug rather than bad user input;
// it is still reported as an error so the upload pipeline can abort cleanly.
func DecodeDataURL(dataURL string) (Payload, error) {
	meta, encoded, found := strings.Cut(dataURL, ",")
	if !found {
		return Payload{}, fmt.Errorf("data URL missing payload separator")
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Payload{}, fmt.Errorf("decode data URL payload: %w", err)
	}

	chunks := make([][]byte, 0, (len(raw)+ChunkSize-1)/ChunkSize)
	for off := 0; off < len(raw); off += ChunkSize {
		end := off + ChunkSize
		if end > len(raw) {
			end = len(raw)
		}
		chunks = append(chunks, raw[off:end])
	}

	return Payload{
		Chunks:   chunks,
		MimeType: mimeFromMeta(meta),
	}, nil
}

// mimeFromMeta pulls the MIME type out of the metadata segment
// ("data:image/png;base64" -> "image/png").
func mimeFromMeta(meta string) string {
	meta = strings.TrimPrefix(meta, "data:")
	if semi := strings.Index(meta, ";"); semi >= 0 {
		meta = meta[:semi]
	}
	if meta == "" {
		return "application/octet-stream"
	}
	return meta
}
