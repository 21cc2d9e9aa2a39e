package api

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const maxBodyBytes = 16 << 20

// readBody reads a response body, undoing the Content-Encoding. The client
// sets Accept-Encoding itself, so net/http leaves decompression to us.
func readBody(body io.Reader, contentEncoding string) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if len(raw) == 0 {
		return raw, nil
	}

	switch strings.ToLower(strings.TrimSpace(contentEncoding)) {
	case "", "identity":
		return raw, nil
	case "gzip", "x-gzip":
		reader, errGzip := gzip.NewReader(bytes.NewReader(raw))
		if errGzip != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", errGzip)
		}
		defer func() { _ = reader.Close() }()
		return readAllDecoded(reader, "gzip")
	case "deflate":
		reader := flate.NewReader(bytes.NewReader(raw))
		defer func() { _ = reader.Close() }()
		return readAllDecoded(reader, "deflate")
	case "br":
		return readAllDecoded(brotli.NewReader(bytes.NewReader(raw)), "brotli")
	case "zstd":
		decoder, errZstd := zstd.NewReader(bytes.NewReader(raw))
		if errZstd != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", errZstd)
		}
		defer decoder.Close()
		return readAllDecoded(decoder, "zstd")
	default:
		return raw, nil
	}
}

func readAllDecoded(r io.Reader, name string) ([]byte, error) {
	out, err := io.ReadAll(io.LimitReader(r, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s data: %w", name, err)
	}
	return out, nil
}
