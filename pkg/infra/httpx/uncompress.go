package httpx

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// DecodeChain decodes a body according to a Content-Encoding header value.
// Chained encodings ("gzip, br") are undone in reverse order. For deflate both zlib-wrapped
// and raw streams are accepted. Returns the decoded body and whether it changed.
func DecodeChain(contentEncoding string, body []byte) ([]byte, bool, error) {
	if strings.TrimSpace(contentEncoding) == "" {
		return body, false, nil
	}
	compressions := strings.Split(contentEncoding, ",")
	changed := false
	for i := len(compressions) - 1; i >= 0; i-- {
		var (
			out []byte
			err error
		)
		switch strings.TrimSpace(strings.ToLower(compressions[i])) {
		case "br":
			out, err = io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
		case "gzip", "x-gzip":
			out, err = gunzip(body)
		case "zstd":
			out, err = unzstd(body)
		case "deflate":
			out, err = inflate(body)
		case "compress", "identity", "":
			continue
		default:
			return nil, false, fmt.Errorf("unsupported content-encoding: %q", compressions[i])
		}
		if err != nil {
			return nil, false, err
		}
		body = out
		changed = true
	}
	return body, changed, nil
}

func gunzip(body []byte) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	out, err := io.ReadAll(gr)
	cerr := gr.Close()
	if err != nil {
		return nil, err
	}
	return out, cerr
}

func unzstd(body []byte) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}

func inflate(body []byte) ([]byte, error) {
	if zr, err := zlib.NewReader(bytes.NewReader(body)); err == nil {
		out, err := io.ReadAll(zr)
		cerr := zr.Close()
		if err != nil {
			return nil, err
		}
		return out, cerr
	}
	fr := flate.NewReader(bytes.NewReader(body))
	out, err := io.ReadAll(fr)
	cerr := fr.Close()
	if err != nil {
		return nil, err
	}
	return out, cerr
}
