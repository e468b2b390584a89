package cache

import (
	"bytes"
	"compress/gzip"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/untoldecay/rhema/internal/rhemaerr"
)

// Codec identifies a disk-tier compression algorithm, per §4.G.2. Neither
// the teacher nor any other repo in the retrieved pack imports a
// compression library, so Zstd/LZ4 are named-not-grounded out-of-pack
// choices (see DESIGN.md); Gzip rounds out the set from stdlib.
type Codec string

const (
	CodecNone Codec = "none"
	CodecGzip Codec = "gzip"
	CodecZstd Codec = "zstd"
	CodecLZ4  Codec = "lz4"
)

func compress(codec Codec, data []byte) ([]byte, error) {
	switch codec {
	case CodecNone, "":
		return data, nil
	case CodecGzip:
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, &rhemaerr.CompressionError{Key: "", Err: err}
		}
		if err := w.Close(); err != nil {
			return nil, &rhemaerr.CompressionError{Key: "", Err: err}
		}
		return buf.Bytes(), nil
	case CodecZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, &rhemaerr.CompressionError{Key: "", Err: err}
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), nil
	case CodecLZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, &rhemaerr.CompressionError{Key: "", Err: err}
		}
		if err := w.Close(); err != nil {
			return nil, &rhemaerr.CompressionError{Key: "", Err: err}
		}
		return buf.Bytes(), nil
	default:
		return data, nil
	}
}

func decompress(codec Codec, data []byte) ([]byte, error) {
	switch codec {
	case CodecNone, "":
		return data, nil
	case CodecGzip:
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, &rhemaerr.CompressionError{Key: "", Err: err}
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, &rhemaerr.CompressionError{Key: "", Err: err}
		}
		return out, nil
	case CodecZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, &rhemaerr.CompressionError{Key: "", Err: err}
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, &rhemaerr.CompressionError{Key: "", Err: err}
		}
		return out, nil
	case CodecLZ4:
		r := lz4.NewReader(bytes.NewReader(data))
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, &rhemaerr.CompressionError{Key: "", Err: err}
		}
		return out, nil
	default:
		return data, nil
	}
}
