package sink

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/loom/lazytext"
)

func TestWritePlain(t *testing.T) {
	txt := lazytext.NewText("plain output, 世界")

	var buf bytes.Buffer
	res, err := Write(&buf, txt, Options{Encoding: lazytext.UTF8})
	require.NoError(t, err)

	assert.Equal(t, txt.String(), buf.String())
	assert.Equal(t, int64(buf.Len()), res.Encoded)
	assert.Equal(t, res.Encoded, res.Written)
	assert.False(t, res.HasDigest)
}

func TestWriteUTF16(t *testing.T) {
	txt := lazytext.NewText("A")

	var buf bytes.Buffer
	res, err := Write(&buf, txt, Options{Encoding: lazytext.UTF16BE, BOM: true})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFE, 0xFF, 0x00, 0x41}, buf.Bytes())
	assert.Equal(t, int64(4), res.Written)
}

func TestWriteGzip(t *testing.T) {
	content := "compress me, compress me, compress me"
	txt := lazytext.NewText(content)

	var buf bytes.Buffer
	res, err := Write(&buf, txt, Options{Encoding: lazytext.UTF8, Gzip: true})
	require.NoError(t, err)

	assert.Equal(t, int64(len(content)), res.Encoded)
	assert.Equal(t, int64(buf.Len()), res.Written)
	assert.NotEqual(t, res.Encoded, res.Written)

	zr, err := gzip.NewReader(&buf)
	require.NoError(t, err)
	out, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, content, string(out))
}

func TestWriteDigest(t *testing.T) {
	content := "digest this"
	txt := lazytext.NewText(content)

	var buf bytes.Buffer
	res, err := Write(&buf, txt, Options{Encoding: lazytext.UTF8, Digest: true})
	require.NoError(t, err)
	require.True(t, res.HasDigest)
	assert.Equal(t, xxhash.Sum64String(content), res.Digest)
}

func TestWriteDigestCoversEncodedBytes(t *testing.T) {
	// The digest is computed over the encoded stream and is therefore
	// unaffected by compression.
	txt := lazytext.NewText("stable digest")

	var plain, zipped bytes.Buffer
	r1, err := Write(&plain, txt, Options{Encoding: lazytext.UTF16LE, Digest: true})
	require.NoError(t, err)
	r2, err := Write(&zipped, txt, Options{Encoding: lazytext.UTF16LE, Digest: true, Gzip: true})
	require.NoError(t, err)

	assert.Equal(t, r1.Digest, r2.Digest)
	assert.Equal(t, xxhash.Sum64(plain.Bytes()), r1.Digest)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	txt := lazytext.NewText("to a file")

	res, err := WriteFile(path, txt, Options{Encoding: lazytext.UTF8})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "to a file", string(data))
	assert.Equal(t, int64(len(data)), res.Written)
}

func TestWriteFileBadPath(t *testing.T) {
	_, err := WriteFile(filepath.Join(t.TempDir(), "no", "such", "dir", "out"), lazytext.NewText("x"), Options{})
	assert.Error(t, err)
}

func TestWriteDestinationError(t *testing.T) {
	b := lazytext.FromString("first chunk").
		Append(lazytext.Flush()).
		Append(lazytext.FromString("second chunk"))
	txt := lazytext.Build(b)

	w := &failAfter{limit: 5}
	_, err := Write(w, txt, Options{Encoding: lazytext.UTF8})
	assert.Error(t, err)
}

type failAfter struct {
	limit int
	n     int
}

func (w *failAfter) Write(p []byte) (int, error) {
	w.n += len(p)
	if w.n > w.limit {
		return 0, os.ErrClosed
	}
	return len(p), nil
}
