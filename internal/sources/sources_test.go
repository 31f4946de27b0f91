package sources

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOpener struct {
	files map[string]string
	asked []string
}

func (f *fakeOpener) Open(_ context.Context, p string) (io.ReadCloser, error) {
	f.asked = append(f.asked, p)
	body, ok := f.files[p]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func TestFile(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "courses.csv")
	require.NoError(t, os.WriteFile(p, []byte("Course Name\r\nIntro\r\n"), 0o600))

	var src Source = File{Path: p}
	assert.Equal(t, "file:"+p, src.Name())

	rc, err := src.Open(context.Background())
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "Course Name\r\nIntro\r\n", string(b))

	_, err = File{Path: filepath.Join(t.TempDir(), "missing.csv")}.Open(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Open(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSFTP(t *testing.T) {
	t.Parallel()

	fake := &fakeOpener{files: map[string]string{
		"/inbound/courses.csv": "a",
		"/elsewhere/x.csv":     "b",
	}}

	var src Source = SFTP{Client: fake, Dir: "/inbound", File: "courses.csv"}
	assert.Equal(t, "sftp:/inbound/courses.csv", src.Name())
	rc, err := src.Open(context.Background())
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	assert.Equal(t, "a", string(b))

	rc, err = SFTP{Client: fake, Dir: "/inbound", File: "/elsewhere/x.csv"}.Open(context.Background())
	require.NoError(t, err)
	b, _ = io.ReadAll(rc)
	assert.Equal(t, "b", string(b))

	_, err = SFTP{Client: fake, Dir: "/inbound"}.Open(context.Background())
	assert.Error(t, err)

	_, err = SFTP{Client: fake, Dir: "/inbound", File: "gone.csv"}.Open(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, []string{"/inbound/courses.csv", "/elsewhere/x.csv", "/inbound/gone.csv"}, fake.asked)
}
