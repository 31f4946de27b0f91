// Package sources locates the CSV input of a bulk-create run.
package sources

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
)

type Source interface {
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// File reads a local file.
type File struct {
	Path string
}

func (f File) Name() string { return "file:" + f.Path }

func (f File) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rc, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("sources: %w", err)
	}
	return rc, nil
}

// RemoteOpener is satisfied by *sftpclient.Client.
type RemoteOpener interface {
	Open(ctx context.Context, remotePath string) (io.ReadCloser, error)
}

// SFTP reads File from Dir on the drop-box. An absolute File ignores Dir.
type SFTP struct {
	Client RemoteOpener
	Dir    string
	File   string
}

func (s SFTP) Name() string { return "sftp:" + s.remotePath() }

func (s SFTP) Open(ctx context.Context) (io.ReadCloser, error) {
	if s.File == "" {
		return nil, fmt.Errorf("sources: sftp file name is empty")
	}
	return s.Client.Open(ctx, s.remotePath())
}

func (s SFTP) remotePath() string {
	if path.IsAbs(s.File) || s.Dir == "" {
		return s.File
	}
	return path.Join(s.Dir, s.File)
}
