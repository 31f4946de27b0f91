// Package sftpclient moves files to and from the SFTP drop-box.
package sftpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"path"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"course-bulk/internal/config"
	"course-bulk/internal/logger"
)

const dialTimeout = 20 * time.Second

// Client opens one SSH connection per operation against the configured host.
type Client struct {
	cfg config.SFTPConfig
	log *logger.Logger
}

// New returns a client for cfg, defaulting the port to 22.
func New(cfg config.SFTPConfig, log *logger.Logger) *Client {
	if cfg.Port <= 0 {
		cfg.Port = 22
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{cfg: cfg, log: log}
}

// Open streams a remote file. Closing the reader closes the connection.
func (c *Client) Open(ctx context.Context, remotePath string) (io.ReadCloser, error) {
	sess, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	f, err := sess.sftp.Open(remotePath)
	if err != nil {
		sess.Close()
		return nil, fmt.Errorf("sftp: open %s: %w", remotePath, err)
	}
	c.log.Debug("sftp open", "path", remotePath)
	return &remoteFile{File: f, sess: sess}, nil
}

// Download copies a remote file into w.
func (c *Client) Download(ctx context.Context, remotePath string, w io.Writer) (int64, error) {
	rc, err := c.Open(ctx, remotePath)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	n, err := io.Copy(w, rc)
	if err != nil {
		return n, fmt.Errorf("sftp: download %s: %w", remotePath, err)
	}
	c.log.Info("sftp download", "path", remotePath, "bytes", n)
	return n, nil
}

// Upload writes r to remoteDir/name, creating remoteDir when missing.
func (c *Client) Upload(ctx context.Context, remoteDir, name string, r io.Reader) (int64, error) {
	if remoteDir == "" {
		remoteDir = "/"
	}
	sess, err := c.connect(ctx)
	if err != nil {
		return 0, err
	}
	defer sess.Close()

	if err := sess.sftp.MkdirAll(remoteDir); err != nil {
		return 0, fmt.Errorf("sftp: mkdir %s: %w", remoteDir, err)
	}

	remotePath := path.Join(remoteDir, name)
	dst, err := sess.sftp.Create(remotePath)
	if err != nil {
		return 0, fmt.Errorf("sftp: create remote file: %w", err)
	}
	defer dst.Close()

	n, err := io.Copy(dst, r)
	if err != nil {
		return n, fmt.Errorf("sftp: upload copy: %w", err)
	}
	c.log.Info("sftp upload", "path", remotePath, "bytes", n)
	return n, nil
}

type session struct {
	ssh  *ssh.Client
	sftp *sftp.Client
}

func (s *session) Close() error {
	return errors.Join(s.sftp.Close(), s.ssh.Close())
}

type remoteFile struct {
	*sftp.File
	sess *session
}

func (f *remoteFile) Close() error {
	return errors.Join(f.File.Close(), f.sess.Close())
}

func (c *Client) connect(ctx context.Context) (*session, error) {
	if err := c.cfg.RequireSFTP(); err != nil {
		return nil, err
	}
	cb, err := hostKeyCallback(c.cfg)
	if err != nil {
		return nil, err
	}

	sshCfg := &ssh.ClientConfig{
		User:            c.cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(c.cfg.Pass)},
		HostKeyCallback: cb,
		Timeout:         dialTimeout,
	}
	addr := net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port))

	d := net.Dialer{Timeout: dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("sftp: dial error: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	sc, chans, reqs, err := ssh.NewClientConn(conn, addr, sshCfg)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("sftp: handshake: %w", err)
	}
	_ = conn.SetDeadline(time.Time{})
	sshClient := ssh.NewClient(sc, chans, reqs)

	sftpCli, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, fmt.Errorf("sftp: new client: %w", err)
	}
	return &session{ssh: sshClient, sftp: sftpCli}, nil
}

func hostKeyCallback(cfg config.SFTPConfig) (ssh.HostKeyCallback, error) {
	if cfg.KnownHostsPath != "" {
		cb, err := knownhosts.New(cfg.KnownHostsPath)
		if err != nil {
			return nil, fmt.Errorf("sftp: known_hosts: %w", err)
		}
		return cb, nil
	}
	if cfg.InsecureIgnoreHostKey {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	return nil, errors.New("sftp: no host key verification configured")
}
