package remote

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

type sftpSource struct {
	mu      sync.Mutex
	creds   Credentials
	sshConn *ssh.Client
	conn    *sftp.Client
}

func dialSFTP(creds Credentials) (Source, error) {
	s := &sftpSource{creds: creds}
	if _, err := s.client(); err != nil {
		return nil, err
	}
	return s, nil
}

// client returns a live SFTP client, reconnecting if the cached one no
// longer answers a Stat. Caller must hold s.mu.
func (s *sftpSource) client() (*sftp.Client, error) {
	if s.conn != nil {
		if _, err := s.conn.Stat("."); err == nil {
			return s.conn, nil
		}
		log.Printf("Existing SFTP connection is dead, creating new one")
		s.closeLocked()
	}

	sshConfig := &ssh.ClientConfig{
		User: s.creds.User,
		Auth: []ssh.AuthMethod{
			ssh.Password(s.creds.Password),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         30 * time.Second,
	}

	sshClient, err := ssh.Dial("tcp", fmt.Sprintf("%s:%s", s.creds.Host, s.creds.Port), sshConfig)
	if err != nil {
		return nil, fmt.Errorf("SSH connection failed: %w", err)
	}

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, fmt.Errorf("SFTP client creation failed: %w", err)
	}

	s.sshConn = sshClient
	s.conn = sftpClient
	return sftpClient, nil
}

func (s *sftpSource) List(ctx context.Context, dir string) ([]FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	client, err := s.client()
	if err != nil {
		return nil, err
	}

	entries, err := client.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, FileInfo{
			Name:       entry.Name(),
			Size:       entry.Size(),
			ModifiedAt: entry.ModTime(),
		})
	}
	return files, nil
}

func (s *sftpSource) Download(ctx context.Context, remotePath string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	client, err := s.client()
	if err != nil {
		return nil, err
	}

	f, err := client.Open(remotePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", remotePath, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", remotePath, err)
	}
	return data, nil
}

func (s *sftpSource) Upload(ctx context.Context, remotePath string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	client, err := s.client()
	if err != nil {
		return err
	}

	f, err := client.Create(remotePath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", remotePath, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", remotePath, err)
	}
	return nil
}

func (s *sftpSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
	return nil
}

func (s *sftpSource) closeLocked() {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	if s.sshConn != nil {
		s.sshConn.Close()
		s.sshConn = nil
	}
}
