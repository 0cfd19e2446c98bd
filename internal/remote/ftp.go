package remote

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log"
	"path"
	"sync"
	"time"

	"github.com/jlaffaye/ftp"
)

// ftpSource wraps a single FTP control connection. Access is serialized: the
// FTP protocol allows one transfer per control connection, and the engine's
// transfer semaphore already bounds cross-guild concurrency.
type ftpSource struct {
	mu       sync.Mutex
	creds    Credentials
	conn     *ftp.ServerConn
	lastUsed time.Time
}

func dialFTP(creds Credentials) (Source, error) {
	s := &ftpSource{creds: creds}
	if _, err := s.connection(); err != nil {
		return nil, err
	}
	return s, nil
}

// connection returns a live control connection, reconnecting if the cached
// one no longer answers NOOP. Caller must hold s.mu.
func (s *ftpSource) connection() (*ftp.ServerConn, error) {
	if s.conn != nil {
		if err := s.conn.NoOp(); err == nil {
			s.lastUsed = time.Now()
			return s.conn, nil
		}
		log.Printf("Existing FTP connection is dead, creating new one")
		s.conn.Quit()
		s.conn = nil
	}

	address := fmt.Sprintf("%s:%s", s.creds.Host, s.creds.Port)
	conn, err := ftp.Dial(address,
		ftp.DialWithTimeout(30*time.Second),
		ftp.DialWithDisabledEPSV(true),
	)
	if err != nil {
		// Fall back to explicit FTPS; some hosts refuse plaintext logins.
		tlsConfig := &tls.Config{
			InsecureSkipVerify: true,
			ServerName:         s.creds.Host,
			MinVersion:         tls.VersionTLS12,
		}
		conn, err = ftp.Dial(address,
			ftp.DialWithTimeout(30*time.Second),
			ftp.DialWithExplicitTLS(tlsConfig),
			ftp.DialWithDisabledEPSV(true),
		)
		if err != nil {
			return nil, fmt.Errorf("FTP connection failed (both plain and TLS): %w", err)
		}
	}

	if err := conn.Login(s.creds.User, s.creds.Password); err != nil {
		conn.Quit()
		return nil, fmt.Errorf("FTP login failed: %w", err)
	}
	if err := conn.Type(ftp.TransferTypeBinary); err != nil {
		log.Printf("Warning: failed to set binary mode: %v", err)
	}

	s.conn = conn
	s.lastUsed = time.Now()
	return conn, nil
}

func (s *ftpSource) List(ctx context.Context, dir string) ([]FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	conn, err := s.connection()
	if err != nil {
		return nil, err
	}

	entries, err := conn.List(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.Type != ftp.EntryTypeFile {
			continue
		}
		files = append(files, FileInfo{
			Name:       entry.Name,
			Size:       int64(entry.Size),
			ModifiedAt: entry.Time,
		})
	}
	return files, nil
}

func (s *ftpSource) Download(ctx context.Context, remotePath string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	conn, err := s.connection()
	if err != nil {
		return nil, err
	}

	resp, err := conn.Retr(remotePath)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve %s: %w", remotePath, err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", remotePath, err)
	}
	return data, nil
}

func (s *ftpSource) Upload(ctx context.Context, remotePath string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	conn, err := s.connection()
	if err != nil {
		return err
	}

	if err := conn.Stor(remotePath, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to store %s: %w", path.Base(remotePath), err)
	}
	return nil
}

func (s *ftpSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		err := s.conn.Quit()
		s.conn = nil
		return err
	}
	return nil
}
