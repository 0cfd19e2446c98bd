// Package remote abstracts the file hosting side of a game server: the only
// primitives available are listing a directory, downloading a whole file and
// uploading a whole file. There is no tail/append protocol, which is what
// forces the cursor-diff strategy in the feed package.
package remote

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// FileInfo describes one remote file.
type FileInfo struct {
	Name       string
	Size       int64
	ModifiedAt time.Time
}

// Source is a whole-file remote filesystem.
//
// Download returns the raw bytes of the file; callers decode them with
// DecodeLines since game servers commonly write UTF-16LE logs.
type Source interface {
	List(ctx context.Context, dir string) ([]FileInfo, error)
	Download(ctx context.Context, path string) ([]byte, error)
	Upload(ctx context.Context, path string, data []byte) error
	Close() error
}

// Credentials carries everything needed to open a Source for one guild.
type Credentials struct {
	Protocol string // "ftp", "sftp" or "local"
	Host     string
	Port     string
	User     string
	Password string
}

// ErrNoCredentials is returned when a guild has no usable remoteConfig.
var ErrNoCredentials = errors.New("remote: missing credentials")

// Dial opens a Source for the given credentials.
func Dial(creds Credentials) (Source, error) {
	switch creds.Protocol {
	case "ftp":
		if creds.Host == "" || creds.User == "" {
			return nil, ErrNoCredentials
		}
		return dialFTP(creds)
	case "sftp":
		if creds.Host == "" || creds.User == "" {
			return nil, ErrNoCredentials
		}
		return dialSFTP(creds)
	case "local":
		return newLocalDir(), nil
	default:
		return nil, fmt.Errorf("remote: unknown protocol %q", creds.Protocol)
	}
}
