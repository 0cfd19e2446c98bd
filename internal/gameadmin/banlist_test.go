package gameadmin

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/HandsOfHimeros/Cupids-Killfeed-sub001/internal/remote"
)

type memorySource struct {
	files       map[string]string
	downloadErr error
	uploadErr   error
	uploads     int
}

func (m *memorySource) List(context.Context, string) ([]remote.FileInfo, error) { return nil, nil }

func (m *memorySource) Download(_ context.Context, path string) ([]byte, error) {
	if m.downloadErr != nil {
		return nil, m.downloadErr
	}
	content, ok := m.files[path]
	if !ok {
		return nil, errors.New("550 no such file")
	}
	return []byte(content), nil
}

func (m *memorySource) Upload(_ context.Context, path string, data []byte) error {
	if m.uploadErr != nil {
		return m.uploadErr
	}
	m.uploads++
	m.files[path] = string(data)
	return nil
}

func (m *memorySource) Close() error { return nil }

func TestBanPlayerAppends(t *testing.T) {
	src := &memorySource{files: map[string]string{"ban.txt": "Existing\n"}}
	b := NewBanlistBanner(src, "ban.txt")

	if err := b.BanPlayer(context.Background(), "Cheater", "test"); err != nil {
		t.Fatalf("BanPlayer: %v", err)
	}
	got := src.files["ban.txt"]
	if got != "Existing\nCheater\n" {
		t.Errorf("banlist = %q", got)
	}
}

func TestBanPlayerIdempotent(t *testing.T) {
	src := &memorySource{files: map[string]string{"ban.txt": "Cheater\n"}}
	b := NewBanlistBanner(src, "ban.txt")

	if err := b.BanPlayer(context.Background(), "cheater", "test"); err != nil {
		t.Fatalf("BanPlayer: %v", err)
	}
	if src.uploads != 0 {
		t.Error("rewrote banlist for an already-banned player")
	}
}

func TestBanPlayerMissingBanlistStartsFresh(t *testing.T) {
	src := &memorySource{files: map[string]string{}}
	b := NewBanlistBanner(src, "ban.txt")

	if err := b.BanPlayer(context.Background(), "Cheater", "test"); err != nil {
		t.Fatalf("BanPlayer: %v", err)
	}
	if src.files["ban.txt"] != "Cheater\n" {
		t.Errorf("banlist = %q", src.files["ban.txt"])
	}
}

func TestBanPlayerDownloadFailureAborts(t *testing.T) {
	src := &memorySource{
		files:       map[string]string{"ban.txt": "Existing\n"},
		downloadErr: errors.New("connection reset"),
	}
	b := NewBanlistBanner(src, "ban.txt")

	err := b.BanPlayer(context.Background(), "Cheater", "test")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "banlist") {
		t.Errorf("err = %v", err)
	}
	if src.uploads != 0 {
		t.Error("uploaded after a failed read, existing entries at risk")
	}
}

func TestBanPlayerValidation(t *testing.T) {
	src := &memorySource{files: map[string]string{}}
	if err := NewBanlistBanner(src, "").BanPlayer(context.Background(), "x", "r"); err == nil {
		t.Error("empty banlist path accepted")
	}
	if err := NewBanlistBanner(src, "ban.txt").BanPlayer(context.Background(), "", "r"); err == nil {
		t.Error("empty identifier accepted")
	}
}
