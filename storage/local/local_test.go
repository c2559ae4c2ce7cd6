package local

import (
	"context"
	stderrors "errors"
	"io"
	"strings"
	"testing"

	"github.com/kbukum/asreval/errors"
)

func TestStorage_UploadDownload(t *testing.T) {
	ctx := context.Background()
	s, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Upload(ctx, "input/a.wav", strings.NewReader("RIFF")); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	rc, err := s.Download(ctx, "input/a.wav")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "RIFF" {
		t.Errorf("data = %q", data)
	}
}

func TestStorage_DownloadMissing(t *testing.T) {
	s, _ := NewStorage(t.TempDir())
	_, err := s.Download(context.Background(), "nope.json")
	if !stderrors.Is(err, errors.New(errors.ErrCodeNotFound, "")) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestStorage_RejectsEscapingPath(t *testing.T) {
	s, _ := NewStorage(t.TempDir())
	err := s.Upload(context.Background(), "../outside.txt", strings.NewReader("x"))
	if !stderrors.Is(err, errors.New(errors.ErrCodeInvalidInput, "")) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestStorage_ExistsDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := NewStorage(t.TempDir())
	_ = s.Upload(ctx, "x.txt", strings.NewReader("x"))

	ok, err := s.Exists(ctx, "x.txt")
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}
	if err := s.Delete(ctx, "x.txt"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := s.Exists(ctx, "x.txt"); ok {
		t.Error("expected file to be gone")
	}
	if err := s.Delete(ctx, "x.txt"); err != nil {
		t.Errorf("deleting a missing file should succeed, got %v", err)
	}
}

func TestStorage_List(t *testing.T) {
	ctx := context.Background()
	s, _ := NewStorage(t.TempDir())
	for _, p := range []string{"output/Ab.json", "output/Aa.json", "input/a.wav", "outputs-old/x.json"} {
		if err := s.Upload(ctx, p, strings.NewReader("{}")); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		prefix string
		want   []string
	}{
		{"output/", []string{"output/Aa.json", "output/Ab.json"}},
		{"input/", []string{"input/a.wav"}},
		{"missing/", nil},
		{"", []string{"input/a.wav", "output/Aa.json", "output/Ab.json", "outputs-old/x.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			files, err := s.List(ctx, tt.prefix)
			if err != nil {
				t.Fatal(err)
			}
			if len(files) != len(tt.want) {
				t.Fatalf("got %d files, want %d: %v", len(files), len(tt.want), files)
			}
			for i, f := range files {
				if f.Path != tt.want[i] {
					t.Errorf("files[%d] = %q, want %q", i, f.Path, tt.want[i])
				}
			}
		})
	}
}

func TestStorage_URL(t *testing.T) {
	s, _ := NewStorage(t.TempDir())
	u, err := s.URL(context.Background(), "a/b.wav")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(u, "file://") || !strings.HasSuffix(u, "/a/b.wav") {
		t.Errorf("URL = %q", u)
	}
}
