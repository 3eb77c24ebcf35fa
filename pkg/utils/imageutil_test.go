package utils

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestDownloadImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Write(pngHeader)
		case "/text":
			w.Write([]byte("hello world, not an image"))
		case "/movie.mp4":
			w.Write([]byte("\x00\x00\x00\x18ftypisom\x00\x00\x02\x00isomiso2"))
		case "/empty":
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	tests := []struct {
		name    string
		path    string
		maxSize int64
		wantErr bool
		tooBig  bool
	}{
		{name: "png", path: "/ok.png", maxSize: 1024},
		{name: "exact limit", path: "/ok.png", maxSize: int64(len(pngHeader))},
		{name: "too large", path: "/ok.png", maxSize: 8, wantErr: true, tooBig: true},
		{name: "not an image", path: "/text", maxSize: 1024, wantErr: true},
		{name: "mp4", path: "/movie.mp4", maxSize: 1024, wantErr: true},
		{name: "empty", path: "/empty", maxSize: 1024, wantErr: true},
		{name: "missing", path: "/missing", maxSize: 1024, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, contentType, err := DownloadImage(context.Background(), srv.Client(), srv.URL+tt.path, tt.maxSize)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d bytes", len(data))
				}
				if tt.tooBig && !errors.Is(err, ErrSourceTooLarge) {
					t.Errorf("error = %v, want ErrSourceTooLarge", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if contentType != "image/png" {
				t.Errorf("content type = %q, want image/png", contentType)
			}
		})
	}
}

func TestDownloadImageRejectsBadURL(t *testing.T) {
	for _, u := range []string{"", "ftp://example.com/a.png", "not a url", "http://"} {
		if _, _, err := DownloadImage(context.Background(), http.DefaultClient, u, 10); err == nil {
			t.Errorf("DownloadImage(%q) expected error", u)
		}
	}
}

func TestFilenames(t *testing.T) {
	name := GenerateFilename("photo.jpg", "tenant1", ".jpeg")
	pattern := regexp.MustCompile(`^photo\.jpg_tenant1_[0-9a-f-]{36}\.jpeg$`)
	if !pattern.MatchString(name) {
		t.Errorf("GenerateFilename = %q", name)
	}
	if got := DisplayFilename("photo.jpg", ".jpeg"); got != "photo.jpg_watermark_.jpeg" {
		t.Errorf("DisplayFilename = %q", got)
	}
	if got := GenerateStorageKey("/attachment/", "a.png"); got != "attachment/a.png" {
		t.Errorf("GenerateStorageKey = %q", got)
	}
	if got := GenerateStorageKey("", "a.png"); got != "a.png" {
		t.Errorf("GenerateStorageKey without prefix = %q", got)
	}
}

func TestIsHeifHeader(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{name: "heic", data: []byte("\x00\x00\x00\x18ftypheic\x00\x00\x00\x00"), want: true},
		{name: "mif1", data: []byte("\x00\x00\x00\x18ftypmif1\x00\x00\x00\x00"), want: true},
		{name: "mp4", data: []byte("\x00\x00\x00\x18ftypisom\x00\x00\x00\x00"), want: false},
		{name: "png", data: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0d"), want: false},
		{name: "short", data: []byte("ftyp"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHeifHeader(tt.data); got != tt.want {
				t.Errorf("IsHeifHeader = %v, want %v", got, tt.want)
			}
		})
	}
}
