package report

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderHTML(t *testing.T) {
	var gotPath string
	var gotHTML string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		file, header, err := r.FormFile("files")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		require.Equal(t, "document.html", header.Filename)
		var sb strings.Builder
		buf := make([]byte, 1024)
		for {
			n, err := file.Read(buf)
			sb.Write(buf[:n])
			if err != nil {
				break
			}
		}
		gotHTML = sb.String()
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7 fake"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	pdf, err := client.RenderHTML(context.Background(), "<h1>Presupuesto</h1>")
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.7 fake", string(pdf))
	require.Equal(t, "/forms/chromium/convert/html", gotPath)
	require.Contains(t, gotHTML, "<h1>Presupuesto</h1>")
}

func TestRenderHTMLErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.RenderHTML(context.Background(), "<p>x</p>")
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 500")
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL).Ping(context.Background()))
}

func TestPingUnhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	require.Error(t, NewClient(srv.URL).Ping(context.Background()))
}
