package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiver_Put(t *testing.T) {
	var gotMethod, gotPath, gotBody, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a, err := NewArchiver(context.Background(), Options{
		Endpoint:  srv.URL,
		Region:    "auto",
		Bucket:    "archive",
		AccessKey: "ak",
		SecretKey: "sk",
		Prefix:    "reports",
	})
	require.NoError(t, err)

	key, err := a.Put(context.Background(), "bonus-2026-10.pdf", []byte("pdf-bytes"), "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, "reports/bonus-2026-10.pdf", key)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/archive/reports/bonus-2026-10.pdf", gotPath)
	assert.Equal(t, "application/pdf", gotType)
	assert.Contains(t, gotBody, "pdf-bytes")
}

func TestArchiver_Key(t *testing.T) {
	a := &Archiver{prefix: "reports/"}
	assert.Equal(t, "reports/x.xlsx", a.Key("x.xlsx"))
}
