package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"plinio/services/delivery"
)

func downloadEngine(svc *stubDelivery) *gin.Engine {
	h := NewDownloadHandler(svc, testLogger())
	engine := gin.New()
	engine.GET("/api/digital/download/:token", h.Download)
	return engine
}

func TestDownloadHandler_Streams(t *testing.T) {
	svc := &stubDelivery{fn: func(ctx context.Context, token string) (*delivery.Asset, error) {
		if token != "secret-1" {
			t.Errorf("token %q", token)
		}
		return &delivery.Asset{
			Body:               io.NopCloser(strings.NewReader("pdf-bytes")),
			ContentType:        "application/pdf",
			ContentDisposition: `attachment; filename="guida.pdf"`,
			ContentLength:      9,
		}, nil
	}}
	engine := downloadEngine(svc)

	w := performJSON(t, engine, http.MethodGet, "/api/digital/download/secret-1", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if w.Body.String() != "pdf-bytes" {
		t.Errorf("body %q", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "guida.pdf") {
		t.Errorf("disposition %q", cd)
	}
}

func TestDownloadHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{delivery.ErrInvalidToken, http.StatusNotFound},
		{delivery.ErrRevoked, http.StatusForbidden},
		{delivery.ErrExpired, http.StatusGone},
		{delivery.ErrExhausted, http.StatusGone},
		{delivery.ErrAssetUnavailable, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		svc := &stubDelivery{fn: func(ctx context.Context, token string) (*delivery.Asset, error) {
			return nil, tc.err
		}}
		engine := downloadEngine(svc)

		w := performJSON(t, engine, http.MethodGet, "/api/digital/download/any", nil, nil)
		if w.Code != tc.status {
			t.Errorf("%v: status %d, want %d", tc.err, w.Code, tc.status)
		}
	}
}
