package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/skip2/go-qrcode"
)

const (
	qrDefaultSize = 256
	qrMinSize     = 128
	qrMaxSize     = 1024
)

// qrCode writes a PNG QR code encoding the short URL of an existing code.
func (h *webHandler) qrCode(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	size := qrDefaultSize
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < qrMinSize || n > qrMaxSize {
			render.Status(r, http.StatusBadRequest)
			render.PlainText(w, r, "size must be a number between 128 and 1024")
			return
		}
		size = n
	}

	url, ok := h.resolve(w, r, shortCode)
	if !ok {
		return
	}

	png, err := qrcode.Encode(h.links.shortURL(r, url.ShortCode), qrcode.Medium, size)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
