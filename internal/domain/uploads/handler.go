package uploads

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"akita-connect/internal/middleware"
	"akita-connect/internal/platform/httpx"
)

// maxUploadBytes caps a single multipart upload.
const maxUploadBytes = 10 << 20

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/uploads", uploadHandler(svc))
}

func uploadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.Error(w, http.StatusUnauthorized, "missing or invalid token")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "missing file field")
			return
		}
		defer file.Close()

		name := header.Filename
		if override := r.FormValue("filename"); override != "" {
			name = override
		}

		res, err := svc.Save(r.Context(), claims.UserID, name, header.Header.Get("Content-Type"), file)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				httpx.Error(w, http.StatusBadRequest, err.Error())
				return
			}
			httpx.Error(w, http.StatusInternalServerError, "could not store file")
			return
		}

		httpx.JSON(w, http.StatusCreated, map[string]string{
			"path": res.Path,
			"url":  res.URL,
		})
	}
}
