package controllers

import (
	"net/http"
	"strings"

	"github.com/dealboard/dealboard-backend/api/responses"
	"github.com/dealboard/dealboard-backend/api/validators"
	"github.com/dealboard/dealboard-backend/internal/uploads"
	"github.com/dealboard/dealboard-backend/pkg/enums"
	pkgerrors "github.com/dealboard/dealboard-backend/pkg/errors"
	"github.com/dealboard/dealboard-backend/pkg/logger"
)

// maxMultipartMemory caps how much of the upload is buffered in memory; the
// remainder spills to temp files.
const maxMultipartMemory = 32 << 20

// profileSlug picks the upload profile for the request. By default the
// profile is named after the entity kind; a "profile" form or query value
// overrides it.
func profileSlug(r *http.Request, kind enums.EntityKind) string {
	if v := strings.TrimSpace(r.FormValue("profile")); v != "" {
		return v
	}
	return string(kind)
}

// ImageUpload ingests a new original image for the record named in the route.
func ImageUpload(orch *uploads.Orchestrator, kind enums.EntityKind, idParam string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if orch == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "upload pipeline unavailable"))
			return
		}

		ownerID, err := pathID(r, idParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image file is required"))
			return
		}
		defer file.Close()

		rel, err := orch.HandleUpload(r.Context(), kind, ownerID, profileSlug(r, kind), uploads.Upload{
			Filename: header.Filename,
			Size:     header.Size,
			Reader:   file,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"original": rel})
	}
}

// ImageCrop derives the thumbnail and cropped renditions from the stored
// original using the supplied crop window.
func ImageCrop(orch *uploads.Orchestrator, kind enums.EntityKind, idParam string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if orch == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "upload pipeline unavailable"))
			return
		}

		ownerID, err := pathID(r, idParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var rect uploads.CropRect
		if err := validators.DecodeJSONBody(r, &rect); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := validators.ValidateStruct(rect); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := orch.HandleCrop(r.Context(), kind, ownerID, profileSlug(r, kind), rect)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, out)
	}
}
