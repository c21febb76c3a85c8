package handlers

import (
	"net/http"
	"os"
)

// UploadPhotoHandler routes journal photo uploads to GCS in production and to
// local disk in development. Cloud Run sets K_SERVICE; anything else needs
// USE_GCS=true or application credentials.
func UploadPhotoHandler(w http.ResponseWriter, r *http.Request) {
	useGCS := os.Getenv("USE_GCS") == "true" ||
		os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" ||
		os.Getenv("K_SERVICE") != ""

	if useGCS {
		UploadPhotoGCS(w, r)
	} else {
		UploadPhotoLocal(w, r)
	}
}
