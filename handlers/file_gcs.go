package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/storage"
)

var (
	gcsClientOnce sync.Once
	gcsClient     *storage.Client
	gcsClientErr  error
)

func getGCSClient(ctx context.Context) (*storage.Client, error) {
	gcsClientOnce.Do(func() {
		gcsClient, gcsClientErr = storage.NewClient(ctx)
	})
	return gcsClient, gcsClientErr
}

// UploadPhotoGCS stores an uploaded photo in the Google Cloud Storage bucket
// named by PHOTO_GCS_BUCKET and returns its public URL.
func UploadPhotoGCS(w http.ResponseWriter, r *http.Request) {
	bucket := os.Getenv("PHOTO_GCS_BUCKET")
	if bucket == "" {
		http.Error(w, "PHOTO_GCS_BUCKET is not configured", http.StatusInternalServerError)
		return
	}

	// Parse the multipart form (max 50MB)
	if err := r.ParseMultipartForm(50 << 20); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	client, err := getGCSClient(r.Context())
	if err != nil {
		http.Error(w, "failed to create storage client: "+err.Error(), http.StatusInternalServerError)
		return
	}

	key := fmt.Sprintf("photos/%s-%s", time.Now().Format("20060102-150405"), sanitizeFilename(header.Filename))

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	writer := client.Bucket(bucket).Object(key).NewWriter(ctx)
	if ct := contentTypeForKey(key); ct != "" {
		writer.ContentType = ct
	}
	if _, err := io.Copy(writer, file); err != nil {
		writer.Close()
		http.Error(w, "failed to write to GCS: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := writer.Close(); err != nil {
		http.Error(w, "failed to close GCS writer: "+err.Error(), http.StatusInternalServerError)
		return
	}

	url := fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, key)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"url":      url,
		"filename": key,
	})
}

func contentTypeForKey(key string) string {
	s := strings.ToLower(key)
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	case strings.HasSuffix(s, ".gif"):
		return "image/gif"
	case strings.HasSuffix(s, ".heic"):
		return "image/heic"
	case strings.HasSuffix(s, ".pdf"):
		return "application/pdf"
	default:
		return ""
	}
}
