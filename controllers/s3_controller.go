package controllers

import (
	"net/http"

	"hyyq_server/services"
	"hyyq_server/utils"
)

// GetUploadURLHandler hands the client a presigned URL for uploading a
// match image. The resulting key goes into the match's images list.
func GetUploadURLHandler(w http.ResponseWriter, r *http.Request) {
	fileName := r.URL.Query().Get("fileName")
	fileType := r.URL.Query().Get("fileType")
	if fileName == "" || fileType == "" {
		utils.Error(w, http.StatusBadRequest, "fileName and fileType are required")
		return
	}

	uploadURL, key, err := services.GenerateUploadURL(fileName, fileType)
	if err != nil {
		RespondError(w, err)
		return
	}
	utils.Success(w, "upload URL generated", map[string]string{
		"uploadUrl": uploadURL,
		"key":       key,
	})
}

// GetReadURLHandler hands the client a presigned URL for displaying a
// previously uploaded match image.
func GetReadURLHandler(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		utils.Error(w, http.StatusBadRequest, "key is required")
		return
	}

	readURL, err := services.GenerateReadURL(key)
	if err != nil {
		RespondError(w, err)
		return
	}
	utils.Success(w, "read URL generated", map[string]string{"url": readURL})
}
