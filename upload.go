package main

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// uploadImage sends a multipart file to Cloudinary and returns the hosted
// secure URL plus the public id needed for later deletion.
func uploadImage(cloudURL string, file multipart.File, folder string) (string, string, error) {
	cld, err := cloudinary.NewFromURL(cloudURL)
	if err != nil {
		return "", "", fmt.Errorf("cloudinary init: %w", err)
	}
	res, err := cld.Upload.Upload(context.Background(), file, uploader.UploadParams{Folder: folder})
	if err != nil {
		return "", "", fmt.Errorf("upload: %w", err)
	}
	return res.SecureURL, res.PublicID, nil
}

// destroyImage removes a hosted image. Best-effort: failures are logged and
// swallowed so record deletes never block on image cleanup.
func destroyImage(cloudURL, publicID string) {
	if publicID == "" {
		return
	}
	cld, err := cloudinary.NewFromURL(cloudURL)
	if err != nil {
		log.Println("cloudinary init for delete error:", err)
		return
	}
	if _, err := cld.Upload.Destroy(context.Background(), uploader.DestroyParams{PublicID: publicID}); err != nil {
		log.Println("cloudinary destroy error:", err)
		return
	}
	log.Printf("deleted cloudinary image: %s", publicID)
}
