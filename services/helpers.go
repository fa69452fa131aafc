package services

import (
	"fmt"
	"strings"

	"github.com/scrimlol/scrim-system/models"
	"github.com/scrimlol/scrim-system/storage"
)

func populateTeamLogoURL(team *models.Team, uploader storage.FileUploader) {
	if team == nil || team.LogoKey == nil || *team.LogoKey == "" || uploader == nil {
		return
	}
	if url := uploader.GetPublicURL(*team.LogoKey); url != "" {
		team.LogoURL = &url
	}
}

func extensionForContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) == 2 && parts[0] == "image" && parts[1] != "" {
			return "." + strings.Split(parts[1], "+")[0], nil
		}
		return "", fmt.Errorf("could not determine file extension from content type %q", contentType)
	}
}
