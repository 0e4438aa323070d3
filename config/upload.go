package config

type UploadConfig struct {
	AllowedMimeTypes []string
	MaxSizeMB        int64
	PathPrefix       string
}

var UploadContexts = map[string]UploadConfig{
	// Документы, прикладываемые к регистрационным записям.
	"registration_document": {
		AllowedMimeTypes: []string{
			"application/pdf",
			"image/jpeg", "image/jpg", "image/png", "image/tiff",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"application/vnd.ms-excel",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			"application/zip", "application/octet-stream",
		},
		MaxSizeMB:  10,
		PathPrefix: "registrations",
	},
}
