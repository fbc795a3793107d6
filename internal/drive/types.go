package drive

import (
	"time"

	drive "google.golang.org/api/drive/v3"
)

// File represents a Google Drive file
type File struct {
	ID           string
	Name         string
	MimeType     string
	Size         int64
	ModifiedTime time.Time
	WebViewLink  string
	Owners       []string
	Trashed      bool
}

// toFile converts a Drive API file to our File type
func toFile(f *drive.File) File {
	if f == nil {
		return File{}
	}

	result := File{
		ID:          f.Id,
		Name:        f.Name,
		MimeType:    f.MimeType,
		Size:        f.Size,
		WebViewLink: f.WebViewLink,
		Trashed:     f.Trashed,
	}

	if f.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			result.ModifiedTime = t
		}
	}

	for _, o := range f.Owners {
		if o.EmailAddress != "" {
			result.Owners = append(result.Owners, o.EmailAddress)
		}
	}

	return result
}
