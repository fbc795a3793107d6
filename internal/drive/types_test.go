package drive

import (
	"testing"
	"time"

	drive "google.golang.org/api/drive/v3"
)

func TestToFile(t *testing.T) {
	f := &drive.File{
		Id:           "f1",
		Name:         "Q3 report.pdf",
		MimeType:     "application/pdf",
		Size:         204800,
		ModifiedTime: "2026-08-15T16:20:00Z",
		WebViewLink:  "https://drive.google.com/file/d/f1/view",
		Owners: []*drive.User{
			{EmailAddress: "dana@example.com"},
		},
	}

	file := toFile(f)

	if file.ID != "f1" || file.Name != "Q3 report.pdf" {
		t.Errorf("unexpected file: %+v", file)
	}
	if file.Size != 204800 {
		t.Errorf("expected size 204800, got %d", file.Size)
	}
	want := time.Date(2026, 8, 15, 16, 20, 0, 0, time.UTC)
	if !file.ModifiedTime.Equal(want) {
		t.Errorf("expected modified time %v, got %v", want, file.ModifiedTime)
	}
	if len(file.Owners) != 1 || file.Owners[0] != "dana@example.com" {
		t.Errorf("unexpected owners: %v", file.Owners)
	}
}

func TestToFileBadTimestamp(t *testing.T) {
	file := toFile(&drive.File{Id: "f2", ModifiedTime: "not-a-time"})
	if !file.ModifiedTime.IsZero() {
		t.Errorf("expected zero time for unparseable timestamp, got %v", file.ModifiedTime)
	}
}

func TestToFileNil(t *testing.T) {
	file := toFile(nil)
	if file.ID != "" {
		t.Errorf("expected zero file for nil input, got %+v", file)
	}
}
