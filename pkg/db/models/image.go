package models

import "strings"

// Image is the derived-asset sub-structure embedded on every record that can
// own an uploaded picture. Each field is either empty, a placeholder outside
// the uploads tree, or a root-relative path inside a profile's directories.
type Image struct {
	Original  string `gorm:"column:image_original" json:"original"`
	Thumbnail string `gorm:"column:image_thumbnail" json:"thumbnail"`
	Cropped   string `gorm:"column:image_cropped" json:"cropped"`
}

// UploadPaths returns the subset of paths that live inside an uploads tree.
// Placeholder assets shipped with the frontend are excluded.
func (i Image) UploadPaths() []string {
	var paths []string
	for _, p := range []string{i.Original, i.Thumbnail, i.Cropped} {
		if p != "" && strings.Contains(p, "uploads/") {
			paths = append(paths, p)
		}
	}
	return paths
}
