package diploma

import (
	"gorm.io/datatypes"

	"diplomas/models"
	"diplomas/render"
)

// Template is a reusable diploma layout: positioned fields over a background image
type Template struct {
	models.Base
	OrganizationID     string                            `json:"organization_id" gorm:"size:36;index;not null"`
	Name               string                            `json:"name" gorm:"not null"`
	BackgroundImageURL string                            `json:"background_image_url"`
	Fields             datatypes.JSONSlice[render.Field] `json:"fields_config"`
	ThumbnailURL       *string                           `json:"thumbnail_url"`
	CanvasWidth        int                               `json:"canvas_width" gorm:"default:1123"`
	CanvasHeight       int                               `json:"canvas_height" gorm:"default:794"`
}

// Layout is the part of the template the renderer needs
func (t *Template) Layout() render.Layout {
	if t == nil {
		return render.Layout{}
	}
	return render.Layout{
		Name:          t.Name,
		BackgroundURL: t.BackgroundImageURL,
		Width:         t.CanvasWidth,
		Height:        t.CanvasHeight,
		Fields:        t.Fields,
	}
}
