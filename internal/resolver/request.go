package resolver

import (
	"strings"

	"course-bulk/internal/domain"
)

// CreationRequest is the body of the bulk-create call.
type CreationRequest struct {
	ApplyToAll ApplyToAll      `json:"apply_to_all"`
	Courses    []CourseRequest `json:"courses"`
	DryRun     bool            `json:"dry_run"`
}

// ApplyToAll carries the mapped global defaults. The backend applies them
// only where a course or batch did not specify its own value.
type ApplyToAll struct {
	Enabled            bool                    `json:"enabled"`
	Batches            []BatchRequest          `json:"batches"`
	PaymentConfig      *PaymentConfigRequest   `json:"payment_config,omitempty"`
	InventoryConfig    *InventoryConfigRequest `json:"inventory_config,omitempty"`
	CourseType         domain.CourseType       `json:"course_type,omitempty"`
	CourseDepth        *int                    `json:"course_depth,omitempty"`
	Tags               []string                `json:"tags"`
	PublishToCatalogue bool                    `json:"publish_to_catalogue"`
}

// BatchRequest is one (level, session) pairing. Null ids select the DEFAULT
// pseudo level/session.
type BatchRequest struct {
	LevelID         *string                 `json:"level_id"`
	SessionID       *string                 `json:"session_id"`
	InventoryConfig *InventoryConfigRequest `json:"inventory_config,omitempty"`
	PaymentConfig   *PaymentConfigRequest   `json:"payment_config,omitempty"`
}

// CourseRequest is one course entry of the bulk-create call.
type CourseRequest struct {
	CourseName         string                  `json:"course_name"`
	CourseType         domain.CourseType       `json:"course_type,omitempty"`
	Tags               []string                `json:"tags"`
	PublishToCatalogue bool                    `json:"publish_to_catalogue"`
	Batches            []BatchRequest          `json:"batches"`
	PaymentConfig      *PaymentConfigRequest   `json:"payment_config,omitempty"`
	InventoryConfig    *InventoryConfigRequest `json:"inventory_config,omitempty"`

	ThumbnailFileID           string   `json:"thumbnail_file_id,omitempty"`
	CoursePreviewImageMediaID string   `json:"course_preview_image_media_id,omitempty"`
	CourseBannerMediaID       string   `json:"course_banner_media_id,omitempty"`
	CourseMediaID             string   `json:"course_media_id,omitempty"`
	WhyLearnHTML              string   `json:"why_learn_html,omitempty"`
	WhoShouldLearnHTML        string   `json:"who_should_learn_html,omitempty"`
	AboutTheCourseHTML        string   `json:"about_the_course_html,omitempty"`
	CourseHTMLDescription     string   `json:"course_html_description,omitempty"`
	FacultyUserIDs            []string `json:"faculty_user_ids,omitempty"`
	CourseDepth               *int     `json:"course_depth,omitempty"`
}

// BuildCreationRequest maps the course list and the global defaults into a
// single bulk-create request.
//
// Each course is sent with its effective batches. When any of those batches
// carries a payment configuration the course-level payment is omitted; the
// same rule applies independently to inventory. Fields are never merged
// between levels.
func BuildCreationRequest(courses []domain.CourseItem, defaults domain.GlobalDefaults, dryRun bool) CreationRequest {
	req := CreationRequest{
		ApplyToAll: mapDefaults(defaults),
		Courses:    make([]CourseRequest, 0, len(courses)),
		DryRun:     dryRun,
	}
	for _, c := range courses {
		req.Courses = append(req.Courses, mapCourse(c, defaults))
	}
	return req
}

func mapDefaults(d domain.GlobalDefaults) ApplyToAll {
	return ApplyToAll{
		Enabled:            d.Enabled,
		Batches:            mapBatches(d.Batches),
		PaymentConfig:      MapPaymentConfig(d.Payment),
		InventoryConfig:    MapInventoryConfig(d.Inventory),
		CourseType:         d.CourseType,
		CourseDepth:        copyPtr(d.CourseDepth),
		Tags:               domain.NormalizeTags(d.Tags),
		PublishToCatalogue: d.PublishToCatalogue,
	}
}

func mapCourse(c domain.CourseItem, defaults domain.GlobalDefaults) CourseRequest {
	batches := ResolveEffectiveBatches(c, defaults)

	out := CourseRequest{
		CourseName:         strings.TrimSpace(c.Name),
		CourseType:         c.CourseType,
		Tags:               domain.NormalizeTags(c.Tags),
		PublishToCatalogue: c.PublishToCatalogue,
		Batches:            mapBatches(batches),

		ThumbnailFileID:           c.Content.ThumbnailFileID,
		CoursePreviewImageMediaID: c.Content.PreviewImageMediaID,
		CourseBannerMediaID:       c.Content.BannerMediaID,
		CourseMediaID:             c.Content.MediaID,
		WhyLearnHTML:              c.Content.WhyLearnHTML,
		WhoShouldLearnHTML:        c.Content.WhoShouldLearnHTML,
		AboutTheCourseHTML:        c.Content.AboutTheCourseHTML,
		CourseHTMLDescription:     c.Content.DescriptionHTML,
		CourseDepth:               copyPtr(c.CourseDepth),
	}
	if len(c.Content.FacultyUserIDs) > 0 {
		out.FacultyUserIDs = append([]string(nil), c.Content.FacultyUserIDs...)
	}
	if !anyBatchPayment(batches) {
		out.PaymentConfig = MapPaymentConfig(c.Payment)
	}
	if !anyBatchInventory(batches) {
		out.InventoryConfig = MapInventoryConfig(c.Inventory)
	}
	return out
}

func mapBatches(in []domain.BatchConfig) []BatchRequest {
	out := make([]BatchRequest, 0, len(in))
	for _, b := range in {
		out = append(out, BatchRequest{
			LevelID:         copyPtr(b.LevelID),
			SessionID:       copyPtr(b.SessionID),
			InventoryConfig: MapInventoryConfig(b.Inventory),
			PaymentConfig:   MapPaymentConfig(b.Payment),
		})
	}
	return out
}
