package courseValidator

import (
	"lms/middleware"
	"lms/services/hierarchy"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// parseIDParam validates a positive integer path parameter and stores it
// in locals under the given key.
func parseIDParam(c *fiber.Ctx, param, key, label string) (bool, error) {
	raw := strings.TrimSpace(c.Params(param))
	if raw == "" {
		return false, middleware.JsonResponse(c, fiber.StatusBadRequest, false, label+" is required in the URL!", nil)
	}

	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return false, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+label+"!", nil)
	}

	c.Locals(key, id)
	return true, nil
}

// CreateSection validates section creation request
func CreateSection() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := parseIDParam(c, "id", "courseID", "Course ID"); !ok {
			return err
		}

		reqData := new(struct {
			Title           string `json:"title"`
			Description     string `json:"description"`
			ParentSectionID *uint  `json:"parent_section_id"`
			Position        *int   `json:"position"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Title
		if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		// Validate Position
		if reqData.Position != nil && *reqData.Position < 0 {
			errors["position"] = "Position must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSection", reqData)
		return c.Next()
	}
}

// UpdateSection validates section update request
func UpdateSection() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := parseIDParam(c, "section_id", "sectionID", "Section ID"); !ok {
			return err
		}

		reqData := new(struct {
			Title           *string `json:"title"`
			Description     *string `json:"description"`
			ParentSectionID *uint   `json:"parent_section_id"`
			MoveToRoot      bool    `json:"move_to_root"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Title if provided
		if reqData.Title != nil && len(strings.TrimSpace(*reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		// Reparent and move-to-root are mutually exclusive
		if reqData.ParentSectionID != nil && reqData.MoveToRoot {
			errors["move_to_root"] = "Cannot set parent_section_id and move_to_root together!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSectionUpdate", reqData)
		return c.Next()
	}
}

// DeleteSection validates section deletion request
func DeleteSection() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := parseIDParam(c, "section_id", "sectionID", "Section ID"); !ok {
			return err
		}
		return c.Next()
	}
}

// SectionTree validates the section tree request
func SectionTree() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := parseIDParam(c, "id", "courseID", "Course ID"); !ok {
			return err
		}
		return c.Next()
	}
}

// ReorderSections validates the full sibling reorder request
func ReorderSections() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			OrderedIDs []uint `json:"ordered_ids"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(reqData.OrderedIDs) == 0 {
			errors["ordered_ids"] = "Ordered section IDs are required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedReorder", reqData)
		return c.Next()
	}
}

// ReorderSection validates a single-section position change
func ReorderSection() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := parseIDParam(c, "section_id", "sectionID", "Section ID"); !ok {
			return err
		}

		reqData := new(struct {
			Position int `json:"position"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Position < 0 {
			errors["position"] = "Position must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPosition", reqData)
		return c.Next()
	}
}

// NestSection validates a nest request
func NestSection() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := parseIDParam(c, "section_id", "sectionID", "Section ID"); !ok {
			return err
		}

		reqData := new(struct {
			ParentSectionID uint `json:"parent_section_id"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.ParentSectionID == 0 {
			errors["parent_section_id"] = "Parent section ID is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedNest", reqData)
		return c.Next()
	}
}

// UnnestSection validates an unnest request
func UnnestSection() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := parseIDParam(c, "section_id", "sectionID", "Section ID"); !ok {
			return err
		}
		return c.Next()
	}
}

// MoveSection validates a combined reparent-and-position request
func MoveSection() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := parseIDParam(c, "section_id", "sectionID", "Section ID"); !ok {
			return err
		}

		reqData := new(struct {
			ParentSectionID *uint `json:"parent_section_id"`
			Position        int   `json:"position"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Position < 0 {
			errors["position"] = "Position must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSectionMove", reqData)
		return c.Next()
	}
}

// AddModuleToSection validates a module placement request
func AddModuleToSection() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := parseIDParam(c, "section_id", "sectionID", "Section ID"); !ok {
			return err
		}

		reqData := new(struct {
			ActivityModuleID uint           `json:"activity_module_id"`
			Position         *int           `json:"position"`
			Settings         datatypes.JSON `json:"settings"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.ActivityModuleID == 0 {
			errors["activity_module_id"] = "Activity module ID is required!"
		}
		if reqData.Position != nil && *reqData.Position < 0 {
			errors["position"] = "Position must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedModuleLink", reqData)
		return c.Next()
	}
}

// RemoveModuleLink validates a placement removal request
func RemoveModuleLink() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := parseIDParam(c, "link_id", "linkID", "Link ID"); !ok {
			return err
		}
		return c.Next()
	}
}

// ReorderSectionModules validates a module link reorder request
func ReorderSectionModules() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := parseIDParam(c, "section_id", "sectionID", "Section ID"); !ok {
			return err
		}

		reqData := new(struct {
			OrderedLinkIDs []uint `json:"ordered_link_ids"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(reqData.OrderedLinkIDs) == 0 {
			errors["ordered_link_ids"] = "Ordered link IDs are required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLinkReorder", reqData)
		return c.Next()
	}
}

// MoveModuleLink validates a cross-section placement move
func MoveModuleLink() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := parseIDParam(c, "link_id", "linkID", "Link ID"); !ok {
			return err
		}

		reqData := new(struct {
			SectionID uint `json:"section_id"`
			Position  *int `json:"position"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.SectionID == 0 {
			errors["section_id"] = "Section ID is required!"
		}
		if reqData.Position != nil && *reqData.Position < 0 {
			errors["position"] = "Position must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLinkMove", reqData)
		return c.Next()
	}
}

// GeneralMove validates a drag-and-drop move request
func GeneralMove() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Source   hierarchy.NodeRef `json:"source"`
			Target   hierarchy.NodeRef `json:"target"`
			Location string            `json:"location"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Source.ID == 0 {
			errors["source"] = "Source node ID is required!"
		}
		if reqData.Target.ID == 0 {
			errors["target"] = "Target node ID is required!"
		}
		if strings.TrimSpace(reqData.Location) == "" {
			errors["location"] = "Location is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedGeneralMove", reqData)
		return c.Next()
	}
}

// CourseStructure validates a structure read request
func CourseStructure() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := parseIDParam(c, "id", "courseID", "Course ID"); !ok {
			return err
		}
		return c.Next()
	}
}
