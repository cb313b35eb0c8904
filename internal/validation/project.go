package validation

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"folio/internal/domain/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// CheckProjectInput validates a full create payload. All violations are
// collected into one Error.
func CheckProjectInput(in models.ProjectInput) error {
	err := validate.Struct(in)
	if err == nil {
		return checkBounds(boundsOf(in))
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return newError(invalid.Error())
	}

	var verr validator.ValidationErrors
	if !errors.As(err, &verr) {
		return newError(err.Error())
	}

	reasons := make([]string, 0, len(verr))
	for _, fe := range verr {
		reasons = append(reasons, describeField(fe))
	}
	return &Error{Reasons: reasons}
}

// CheckProjectPatch validates only the fields a partial update provides,
// against the same bounds as create.
func CheckProjectPatch(p models.ProjectPatch) error {
	var reasons []string

	// lengths count runes, same as the max tag on the create payload
	if p.Title != nil {
		if *p.Title == "" {
			reasons = append(reasons, "title must not be empty")
		} else if utf8.RuneCountInString(*p.Title) > models.MaxTitleLen {
			reasons = append(reasons, fmt.Sprintf("title must be at most %d characters", models.MaxTitleLen))
		}
	}
	if p.Description != nil {
		if *p.Description == "" {
			reasons = append(reasons, "description must not be empty")
		} else if utf8.RuneCountInString(*p.Description) > models.MaxDescriptionLen {
			reasons = append(reasons, fmt.Sprintf("description must be at most %d characters", models.MaxDescriptionLen))
		}
	}
	if p.TitleEN != nil && utf8.RuneCountInString(*p.TitleEN) > models.MaxTitleLen {
		reasons = append(reasons, fmt.Sprintf("title_en must be at most %d characters", models.MaxTitleLen))
	}
	if p.DescriptionEN != nil && utf8.RuneCountInString(*p.DescriptionEN) > models.MaxDescriptionLen {
		reasons = append(reasons, fmt.Sprintf("description_en must be at most %d characters", models.MaxDescriptionLen))
	}
	if p.Techs != nil {
		reasons = append(reasons, checkTechs(*p.Techs)...)
	}
	if p.Images != nil && len(*p.Images) > models.MaxImages {
		reasons = append(reasons, fmt.Sprintf("at most %d images are allowed", models.MaxImages))
	}
	if p.MainImageIndex != nil && *p.MainImageIndex < 0 {
		reasons = append(reasons, "main_image_index must not be negative")
	}

	if len(reasons) > 0 {
		return &Error{Reasons: reasons}
	}
	return nil
}

// boundsOf covers constraints the struct tags cannot express.
type extraBounds struct {
	mainIndex int
	numImages int
}

func boundsOf(in models.ProjectInput) extraBounds {
	return extraBounds{mainIndex: in.MainImageIndex, numImages: len(in.Images)}
}

func checkBounds(b extraBounds) error {
	if b.numImages == 0 {
		if b.mainIndex != 0 {
			return newError("main_image_index must be 0 when there are no images")
		}
		return nil
	}
	if b.mainIndex < 0 || b.mainIndex >= b.numImages {
		return newError(fmt.Sprintf("main_image_index %d is out of range for %d images", b.mainIndex, b.numImages))
	}
	return nil
}

func checkTechs(techs []string) []string {
	var reasons []string
	if len(techs) == 0 {
		reasons = append(reasons, "at least one tech is required")
	}
	if len(techs) > models.MaxTechs {
		reasons = append(reasons, fmt.Sprintf("at most %d techs are allowed", models.MaxTechs))
	}
	for _, t := range techs {
		if t == "" {
			reasons = append(reasons, "techs must not contain empty entries")
			break
		}
	}
	return reasons
}

func describeField(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s exceeds the maximum of %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", fe.Field(), fe.Param())
	default:
		return fe.Error()
	}
}
