package domain

var (
	MessageSuccessGetIngredients = "ingredients retrieved successfully"
	MessageSuccessGetIngredient  = "ingredient retrieved successfully"
	MessageSuccessGetTags        = "tags retrieved successfully"
	MessageSuccessGetTag         = "tag retrieved successfully"

	MessageFailedGetIngredients = "failed to retrieve ingredients"
	MessageFailedGetIngredient  = "failed to retrieve ingredient"
	MessageFailedGetTags        = "failed to retrieve tags"
	MessageFailedGetTag         = "failed to retrieve tag"

	ErrIngredientNotFound = NewFieldError(KindNotFound, "ingredients", "ingredient not found")
	ErrTagNotFound        = NewFieldError(KindNotFound, "tags", "tag not found")
)

type (
	IngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
	}

	TagResponse struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color"`
		Slug  string `json:"slug"`
	}
)
