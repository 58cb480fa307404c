package models

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// GameInput is the write contract for a game. The API checks it before
// touching the store and the client checks it before sending a request.
type GameInput struct {
	Title       string           `json:"title" validate:"required,max=255"`
	Description string           `json:"description" validate:"required"`
	Genre       string           `json:"genre" validate:"required,max=100"`
	Platform    string           `json:"platform" validate:"required,max=255"`
	Price       *decimal.Decimal `json:"price" validate:"required,gte=0"`
	ReleaseDate *Date            `json:"release_date,omitempty"`
	Rating      *decimal.Decimal `json:"rating,omitempty" validate:"omitempty,gte=0,lte=10"`
	ImageURL    *string          `json:"image_url,omitempty" validate:"omitempty,max=500"`
	CategoryID  *int64           `json:"category_id,omitempty" validate:"omitempty,gt=0"`
}

// Game builds the record to persist. A missing rating is stored as zero.
func (in *GameInput) Game() *Game {
	g := &Game{
		Title:       in.Title,
		Description: in.Description,
		Genre:       in.Genre,
		Platform:    in.Platform,
		ReleaseDate: in.ReleaseDate,
		ImageURL:    in.ImageURL,
		CategoryID:  in.CategoryID,
	}
	if in.Price != nil {
		g.Price = *in.Price
	}
	if in.Rating != nil {
		g.Rating = *in.Rating
	}
	return g
}

type CategoryInput struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description,omitempty"`
}

func (in *CategoryInput) Category() *Category {
	return &Category{
		Name:        in.Name,
		Description: in.Description,
	}
}

// ValidationError lists the JSON names of the fields that broke the contract.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	return v
}

// Validate checks a GameInput or CategoryInput against its contract.
func Validate(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}

	return &ValidationError{Fields: fields}
}
