package service

import (
	"fmt"
	"log"
	"net/http"

	"github.com/formforge/backend/internal/entity"
	"github.com/formforge/backend/internal/modules/form/dto"
	"github.com/formforge/backend/pkg/apperror"
)

// normalizeFields turns raw builder input into an order-stable, type-checked
// field list. Order is always overwritten with the field's position in the
// submitted array; whatever the client sent is discarded. Options outside
// choice types and duplicate field ids are tolerated (duplicates only logged),
// matching the permissive write path the SPA relies on.
func normalizeFields(raw []dto.FieldInput) ([]entity.FieldDefinition, error) {
	fields := make([]entity.FieldDefinition, 0, len(raw))
	seen := make(map[string]bool, len(raw))

	for i, in := range raw {
		if !entity.IsValidFieldType(in.Type) {
			return nil, apperror.New(http.StatusBadRequest,
				fmt.Sprintf("field %q has invalid type %q", in.ID, in.Type),
				apperror.ErrInvalidFieldType)
		}
		if in.Label == "" {
			return nil, apperror.New(http.StatusBadRequest,
				fmt.Sprintf("field %q is missing a label", in.ID),
				apperror.ErrMissingInput)
		}

		if seen[in.ID] {
			log.Printf("form field id %q appears more than once", in.ID)
		}
		seen[in.ID] = true

		options := in.Options
		if options == nil {
			options = []string{}
		}

		fields = append(fields, entity.FieldDefinition{
			ID:          in.ID,
			Type:        in.Type,
			Label:       in.Label,
			Placeholder: in.Placeholder,
			Required:    in.Required,
			Options:     options,
			Validation:  in.Validation,
			Order:       i,
		})
	}

	return fields, nil
}
