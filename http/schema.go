package http

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// assumptionsSchema checks the shape of an assumptions document before it
// is decoded. Value ranges are left to the engine validator so that drafts
// and non-strict calculations still go through.
const assumptionsSchema = `{
  "type": "object",
  "definitions": {
    "series": {"type": ["array", "null"], "items": {"type": "number"}},
    "cost_type": {"enum": ["", "percentage", "dollar"]}
  },
  "properties": {
    "purchase_price": {"type": "number"},
    "acquisition_cost": {"type": "number"},
    "acquisition_cost_type": {"$ref": "#/definitions/cost_type"},
    "rental_income": {"$ref": "#/definitions/series"},
    "other_income": {"$ref": "#/definitions/series"},
    "vacancy_rate": {"$ref": "#/definitions/series"},
    "operating_expenses": {"$ref": "#/definitions/series"},
    "expense_type": {"enum": ["", "percentage", "dollar"]},
    "legacy_noi": {"type": "number"},
    "legacy_growth_rate": {"type": "number"},
    "financing_type": {"enum": ["", "dscr", "ltv", "cash"]},
    "loan_amount": {"type": "number"},
    "interest_rate": {"type": "number"},
    "loan_term_years": {"type": "integer"},
    "amortization_years": {"type": "integer"},
    "payments_per_year": {"type": "integer"},
    "loan_cost": {"type": "number"},
    "loan_cost_type": {"$ref": "#/definitions/cost_type"},
    "target_dscr": {"type": "number"},
    "loan_to_value": {"type": "number"},
    "property_type": {"type": "string"},
    "depreciation_years": {"type": "number"},
    "land_percent": {"type": "number"},
    "improvements_percent": {"type": "number"},
    "ordinary_income_tax_rate": {"type": "number"},
    "capital_gains_tax_rate": {"type": "number"},
    "depreciation_recapture_rate": {"type": "number"},
    "hold_period_years": {"type": "integer"},
    "disposition_type": {"enum": ["", "fixed", "cap_rate"]},
    "disposition_value": {"type": "number"},
    "cost_of_sale_type": {"$ref": "#/definitions/cost_type"},
    "cost_of_sale": {"type": "number"},
    "discount_rate": {"type": "number"}
  }
}`

var compiledAssumptionsSchema = mustSchema(assumptionsSchema)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compile schema: %v", err))
	}
	return schema
}

// SchemaError lists every place a document departs from the schema.
type SchemaError struct {
	Details []string
}

func (e *SchemaError) Error() string {
	return "request does not match schema: " + strings.Join(e.Details, "; ")
}

// checkAssumptionsSchema validates a raw JSON assumptions document.
func checkAssumptionsSchema(raw []byte) error {
	result, err := compiledAssumptionsSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return &SchemaError{Details: errs}
	}
	return nil
}
