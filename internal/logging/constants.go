package logging

// Standardized field names for structured logging.
const (
	FieldOperation  = "operation"
	FieldCount      = "count"
	FieldValid      = "valid"
	FieldInvalid    = "invalid"
	FieldStrategy   = "strategy"
	FieldRate       = "rate"
	FieldYears      = "years"
	FieldPeriods    = "periods"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatus     = "status"
	FieldDuration   = "duration_ms"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
)
