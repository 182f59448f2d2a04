package domain

// DiscrepancyKind names a raw mismatch found by the matcher. Rules select
// discrepancies by kind.
type DiscrepancyKind string

const (
	KindUndocumentedMethod     DiscrepancyKind = "undocumented_method"
	KindMissingMethod          DiscrepancyKind = "missing_method"
	KindParamTypeMismatch      DiscrepancyKind = "param_type_mismatch"
	KindParamRequiredMismatch  DiscrepancyKind = "param_required_mismatch"
	KindParamMissingInCode     DiscrepancyKind = "param_missing_in_code"
	KindUndocumentedParam      DiscrepancyKind = "undocumented_param"
	KindUndocumentedEndpoint   DiscrepancyKind = "undocumented_endpoint"
	KindEndpointMethodMismatch DiscrepancyKind = "endpoint_method_mismatch"
	KindEndpointMissingInCode  DiscrepancyKind = "endpoint_missing_in_code"
	KindUndocumentedFile       DiscrepancyKind = "undocumented_file"
	KindOrphanedDoc            DiscrepancyKind = "orphaned_doc"
)

// DiscrepancyKinds enumerates every kind the matcher can emit.
var DiscrepancyKinds = []DiscrepancyKind{
	KindUndocumentedMethod, KindMissingMethod,
	KindParamTypeMismatch, KindParamRequiredMismatch, KindParamMissingInCode, KindUndocumentedParam,
	KindUndocumentedEndpoint, KindEndpointMethodMismatch, KindEndpointMissingInCode,
	KindUndocumentedFile, KindOrphanedDoc,
}

// Discrepancy is one mismatch between code and documentation.
type Discrepancy struct {
	Kind     DiscrepancyKind `json:"kind"`
	File     string          `json:"file,omitempty"`
	Class    string          `json:"class,omitempty"`
	Method   string          `json:"method,omitempty"`
	Param    string          `json:"param,omitempty"`
	Expected string          `json:"expected,omitempty"`
	Actual   string          `json:"actual,omitempty"`
	Section  string          `json:"section,omitempty"`
	Line     int             `json:"line,omitempty"`
	Message  string          `json:"message"`
}
