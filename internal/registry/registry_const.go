package registry

// Test identifiers
const (
	TwoSampleTID    = "two_sample_t"
	PairedTID       = "paired_t"
	OneSampleTID    = "one_sample_t"
	TwoProportionID = "two_proportion"
	CorrelationID   = "correlation"
)

// Parameter keys owned by the registry
const (
	KeySampleSize      = "sample_size"
	KeyAllocation      = "allocation"
	KeyAllocationRatio = "allocation_ratio"
	KeyDropout         = "dropout"
	KeyDropin          = "dropin"
	KeyReferenceValue  = "reference_value"
	KeyReferenceSD     = "reference_sd"
	KeyBaseline        = "baseline"
)

// Allocation choices
const (
	AllocationEqual = "equal"
	AllocationRatio = "ratio"
)

// Effect size method names
const (
	MethodCohensD          = "cohens_d"
	MethodPercentReduction = "percent_reduction"
	MethodDifference       = "difference"
	MethodActiveChange     = "active_change"
	MethodProportions      = "proportions"
	MethodOddsRatio        = "odds_ratio"
	MethodRelativeRisk     = "relative_risk"
	MethodCohensH          = "cohens_h"
	MethodCorrelation      = "correlation"
	MethodRSquared         = "r_squared"
)

// Defaults
const (
	DEFAULT_ALPHA           = 0.05
	DEFAULT_TARGET_POWER    = 0.8
	DEFAULT_TOTAL_N         = 100
	DEFAULT_SINGLE_N        = 30
	DEFAULT_REFERENCE_VALUE = 100
	DEFAULT_REFERENCE_SD    = 20
	DEFAULT_BASELINE        = 0.4
	MIN_CORRELATION_N       = 4
	MAX_COMBINED_ATTRITION  = 1.0
	MAX_SAMPLE_SIZE         = 5000
	MAX_ALLOCATION_RATIO    = 10
	MAX_ABS_STANDARDIZED_ES = 5
	MAX_ABS_CORRELATION     = 0.99
	MAX_ODDS_RATIO          = 100
)
