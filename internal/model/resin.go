package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ResinType is the functional form of the exchange resin.
type ResinType string

const (
	ResinSAC   ResinType = "SAC"    // strong acid cation, sodium form
	ResinWACH  ResinType = "WAC_H"  // weak acid cation, hydrogen form
	ResinWACNa ResinType = "WAC_Na" // weak acid cation, sodium form
)

// ReleasesSodium reports whether exchanged hardness is replaced by sodium.
func (t ResinType) ReleasesSodium() bool {
	return t == ResinSAC || t == ResinWACNa
}

// ResinBed defines the physical parameters of the exchange bed.
// Units:
// - BedVolumeL: L of resin
// - Porosity: bed void fraction (0..1)
// - CapacityEqL: eq/L of resin
// - Cells: mixing cells along the bed (1..1000)
// - DeratingFactor: fraction of capacity usable in service (0..1]
type ResinBed struct {
	Name           string    `json:"name,omitempty" yaml:"name"`
	ResinType      ResinType `json:"resin_type" yaml:"resin_type" validate:"oneof=SAC WAC_H WAC_Na"`
	BedVolumeL     float64   `json:"bed_volume_l" yaml:"bed_volume_l" validate:"gt=0"`
	Porosity       float64   `json:"porosity" yaml:"porosity" validate:"gt=0,lt=1"`
	Cells          int       `json:"cells" yaml:"cells" validate:"gte=1,lte=1000"`
	CapacityEqL    float64   `json:"capacity_eq_l" yaml:"capacity_eq_l" validate:"gt=0"`
	DeratingFactor float64   `json:"derating_factor" yaml:"derating_factor" validate:"gt=0,lte=1"`
}

// DefaultDeratingFactor applies when a bed does not specify one.
const DefaultDeratingFactor = 0.8

// ErrInvalidInput wraps every validation failure from this package.
var ErrInvalidInput = errors.New("invalid simulation input")

var validate = validator.New()

// Validate checks bed parameters.
func (b ResinBed) Validate() error {
	return structErr("configuration", validate.Struct(b))
}

// WithDefaults fills zero-valued optional fields.
func (b ResinBed) WithDefaults() ResinBed {
	if b.ResinType == "" {
		b.ResinType = ResinSAC
	}
	if b.Cells == 0 {
		b.Cells = 1
	}
	if b.DeratingFactor == 0 {
		b.DeratingFactor = DefaultDeratingFactor
	}
	return b
}

// ValidationError reports the fields of one input section that failed
// validation. It matches ErrInvalidInput under errors.Is.
type ValidationError struct {
	Scope string
	// Fields maps the field namespace (e.g. "ResinBed.Porosity") to the
	// failed rule.
	Fields map[string]string
	detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput, e.Scope, e.detail)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// structErr flattens validator output into one ValidationError.
func structErr(scope string, err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %s: %v", ErrInvalidInput, scope, err)
	}
	fields := make(map[string]string, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields[fe.Namespace()] = fe.Tag()
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return &ValidationError{Scope: scope, Fields: fields, detail: strings.Join(msgs, "; ")}
}
