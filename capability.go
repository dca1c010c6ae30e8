package codex

// Struct tags read by the field resolver.
//
//	Name  string `codex:"name"`                 serialized as "name"
//	Note  string `codex:",optional"`            may be absent
//	Tags  []string `codex:"tags,orempty"`       absent decodes to an empty slice
//	Alias []string `codex:"alias,single"`       accepts a single element or a list
//	Port  int    `default:"8080" range:"1,65535"`
//	Email string `validate:"email,decode"`      validator registered as "email"
//	When  Stamp  `adapter:"unix"`               adapter registered as "unix"
//	Skip  string `codex:"-"`                    never serialized
const (
	TagCodex    = "codex"
	TagDefault  = "default"
	TagRange    = "range"
	TagValidate = "validate"
	TagAdapter  = "adapter"
)

// FieldOption is a flag in the options part of a codex tag.
type FieldOption string

const (
	// OptionOptional marks a member that may be absent from the input.
	OptionOptional FieldOption = "optional"

	// OptionRequired marks a member that must be present. It conflicts with
	// a default value and with optional members.
	OptionRequired FieldOption = "required"

	// OptionOrEmpty defaults an absent slice or map member to an empty one.
	OptionOrEmpty FieldOption = "orempty"

	// OptionSingleOrList lets a slice member decode from a single element.
	OptionSingleOrList FieldOption = "single"
)

// ValidateDirection restricts a validator to one direction.
type ValidateDirection string

const (
	// ValidateEncode runs the validator only when encoding.
	ValidateEncode ValidateDirection = "encode"

	// ValidateDecode runs the validator only when decoding.
	ValidateDecode ValidateDirection = "decode"
)

// validFieldOptions contains all valid codex tag options for tag validation.
var validFieldOptions = map[FieldOption]bool{
	OptionOptional:     true,
	OptionRequired:     true,
	OptionOrEmpty:      true,
	OptionSingleOrList: true,
}

// validDirections contains all valid validator directions for tag validation.
var validDirections = map[ValidateDirection]bool{
	ValidateEncode: true,
	ValidateDecode: true,
}

// IsValidFieldOption returns true if the option is a known codex tag option.
func IsValidFieldOption(o FieldOption) bool {
	return validFieldOptions[o]
}

// IsValidDirection returns true if the direction is a known validator direction.
func IsValidDirection(d ValidateDirection) bool {
	return validDirections[d]
}
