package entities

type ValidationResult struct {
	IsValid        bool                  `json:"is_valid"`
	GlobalMessages []string              `json:"global_messages"`
	FieldMessages  map[FieldKey][]string `json:"field_messages"`
}

func NewValidationResult() ValidationResult {
	return ValidationResult{
		IsValid:        true,
		GlobalMessages: []string{},
		FieldMessages:  map[FieldKey][]string{},
	}
}

func (r *ValidationResult) AddGlobal(message string) {
	r.GlobalMessages = append(r.GlobalMessages, message)
	r.IsValid = false
}

func (r *ValidationResult) AddField(key FieldKey, message string) {
	r.FieldMessages[key] = append(r.FieldMessages[key], message)
	r.IsValid = false
}

func (r ValidationResult) Err() error {
	if r.IsValid {
		return nil
	}
	return ValidationFailure{Result: r}
}
