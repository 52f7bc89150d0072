package pointer

// Bool returns a pointer to the provided bool value
func Bool(value bool) *bool {
	return &value
}

// BoolOrDefault returns the pointer if not nil, otherwise the default value
func BoolOrDefault(value *bool, defaultValue bool) *bool {
	if value != nil {
		return value
	}
	return &defaultValue
}

// BoolCopy returns a pointer that's a copy of the provided value
func BoolCopy(value *bool) *bool {
	if value == nil {
		return nil
	}

	return Bool(*value)
}

// Uint8 returns a pointer to the provided uint8 value
func Uint8(value uint8) *uint8 {
	return &value
}

// Uint8OrDefault returns the pointer if not nil, otherwise the default value
func Uint8OrDefault(value *uint8, defaultValue uint8) *uint8 {
	if value != nil {
		return value
	}
	return &defaultValue
}

// Uint8Copy returns a pointer that's a copy of the provided value
func Uint8Copy(value *uint8) *uint8 {
	if value == nil {
		return nil
	}

	return Uint8(*value)
}

// Uint64 returns a pointer to the provided uint64 value
func Uint64(value uint64) *uint64 {
	return &value
}

// Uint64OrDefault returns the pointer if not nil, otherwise the default value
func Uint64OrDefault(value *uint64, defaultValue uint64) *uint64 {
	if value != nil {
		return value
	}
	return &defaultValue
}

// Uint64Copy returns a pointer that's a copy of the provided value
func Uint64Copy(value *uint64) *uint64 {
	if value == nil {
		return nil
	}

	return Uint64(*value)
}

// String returns a pointer to the provided string value
func String(value string) *string {
	return &value
}

// StringOrDefault returns the pointer if not nil, otherwise the default value
func StringOrDefault(value *string, defaultValue string) *string {
	if value != nil {
		return value
	}
	return &defaultValue
}

// StringCopy returns a pointer that's a copy of the provided value
func StringCopy(value *string) *string {
	if value == nil {
		return nil
	}

	return String(*value)
}
