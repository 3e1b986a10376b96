// internal/adapter/source/rapidapi/flex.go

package rapidapi

import "encoding/json"

// FlexString decodes a field that upstreams send as either a JSON string or number
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	if string(b) == "null" {
		return nil
	}
	*f = FlexString(b)
	return nil
}
