package formatting

import (
	"encoding/json"
	"fmt"
)

// PrettyJSON formats any value as indented JSON for human-readable display.
// It falls back to fmt.Sprintf when the value cannot be marshaled.
//
// Example:
//
//	fmt.Println(formatting.PrettyJSON(plan))
//	// {
//	//   "file": "app.yaml",
//	//   "action": "start",
//	//   ...
//	// }
func PrettyJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
