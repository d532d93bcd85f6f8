package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed schema/manifest.schema.json
var schemaBytes []byte

var printer = message.NewPrinter(language.English)

// getSchema compiles the embedded manifest schema on first use.
var getSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
	if err != nil {
		return nil, fmt.Errorf("unmarshaling schema JSON: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("manifest.schema.json", doc); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	schema, err := c.Compile("manifest.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	return schema, nil
})

// ValidationResult contains the outcome of a schema validation.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue is one schema or lint failure.
type ValidationIssue struct {
	Path    string // JSON pointer into the document, e.g. "/entryPoints/0/name"
	Line    int    // 1-based line in the manifest, 0 when unknown
	Message string
	Keyword string // Failing schema keyword, or "unique" for lint issues
}

func (i ValidationIssue) String() string {
	var b strings.Builder
	if i.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", i.Line)
	}
	if i.Path != "" {
		b.WriteString(i.Path + ": ")
	}
	b.WriteString(i.Message)
	return b.String()
}

// Validate checks raw YAML bytes against the manifest schema.
// The error return is for parse or schema compilation failures;
// schema violations are reported in the ValidationResult.
func Validate(data []byte) (*ValidationResult, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	doc, err := decodeDocument(data)
	if err != nil {
		return nil, err
	}

	err = schema.Validate(doc.value)
	if err == nil {
		return &ValidationResult{Valid: true}, nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}
	return &ValidationResult{Issues: doc.issues(ve)}, nil
}

// ValidateFile reads a file and validates it against the manifest schema.
func ValidateFile(path string) (*ValidationResult, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Validate(data)
}

// document is a manifest decoded for schema validation, with the source line
// of every value keyed by its JSON pointer.
type document struct {
	value any
	lines map[string]int
}

func decodeDocument(data []byte) (*document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	doc := &document{lines: make(map[string]int)}
	if len(root.Content) == 0 {
		// Empty input validates as null and fails the root type check.
		return doc, nil
	}
	v, err := doc.decode(root.Content[0], "")
	if err != nil {
		return nil, err
	}
	doc.value = v
	return doc, nil
}

// decode converts n into the plain values the schema validator walks.
// Mapping keys are taken verbatim, so `1: x` becomes the key "1".
func (d *document) decode(n *yaml.Node, path string) (any, error) {
	d.lines[path] = n.Line

	switch n.Kind {
	case yaml.AliasNode:
		v, err := d.decode(n.Alias, path)
		d.lines[path] = n.Line
		return v, err
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			v, err := d.decode(n.Content[i+1], path+"/"+key)
			if err != nil {
				return nil, err
			}
			m[key] = v
		}
		return m, nil
	case yaml.SequenceNode:
		a := make([]any, len(n.Content))
		for i, item := range n.Content {
			v, err := d.decode(item, path+"/"+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			a[i] = v
		}
		return a, nil
	case yaml.ScalarNode:
		return scalar(n)
	default:
		return nil, fmt.Errorf("parsing YAML: line %d: unsupported node", n.Line)
	}
}

// scalar resolves a YAML scalar to a JSON value. Numbers become json.Number;
// values JSON cannot represent, such as timestamps or .inf, stay strings.
func scalar(n *yaml.Node) (any, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, fmt.Errorf("parsing YAML: line %d: %w", n.Line, err)
	}
	switch val := v.(type) {
	case nil, bool, string:
		return val, nil
	case int:
		return json.Number(strconv.Itoa(val)), nil
	case int64:
		return json.Number(strconv.FormatInt(val, 10)), nil
	case uint64:
		return json.Number(strconv.FormatUint(val, 10)), nil
	case float64:
		if math.IsInf(val, 0) || math.IsNaN(val) {
			return n.Value, nil
		}
		return json.Number(strconv.FormatFloat(val, 'g', -1, 64)), nil
	default:
		return n.Value, nil
	}
}

// issues flattens the error tree into one issue per failing leaf keyword,
// skipping repeats reported through several oneOf branches.
func (d *document) issues(ve *jsonschema.ValidationError) []ValidationIssue {
	var out []ValidationIssue
	seen := make(map[ValidationIssue]bool)

	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		for _, cause := range e.Causes {
			walk(cause)
		}
		if len(e.Causes) > 0 || e.ErrorKind == nil {
			return
		}

		kwPath := e.ErrorKind.KeywordPath()
		if len(kwPath) == 0 {
			return
		}
		keyword := kwPath[len(kwPath)-1]
		// A failed oneOf or $ref only says that a branch failed.
		if keyword == "oneOf" || keyword == "allOf" || keyword == "$ref" {
			return
		}

		path := ""
		if len(e.InstanceLocation) > 0 {
			path = "/" + strings.Join(e.InstanceLocation, "/")
		}
		issue := ValidationIssue{
			Path:    path,
			Line:    d.lines[path],
			Message: e.ErrorKind.LocalizedString(printer),
			Keyword: keyword,
		}
		if !seen[issue] {
			seen[issue] = true
			out = append(out, issue)
		}
	}
	walk(ve)

	if len(out) == 0 {
		return []ValidationIssue{{Line: d.lines[""], Message: ve.Error()}}
	}
	return out
}
