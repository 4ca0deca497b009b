package validation

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spboyer/modelpick/schemas"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

// knowledgeBaseSchema is the compiled JSON Schema for knowledge base files.
var knowledgeBaseSchema *jsonschema.Schema

// profileSchema is the compiled JSON Schema for profile documents.
var profileSchema *jsonschema.Schema

func init() {
	knowledgeBaseSchema = mustCompileSchema(schemas.KnowledgeBaseSchemaJSON, "knowledgebase.schema.json")
	profileSchema = mustCompileSchema(schemas.ProfileSchemaJSON, "profile.schema.json")
}

func mustCompileSchema(raw string, name string) *jsonschema.Schema {
	var schemaDoc any
	if err := json.Unmarshal([]byte(raw), &schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// ValidateKnowledgeBaseFile validates a knowledge base file at the given path.
// The returned slice holds schema violations; err is set only for I/O failures.
func ValidateKnowledgeBaseFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading knowledge base file: %w", err)
	}
	return ValidateKnowledgeBaseBytes(data), nil
}

// ValidateKnowledgeBaseBytes validates raw YAML or JSON bytes against the knowledge base schema.
func ValidateKnowledgeBaseBytes(data []byte) []string {
	return validateYAMLBytes(knowledgeBaseSchema, data)
}

// ValidateProfileBytes validates raw YAML or JSON bytes against the profile schema.
func ValidateProfileBytes(data []byte) []string {
	return validateYAMLBytes(profileSchema, data)
}

func validateYAMLBytes(schema *jsonschema.Schema, data []byte) []string {
	// JSON is a subset of YAML, so one parser covers both inputs.
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return []string{fmt.Sprintf("YAML parse error: %v", err)}
	}
	if doc == nil {
		return []string{"/: document is empty"}
	}

	return validateAgainstSchema(schema, toJSONCompatible(doc))
}

func validateAgainstSchema(schema *jsonschema.Schema, instance any) []string {
	err := schema.Validate(instance)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var errs []string
	collectSchemaErrors(ve, &errs)
	return errs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}

// toJSONCompatible rewrites YAML-decoded values so the schema validator sees
// the same shapes encoding/json would produce. yaml.v3 yields map[string]any
// for string-keyed mappings but map[any]any is possible for odd keys.
func toJSONCompatible(v any) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v2 := range val {
			result[k] = toJSONCompatible(v2)
		}
		return result
	case map[any]any:
		result := make(map[string]any, len(val))
		for k, v2 := range val {
			result[fmt.Sprint(k)] = toJSONCompatible(v2)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, v2 := range val {
			result[i] = toJSONCompatible(v2)
		}
		return result
	default:
		return val
	}
}
