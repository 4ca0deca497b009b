// Package schemas embeds the JSON schemas for knowledge base and profile documents.
package schemas

import _ "embed"

//go:embed knowledgebase.schema.json
var KnowledgeBaseSchemaJSON string

//go:embed profile.schema.json
var ProfileSchemaJSON string
