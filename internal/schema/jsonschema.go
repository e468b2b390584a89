package schema

// JSONSchema returns a plain JSON-Schema-shaped map[string]any describing
// the named document kind, for external tooling. No third-party
// JSON-Schema library is used: none appears anywhere in the retrieved
// example pack, and the shape needed here is a handful of static
// property lists, well within what encoding/json (via the caller
// marshaling this map) comfortably expresses without a dedicated library.
func JSONSchema(kind string) map[string]any {
	switch kind {
	case "todo":
		return objectSchema(map[string]any{
			"id":         stringSchema(idPattern.String()),
			"title":      lengthSchema(1, MaxTitleLen),
			"description": lengthSchema(0, MaxDescriptionLen),
			"status":     enumSchema("pending", "in_progress", "blocked", "completed", "cancelled"),
			"priority":   enumSchema("low", "medium", "high", "critical"),
		}, []string{"id", "title", "status"})
	case "decision":
		return objectSchema(map[string]any{
			"id":          stringSchema(idPattern.String()),
			"title":       lengthSchema(1, MaxTitleLen),
			"description": lengthSchema(0, MaxDescriptionLen),
			"status": enumSchema("proposed", "under_review", "approved", "rejected",
				"implemented", "deprecated"),
		}, []string{"id", "title", "status"})
	case "knowledge":
		return objectSchema(map[string]any{
			"id":         stringSchema(idPattern.String()),
			"title":      lengthSchema(1, MaxTitleLen),
			"content":    lengthSchema(1, MaxContentLen),
			"confidence": map[string]any{"type": "integer", "minimum": MinScore, "maximum": MaxScore},
		}, []string{"id", "title", "content"})
	case "pattern":
		return objectSchema(map[string]any{
			"id":            stringSchema(idPattern.String()),
			"title":         lengthSchema(1, MaxTitleLen),
			"description":   lengthSchema(0, MaxDescriptionLen),
			"usage":         enumSchema("required", "recommended", "optional", "deprecated"),
			"effectiveness": map[string]any{"type": "integer", "minimum": MinScore, "maximum": MaxScore},
		}, []string{"id", "title", "usage"})
	case "convention":
		return objectSchema(map[string]any{
			"id":          stringSchema(idPattern.String()),
			"title":       lengthSchema(1, MaxTitleLen),
			"description": lengthSchema(0, MaxDescriptionLen),
			"usage":       enumSchema("required", "recommended", "optional", "deprecated"),
		}, []string{"id", "title", "usage"})
	case "scope":
		return objectSchema(map[string]any{
			"name":           map[string]any{"type": "string", "minLength": 1},
			"scope_type":     map[string]any{"type": "string", "minLength": 1},
			"version":        map[string]any{"type": "string", "minLength": 1},
			"schema_version": map[string]any{"type": "string"},
			"description":    map[string]any{"type": "string"},
		}, []string{"name", "scope_type", "version"})
	default:
		return nil
	}
}

func objectSchema(properties map[string]any, required []string) map[string]any {
	return map[string]any{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

func stringSchema(pattern string) map[string]any {
	return map[string]any{"type": "string", "pattern": pattern}
}

func lengthSchema(minLen, maxLen int) map[string]any {
	return map[string]any{"type": "string", "minLength": minLen, "maxLength": maxLen}
}

func enumSchema(values ...string) map[string]any {
	anyValues := make([]any, len(values))
	for i, v := range values {
		anyValues[i] = v
	}
	return map[string]any{"type": "string", "enum": anyValues}
}
