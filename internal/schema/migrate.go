package schema

import "fmt"

// CurrentSchemaVersion is the latest descriptor schema version this build
// understands.
const CurrentSchemaVersion = "2"

// Migrator upgrades a scope descriptor map from one schema_version to the
// next. Each migrator is idempotent: applying it to an already-migrated
// document is a no-op.
type Migrator struct {
	FromVersion string
	ToVersion   string
	Apply       func(doc map[string]any)
}

// migrators is the ordered chain keyed by schema_version, mirroring the
// original's per-version migration chain (src/commands/migrate.rs) but
// expressed over a generic map so it applies uniformly to every document
// kind's raw YAML, not just scope descriptors.
var migrators = []Migrator{
	{
		FromVersion: "",
		ToVersion:   "1",
		Apply: func(doc map[string]any) {
			if _, ok := doc["schema_version"]; !ok {
				doc["schema_version"] = "1"
			}
		},
	},
	{
		FromVersion: "1",
		ToVersion:   "2",
		Apply: func(doc map[string]any) {
			// v2 introduced the "custom" catch-all map; ensure it exists so
			// round-tripping never drops unknown keys.
			if _, ok := doc["custom"]; !ok {
				doc["custom"] = map[string]any{}
			}
			doc["schema_version"] = "2"
		},
	},
}

// MigrateToLatest applies every migrator whose FromVersion matches the
// document's current schema_version, in order, until CurrentSchemaVersion is
// reached. It returns an error if the chain cannot proceed (a version with
// no matching migrator and not already current).
func MigrateToLatest(doc map[string]any) error {
	for {
		current, _ := doc["schema_version"].(string)
		if current == CurrentSchemaVersion {
			return nil
		}
		applied := false
		for _, m := range migrators {
			if m.FromVersion == current {
				m.Apply(doc)
				applied = true
				break
			}
		}
		if !applied {
			return fmt.Errorf("no migrator from schema_version %q to %q", current, CurrentSchemaVersion)
		}
	}
}
