package profile

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/tramind/internal/drill"
)

const dayPattern = `^(\d{4}-\d{2}-\d{2})?$`

var nonNegative = map[string]any{"type": "integer", "minimum": 0}

var dayValue = map[string]any{"type": "string", "pattern": dayPattern}

// UserSchema describes a persisted User. Structural damage (wrong types,
// negative counters) fails validation; missing drills and overlong score
// windows are left to Backfill.
var UserSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"totalXp":             nonNegative,
		"level":               map[string]any{"type": "integer", "minimum": 1},
		"currentLevelXp":      nonNegative,
		"currentStreak":       nonNegative,
		"longestStreak":       nonNegative,
		"freezeDaysAvailable": nonNegative,
		"lastActiveDate":      dayValue,
		"sessionsToday":       nonNegative,
		"totalSessions":       nonNegative,
		"dailyGoalDate":       dayValue,
		"perfectImpulseRun":   nonNegative,
		"drills": map[string]any{
			"type": []any{"array", "null"},
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"drillId":               map[string]any{"type": "string", "minLength": 1},
					"sessionsCompleted":     nonNegative,
					"bestScore":             nonNegative,
					"averageScore":          map[string]any{"type": "number", "minimum": 0},
					"totalScore":            nonNegative,
					"totalTimeSpentSeconds": nonNegative,
					"difficulty":            map[string]any{"type": "integer"},
					"level":                 map[string]any{"type": "integer"},
					"lastPlayedDate":        dayValue,
					"recentScores": map[string]any{
						"type":  []any{"array", "null"},
						"items": map[string]any{"type": "integer"},
					},
				},
				"required": []any{"drillId"},
			},
		},
		"achievements": map[string]any{
			"type": []any{"array", "null"},
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":         map[string]any{"type": "string"},
					"unlockedAt": dayValue,
				},
				"required": []any{"id"},
			},
		},
		"appliedSessions": map[string]any{
			"type":  []any{"array", "null"},
			"items": map[string]any{"type": "string"},
		},
	},
	"required": []any{"totalXp", "level", "currentStreak", "longestStreak"},
}

// ActivitySchema describes a persisted Activity log.
var ActivitySchema = map[string]any{
	"type": []any{"array", "null"},
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"date":              dayValue,
			"sessionsCompleted": nonNegative,
			"pointsEarned":      nonNegative,
			"drillsCompleted": map[string]any{
				"type":  []any{"array", "null"},
				"items": map[string]any{"type": "string"},
			},
			"drillSessions": map[string]any{
				"type":                 []any{"object", "null"},
				"additionalProperties": nonNegative,
			},
		},
		"required": []any{"date"},
	},
}

// schemaCache caches compiled schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// ValidationError reports a record that is not valid JSON or does not
// match its schema.
type ValidationError struct {
	Record string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s record: %v", e.Record, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// DecodeUser validates raw against UserSchema and decodes it. The result
// is backfilled.
func DecodeUser(raw []byte) (User, error) {
	if err := validate("user", UserSchema, raw); err != nil {
		return User{}, err
	}
	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return User{}, &ValidationError{Record: "user", Err: err}
	}
	u.Backfill()
	return u, nil
}

// DecodeActivity validates raw against ActivitySchema and decodes it.
func DecodeActivity(raw []byte) (Activity, error) {
	if err := validate("activity", ActivitySchema, raw); err != nil {
		return nil, err
	}
	var a Activity
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, &ValidationError{Record: "activity", Err: err}
	}
	for i := range a {
		if a[i].DrillsCompleted == nil {
			a[i].DrillsCompleted = []drill.ID{}
		}
	}
	return a, nil
}

func validate(name string, schema map[string]any, raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ValidationError{Record: name, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := compiledSchema(name, schema)
	if err != nil {
		return &ValidationError{Record: name, Err: fmt.Errorf("compile schema: %w", err)}
	}

	if err := compiled.Validate(parsed); err != nil {
		return &ValidationError{Record: name, Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}

func compiledSchema(name string, schema map[string]any) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a plain decoded JSON value.
	defBytes, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://tramind/%s.json", name)
	if err := c.AddResource(url, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}
