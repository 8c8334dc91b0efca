// internal/domain/exercise.go
package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gopkg.in/yaml.v3"
)

// Exercise is a catalog entry. Name is the unique key; Difficulty and Category are free text
// that contain level and goal keywords (e.g. "Intermediate", "Finger / Grip").
type Exercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Difficulty  string             `bson:"difficulty" json:"difficulty"`
	Category    string             `bson:"category" json:"category"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Sets        Count              `bson:"sets" json:"sets"`
	Reps        Count              `bson:"reps" json:"reps"`
	Tutorial    string             `bson:"tutorial,omitempty" json:"tutorial,omitempty"`

	// Object key of tutorial media in the file storage bucket.
	TutorialMediaKey string `bson:"tutorialMediaKey,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Count is a target or achieved sets/reps value. Catalog documents store it either as a
// string ("8-10", "30s") or a number, so it decodes from both.
type Count string

// Int returns the numeric value, or 0 when the count is not a plain integer.
func (c Count) Int() int {
	n, err := strconv.Atoi(string(c))
	if err != nil {
		return 0
	}
	return n
}

// UnmarshalBSONValue accepts string, int32, int64 and double values.
func (c *Count) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*c = Count(rv.StringValue())
	case bsontype.Int32:
		*c = Count(strconv.Itoa(int(rv.Int32())))
	case bsontype.Int64:
		*c = Count(strconv.FormatInt(rv.Int64(), 10))
	case bsontype.Double:
		*c = Count(strconv.FormatFloat(rv.Double(), 'f', -1, 64))
	case bsontype.Null, bsontype.Undefined:
		*c = ""
	default:
		return fmt.Errorf("cannot decode %s into Count", t)
	}
	return nil
}

// UnmarshalJSON accepts both JSON strings and numbers.
func (c *Count) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = Count(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("count must be a string or number: %w", err)
	}
	*c = Count(n.String())
	return nil
}

// UnmarshalYAML accepts scalar strings and numbers alike.
func (c *Count) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: count must be a scalar", value.Line)
	}
	if value.Tag == "!!null" {
		*c = ""
		return nil
	}
	*c = Count(value.Value)
	return nil
}
