package intake

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ValueKind identifies which member of a Value is set.
type ValueKind int

const (
	KindString ValueKind = iota + 1
	KindStrings
	KindNumber
	KindBool
)

var errInvalidValue = errors.New("response value must be a string, list of strings, number or boolean")

// Value is a question response: a string, a list of strings, a number or a boolean.
type Value struct {
	Kind    ValueKind
	String  string
	Strings []string
	Number  float64
	Bool    bool
}

// StringValue wraps s as a string response value.
func StringValue(s string) Value {
	return Value{Kind: KindString, String: s}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errInvalidValue
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
	case '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return errInvalidValue
		}
		if list == nil {
			list = []string{}
		}
		*v = Value{Kind: KindStrings, Strings: list}
	case 'n':
		return errInvalidValue
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Value{Kind: KindBool, Bool: b}
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return errInvalidValue
		}
		*v = Value{Kind: KindNumber, Number: n}
	}
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.String)
	case KindStrings:
		if v.Strings == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Strings)
	case KindNumber:
		return json.Marshal(v.Number)
	case KindBool:
		return json.Marshal(v.Bool)
	default:
		return nil, fmt.Errorf("response value has no kind")
	}
}

// Response answers a single job question.
type Response struct {
	QuestionID string `json:"questionId"`
	Value      Value  `json:"value"`
}
