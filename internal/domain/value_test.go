package domain

import (
	"encoding/json"
	"math"
	"testing"
)

func TestValue_Text(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null renders empty", Null(), ""},
		{"string passes through", Str(" hi "), " hi "},
		{"integral number has no decimals", Num(5), "5"},
		{"fractional number", Num(12.5), "12.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNum_NaNIsNull(t *testing.T) {
	if !Num(math.NaN()).IsNull() {
		t.Error("Num(NaN) should be null")
	}
}

func TestValue_Equal(t *testing.T) {
	if !Str("a").Equal(Str("a")) {
		t.Error("equal strings should be equal")
	}
	if Str("5").Equal(Num(5)) {
		t.Error("string and number must not be equal")
	}
	if !Null().Equal(Value{}) {
		t.Error("zero value should equal Null()")
	}
}

func TestValue_JSON(t *testing.T) {
	var row map[string]Value
	input := `{"a": "x", "b": 3.5, "c": null, "d": true}`
	if err := json.Unmarshal([]byte(input), &row); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !row["a"].Equal(Str("x")) {
		t.Errorf("a = %v, want x", row["a"])
	}
	if !row["b"].Equal(Num(3.5)) {
		t.Errorf("b = %v, want 3.5", row["b"])
	}
	if !row["c"].IsNull() {
		t.Errorf("c = %v, want null", row["c"])
	}
	if !row["d"].Equal(Str("true")) {
		t.Errorf("d = %v, want text true", row["d"])
	}

	out, err := json.Marshal(Row{"n": Null()})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"n":null}` {
		t.Errorf("marshal = %s", out)
	}
}

func TestValue_UnmarshalRejectsObjects(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(`{"x":1}`), &v); err == nil {
		t.Error("expected error for object cell")
	}
}
