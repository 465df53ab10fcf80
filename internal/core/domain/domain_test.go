package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestPointInputUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		x, y    float64
		wantErr bool
		missing bool
	}{
		{name: "object", in: `{"x": 1.5, "y": -2}`, x: 1.5, y: -2},
		{name: "array", in: `[3, 4]`, x: 3, y: 4},
		{name: "object missing y", in: `{"x": 1}`, missing: true},
		{name: "short array", in: `[1]`, wantErr: true},
		{name: "long array", in: `[1, 2, 3]`, wantErr: true},
		{name: "string", in: `"1,2"`, wantErr: true},
		{name: "null", in: `null`, wantErr: true},
		{name: "non-numeric", in: `{"x": "a", "y": 1}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p PointInput
			err := json.Unmarshal([]byte(tt.in), &p)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.missing {
				if p.Y != nil {
					t.Errorf("expected missing y, got %v", *p.Y)
				}
				return
			}
			if *p.X != tt.x || *p.Y != tt.y {
				t.Errorf("got (%v, %v), want (%v, %v)", *p.X, *p.Y, tt.x, tt.y)
			}
		})
	}
}

func TestPointInputList(t *testing.T) {
	var pts []PointInput
	if err := json.Unmarshal([]byte(`[{"x":0,"y":0},[1,1]]`), &pts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pts) != 2 || *pts[1].X != 1 {
		t.Fatalf("unexpected points %+v", pts)
	}
	out, err := json.Marshal(InputOf([]Point{{X: 2, Y: 3}}))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `[{"x":2,"y":3}]` {
		t.Errorf("got %s", out)
	}
}

func TestParseAlgorithm(t *testing.T) {
	for _, name := range []string{"graham", "Jarvis", " CHAN ", "incremental"} {
		if _, err := ParseAlgorithm(name); err != nil {
			t.Errorf("ParseAlgorithm(%q): %v", name, err)
		}
	}
	_, err := ParseAlgorithm("quickhull")
	if !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("expected ErrUnknownAlgorithm, got %v", err)
	}
}

func TestStepOmitsIrrelevantFields(t *testing.T) {
	m := 16
	out, err := json.Marshal(Step{Type: StepTryingM, M: &m, Description: "Trying m = 16"})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"type":"trying_m","description":"Trying m = 16","m":16}`
	if string(out) != want {
		t.Errorf("got %s, want %s", out, want)
	}
}

func TestPolygonCloneNeverNil(t *testing.T) {
	var pg Polygon
	out, _ := json.Marshal(pg.Clone())
	if string(out) != "[]" {
		t.Errorf("got %s, want []", out)
	}
}

func TestDescribe(t *testing.T) {
	for _, alg := range Algorithms {
		info := Describe(alg)
		if info.Title == "" || info.Complexity == "" || len(info.StepTypes) == 0 {
			t.Errorf("incomplete info for %s: %+v", alg, info)
		}
		if last := info.StepTypes[len(info.StepTypes)-1]; last != StepComplete {
			t.Errorf("%s: last step type %s", alg, last)
		}
	}
}
