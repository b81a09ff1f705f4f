package utils

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type outputItem struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Completed bool   `json:"completed" yaml:"completed"`
}

func TestOutput(t *testing.T) {
	items := []outputItem{
		{ID: "1", Title: "Buy milk"},
		{ID: "2", Title: "Walk dog", Completed: true},
	}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Output(&buf, FormatJSON, items); err != nil {
			t.Fatalf("Output() error = %v", err)
		}
		if !strings.HasSuffix(buf.String(), "\n") {
			t.Error("JSON output should end with a newline")
		}
		if !strings.Contains(buf.String(), "\n  {") {
			t.Errorf("JSON output should be indented, got %q", buf.String())
		}

		var got []outputItem
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if len(got) != 2 || got[1].Title != "Walk dog" || !got[1].Completed {
			t.Errorf("unexpected decoded output: %+v", got)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Output(&buf, FormatYAML, items); err != nil {
			t.Fatalf("Output() error = %v", err)
		}
		if !strings.Contains(buf.String(), "title: Buy milk") {
			t.Errorf("YAML output missing title, got %q", buf.String())
		}

		var got []outputItem
		if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("output is not valid YAML: %v", err)
		}
		if len(got) != 2 || got[0].ID != "1" {
			t.Errorf("unexpected decoded output: %+v", got)
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Output(&buf, "xml", items); err == nil {
			t.Error("expected an error for an unsupported format")
		}
		if buf.Len() != 0 {
			t.Errorf("nothing should be written on error, got %q", buf.String())
		}
	})
}

func TestMarshalJSON_Error(t *testing.T) {
	if _, err := MarshalJSON(make(chan int)); err == nil {
		t.Error("expected an error marshaling a channel")
	}
}
