package handlers

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestIntArg(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		want    int
		wantErr string
	}{
		{name: "whole float", value: float64(7), want: 7},
		{name: "int", value: 3, want: 3},
		{name: "json number", value: json.Number("12"), want: 12},
		{name: "negative passes through", value: float64(-2), want: -2},
		{name: "fraction", value: 2.5, wantErr: "must be a whole number"},
		{name: "above int range", value: 1e19, wantErr: "must be a whole number"},
		{name: "below int range", value: -1e19, wantErr: "must be a whole number"},
		{name: "string", value: "7", wantErr: "must be a number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := intArg(map[string]interface{}{"home_score": tt.value}, "home_score")
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got == nil || *got != tt.want {
				t.Errorf("Expected %d, got %v", tt.want, got)
			}
		})
	}

	got, err := intArg(map[string]interface{}{}, "home_score")
	if err != nil || got != nil {
		t.Errorf("Expected missing argument to be nil, got %v, %v", got, err)
	}
}
