package goals

import "testing"

func TestPick(t *testing.T) {
	ids := []string{"abc123", "abd456", "xyz789"}
	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr bool
	}{
		{"position", "2", "abd456", false},
		{"position out of range", "4", "", true},
		{"zero position", "0", "", true},
		{"unique prefix", "xy", "xyz789", false},
		{"full id", "abc123", "abc123", false},
		{"ambiguous prefix", "ab", "", true},
		{"no match", "q", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pick(ids, tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("pick(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("pick(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}
