package counting

import "testing"

func TestKeywordsFor(t *testing.T) {
	tests := []struct {
		label string
		want  []string
	}{
		{"관세음보살", []string{"관세음보살", "관세음 보살"}},
		{"나무 관세음보살", []string{"나무 관세음보살", "관세음 보살"}},
		{"나무 아미타불", []string{"나무 아미타불", "아미타 불"}},
		{"지장보살", []string{"지장보살", "지장 보살"}},
		{"옴 마니 반메 훔", []string{"옴 마니 반메 훔"}},
	}

	for _, tt := range tests {
		got := KeywordsFor(tt.label)
		if len(got) != len(tt.want) {
			t.Errorf("KeywordsFor(%q) = %v, want %v", tt.label, got, tt.want)
			continue
		}
		have := make(map[string]bool, len(got))
		for _, k := range got {
			have[k] = true
		}
		for _, k := range tt.want {
			if !have[k] {
				t.Errorf("KeywordsFor(%q) = %v, missing %q", tt.label, got, k)
			}
		}
	}
}
